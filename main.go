// Package main provides the entry point for the PaintField application.
package main

import (
	"log"
	"os"
	"time"

	"paintfield/internal/app"
	"paintfield/internal/layer"
	"paintfield/internal/version"
	"paintfield/pkg/geometry"
	"paintfield/ui/mainwindow"
	"paintfield/ui/prefs"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/dialog"
)

const appID = "org.paintfield.canvas"

// defaultDocSize is the blank canvas size when no image is given.
var defaultDocSize = geometry.Sz(1000, 1000)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("Starting %s", version.String())

	a := fyneapp.NewWithID(appID)
	a.Settings().SetTheme(&app.PaintFieldTheme{})

	appPrefs, err := prefs.LoadFrom(prefs.DefaultPath())
	if err != nil {
		log.Printf("Preferences: %v", err)
	}

	doc := layer.NewDocument(defaultDocSize)
	win := mainwindow.New(a, appPrefs, doc)
	win.Resize(fyne.NewSize(1200, 800))

	// Handle command line arguments
	if len(os.Args) > 1 {
		imagePath := os.Args[1]
		if err := win.OpenImage(imagePath); err != nil {
			log.Printf("Failed to open image %s: %v", imagePath, err)
		}
	}

	reloader := setupHotReload(win)
	win.SetCloseIntercept(func() {
		if reloader != nil {
			reloader.Stop()
		}
		win.SavePreferences()
		win.Close()
	})

	win.ShowAndRun()
}

// setupHotReload offers a restart when the binary is rebuilt.
func setupHotReload(win *mainwindow.MainWindow) *app.HotReloader {
	reloader, err := app.NewHotReloader(500 * time.Millisecond)
	if err != nil {
		log.Printf("Hot reload: %v", err)
		return nil
	}

	log.Printf("Hot reload: watching %s (modified %s)",
		reloader.ExecPath(), reloader.StartupTime().Format("15:04:05"))

	reloader.OnNewBinary(func() {
		log.Println("Hot reload: newer binary detected")
		dialog.ShowConfirm("New Version Available",
			"The application binary has been updated.\nRestart now?",
			func(restart bool) {
				if !restart {
					reloader.ResetBaseline()
					if err := reloader.Start(); err != nil {
						log.Printf("Hot reload: %v", err)
					}
					return
				}
				log.Println("Hot reload: saving preferences before restart...")
				win.SavePreferences()
				log.Println("Hot reload: restarting...")
				if err := reloader.Restart(); err != nil {
					log.Printf("Hot reload: restart failed: %v", err)
				}
			}, win.Window)
	})

	if err := reloader.Start(); err != nil {
		log.Printf("Hot reload: %v", err)
		return nil
	}
	return reloader
}
