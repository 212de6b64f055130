// Package mainwindow provides the main application window.
package mainwindow

import (
	"fmt"
	"image/color"
	"log"
	"path/filepath"

	"paintfield/internal/keychord"
	"paintfield/internal/layer"
	"paintfield/internal/navigation"
	"paintfield/internal/tool"
	"paintfield/internal/version"
	"paintfield/pkg/colorutil"
	"paintfield/pkg/geometry"
	"paintfield/ui/canvas"
	"paintfield/ui/prefs"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
)

const (
	prefKeyLastDir     = "lastDirectory"
	prefKeyPencilColor = "pencil.color"
	prefKeyPencilSize  = "pencil.radius"

	defaultPencilRadius = 4.0

	toolPencil = "Pencil"
	toolHand   = "Hand"
)

// MainWindow is the primary application window.
type MainWindow struct {
	fyne.Window
	app   fyne.App
	prefs *prefs.Prefs

	doc  *layer.Document
	ink  *layer.Layer
	view *canvas.View

	statusBar   *widget.Label
	mirrorCheck *widget.Check
	toolSelect  *widget.Select
}

// New creates the main window showing doc. A paint layer is added on top
// of the document for the pencil.
func New(fyneApp fyne.App, p *prefs.Prefs, doc *layer.Document) *MainWindow {
	win := fyneApp.NewWindow("PaintField")

	mw := &MainWindow{
		Window: win,
		app:    fyneApp,
		prefs:  p,
		doc:    doc,
		ink:    layer.NewLayer("Ink"),
	}
	doc.Root.Add(mw.ink)

	mw.setupUI()
	mw.setupMenus()
	mw.SetOnClosed(mw.view.Close)

	return mw
}

// View returns the canvas view.
func (mw *MainWindow) View() *canvas.View {
	return mw.view
}

// setupUI creates the main UI layout.
func (mw *MainWindow) setupUI() {
	bindings, err := keychord.LoadBindings(mw.prefs)
	if err != nil {
		log.Printf("Key bindings: %v (using defaults)", err)
	}
	mw.view = canvas.NewView(mw.doc, bindings)
	mw.view.OnNavigationChange(mw.showNavigation)

	mw.statusBar = widget.NewLabel("Ready")
	toolbar := mw.createToolbar()

	mw.toolSelect.SetSelected(toolPencil)
	mw.showNavigation(mw.view.Core().Navigation().Navigation())

	content := container.NewBorder(
		toolbar,                           // top
		container.NewPadded(mw.statusBar), // bottom
		nil,                               // left
		nil,                               // right
		mw.view,                           // center
	)
	mw.SetContent(content)
	mw.Canvas().Focus(mw.view)
}

// createToolbar creates the toolbar with zoom, rotation, mirror and tool controls.
func (mw *MainWindow) createToolbar() fyne.CanvasObject {
	core := mw.view.Core()

	zoomOutBtn := widget.NewButton("-", core.ZoomOut)
	zoomInBtn := widget.NewButton("+", core.ZoomIn)
	fitBtn := widget.NewButton("Fit", core.FitToView)
	actualBtn := widget.NewButton("1:1", core.ActualSize)
	resetRotationBtn := widget.NewButton("Reset Rotation", mw.onResetRotation)

	mw.mirrorCheck = widget.NewCheck("Mirror", func(on bool) {
		core.Navigation().SetMirrored(on)
	})
	mw.toolSelect = widget.NewSelect([]string{toolPencil, toolHand}, mw.onSelectTool)

	return container.NewHBox(
		widget.NewLabel("Zoom:"),
		zoomOutBtn,
		zoomInBtn,
		fitBtn,
		actualBtn,
		widget.NewSeparator(),
		resetRotationBtn,
		mw.mirrorCheck,
		widget.NewSeparator(),
		widget.NewLabel("Tool:"),
		mw.toolSelect,
	)
}

// setupMenus creates the application menus.
func (mw *MainWindow) setupMenus() {
	core := mw.view.Core()

	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open Image...", mw.onOpenImage),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() { mw.app.Quit() }),
	)

	viewMenu := fyne.NewMenu("View",
		fyne.NewMenuItem("Zoom In", core.ZoomIn),
		fyne.NewMenuItem("Zoom Out", core.ZoomOut),
		fyne.NewMenuItem("Fit to Window", core.FitToView),
		fyne.NewMenuItem("Actual Size", core.ActualSize),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Reset Rotation", mw.onResetRotation),
		fyne.NewMenuItem("Mirror", func() { mw.mirrorCheck.SetChecked(!mw.mirrorCheck.Checked) }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Remember View", core.Navigation().Memorize),
		fyne.NewMenuItem("Restore View", core.Navigation().Restore),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("Key Bindings", mw.onKeyBindings),
		fyne.NewMenuItem("About", mw.onAbout),
	)

	mw.SetMainMenu(fyne.NewMainMenu(fileMenu, viewMenu, helpMenu))
}

// showNavigation writes the navigation to the status bar.
func (mw *MainWindow) showNavigation(n navigation.Navigation) {
	text := fmt.Sprintf("Zoom %.0f%%   Rotation %.1f°   Offset %d, %d",
		n.Scale*100, n.Rotation, n.Translation.X, n.Translation.Y)
	if n.Mirrored {
		text += "   Mirrored"
	}
	mw.statusBar.SetText(text)
}

func (mw *MainWindow) onResetRotation() {
	nav := mw.view.Core().Navigation()
	nav.SetRotation(0)
	nav.SetTranslation(geometry.PointInt{})
}

func (mw *MainWindow) onSelectTool(name string) {
	switch name {
	case toolHand:
		mw.view.SetTool(tool.NewHand(mw.view.Core().Navigation()))
	default:
		mw.view.SetTool(tool.NewPencil(mw.ink, mw.pencilColor(),
			mw.prefs.FloatWithFallback(prefKeyPencilSize, defaultPencilRadius)))
	}
}

func (mw *MainWindow) pencilColor() color.RGBA {
	s := mw.prefs.String(prefKeyPencilColor)
	if s == "" {
		return colorutil.Black
	}
	c, err := colorutil.ParseHex(s)
	if err != nil {
		log.Printf("Pencil color: %v", err)
		return colorutil.Black
	}
	return c
}

// OpenImage loads path as the background layer.
func (mw *MainWindow) OpenImage(path string) error {
	bg, size, err := layer.Load(path)
	if err != nil {
		return err
	}
	mw.doc.SetBackground(bg, size)
	mw.view.Core().FitToView()
	mw.SetTitle("PaintField - " + filepath.Base(path))
	return nil
}

// getLastDir returns the last used directory as a ListableURI, or nil.
func (mw *MainWindow) getLastDir() fyne.ListableURI {
	path := mw.prefs.String(prefKeyLastDir)
	if path == "" {
		return nil
	}
	listable, err := storage.ListerForURI(storage.NewFileURI(path))
	if err != nil {
		return nil
	}
	return listable
}

func (mw *MainWindow) onOpenImage() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		reader.Close()
		path := reader.URI().Path()
		mw.prefs.SetString(prefKeyLastDir, filepath.Dir(path))

		if err := mw.OpenImage(path); err != nil {
			dialog.ShowError(err, mw.Window)
		}
	}, mw.Window)

	fd.SetFilter(storage.NewExtensionFileFilter(layer.SupportedFormats()))
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onKeyBindings() {
	b, _ := keychord.LoadBindings(mw.prefs)
	dialog.ShowInformation("Key Bindings",
		fmt.Sprintf("Hold a chord and drag on the canvas:\n\n"+
			"Pan:     %s\nZoom:    %s\nRotate:  %s\n\n"+
			"Mouse wheel zooms about the pointer.",
			b.Translation, b.Scale, b.Rotation),
		mw.Window)
}

func (mw *MainWindow) onAbout() {
	dialog.ShowInformation("About PaintField",
		version.String()+"\n\nA tiled painting canvas with drag navigation.",
		mw.Window)
}

// SavePreferences writes preferences to disk, logging failures.
func (mw *MainWindow) SavePreferences() {
	if err := mw.prefs.Save(); err != nil {
		log.Printf("Failed to save preferences: %v", err)
	}
}
