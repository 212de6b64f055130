package app

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
)

// HotReloader watches the running binary and calls back once a newer
// build replaces it. Used during development to offer a restart after
// recompilation.
type HotReloader struct {
	execPath    string
	startupTime time.Time
	debounce    time.Duration

	mu          sync.Mutex
	watcher     *fsnotify.Watcher
	stopCh      chan struct{}
	done        chan struct{}
	onNewBinary func()
}

// NewHotReloader creates a reloader for the current executable. Builds are
// usually written in several steps, so the check runs debounce after the
// last file event.
func NewHotReloader(debounce time.Duration) (*HotReloader, error) {
	execPath, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("locate executable: %w", err)
	}
	return NewHotReloaderFor(execPath, debounce)
}

// NewHotReloaderFor creates a reloader watching path.
func NewHotReloaderFor(path string, debounce time.Duration) (*HotReloader, error) {
	// go build replaces the file, so follow symlinks to the real target.
	if real, err := filepath.EvalSymlinks(path); err == nil {
		path = real
	}
	path = filepath.Clean(path)

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	return &HotReloader{
		execPath:    path,
		startupTime: info.ModTime(),
		debounce:    debounce,
	}, nil
}

// OnNewBinary sets the callback for a newer binary. It runs on the watcher
// goroutine; UI updates must be synchronized by the caller.
func (h *HotReloader) OnNewBinary(callback func()) {
	h.mu.Lock()
	h.onNewBinary = callback
	h.mu.Unlock()
}

// Start begins watching the directory holding the binary.
func (h *HotReloader) Start() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.watcher != nil {
		select {
		case <-h.done:
			// The previous loop already fired.
			h.watcher.Close()
			h.watcher = nil
		default:
			return nil
		}
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(h.execPath)); err != nil {
		w.Close()
		return fmt.Errorf("watch %s: %w", filepath.Dir(h.execPath), err)
	}

	h.watcher = w
	h.stopCh = make(chan struct{})
	h.done = make(chan struct{})
	go h.watchLoop(w, h.stopCh, h.done)
	return nil
}

// Stop stops watching. It is safe to call when not started.
func (h *HotReloader) Stop() {
	h.mu.Lock()
	w, stopCh, done := h.watcher, h.stopCh, h.done
	h.watcher = nil
	h.mu.Unlock()
	if w == nil {
		return
	}
	close(stopCh)
	<-done
	w.Close()
}

func (h *HotReloader) watchLoop(w *fsnotify.Watcher, stopCh, done chan struct{}) {
	defer close(done)

	var settle <-chan time.Time
	for {
		select {
		case <-stopCh:
			return
		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != h.execPath {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Chmod) {
				settle = time.After(h.debounce)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			log.Printf("Hot reload: watch error: %v", err)
		case <-settle:
			settle = nil
			if !h.checkForUpdate() {
				continue
			}
			h.mu.Lock()
			cb := h.onNewBinary
			h.mu.Unlock()
			if cb != nil {
				cb()
			}
			// Only trigger once per baseline.
			return
		}
	}
}

// checkForUpdate reports whether the binary is newer than the baseline.
func (h *HotReloader) checkForUpdate() bool {
	info, err := os.Stat(h.execPath)
	if err != nil {
		return false
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return info.ModTime().After(h.startupTime)
}

// ExecPath returns the watched path.
func (h *HotReloader) ExecPath() string {
	return h.execPath
}

// StartupTime returns the baseline modification time.
func (h *HotReloader) StartupTime() time.Time {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.startupTime
}

// ResetBaseline takes the binary's current modification time as the new
// baseline. Call it when the user declines a restart, then Start again.
func (h *HotReloader) ResetBaseline() {
	if info, err := os.Stat(h.execPath); err == nil {
		h.mu.Lock()
		h.startupTime = info.ModTime()
		h.mu.Unlock()
	}
}

// Restart replaces the current process with the new binary.
// It does not return on success.
func (h *HotReloader) Restart() error {
	return RestartProcess(h.execPath)
}

// RestartProcess execs execPath with the current arguments and environment.
// It does not return on success.
func RestartProcess(execPath string) error {
	return syscall.Exec(execPath, os.Args, os.Environ())
}
