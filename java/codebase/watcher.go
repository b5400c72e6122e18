package codebase

import (
	"os"
	"path/filepath"
	"strings"
	"time"
)

// FileWatcher polls the codebase roots and rescans changed files. OnChange
// runs after every poll that saw an addition, modification or removal.
type FileWatcher struct {
	codebase     *Codebase
	stopCh       chan struct{}
	doneCh       chan struct{}
	pollInterval time.Duration
	modTimes     map[string]time.Time
	OnChange     func()
}

func NewFileWatcher(c *Codebase, interval time.Duration) *FileWatcher {
	if interval <= 0 {
		interval = 1 * time.Second
	}
	return &FileWatcher{
		codebase:     c,
		stopCh:       make(chan struct{}),
		doneCh:       make(chan struct{}),
		pollInterval: interval,
		modTimes:     make(map[string]time.Time),
	}
}

func (w *FileWatcher) Start() {
	w.scan()
	go w.run()
}

// Stop ends polling and waits for an in-flight poll to finish.
func (w *FileWatcher) Stop() {
	close(w.stopCh)
	<-w.doneCh
}

func (w *FileWatcher) run() {
	defer close(w.doneCh)
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			if w.scan() && w.OnChange != nil {
				w.OnChange()
			}
		}
	}
}

func (w *FileWatcher) scan() bool {
	changed := false
	currentFiles := make(map[string]bool)

	for _, root := range w.codebase.Roots() {
		filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return nil
			}
			if info.IsDir() {
				if path != root && strings.HasPrefix(info.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if filepath.Ext(path) != ".java" {
				return nil
			}

			currentFiles[path] = true

			lastMod, known := w.modTimes[path]
			if !known || info.ModTime().After(lastMod) {
				w.modTimes[path] = info.ModTime()
				if w.codebase.ScanFile(path) == nil {
					changed = true
				}
			}
			return nil
		})
	}

	for path := range w.modTimes {
		if !currentFiles[path] {
			delete(w.modTimes, path)
			w.codebase.RemoveFile(path)
			changed = true
		}
	}
	return changed
}
