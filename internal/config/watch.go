package config

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/xtding233/petgacha/internal/logs"
)

// FileWatcher watches the config directories and calls onChange once per
// burst of YAML writes, after Debounce of quiet.
type FileWatcher struct {
	Dirs     []string
	Debounce time.Duration
	onChange func(string) // called with the last path that changed

	w      *fsnotify.Watcher
	stopCh chan struct{}
	wg     sync.WaitGroup
}

// NewFileWatcher creates a watcher for the given directories. Missing
// directories are skipped.
func NewFileWatcher(dirs []string, debounce time.Duration, onChange func(string)) *FileWatcher {
	return &FileWatcher{
		Dirs:     dirs,
		Debounce: debounce,
		onChange: onChange,
		stopCh:   make(chan struct{}),
	}
}

// WatchLoader watches the loader's economy file and pools directory,
// invalidating its cache before calling onChange.
func WatchLoader(l *Loader, debounce time.Duration, onChange func(string)) *FileWatcher {
	p := l.Paths()
	return NewFileWatcher([]string{p.BaseDir, p.PoolsDir()}, debounce, func(path string) {
		l.Invalidate()
		if onChange != nil {
			onChange(path)
		}
	})
}

// Start registers the directories and begins dispatching in a goroutine.
func (w *FileWatcher) Start() error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	added := 0
	for _, d := range w.Dirs {
		if d == "" {
			continue
		}
		if err := fw.Add(d); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			_ = fw.Close()
			return err
		}
		added++
	}
	w.w = fw
	logs.Debug("config watcher started", zap.Strings("dirs", w.Dirs), zap.Int("watched", added))

	w.wg.Add(1)
	go w.loop()
	return nil
}

func (w *FileWatcher) loop() {
	defer w.wg.Done()
	var (
		timer   *time.Timer
		timerC  <-chan time.Time
		pending string
	)
	for {
		select {
		case ev, ok := <-w.w.Events:
			if !ok {
				return
			}
			if filepath.Ext(ev.Name) != ".yaml" || !ev.Has(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) {
				continue
			}
			pending = ev.Name
			if timer == nil {
				timer = time.NewTimer(w.Debounce)
			} else {
				timer.Reset(w.Debounce)
			}
			timerC = timer.C
		case <-timerC:
			timerC = nil
			if w.onChange != nil {
				w.onChange(pending)
			}
		case err, ok := <-w.w.Errors:
			if !ok {
				return
			}
			logs.Warn("config watcher error", zap.Error(err))
		case <-w.stopCh:
			if timer != nil {
				timer.Stop()
			}
			return
		}
	}
}

// Stop terminates the watcher.
func (w *FileWatcher) Stop() {
	close(w.stopCh)
	if w.w != nil {
		_ = w.w.Close()
	}
	w.wg.Wait()
}
