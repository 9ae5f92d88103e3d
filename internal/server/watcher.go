package server

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"jsonview/internal/log"

	"github.com/fsnotify/fsnotify"
)

// Change is a file system event below a watched tree.
type Change struct {
	Path      string
	Op        fsnotify.Op
	Timestamp time.Time
}

// Watcher reports changes below a directory tree using fsnotify. New
// subdirectories are watched as they appear.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	changes   chan Change
	stop      chan struct{}
	done      chan struct{}

	mutex       sync.RWMutex
	directories []string
	running     bool
}

// NewWatcher creates a watcher. Nothing is watched until AddTree.
func NewWatcher() (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &Watcher{
		fsWatcher: fsWatcher,
		changes:   make(chan Change, 16),
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}, nil
}

// AddTree watches root and every non-hidden directory below it.
func (w *Watcher) AddTree(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("error accessing directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", root)
	}

	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if p != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		return w.addDirectory(p)
	})
}

func (w *Watcher) addDirectory(dir string) error {
	if err := w.fsWatcher.Add(dir); err != nil {
		return fmt.Errorf("failed to add directory %s to watcher: %w", dir, err)
	}

	w.mutex.Lock()
	w.directories = append(w.directories, dir)
	w.mutex.Unlock()
	log.LogWithFields(log.F("directory", dir)).Debug("Watching directory")
	return nil
}

// Changes delivers events until the watcher stops, then is closed.
func (w *Watcher) Changes() <-chan Change {
	return w.changes
}

// Start begins delivering events.
func (w *Watcher) Start() error {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	if w.running {
		return fmt.Errorf("watcher already running")
	}
	w.running = true

	go w.loop()
	return nil
}

func (w *Watcher) loop() {
	defer close(w.done)
	defer close(w.changes)

	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if event.Op == fsnotify.Chmod {
				continue
			}

			if event.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() && !strings.HasPrefix(info.Name(), ".") {
					if err := w.AddTree(event.Name); err != nil {
						log.LogWithFields(log.F("directory", event.Name), log.F("error", err)).Warn("Cannot watch new directory")
					}
				}
			}

			change := Change{Path: event.Name, Op: event.Op, Timestamp: time.Now()}
			select {
			case w.changes <- change:
			case <-w.stop:
				return
			default:
				log.LogWithFields(log.F("file", event.Name)).Debug("Change channel is full, dropped event")
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			log.LogWithFields(log.F("error", err)).Error("fsnotify watcher error")

		case <-w.stop:
			return
		}
	}
}

// Stop halts the watcher and waits for its goroutine to exit.
func (w *Watcher) Stop() {
	w.mutex.Lock()
	if !w.running {
		w.mutex.Unlock()
		_ = w.fsWatcher.Close()
		return
	}
	w.running = false
	w.mutex.Unlock()

	close(w.stop)
	<-w.done

	if err := w.fsWatcher.Close(); err != nil {
		log.LogWithFields(log.F("error", err)).Error("Error closing fsnotify watcher")
	}
}

// Directories returns the directories being watched.
func (w *Watcher) Directories() []string {
	w.mutex.RLock()
	defer w.mutex.RUnlock()
	dirs := make([]string, len(w.directories))
	copy(dirs, w.directories)
	return dirs
}
