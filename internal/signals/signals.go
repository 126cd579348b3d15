// Package signals lets an operator stop or pause a running session
// by dropping signal files into the session's data directory. The
// benchmark runner checks them between cases, the interactive driver
// between turns.
package signals

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Manager watches a signals directory for stop/pause files.
type Manager struct {
	dir string

	mu          sync.RWMutex
	stopSignal  bool
	pauseSignal bool

	watcher *fsnotify.Watcher
	done    chan struct{}
}

// NewManager creates a manager for the given base directory. The
// signals subdirectory is created if missing.
func NewManager(baseDir string) (*Manager, error) {
	dir := filepath.Join(baseDir, "signals")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	m := &Manager{
		dir:  dir,
		done: make(chan struct{}),
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		// Continue without watcher, ShouldStop/ShouldPause also stat.
		return m, nil
	}
	m.watcher = watcher

	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		m.watcher = nil
		return m, nil
	}

	go m.watch()
	return m, nil
}

func (m *Manager) watch() {
	for {
		select {
		case <-m.done:
			return
		case event, ok := <-m.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			m.mu.Lock()
			switch filepath.Base(event.Name) {
			case "stop":
				m.stopSignal = true
			case "pause":
				m.pauseSignal = true
			}
			m.mu.Unlock()
		case <-m.watcher.Errors:
			// Ignore errors, keep watching
		}
	}
}

// ShouldStop returns true once a stop signal has been received.
func (m *Manager) ShouldStop() bool {
	return m.check("stop", &m.stopSignal)
}

// ShouldPause returns true once a pause signal has been received.
func (m *Manager) ShouldPause() bool {
	return m.check("pause", &m.pauseSignal)
}

func (m *Manager) check(name string, flag *bool) bool {
	// Stat the file directly in case the watcher missed it.
	if _, err := os.Stat(filepath.Join(m.dir, name)); err == nil {
		m.mu.Lock()
		*flag = true
		m.mu.Unlock()
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	return *flag
}

// SendStop creates the stop signal file.
func (m *Manager) SendStop() error {
	return os.WriteFile(filepath.Join(m.dir, "stop"), []byte(time.Now().Format(time.RFC3339)), 0o644)
}

// SendPause creates the pause signal file.
func (m *Manager) SendPause() error {
	return os.WriteFile(filepath.Join(m.dir, "pause"), []byte(time.Now().Format(time.RFC3339)), 0o644)
}

// Clear removes all signal files and resets state.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stopSignal = false
	m.pauseSignal = false

	os.Remove(filepath.Join(m.dir, "stop"))
	os.Remove(filepath.Join(m.dir, "pause"))
}

// Dir returns the watched signals directory.
func (m *Manager) Dir() string {
	return m.dir
}

// Close shuts down the manager.
func (m *Manager) Close() {
	close(m.done)
	if m.watcher != nil {
		m.watcher.Close()
	}
}
