package sync

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/MikeBiancalana/datefield/internal/config"
)

const debounceDelay = 100 * time.Millisecond

// ConfigChangeEvent carries settings reloaded after the config file or a
// format profile changed on disk. Err is set when the new file could not
// be loaded; the previous settings should stay in effect.
type ConfigChangeEvent struct {
	FilePath string
	Settings config.Settings
	Err      error
}

// Watcher watches the config file and the profiles directory
type Watcher struct {
	watcher     *fsnotify.Watcher
	configPath  string
	profilesDir string
	load        func(path string) (config.Settings, error)
	logger      *slog.Logger
	changes     chan ConfigChangeEvent
	done        chan struct{}

	mu            sync.Mutex
	stopped       bool
	debounceTimer *time.Timer
	pendingEvents map[string]bool
}

// NewWatcher creates a watcher for the config file at configPath
func NewWatcher(configPath string, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	return &Watcher{
		watcher:       fsWatcher,
		configPath:    filepath.Clean(configPath),
		profilesDir:   filepath.Join(filepath.Dir(configPath), "profiles"),
		load:          config.Load,
		logger:        logger,
		changes:       make(chan ConfigChangeEvent, 10),
		done:          make(chan struct{}),
		pendingEvents: make(map[string]bool),
	}, nil
}

// Start begins watching. The directory holding the config file is watched
// rather than the file itself so that editors replacing the file are seen.
func (w *Watcher) Start() error {
	if err := w.watcher.Add(filepath.Dir(w.configPath)); err != nil {
		return fmt.Errorf("failed to watch directory: %w", err)
	}
	if info, err := os.Stat(w.profilesDir); err == nil && info.IsDir() {
		if err := w.watcher.Add(w.profilesDir); err != nil {
			return fmt.Errorf("failed to watch profiles directory: %w", err)
		}
	}

	go w.watch()
	return nil
}

// Stop stops the watcher and closes the Changes channel
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return
	}
	w.stopped = true
	close(w.done)
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.watcher.Close()
	close(w.changes)
}

// Changes returns the channel for config change notifications
func (w *Watcher) Changes() <-chan ConfigChangeEvent {
	return w.changes
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return false
	}
	name := filepath.Clean(event.Name)
	if name == w.configPath {
		return true
	}
	return filepath.Dir(name) == w.profilesDir && filepath.Ext(name) == ".yaml"
}

// watch is the main event loop
func (w *Watcher) watch() {
	for {
		select {
		case <-w.done:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}

			w.mu.Lock()
			if !w.stopped {
				w.pendingEvents[event.Name] = true
				if w.debounceTimer != nil {
					w.debounceTimer.Stop()
				}
				w.debounceTimer = time.AfterFunc(debounceDelay, w.processPendingEvents)
			}
			w.mu.Unlock()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			// Log error but continue watching
			w.logger.Warn("watch", "error", err)
		}
	}
}

// processPendingEvents reloads the settings once for a burst of changes
func (w *Watcher) processPendingEvents() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped || len(w.pendingEvents) == 0 {
		return
	}

	var changed string
	for path := range w.pendingEvents {
		changed = path
	}
	w.pendingEvents = make(map[string]bool)

	settings, err := w.load(w.configPath)
	if err != nil {
		w.logger.Error("processPendingEvents", "error", err, "path", changed)
	} else {
		w.logger.Info("processPendingEvents", "path", changed, "locale", settings.Locale, "adapter", settings.Adapter)
	}

	select {
	case w.changes <- ConfigChangeEvent{FilePath: changed, Settings: settings, Err: err}:
	default:
		w.logger.Warn("processPendingEvents", "dropped", changed)
	}
}
