package sync

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/MikeBiancalana/datefield/internal/config"
)

func TestNewWatcher(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), config.ConfigName)

	watcher, err := NewWatcher(configPath, nil)
	if err != nil {
		t.Fatalf("failed to create watcher: %v", err)
	}

	if watcher.watcher == nil {
		t.Fatal("underlying fsnotify watcher should not be nil")
	}
	if watcher.changes == nil {
		t.Fatal("changes channel should not be nil")
	}

	watcher.Stop()
	// Stop is idempotent
	watcher.Stop()

	if _, ok := <-watcher.Changes(); ok {
		t.Fatal("changes channel should be closed after Stop")
	}
}

func TestWatcher_Relevant(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, config.ConfigName)
	watcher, err := NewWatcher(configPath, nil)
	if err != nil {
		t.Fatalf("failed to create watcher: %v", err)
	}
	defer watcher.Stop()

	tests := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{"config write", fsnotify.Event{Name: configPath, Op: fsnotify.Write}, true},
		{"config replaced", fsnotify.Event{Name: configPath, Op: fsnotify.Rename}, true},
		{"config chmod", fsnotify.Event{Name: configPath, Op: fsnotify.Chmod}, false},
		{"database write", fsnotify.Event{Name: filepath.Join(dir, config.DbName), Op: fsnotify.Write}, false},
		{"profile created", fsnotify.Event{Name: filepath.Join(dir, "profiles", "de.yaml"), Op: fsnotify.Create}, true},
		{"profile backup", fsnotify.Event{Name: filepath.Join(dir, "profiles", "de.yaml~"), Op: fsnotify.Create}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := watcher.relevant(tt.event); got != tt.want {
				t.Errorf("relevant(%v) = %v, want %v", tt.event, got, tt.want)
			}
		})
	}
}

func TestWatcher_ReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, config.ConfigName)
	if err := config.Init(configPath, false); err != nil {
		t.Fatalf("failed to init config: %v", err)
	}

	watcher, err := NewWatcher(configPath, nil)
	if err != nil {
		t.Fatalf("failed to create watcher: %v", err)
	}
	defer watcher.Stop()

	if err := watcher.Start(); err != nil {
		t.Fatalf("failed to start watcher: %v", err)
	}

	s := config.Default()
	s.Locale = "de-DE"
	if err := config.Save(configPath, s); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	select {
	case ev := <-watcher.Changes():
		if ev.Err != nil {
			t.Fatalf("unexpected reload error: %v", ev.Err)
		}
		if ev.Settings.Locale != "de-DE" {
			t.Errorf("expected reloaded locale de-DE, got %s", ev.Settings.Locale)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for config change")
	}
}

func TestWatcher_ReportsLoadErrors(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, config.ConfigName)

	watcher, err := NewWatcher(configPath, nil)
	if err != nil {
		t.Fatalf("failed to create watcher: %v", err)
	}
	defer watcher.Stop()

	if err := watcher.Start(); err != nil {
		t.Fatalf("failed to start watcher: %v", err)
	}

	if err := os.WriteFile(configPath, []byte("locale: [broken\n"), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	select {
	case ev := <-watcher.Changes():
		if ev.Err == nil {
			t.Fatal("expected a load error for malformed YAML")
		}
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for config change")
	}
}
