package aliases

import (
	"context"
	"os"
	"testing"
	"time"
)

func TestWatcherReloadsOnExternalEdit(t *testing.T) {
	path := writeAliasFile(t, `{"keta": "ketamine"}`)
	c := NewContainer(path)
	if err := c.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	w, err := NewWatcher(c)
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	go func() { errCh <- w.Run(ctx) }()

	// give the watcher time to register the directory
	time.Sleep(200 * time.Millisecond)

	if err := os.WriteFile(path, []byte(`{"keta": "ketamine", "speed": "amphetamine"}`), 0644); err != nil {
		t.Fatalf("Failed to edit alias file: %v", err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if c.Resolve("speed") == "amphetamine" {
			break
		}
		time.Sleep(50 * time.Millisecond)
	}

	if got := c.Resolve("speed"); got != "amphetamine" {
		t.Fatalf("Expected reload to pick up new alias, got %q", got)
	}

	w.Stop()
	if err := <-errCh; err != nil {
		t.Errorf("Run returned error: %v", err)
	}
	if w.Reloads() == 0 {
		t.Error("Expected at least one reload")
	}
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	path := writeAliasFile(t, `{"keta": "ketamine"}`)
	c := NewContainer(path)
	if err := c.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	w, err := NewWatcher(c)
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() { _ = w.Run(ctx) }()
	time.Sleep(200 * time.Millisecond)

	other := path + ".bak"
	if err := os.WriteFile(other, []byte("{}"), 0644); err != nil {
		t.Fatalf("Failed to write other file: %v", err)
	}
	time.Sleep(600 * time.Millisecond)

	cancel()
	w.Stop()

	if w.Reloads() != 0 {
		t.Errorf("Expected no reloads for unrelated files, got %d", w.Reloads())
	}
}
