package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcherReportsChange(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "index.html")
	other := filepath.Join(dir, "other.html")
	for _, p := range []string{target, other} {
		if err := os.WriteFile(p, []byte("<body></body>"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	w := New(Config{Paths: []string{target}, Debounce: 20 * time.Millisecond})
	changes := make(chan string, 8)
	w.OnChange(func(path string) { changes <- path })

	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer w.Stop()

	if err := os.WriteFile(other, []byte("<body>x</body>"), 0644); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		if err := os.WriteFile(target, []byte("<body>y</body>"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	select {
	case got := <-changes:
		want, _ := filepath.Abs(target)
		if got != want {
			t.Errorf("change path = %q, want %q", got, want)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}
}

func TestWatcherStopsWithContext(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "index.html")
	if err := os.WriteFile(target, nil, 0644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	w := New(Config{Paths: []string{target}, Debounce: 10 * time.Millisecond})
	called := make(chan string, 1)
	w.OnChange(func(path string) { called <- path })
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	cancel()

	select {
	case <-w.stopCh:
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}

	os.WriteFile(target, []byte("x"), 0644)
	select {
	case p := <-called:
		t.Errorf("callback after stop: %q", p)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestStartMissingDirectory(t *testing.T) {
	w := New(Config{Paths: []string{filepath.Join(t.TempDir(), "missing", "index.html")}})
	if err := w.Start(context.Background()); err == nil {
		w.Stop()
		t.Error("Start should fail for a missing directory")
	}
}
