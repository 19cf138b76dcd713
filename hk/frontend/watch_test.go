package frontend

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"
)

func TestWatcherScan(t *testing.T) {
	dir := t.TempDir()
	write := func(name, src string) string {
		t.Helper()
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
			t.Fatal(err)
		}
		return path
	}
	a := write("a.jsonl", sum)
	b := write("sub/b.jsonl", record("Identifier", "b", 1, 1))
	write("notes.txt", "ignored")
	write(".hidden/c.jsonl", sum)

	var seen, removed []string
	w := NewWatcher(dir, "", time.Hour, Options{})
	w.OnResult = func(res *Result) { seen = append(seen, res.Name) }
	w.OnRemove = func(path string) { removed = append(removed, path) }
	w.OnError = func(path string, err error) { t.Errorf("%s: %v", path, err) }

	ctx := context.Background()
	w.Scan(ctx)
	sort.Strings(seen)
	if len(seen) != 2 || seen[0] != a || seen[1] != b {
		t.Fatalf("first scan saw %v, want [%s %s]", seen, a, b)
	}

	seen = nil
	w.Scan(ctx)
	if len(seen) != 0 {
		t.Errorf("unchanged files were re-run: %v", seen)
	}

	later := time.Now().Add(time.Minute)
	if err := os.Chtimes(a, later, later); err != nil {
		t.Fatal(err)
	}
	if err := os.Remove(b); err != nil {
		t.Fatal(err)
	}
	w.Scan(ctx)
	if len(seen) != 1 || seen[0] != a {
		t.Errorf("after touching a, saw %v", seen)
	}
	if len(removed) != 1 || removed[0] != b {
		t.Errorf("removed = %v, want [%s]", removed, b)
	}
}

func TestWatcherExtension(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.tok", "b.jsonl", "ctok"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(sum), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	for _, ext := range []string{"tok", ".tok"} {
		t.Run(ext, func(t *testing.T) {
			var seen []string
			w := NewWatcher(dir, ext, time.Hour, Options{})
			w.OnResult = func(res *Result) { seen = append(seen, filepath.Base(res.Name)) }
			w.Scan(context.Background())
			if len(seen) != 1 || seen[0] != "a.tok" {
				t.Errorf("saw %v, want [a.tok]", seen)
			}
		})
	}
}

func TestWatcherRunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	w := NewWatcher(t.TempDir(), "", time.Millisecond, Options{})
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	cancel()
	select {
	case err := <-done:
		if err != context.Canceled {
			t.Errorf("Run returned %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
