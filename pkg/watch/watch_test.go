package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) handle(events []Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, events...)
}

func (r *recorder) paths() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, ev := range r.events {
		out = append(out, filepath.Base(ev.Path))
	}
	return out
}

func TestWatcherReportsDocumentWrites(t *testing.T) {
	root := t.TempDir()
	rec := &recorder{}

	w, err := New(root, rec.handle, Options{Debounce: 20 * time.Millisecond})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))
	defer w.Stop()

	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, ".hidden.html"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "Draft.html"), []byte("<p>a</p>"), 0o644))

	assert.Eventually(t, func() bool {
		return len(rec.paths()) > 0
	}, 2*time.Second, 10*time.Millisecond)

	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, []string{"Draft.html"}, rec.paths())
}

func TestWatcherFollowsNewDirectories(t *testing.T) {
	root := t.TempDir()
	rec := &recorder{}

	w, err := New(root, rec.handle, Options{Debounce: 20 * time.Millisecond})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))
	defer w.Stop()

	sub := filepath.Join(root, "Projects")
	require.NoError(t, os.Mkdir(sub, 0o755))
	// Give the watcher a moment to register the new directory.
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(sub, "Plan.html"), []byte("<p>a</p>"), 0o644))

	assert.Eventually(t, func() bool {
		for _, p := range rec.paths() {
			if p == "Plan.html" {
				return true
			}
		}
		return false
	}, 2*time.Second, 10*time.Millisecond)
}

func TestDedupeKeepsLatestPerPath(t *testing.T) {
	now := time.Now()
	got := dedupe([]Event{
		{Path: "/a.html", Op: OpCreate, Time: now},
		{Path: "/b.html", Op: OpWrite, Time: now},
		{Path: "/a.html", Op: OpWrite, Time: now.Add(time.Millisecond)},
	})

	require.Len(t, got, 2)
	assert.Equal(t, "/a.html", got[0].Path)
	assert.Equal(t, OpWrite, got[0].Op)
	assert.Equal(t, "/b.html", got[1].Path)
}

func TestOpString(t *testing.T) {
	assert.Equal(t, "create", OpCreate.String())
	assert.Equal(t, "rename", OpRename.String())
	assert.Equal(t, "unknown", Op(42).String())
}
