package theme

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcher_CallsBackOnWrite(t *testing.T) {
	dir := t.TempDir()
	l := Locator{UserPath: filepath.Join(dir, ActiveThemeFileName)}

	w := NewWatcher(l, nil)
	w.SetDebounce(10 * time.Millisecond)

	changed := make(chan struct{}, 4)
	w.SetChangeCallback(func() { changed <- struct{}{} })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))
	defer w.Stop()
	assert.True(t, w.IsRunning())

	require.NoError(t, os.WriteFile(l.UserPath, []byte(darkTheme), 0644))

	select {
	case <-changed:
	case <-time.After(5 * time.Second):
		t.Fatal("callback not invoked")
	}
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	l := Locator{UserPath: filepath.Join(dir, ActiveThemeFileName)}

	w := NewWatcher(l, nil)
	w.SetDebounce(10 * time.Millisecond)

	changed := make(chan struct{}, 4)
	w.SetChangeCallback(func() { changed <- struct{}{} })

	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other"), []byte("x"), 0644))

	select {
	case <-changed:
		t.Fatal("callback invoked for unrelated file")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatcher_StopIsIdempotent(t *testing.T) {
	w := NewWatcher(Locator{UserPath: filepath.Join(t.TempDir(), "x")}, nil)
	require.NoError(t, w.Start(context.Background()))
	w.Stop()
	w.Stop()
	assert.False(t, w.IsRunning())
}

func TestWatcher_MissingDirectory(t *testing.T) {
	w := NewWatcher(Locator{UserPath: filepath.Join(t.TempDir(), "missing", "OvosTheme")}, nil)
	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()
	assert.True(t, w.IsRunning())
}

func TestWatcher_ContextCancelStopsRunning(t *testing.T) {
	w := NewWatcher(Locator{UserPath: filepath.Join(t.TempDir(), "x")}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, w.Start(ctx))
	assert.True(t, w.IsRunning())

	cancel()
	assert.Eventually(t, func() bool { return !w.IsRunning() }, 5*time.Second, 10*time.Millisecond)

	// Stop after the loop exited on its own must not block
	w.Stop()

	require.NoError(t, w.Start(context.Background()))
	assert.True(t, w.IsRunning())
	w.Stop()
	assert.False(t, w.IsRunning())
}
