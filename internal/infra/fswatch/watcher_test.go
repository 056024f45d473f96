package fswatch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/AustinGrey/bake-file/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitForCallback(ch <-chan string, timeout time.Duration) (string, bool) {
	select {
	case v := <-ch:
		return v, true
	case <-time.After(timeout):
		return "", false
	}
}

func absTempDir(t *testing.T) string {
	t.Helper()
	dir, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	return dir
}

func TestWatcher_DetectsBakefileWrite(t *testing.T) {
	dir := absTempDir(t)
	bf := filepath.Join(dir, "bakefile.yaml")
	require.NoError(t, os.WriteFile(bf, []byte("units: []\n"), 0o644))

	w, err := NewWatcher(WithDebounce(0))
	require.NoError(t, err)
	defer w.Stop()

	changed := make(chan string, 10)
	require.NoError(t, w.Watch([]string{bf}, func(path string) { changed <- path }))

	time.Sleep(50 * time.Millisecond)
	require.NoError(t, os.WriteFile(bf, []byte("units: [package]\n"), 0o644))

	path, ok := waitForCallback(changed, 2*time.Second)
	assert.True(t, ok, "expected callback for bakefile change")
	assert.Equal(t, bf, path)
}

func TestWatcher_ReportsLastSaveInBurst(t *testing.T) {
	dir := absTempDir(t)
	bf := filepath.Join(dir, "bakefile.yaml")
	require.NoError(t, os.WriteFile(bf, []byte("units: []\n"), 0o644))

	w, err := NewWatcher(WithDebounce(100 * time.Millisecond))
	require.NoError(t, err)
	defer w.Stop()

	seen := make(chan string, 10)
	require.NoError(t, w.Watch([]string{bf}, func(path string) {
		b, _ := os.ReadFile(path)
		seen <- string(b)
	}))

	time.Sleep(50 * time.Millisecond)
	first := "units: [\"1oz = 25g\"]\n"
	second := "units: [\"1oz = 25g\", \"1oz = 30g\"]\n"
	require.NoError(t, os.WriteFile(bf, []byte(first), 0o644))
	time.Sleep(30 * time.Millisecond)
	require.NoError(t, os.WriteFile(bf, []byte(second), 0o644))

	content, ok := waitForCallback(seen, 2*time.Second)
	require.True(t, ok, "expected a callback after the burst")

	// Drain anything else reported once the file went quiet.
	for {
		more, ok := waitForCallback(seen, 400*time.Millisecond)
		if !ok {
			break
		}
		content = more
	}
	assert.Equal(t, second, content)
}

func TestWatcher_GlobReportsNewFiles(t *testing.T) {
	dir := absTempDir(t)
	recipes := filepath.Join(dir, "recipes")
	require.NoError(t, os.MkdirAll(recipes, 0o755))

	w, err := NewWatcher(WithDebounce(0))
	require.NoError(t, err)
	defer w.Stop()

	changed := make(chan string, 10)
	pattern := filepath.Join(recipes, "*.bake.yaml")
	require.NoError(t, w.Watch([]string{pattern}, func(path string) { changed <- path }))

	time.Sleep(50 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(recipes, "notes.txt"), []byte("hi"), 0o644))
	added := filepath.Join(recipes, "rye.bake.yaml")
	require.NoError(t, os.WriteFile(added, []byte("units: [package]\n"), 0o644))

	path, ok := waitForCallback(changed, 2*time.Second)
	require.True(t, ok, "expected callback for the new bakefile")
	assert.Equal(t, added, path)
}

func TestWatcher_NoCallbackAfterStop(t *testing.T) {
	dir := absTempDir(t)
	bf := filepath.Join(dir, "bakefile.yaml")
	require.NoError(t, os.WriteFile(bf, []byte("units: []\n"), 0o644))

	w, err := NewWatcher(WithDebounce(200 * time.Millisecond))
	require.NoError(t, err)

	changed := make(chan string, 10)
	require.NoError(t, w.Watch([]string{bf}, func(path string) { changed <- path }))

	time.Sleep(50 * time.Millisecond)
	require.NoError(t, os.WriteFile(bf, []byte("units: [package]\n"), 0o644))
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, w.Stop())

	_, ok := waitForCallback(changed, 500*time.Millisecond)
	assert.False(t, ok, "pending change should be dropped on Stop")
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := absTempDir(t)
	bf := filepath.Join(dir, "bakefile.yaml")
	require.NoError(t, os.WriteFile(bf, []byte("units: []\n"), 0o644))

	w, err := NewWatcher()
	require.NoError(t, err)
	defer w.Stop()

	changed := make(chan string, 10)
	require.NoError(t, w.Watch([]string{bf}, func(path string) { changed <- path }))

	time.Sleep(50 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hi"), 0o644))

	_, ok := waitForCallback(changed, 300*time.Millisecond)
	assert.False(t, ok, "unrelated file should not trigger a callback")
}

func TestWatcher_NoPaths(t *testing.T) {
	w, err := NewWatcher()
	require.NoError(t, err)
	defer w.Stop()

	err = w.Watch(nil, func(string) {})
	assert.True(t, domain.IsKind(err, domain.KindInvalidConfig))
}

func TestWatcher_StopIsIdempotent(t *testing.T) {
	w, err := NewWatcher()
	require.NoError(t, err)

	assert.NoError(t, w.Stop())
	assert.NoError(t, w.Stop())
}
