package scanner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
}

func TestScan(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "a.jpg"))
	touch(t, filepath.Join(dir, "b.PNG"))
	touch(t, filepath.Join(dir, "notes.txt"))
	touch(t, filepath.Join(dir, "sub", "c.webp"))
	touch(t, filepath.Join(dir, "sub", "deep", "d.tiff"))
	touch(t, filepath.Join(dir, "sub", "skip.pdf"))

	t.Run("Recursive", func(t *testing.T) {
		paths, err := Scan(dir, true)
		require.NoError(t, err)
		assert.Equal(t, []string{
			filepath.Join(dir, "a.jpg"),
			filepath.Join(dir, "b.PNG"),
			filepath.Join(dir, "sub", "c.webp"),
			filepath.Join(dir, "sub", "deep", "d.tiff"),
		}, paths)
	})

	t.Run("NonRecursive", func(t *testing.T) {
		paths, err := Scan(dir, false)
		require.NoError(t, err)
		assert.Equal(t, []string{
			filepath.Join(dir, "a.jpg"),
			filepath.Join(dir, "b.PNG"),
		}, paths)
	})
}

func TestScanMissingRoot(t *testing.T) {
	_, err := Scan(filepath.Join(t.TempDir(), "does-not-exist"), true)
	assert.Error(t, err)
}

func TestScanEmptyDir(t *testing.T) {
	paths, err := Scan(t.TempDir(), true)
	require.NoError(t, err)
	assert.Empty(t, paths)
}

func TestSupported(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"x.jpg", true},
		{"x.JPEG", true},
		{"x.png", true},
		{"x.bmp", true},
		{"x.gif", true},
		{"x.tiff", true},
		{"x.webp", true},
		{"x.tif", false},
		{"x.txt", false},
		{"x", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, Supported(tt.path))
		})
	}
}
