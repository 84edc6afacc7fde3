package imagedup

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/imagedup/hasher"
	"github.com/hupe1980/imagedup/testutil"
)

// writeTestImages writes two byte-identical gradient PNGs and one
// inverted gradient into dir and returns their paths in lexical order.
func writeTestImages(t *testing.T, dir string) (dupA, dupB, other string) {
	t.Helper()

	dupA = filepath.Join(dir, "gradient.png")
	dupB = filepath.Join(dir, "gradient_copy.png")
	other = filepath.Join(dir, "inverted.png")

	require.NoError(t, testutil.WritePNG(dupA, testutil.GradientImage(64, 64, false)))
	data, err := os.ReadFile(dupA)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(dupB, data, 0o644))
	require.NoError(t, testutil.WritePNG(other, testutil.GradientImage(64, 64, true)))
	return dupA, dupB, other
}

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name    string
		opts    []Option
		wantErr bool
	}{
		{"Defaults", nil, false},
		{"NegativeThreshold", []Option{WithThreshold(-1)}, true},
		{"BadHashType", []Option{WithHashType(hasher.Type("sha1"))}, true},
		{"BadHashSize", []Option{WithHashSize(-4)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.opts...)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestRunFindsDuplicatePair(t *testing.T) {
	dir := t.TempDir()
	dupA, dupB, other := writeTestImages(t, dir)

	d, err := New(
		WithHashType(hasher.TypeDifference),
		WithThreshold(2),
	)
	require.NoError(t, err)

	result, err := d.Run(context.Background(), dir)
	require.NoError(t, err)

	assert.Equal(t, 3, result.Scanned)
	assert.Equal(t, 3, result.Hashed)
	assert.Equal(t, 0, result.Skipped)
	require.Len(t, result.Groups, 1)

	g := result.Groups[0]
	assert.Equal(t, 1, g.ID)
	assert.Equal(t, dupA, g.Reference.Path)
	require.Len(t, g.Images, 2)
	assert.Equal(t, dupA, g.Images[0].Path)
	assert.Equal(t, dupB, g.Images[1].Path)

	for _, img := range g.Images {
		assert.NotEqual(t, other, img.Path)
	}
}

func TestRunIsDeterministic(t *testing.T) {
	dir := t.TempDir()
	writeTestImages(t, dir)

	d, err := New(WithHashType(hasher.TypeDifference), WithThreshold(2))
	require.NoError(t, err)

	first, err := d.Run(context.Background(), dir)
	require.NoError(t, err)
	second, err := d.Run(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestRunSkipsUnreadableImages(t *testing.T) {
	dir := t.TempDir()
	writeTestImages(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.png"), []byte("junk"), 0o644))

	d, err := New(WithHashType(hasher.TypeDifference), WithThreshold(2))
	require.NoError(t, err)

	result, err := d.Run(context.Background(), dir)
	require.NoError(t, err)

	assert.Equal(t, 4, result.Scanned)
	assert.Equal(t, 3, result.Hashed)
	assert.Equal(t, 1, result.Skipped)
	require.Len(t, result.Groups, 1)
}

func TestRunMissingRoot(t *testing.T) {
	d, err := New()
	require.NoError(t, err)

	_, err = d.Run(context.Background(), filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestRunWithCache(t *testing.T) {
	dir := t.TempDir()
	writeTestImages(t, dir)
	cachePath := filepath.Join(t.TempDir(), "hashes.json")

	newDeduper := func() *Deduper {
		d, err := New(
			WithHashType(hasher.TypeDifference),
			WithThreshold(2),
			WithCachePath(cachePath),
		)
		require.NoError(t, err)
		return d
	}

	first, err := newDeduper().Run(context.Background(), dir)
	require.NoError(t, err)
	assert.FileExists(t, cachePath)

	// Second run is served from the cache and must agree exactly.
	second, err := newDeduper().Run(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestRunProgressCallback(t *testing.T) {
	dir := t.TempDir()
	writeTestImages(t, dir)

	var (
		mu    sync.Mutex
		calls []int
	)
	d, err := New(
		WithHashType(hasher.TypeDifference),
		WithProgress(func(done, total int) {
			mu.Lock()
			defer mu.Unlock()
			assert.Equal(t, 3, total)
			calls = append(calls, done)
		}),
	)
	require.NoError(t, err)

	_, err = d.Run(context.Background(), dir)
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	assert.Len(t, calls, 4) // initial 0 plus one per file
	assert.Contains(t, calls, 0)
	assert.Contains(t, calls, 3)
}

func TestRunParallelClusterMatchesSerial(t *testing.T) {
	dir := t.TempDir()
	writeTestImages(t, dir)

	serial, err := New(WithHashType(hasher.TypeDifference), WithThreshold(2))
	require.NoError(t, err)
	parallel, err := New(
		WithHashType(hasher.TypeDifference),
		WithThreshold(2),
		WithClusterWorkers(4),
		WithHashWorkers(2),
	)
	require.NoError(t, err)

	want, err := serial.Run(context.Background(), dir)
	require.NoError(t, err)
	got, err := parallel.Run(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestResultRecords(t *testing.T) {
	dir := t.TempDir()
	dupA, dupB, _ := writeTestImages(t, dir)

	d, err := New(WithHashType(hasher.TypeDifference), WithThreshold(2))
	require.NoError(t, err)

	result, err := d.Run(context.Background(), dir)
	require.NoError(t, err)

	records := result.Records()
	require.Len(t, records, 1)
	assert.Equal(t, 1, records[0].GroupID)
	assert.Equal(t, []string{dupA, dupB}, records[0].Images)
	assert.Equal(t, dupA, records[0].Reference)
}
