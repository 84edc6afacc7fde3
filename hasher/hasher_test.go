package hasher

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/imagedup/fingerprint"
	"github.com/hupe1980/imagedup/testutil"
)

func TestParseType(t *testing.T) {
	tests := []struct {
		in      string
		want    Type
		wantErr bool
	}{
		{"ahash", TypeAverage, false},
		{"phash", TypePerception, false},
		{"dhash", TypeDifference, false},
		{"whash", TypeWavelet, false},
		{"", "", true},
		{"md5", "", true},
		{"PHASH", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseType(tt.in)
			if tt.wantErr {
				var ut *ErrUnknownType
				require.ErrorAs(t, err, &ut)
				assert.Equal(t, tt.in, ut.Value)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name    string
		typ     Type
		size    int
		wantErr bool
	}{
		{"DefaultPHash", TypePerception, 8, false},
		{"BigAHash", TypeAverage, 16, false},
		{"WaveletPow2", TypeWavelet, 8, false},
		{"SmallWavelet", TypeWavelet, 4, false},
		{"ZeroSize", TypeAverage, 0, true},
		{"NegativeSize", TypeDifference, -8, true},
		{"NonMultipleOf8", TypePerception, 10, true},
		{"WaveletNonPow2", TypeWavelet, 12, true},
		{"UnknownType", Type("crc32"), 8, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := New(tt.typ, tt.size)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.size*tt.size, h.Width())
		})
	}
}

func TestHashImageWidth(t *testing.T) {
	img := testutil.GradientImage(64, 64, false)

	for _, typ := range []Type{TypeAverage, TypePerception, TypeDifference, TypeWavelet} {
		t.Run(string(typ), func(t *testing.T) {
			h, err := New(typ, 8)
			require.NoError(t, err)

			fp, err := h.HashImage(img)
			require.NoError(t, err)
			assert.Equal(t, 64, fp.Width())
		})
	}
}

func TestIdenticalImagesHashEqual(t *testing.T) {
	img := testutil.NoiseImage(testutil.NewRNG(1), 64, 64)

	for _, typ := range []Type{TypeAverage, TypePerception, TypeDifference, TypeWavelet} {
		t.Run(string(typ), func(t *testing.T) {
			h, err := New(typ, 8)
			require.NoError(t, err)

			a, err := h.HashImage(img)
			require.NoError(t, err)
			b, err := h.HashImage(img)
			require.NoError(t, err)

			d, err := fingerprint.Distance(a, b)
			require.NoError(t, err)
			assert.Equal(t, 0, d)
		})
	}
}

func TestOpposedGradientsHashFarApart(t *testing.T) {
	img := testutil.GradientImage(64, 64, false)
	inv := testutil.GradientImage(64, 64, true)

	h, err := New(TypeDifference, 8)
	require.NoError(t, err)

	a, err := h.HashImage(img)
	require.NoError(t, err)
	b, err := h.HashImage(inv)
	require.NoError(t, err)

	d, err := fingerprint.Distance(a, b)
	require.NoError(t, err)
	assert.Greater(t, d, 8)
}

func TestHashFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gradient.png")
	require.NoError(t, testutil.WritePNG(path, testutil.GradientImage(64, 64, false)))

	h, err := New(TypePerception, 8)
	require.NoError(t, err)

	fromFile, err := h.HashFile(path)
	require.NoError(t, err)

	fromImage, err := h.HashImage(testutil.GradientImage(64, 64, false))
	require.NoError(t, err)
	assert.True(t, fromFile.Equal(fromImage))
}

func TestHashFileErrors(t *testing.T) {
	dir := t.TempDir()

	h, err := New(TypeAverage, 8)
	require.NoError(t, err)

	_, err = h.HashFile(filepath.Join(dir, "missing.png"))
	assert.Error(t, err)

	// A file that is not an image at all.
	bogus := filepath.Join(dir, "bogus.png")
	require.NoError(t, os.WriteFile(bogus, []byte("not an image"), 0o644))
	_, err = h.HashFile(bogus)
	assert.Error(t, err)
}
