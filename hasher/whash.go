package hasher

import (
	"image"
	"sort"

	"golang.org/x/image/draw"

	"github.com/hupe1980/imagedup/fingerprint"
)

// waveletScale is the linear oversampling factor before decomposition:
// the image is scaled to (size*waveletScale)² and Haar-decomposed down to
// a size² approximation band. Power of two, so every decomposition step
// halves cleanly.
const waveletScale = 4

// waveletHash computes a Haar-wavelet perceptual hash: scale to a
// power-of-two grayscale square, run the 2D Haar DWT until the
// approximation (LL) band is size², then set one bit per band coefficient
// above the band median.
func (h *Hasher) waveletHash(img image.Image) (fingerprint.Fingerprint, error) {
	s := h.size
	n := s * waveletScale

	m := scaleGray(img, n)

	for cur := n; cur > s; cur /= 2 {
		haarStep(m, n, cur)
	}

	band := make([]float64, 0, s*s)
	for y := 0; y < s; y++ {
		for x := 0; x < s; x++ {
			band = append(band, m[y*n+x])
		}
	}

	med := median(band)
	words := make([]uint64, (s*s+63)/64)
	for i, v := range band {
		if v > med {
			words[i/64] |= 1 << (63 - uint(i%64))
		}
	}
	return fingerprint.New(words, s*s)
}

// scaleGray resizes img to an n×n grayscale plane of float64 luma values.
func scaleGray(img image.Image, n int) []float64 {
	dst := image.NewGray(image.Rect(0, 0, n, n))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)

	m := make([]float64, n*n)
	for i, p := range dst.Pix {
		m[i] = float64(p)
	}
	return m
}

// haarStep performs one 2D Haar decomposition level in place on the
// top-left cur×cur block of the stride-wide plane: pairwise averages land
// in the first half, differences in the second, rows then columns.
func haarStep(m []float64, stride, cur int) {
	half := cur / 2
	tmp := make([]float64, cur)

	for y := 0; y < cur; y++ {
		row := m[y*stride : y*stride+cur]
		for x := 0; x < half; x++ {
			tmp[x] = (row[2*x] + row[2*x+1]) / 2
			tmp[half+x] = (row[2*x] - row[2*x+1]) / 2
		}
		copy(row, tmp)
	}

	for x := 0; x < cur; x++ {
		for y := 0; y < half; y++ {
			tmp[y] = (m[(2*y)*stride+x] + m[(2*y+1)*stride+x]) / 2
			tmp[half+y] = (m[(2*y)*stride+x] - m[(2*y+1)*stride+x]) / 2
		}
		for y := 0; y < cur; y++ {
			m[y*stride+x] = tmp[y]
		}
	}
}

func median(values []float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}
