package imagedup

import (
	"github.com/hupe1980/imagedup/codec"
	"github.com/hupe1980/imagedup/hasher"
)

// DefaultThreshold is the default maximum Hamming distance at which two
// fingerprints count as near-duplicates.
const DefaultThreshold = 5

type options struct {
	recursive      bool
	hashType       hasher.Type
	hashSize       int
	threshold      int
	hashWorkers    int
	clusterWorkers int
	cachePath      string
	codec          codec.Codec
	logger         *Logger
	progress       func(done, total int)
}

// Option configures a Deduper.
type Option func(*options)

// WithRecursive scans subfolders of the root as well.
func WithRecursive(recursive bool) Option {
	return func(o *options) {
		o.recursive = recursive
	}
}

// WithHashType selects the perceptual hash algorithm (default phash).
func WithHashType(t hasher.Type) Option {
	return func(o *options) {
		o.hashType = t
	}
}

// WithHashSize sets the hash size (default 8, a 64-bit fingerprint).
// Larger sizes are more precise but slower; see hasher.New for the
// per-algorithm size constraints.
func WithHashSize(size int) Option {
	return func(o *options) {
		o.hashSize = size
	}
}

// WithThreshold sets the maximum Hamming distance between fingerprints
// for two images to count as near-duplicates.
func WithThreshold(threshold int) Option {
	return func(o *options) {
		o.threshold = threshold
	}
}

// WithHashWorkers sets the number of goroutines decoding and hashing
// images. Values <= 0 default to GOMAXPROCS.
func WithHashWorkers(n int) Option {
	return func(o *options) {
		o.hashWorkers = n
	}
}

// WithClusterWorkers parallelizes the all-pairs distance scan. Values
// <= 1 keep it serial. Output is identical either way; see
// cluster.WithWorkers.
func WithClusterWorkers(n int) Option {
	return func(o *options) {
		o.clusterWorkers = n
	}
}

// WithCachePath enables the on-disk fingerprint cache at path, so
// repeated runs skip hashing unchanged files.
func WithCachePath(path string) Option {
	return func(o *options) {
		o.cachePath = path
	}
}

// WithCodec configures the codec used for the hash cache. If nil is
// passed, codec.Default is used.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c == nil {
			c = codec.Default
		}
		o.codec = c
	}
}

// WithLogger sets the logger. The default discards all output.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithProgress installs a hashing progress callback. It is called once
// with done == 0 before hashing starts and once after every file;
// callbacks must be safe for concurrent use since workers report
// completion directly.
func WithProgress(fn func(done, total int)) Option {
	return func(o *options) {
		o.progress = fn
	}
}
