package imagedup

import (
	"context"
	"os"
	"sync"
	"sync/atomic"

	"github.com/hupe1980/imagedup/cluster"
	"github.com/hupe1980/imagedup/codec"
	"github.com/hupe1980/imagedup/fingerprint"
	"github.com/hupe1980/imagedup/hasher"
	"github.com/hupe1980/imagedup/internal/pool"
	"github.com/hupe1980/imagedup/report"
	"github.com/hupe1980/imagedup/scanner"
)

// Image is one hashed image: its path and fingerprint.
type Image struct {
	Path        string
	Fingerprint fingerprint.Fingerprint
}

// Group is a set of near-duplicate images. Images are ordered by their
// position in the scan; Reference is the first of them, the member that
// stays in place under the default keep policy.
type Group struct {
	ID        int
	Images    []Image
	Reference Image
}

// Result summarizes one dedup run.
type Result struct {
	// Scanned is the number of candidate files found under the root.
	Scanned int
	// Hashed is the number of files successfully fingerprinted.
	Hashed int
	// Skipped counts files that could not be read or decoded.
	Skipped int
	// Groups are the duplicate groups, each with at least two members.
	Groups []Group
}

// Records converts the groups into serializable report records.
func (r *Result) Records() []report.Record {
	records := make([]report.Record, 0, len(r.Groups))
	for _, g := range r.Groups {
		paths := make([]string, len(g.Images))
		for i, img := range g.Images {
			paths[i] = img.Path
		}
		records = append(records, report.Record{
			GroupID:   g.ID,
			Images:    paths,
			Reference: g.Reference.Path,
		})
	}
	return records
}

// Deduper runs the dedup pipeline: scan, hash, cluster, materialize.
type Deduper struct {
	opts   options
	hasher *hasher.Hasher
	logger *Logger
}

// New creates a Deduper. Configuration errors (unknown hash type,
// invalid hash size, negative threshold) are rejected here, before any
// filesystem work.
func New(opts ...Option) (*Deduper, error) {
	o := options{
		hashType:  hasher.TypePerception,
		hashSize:  hasher.DefaultSize,
		threshold: DefaultThreshold,
		codec:     codec.Default,
		logger:    NoopLogger(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	h, err := hasher.New(o.hashType, o.hashSize)
	if err != nil {
		return nil, err
	}
	if _, err := cluster.New(o.threshold); err != nil {
		return nil, err
	}

	return &Deduper{
		opts:   o,
		hasher: h,
		logger: o.logger,
	}, nil
}

// Hasher returns the configured hasher.
func (d *Deduper) Hasher() *hasher.Hasher { return d.hasher }

// Run scans root, fingerprints every supported image and clusters the
// fingerprints. Files that cannot be read or decoded are logged, counted
// in Result.Skipped and left out of the clustering input; they never
// abort the run. Group membership and ordering are deterministic for a
// fixed scan order and threshold.
func (d *Deduper) Run(ctx context.Context, root string) (*Result, error) {
	log := d.logger.WithStage("scan")
	paths, err := scanner.Scan(root, d.opts.recursive)
	if err != nil {
		return nil, err
	}
	log.Info("scan complete", "root", root, "files", len(paths))

	images, skipped, err := d.hashAll(ctx, paths)
	if err != nil {
		return nil, err
	}

	items := make([]cluster.Item[Image], len(images))
	for i, img := range images {
		items[i] = cluster.Item[Image]{Data: img, Fingerprint: img.Fingerprint}
	}

	clustered, err := cluster.Cluster(ctx, items, d.opts.threshold,
		cluster.WithWorkers(d.opts.clusterWorkers))
	if err != nil {
		return nil, err
	}

	groups := make([]Group, len(clustered))
	for i, cg := range clustered {
		g := Group{ID: cg.ID, Reference: cg.Reference.Data}
		g.Images = make([]Image, len(cg.Members))
		for j, m := range cg.Members {
			g.Images[j] = m.Data
		}
		groups[i] = g
	}

	d.logger.WithStage("cluster").Info("clustering complete",
		"images", len(images),
		"threshold", d.opts.threshold,
		"groups", len(groups),
	)

	return &Result{
		Scanned: len(paths),
		Hashed:  len(images),
		Skipped: skipped,
		Groups:  groups,
	}, nil
}

type hashResult struct {
	fp  fingerprint.Fingerprint
	err error
}

// hashAll fingerprints paths on a fixed worker pool, preserving input
// order in the output regardless of completion order.
func (d *Deduper) hashAll(ctx context.Context, paths []string) ([]Image, int, error) {
	log := d.logger.WithStage("hash")

	var cache *hasher.Cache
	if d.opts.cachePath != "" {
		var err error
		cache, err = hasher.OpenCache(d.opts.cachePath, d.opts.codec)
		if err != nil {
			return nil, 0, err
		}
	}

	total := len(paths)
	if d.opts.progress != nil {
		d.opts.progress(0, total)
	}

	wp := pool.New(d.opts.hashWorkers)
	defer wp.Close()

	results := make([]hashResult, total)
	var (
		wg   sync.WaitGroup
		done atomic.Int64
	)
	for i, path := range paths {
		i, path := i, path
		wg.Add(1)
		err := wp.Submit(ctx, func() {
			defer wg.Done()
			fp, err := d.hashOne(path, cache)
			results[i] = hashResult{fp: fp, err: err}
			if d.opts.progress != nil {
				d.opts.progress(int(done.Add(1)), total)
			}
		})
		if err != nil {
			wg.Done()
			wg.Wait()
			return nil, 0, err
		}
	}
	wg.Wait()

	if cache != nil {
		if err := cache.Save(); err != nil {
			log.Warn("cache save failed", "error", err)
		}
	}

	images := make([]Image, 0, total)
	skipped := 0
	for i, r := range results {
		if r.err != nil {
			log.Warn("skipping image", "path", paths[i], "error", r.err)
			skipped++
			continue
		}
		images = append(images, Image{Path: paths[i], Fingerprint: r.fp})
	}
	return images, skipped, nil
}

func (d *Deduper) hashOne(path string, cache *hasher.Cache) (fingerprint.Fingerprint, error) {
	if cache == nil {
		return d.hasher.HashFile(path)
	}

	info, err := os.Stat(path)
	if err != nil {
		return fingerprint.Fingerprint{}, err
	}
	if fp, ok := cache.Get(path, info, d.hasher.Type(), d.hasher.Size()); ok {
		return fp, nil
	}

	fp, err := d.hasher.HashFile(path)
	if err != nil {
		return fingerprint.Fingerprint{}, err
	}
	cache.Put(path, info, d.hasher.Type(), d.hasher.Size(), fp)
	return fp, nil
}
