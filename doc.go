// Package imagedup finds duplicate and near-duplicate images in a folder
// by clustering perceptual fingerprints.
//
// Every image is reduced to a fixed-width fingerprint (ahash, phash,
// dhash or whash); fingerprints whose Hamming distance is within a
// threshold are transitively grouped, so a chain of near-duplicates ends
// up in one group even when its endpoints differ by more than the
// threshold.
//
// # Quick Start
//
//	ctx := context.Background()
//	d, err := imagedup.New(
//	    imagedup.WithRecursive(true),
//	    imagedup.WithThreshold(5),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := d.Run(ctx, "./photos")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	report.Print(os.Stdout, result.Records())
//
// The scan is an exhaustive all-pairs comparison, O(n²) in the number of
// hashed images. That is the deliberate design boundary: it is exact and
// fine up to a few thousand images; larger collections should be sharded
// before calling Run.
//
// Rendering, JSON serialization and the destructive move/delete actions
// live in the report and actions subpackages and operate on the records
// Run produces.
package imagedup
