// Command imagedup finds duplicate and near-duplicate images in a folder
// using perceptual hashing, optionally moving or deleting the non-kept
// members of each group.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/schollz/progressbar/v3"

	"github.com/hupe1980/imagedup"
	"github.com/hupe1980/imagedup/actions"
	"github.com/hupe1980/imagedup/hasher"
	"github.com/hupe1980/imagedup/report"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		recursive    bool
		hashType     string
		hashSize     int
		threshold    int
		outputJSON   string
		moveTo       string
		deleteDupes  bool
		keepStrategy string
		workers      int
		cachePath    string
		verbose      bool
	)

	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(),
			"Usage: %s [flags] <folder>\n\nPhoto & screenshot duplicate cleaner using perceptual hashing.\n\nFlags:\n",
			os.Args[0])
		flag.PrintDefaults()
	}

	flag.BoolVar(&recursive, "r", false, "scan folders recursively")
	flag.BoolVar(&recursive, "recursive", false, "scan folders recursively")
	flag.StringVar(&hashType, "hash-type", "phash", "perceptual hash type: ahash, phash, dhash or whash")
	flag.IntVar(&hashSize, "hash-size", hasher.DefaultSize, "hash size; higher is more precise but slower")
	flag.IntVar(&threshold, "t", imagedup.DefaultThreshold, "max Hamming distance for near-duplicates")
	flag.IntVar(&threshold, "threshold", imagedup.DefaultThreshold, "max Hamming distance for near-duplicates")
	flag.StringVar(&outputJSON, "o", "", "optional path to save duplicate groups as JSON (.gz compresses)")
	flag.StringVar(&outputJSON, "output-json", "", "optional path to save duplicate groups as JSON (.gz compresses)")
	flag.StringVar(&moveTo, "move-duplicates-to", "", "optional folder where non-kept duplicates are moved")
	flag.BoolVar(&deleteDupes, "delete-duplicates", false, "delete non-kept duplicates outright")
	flag.StringVar(&keepStrategy, "keep-strategy", "first", "which image to keep per group: first or largest")
	flag.IntVar(&workers, "workers", 0, "hashing workers (0 = number of CPUs)")
	flag.StringVar(&cachePath, "cache", "", "optional fingerprint cache file")
	flag.BoolVar(&verbose, "v", false, "verbose logging")
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		return fmt.Errorf("expected exactly one folder argument")
	}
	root := flag.Arg(0)

	typ, err := hasher.ParseType(hashType)
	if err != nil {
		return err
	}
	keep, err := actions.ParseKeepStrategy(keepStrategy)
	if err != nil {
		return err
	}
	if moveTo != "" && deleteDupes {
		return fmt.Errorf("-move-duplicates-to and -delete-duplicates are mutually exclusive")
	}

	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	logger := imagedup.NewTextLogger(level)

	var (
		barMu sync.Mutex
		bar   *progressbar.ProgressBar
	)
	progress := func(done, total int) {
		barMu.Lock()
		defer barMu.Unlock()
		if bar == nil {
			bar = progressbar.NewOptions(total,
				progressbar.OptionSetDescription("hashing"),
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionClearOnFinish(),
			)
		}
		_ = bar.Set(done)
	}

	d, err := imagedup.New(
		imagedup.WithRecursive(recursive),
		imagedup.WithHashType(typ),
		imagedup.WithHashSize(hashSize),
		imagedup.WithThreshold(threshold),
		imagedup.WithHashWorkers(workers),
		imagedup.WithClusterWorkers(workers),
		imagedup.WithCachePath(cachePath),
		imagedup.WithLogger(logger),
		imagedup.WithProgress(progress),
	)
	if err != nil {
		return err
	}

	fmt.Printf("Scanning images in: %s\n", root)
	result, err := d.Run(context.Background(), root)
	if err != nil {
		return err
	}
	fmt.Printf("Hashed %d of %d image(s), skipped %d.\n\n", result.Hashed, result.Scanned, result.Skipped)

	records := result.Records()
	report.Print(os.Stdout, records)

	if outputJSON != "" && len(records) > 0 {
		if err := report.WriteJSON(outputJSON, records, nil); err != nil {
			return err
		}
		fmt.Printf("Saved groups to %s\n", outputJSON)
	}

	switch {
	case moveTo != "" && len(records) > 0:
		fmt.Println("\nMoving duplicates (non-kept images) ...")
		moved, err := actions.Move(records, moveTo, keep, logger.Logger)
		if err != nil {
			return err
		}
		fmt.Printf("Done. Moved %d file(s) to %s\n", moved, moveTo)
	case deleteDupes && len(records) > 0:
		fmt.Println("\nDeleting duplicates (non-kept images) ...")
		deleted, err := actions.Delete(records, keep, logger.Logger)
		if err != nil {
			return err
		}
		fmt.Printf("Done. Deleted %d file(s)\n", deleted)
	}

	return nil
}
