// Package actions executes the destructive half of a dedup run: moving or
// deleting the non-kept members of each duplicate group. Which member
// survives is a consumer policy layered on the groups the clusterer
// already identified; the core never makes that choice.
package actions

import (
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/hupe1980/imagedup/report"
)

// KeepStrategy selects which member of a group stays in place.
type KeepStrategy string

// Supported keep strategies.
const (
	// KeepFirst keeps the group's reference (first member in order).
	KeepFirst KeepStrategy = "first"
	// KeepLargest keeps the member with the largest file size.
	KeepLargest KeepStrategy = "largest"
)

// String returns the flag-level name of the strategy.
func (s KeepStrategy) String() string { return string(s) }

// ParseKeepStrategy parses a keep strategy name. Unrecognized values are
// rejected here, before any file is touched.
func ParseKeepStrategy(s string) (KeepStrategy, error) {
	switch KeepStrategy(s) {
	case KeepFirst, KeepLargest:
		return KeepStrategy(s), nil
	default:
		return "", &ErrUnknownKeepStrategy{Value: s}
	}
}

// keeper returns the path that survives in the group. With KeepLargest,
// members whose size cannot be determined are treated as size 0; if
// nothing can be stat'ed the reference wins.
func keeper(r report.Record, strategy KeepStrategy) string {
	if strategy != KeepLargest {
		return r.Reference
	}

	keep := r.Reference
	var best int64 = -1
	for _, img := range r.Images {
		info, err := os.Stat(img)
		if err != nil {
			continue
		}
		if info.Size() > best {
			best = info.Size()
			keep = img
		}
	}
	return keep
}

// Move relocates every non-kept member of each group into destRoot,
// creating it if needed. Name collisions in destRoot get a numeric
// `_dupN` suffix before the extension. Already-missing members are
// skipped; per-file move failures are logged and do not abort the run.
// It returns the number of files moved.
func Move(records []report.Record, destRoot string, strategy KeepStrategy, logger *slog.Logger) (int, error) {
	if _, err := ParseKeepStrategy(string(strategy)); err != nil {
		return 0, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(destRoot, 0o755); err != nil {
		return 0, fmt.Errorf("actions: create destination %s: %w", destRoot, err)
	}

	moved := 0
	for _, r := range records {
		if len(r.Images) < 2 {
			continue
		}
		keep := keeper(r, strategy)
		logger.Info("keeping", "group", r.GroupID, "path", keep)

		for _, img := range r.Images {
			if img == keep {
				continue
			}
			if _, err := os.Stat(img); err != nil {
				logger.Warn("skipping missing file", "path", img)
				continue
			}
			dest := collisionFreePath(destRoot, filepath.Base(img))
			if err := moveFile(img, dest); err != nil {
				logger.Warn("move failed", "path", img, "error", err)
				continue
			}
			logger.Info("moved", "from", img, "to", dest)
			moved++
		}
	}
	return moved, nil
}

// Delete removes every non-kept member of each group. Missing members are
// skipped; per-file failures are logged and do not abort the run. It
// returns the number of files deleted.
func Delete(records []report.Record, strategy KeepStrategy, logger *slog.Logger) (int, error) {
	if _, err := ParseKeepStrategy(string(strategy)); err != nil {
		return 0, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	deleted := 0
	for _, r := range records {
		if len(r.Images) < 2 {
			continue
		}
		keep := keeper(r, strategy)
		logger.Info("keeping", "group", r.GroupID, "path", keep)

		for _, img := range r.Images {
			if img == keep {
				continue
			}
			if err := os.Remove(img); err != nil {
				if !os.IsNotExist(err) {
					logger.Warn("delete failed", "path", img, "error", err)
				}
				continue
			}
			logger.Info("deleted", "path", img)
			deleted++
		}
	}
	return deleted, nil
}

// collisionFreePath returns destRoot/name, appending _dup1, _dup2, ...
// before the extension until the name is free.
func collisionFreePath(destRoot, name string) string {
	dest := filepath.Join(destRoot, name)
	if _, err := os.Stat(dest); err != nil {
		return dest
	}

	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	for i := 1; ; i++ {
		dest = filepath.Join(destRoot, fmt.Sprintf("%s_dup%d%s", stem, i, ext))
		if _, err := os.Stat(dest); err != nil {
			return dest
		}
	}
}

// moveFile renames src to dest, falling back to copy+remove when the
// rename crosses devices.
func moveFile(src, dest string) error {
	if err := os.Rename(src, dest); err == nil {
		return nil
	}
	if err := copyFile(src, dest); err != nil {
		return err
	}
	return os.Remove(src)
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}
	perm := info.Mode() & fs.ModePerm

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dest)
		return err
	}
	return out.Close()
}
