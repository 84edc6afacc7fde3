// Package report renders duplicate groups for inspection and serializes
// them to JSON. Records carry a numeric group id, the full member list
// and the reference image; consumers deciding what to keep or delete
// build on the same records (see the actions package).
package report

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"

	"github.com/hupe1980/imagedup/codec"
)

// Record is the serializable form of one duplicate group.
type Record struct {
	GroupID   int      `json:"group_id"`
	Images    []string `json:"images"`
	Reference string   `json:"reference"`
}

// Print writes a human-readable group listing to w.
func Print(w io.Writer, records []Record) {
	if len(records) == 0 {
		fmt.Fprintln(w, "No duplicate or near-duplicate images found.")
		return
	}

	fmt.Fprintf(w, "Found %d duplicate/near-duplicate group(s):\n\n", len(records))
	for _, r := range records {
		fmt.Fprintf(w, "Group %d (%d images):\n", r.GroupID, len(r.Images))
		fmt.Fprintf(w, "  Reference: %s\n", r.Reference)
		for _, img := range r.Images {
			if img == r.Reference {
				continue
			}
			fmt.Fprintf(w, "    Similar: %s\n", img)
		}
		fmt.Fprintln(w)
	}
}

// WriteJSON writes the records as a JSON array to path using c (nil means
// codec.Default). A path ending in .gz is gzip-compressed.
func WriteJSON(path string, records []Record, c codec.Codec) error {
	if c == nil {
		c = codec.Default
	}

	data, err := c.Marshal(records)
	if err != nil {
		return fmt.Errorf("report: encode: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("report: create %s: %w", path, err)
	}

	if strings.HasSuffix(path, ".gz") {
		zw := gzip.NewWriter(f)
		if _, err := zw.Write(data); err != nil {
			f.Close()
			return fmt.Errorf("report: write %s: %w", path, err)
		}
		// Close flushes the gzip frame; a failure here means a truncated file.
		if err := zw.Close(); err != nil {
			f.Close()
			return fmt.Errorf("report: write %s: %w", path, err)
		}
	} else if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("report: write %s: %w", path, err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("report: close %s: %w", path, err)
	}
	return nil
}

// ReadJSON loads records previously written by WriteJSON, transparently
// handling .gz files.
func ReadJSON(path string, c codec.Codec) ([]Record, error) {
	if c == nil {
		c = codec.Default
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("report: open %s: %w", path, err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		zr, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("report: gzip %s: %w", path, err)
		}
		defer zr.Close()
		r = zr
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("report: read %s: %w", path, err)
	}

	var records []Record
	if err := c.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("report: decode %s: %w", path, err)
	}
	return records, nil
}
