// Package scanner enumerates candidate image files under a root folder.
package scanner

import (
	"io/fs"
	"path/filepath"
	"strings"
)

// supportedExtensions is the fixed allow-list of image extensions,
// matched case-insensitively.
var supportedExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".bmp":  {},
	".gif":  {},
	".tiff": {},
	".webp": {},
}

// Supported reports whether path carries a supported image extension.
func Supported(path string) bool {
	_, ok := supportedExtensions[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Scan returns the supported image files under root in traversal order
// (WalkDir's lexical order on this platform; callers needing an order
// guarantee across platforms should sort the result). Without recursive,
// only root's direct children are considered. A missing or unreadable
// root is an error; unreadable subdirectories abort the walk as well, so
// a partial listing is never silently returned.
func Scan(root string, recursive bool) ([]string, error) {
	var paths []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if !recursive && path != root {
				return fs.SkipDir
			}
			return nil
		}
		if Supported(path) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return paths, nil
}
