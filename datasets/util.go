package datasets

import (
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// Format identifies the serialization used inside an archive.
type Format int

const (
	// FormatAuto picks the format from the archive path.
	FormatAuto Format = iota
	// FormatPickle is a Python pickle of a 4-tuple of 3-tuples.
	FormatPickle
	// FormatGob is a gob-encoded Archive.
	FormatGob
)

// String implements fmt.Stringer.
func (f Format) String() string {
	switch f {
	case FormatAuto:
		return "auto"
	case FormatPickle:
		return "pickle"
	case FormatGob:
		return "gob"
	}
	return "unknown"
}

const gzipSuffix = ".gz"

func hasGzipSuffix(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), gzipSuffix)
}

// FormatFromPath picks the archive format from its suffix, ignoring a
// trailing ".gz". Anything that is not ".gob" is read as a pickle.
func FormatFromPath(path string) Format {
	p := strings.ToLower(path)
	p = strings.TrimSuffix(p, gzipSuffix)
	if filepath.Ext(p) == ".gob" {
		return FormatGob
	}
	return FormatPickle
}

// Auto-discovery helpers

var archivePatterns = []string{"*.pkl", "*.pkl.gz", "*.pickle", "*.gob", "*.gob.gz"}

// AutoFindArchive returns the first archive matching any of the patterns.
func AutoFindArchive(patterns []string) (string, error) {
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err == nil && len(matches) > 0 {
			return matches[0], nil
		}
	}
	return "", errors.New("no dataset archive found in common locations")
}

// FindArchiveInAssets finds a dataset archive in a specified directory
func FindArchiveInAssets(dir string) (string, error) {
	patterns := make([]string, len(archivePatterns))
	for i, p := range archivePatterns {
		patterns[i] = filepath.Join(dir, p)
	}
	path, err := AutoFindArchive(patterns)
	if err != nil {
		return "", errors.Errorf("no dataset archive found in %s", dir)
	}
	return path, nil
}
