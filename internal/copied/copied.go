// Package copied resolves per-file synchronization metadata for files copied
// from an upstream source tree.
//
// Tracked files carry two markers near the top of the file, typically inside
// a comment block:
//
//	COPIED FROM: chromium/src/ui/views/widget.cc
//	LAST SYNCHRONIZED: 4f2c1a9e
//
// COPIED FROM records where the file originated in the upstream tree.
// LAST SYNCHRONIZED records the upstream revision the file was last
// reconciled against. A file without both markers has no metadata and is
// treated as invalid by classification.
package copied

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

// Info is the copied-file metadata for one tracked path.
type Info struct {
	CopiedFromPath   string
	LastSynchronized string
}

// Resolver resolves copied-file metadata and persists last-synchronized
// markers. It is injected wherever metadata is needed; the file-marker
// implementation below is the production one.
type Resolver interface {
	// Resolve returns the metadata for path, or (nil, nil) when the file
	// carries no markers. repoRoot is available for implementations that
	// resolve origin paths relative to the checkout.
	Resolve(path, repoRoot string) (*Info, error)

	// SetLastSynchronized rewrites the on-disk marker for path.
	SetLastSynchronized(path, marker string) error
}

var (
	copiedFromPattern = regexp.MustCompile(`COPIED FROM:\s*(\S+)`)
	lastSyncPattern   = regexp.MustCompile(`(LAST SYNCHRONIZED:\s*)(\S+)`)
)

// Only the file header is scanned for markers.
const headerLimit = 4096

// FileResolver reads and rewrites markers embedded in tracked files.
type FileResolver struct{}

var _ Resolver = FileResolver{}

// Resolve parses the marker header of the file at path.
func (FileResolver) Resolve(path, repoRoot string) (*Info, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	header := data
	if len(header) > headerLimit {
		header = header[:headerLimit]
	}

	from := copiedFromPattern.FindSubmatch(header)
	sync := lastSyncPattern.FindSubmatch(header)
	if from == nil || sync == nil {
		return nil, nil
	}
	return &Info{
		CopiedFromPath:   NormalizePath(string(from[1])),
		LastSynchronized: string(sync[2]),
	}, nil
}

// SetLastSynchronized replaces the marker value in place, preserving the
// rest of the file byte for byte.
func (FileResolver) SetLastSynchronized(path, marker string) error {
	stat, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	loc := lastSyncPattern.FindSubmatchIndex(data)
	if loc == nil {
		return fmt.Errorf("%s: no LAST SYNCHRONIZED marker", path)
	}
	var buf []byte
	buf = append(buf, data[:loc[4]]...) // up to and including the label
	buf = append(buf, marker...)
	buf = append(buf, data[loc[5]:]...)
	if err := os.WriteFile(path, buf, stat.Mode().Perm()); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// NormalizePath converts a path to forward-slash form and trims whitespace.
func NormalizePath(path string) string {
	return strings.ReplaceAll(strings.TrimSpace(path), `\`, "/")
}
