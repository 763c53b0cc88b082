// Package scanner computes copied-file metadata for a set of tracked paths.
package scanner

import (
	"context"
	"os"
	"path/filepath"

	"github.com/intake-toolkit/willdo/internal/copied"
)

// Scan resolves metadata for every tracked path that exists on disk, keyed by
// the repo-relative path. Paths that are missing or unreadable simply have no
// entry; classification treats absence as invalid. The scan holds no state:
// running it twice against an unchanged tree yields the same mapping.
func Scan(ctx context.Context, resolver copied.Resolver, repoRoot string, paths []string) map[string]copied.Info {
	meta := make(map[string]copied.Info, len(paths))
	for _, rel := range paths {
		if ctx.Err() != nil {
			return meta
		}
		abs := filepath.Join(repoRoot, filepath.FromSlash(rel))
		if _, err := os.Stat(abs); err != nil {
			continue
		}
		info, err := resolver.Resolve(abs, repoRoot)
		if err != nil || info == nil {
			continue
		}
		meta[rel] = *info
	}
	return meta
}
