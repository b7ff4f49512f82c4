// Package scan discovers the source files a descriptor applies to.
package scan

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/arthur-debert/assetcfg/pkg/errors"
	"github.com/arthur-debert/assetcfg/pkg/logging"
)

// Sources walks every watched directory below root and returns the files
// found as slash separated paths relative to root, sorted lexically. Hidden
// files and directories are skipped, as are watched directories that do not
// exist.
func Sources(ctx context.Context, root string, watched []string) ([]string, error) {
	logger := logging.GetLogger("scan")

	if root == "" {
		root = "."
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "cannot access project root %s", root).
			WithDetail("path", root)
	}
	if !info.IsDir() {
		return nil, errors.Newf(errors.ErrInvalidInput, "project root %s is not a directory", root).
			WithDetail("path", root)
	}

	seen := make(map[string]bool)
	var out []string

	for _, dir := range watched {
		base := filepath.Join(root, filepath.FromSlash(dir))
		if _, err := os.Stat(base); os.IsNotExist(err) {
			logger.Debug().Str("dir", dir).Msg("Watched directory does not exist")
			continue
		}

		err := filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return errors.Wrapf(err, errors.ErrFileAccess, "cannot read %s", path).
					WithDetail("path", path)
			}
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}

			if path != base && isHidden(d.Name()) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if d.IsDir() {
				return nil
			}

			rel, err := filepath.Rel(root, path)
			if err != nil {
				return errors.Wrap(err, errors.ErrInternal, "cannot relativise source path")
			}
			rel = filepath.ToSlash(rel)
			if !seen[rel] {
				seen[rel] = true
				out = append(out, rel)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	sort.Strings(out)

	logger.Debug().
		Str("root", root).
		Strs("watched", watched).
		Int("files", len(out)).
		Msg("Scanned sources")

	return out, nil
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}
