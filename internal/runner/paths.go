package runner

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/cockroachdb/errors"

	"github.com/styleguard/styleguard/internal/lang"
)

// ErrUnsupportedFile is returned when an explicitly named file has an
// extension no adapter handles.
var ErrUnsupportedFile = errors.New("unsupported file type")

// ErrNoFiles is returned when path expansion finds nothing to check.
var ErrNoFiles = errors.New("no files matched")

// ExpandPaths resolves the CLI arguments to a sorted, deduplicated file
// list. Each argument is a file, a directory (walked recursively for
// supported extensions) or a doublestar glob pattern. A named file with an
// unsupported extension is an error; unsupported files inside directories
// and glob matches are silently skipped.
func ExpandPaths(args []string) ([]string, error) {
	seen := make(map[string]bool)

	var files []string

	add := func(path string) {
		path = filepath.Clean(path)
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	for _, arg := range args {
		switch {
		case isGlobPattern(arg):
			matches, err := doublestar.FilepathGlob(arg)
			if err != nil {
				return nil, errors.Wrapf(err, "bad glob pattern %q", arg)
			}

			for _, m := range matches {
				if supported(m) {
					add(m)
				}
			}

		default:
			info, err := os.Stat(arg)
			if err != nil {
				return nil, errors.Wrapf(err, "cannot access %s", arg)
			}

			if info.IsDir() {
				if err := walkDir(arg, add); err != nil {
					return nil, err
				}

				continue
			}

			if !supported(arg) {
				return nil, errors.Wrapf(ErrUnsupportedFile, "%s", arg)
			}

			add(arg)
		}
	}

	if len(files) == 0 {
		return nil, ErrNoFiles
	}

	sort.Strings(files)

	return files, nil
}

func walkDir(root string, add func(string)) error {
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			// Skip hidden directories and common dependency trees.
			name := d.Name()
			if path != root && (strings.HasPrefix(name, ".") || name == "node_modules" || name == "__pycache__") {
				return fs.SkipDir
			}

			return nil
		}

		if supported(path) {
			add(path)
		}

		return nil
	})

	return errors.Wrapf(err, "walking %s", root)
}

func supported(path string) bool {
	_, ok := lang.FromPath(path)

	return ok
}

func isGlobPattern(arg string) bool {
	return strings.ContainsAny(arg, "*?[{")
}
