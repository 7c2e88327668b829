// Package fsutil provides file system utility functions.
package fsutil

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// FindFilesByExtension recursively searches the given root path for all files ending
// with one of the specified extensions. It returns a slice of their full paths in
// lexical order.
func FindFilesByExtension(rootPath string, extensions ...string) ([]string, error) {
	if len(extensions) == 0 {
		panic("at least one extension is required")
	}

	var files []string
	err := filepath.WalkDir(rootPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && hasExtension(d.Name(), extensions) {
			files = append(files, path)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	return files, nil
}

func hasExtension(name string, extensions []string) bool {
	return slices.ContainsFunc(extensions, func(ext string) bool {
		return strings.HasSuffix(name, ext)
	})
}

// IsGlob reports whether p contains glob metacharacters.
func IsGlob(p string) bool {
	return strings.ContainsAny(p, "*?[{")
}

// ExpandInputs resolves command-line inputs into a list of files. A
// directory is searched recursively for the given extensions; a glob,
// which may use `**`, is expanded and its matches treated the same way;
// a plain file is taken as given. Each file appears once, in the order it
// was first found.
func ExpandInputs(inputs []string, extensions ...string) ([]string, error) {
	var out []string
	seen := make(map[string]bool)
	add := func(paths ...string) {
		for _, p := range paths {
			p = filepath.Clean(p)
			if !seen[p] {
				seen[p] = true
				out = append(out, p)
			}
		}
	}

	for _, in := range inputs {
		matches := []string{in}
		if IsGlob(in) {
			var err error
			matches, err = doublestar.FilepathGlob(in)
			if err != nil {
				return nil, fmt.Errorf("invalid pattern %q: %w", in, err)
			}
			if len(matches) == 0 {
				return nil, fmt.Errorf("pattern %q matched no files", in)
			}
		}

		for _, m := range matches {
			info, err := os.Stat(m)
			if err != nil {
				return nil, err
			}
			if !info.IsDir() {
				if IsGlob(in) && !hasExtension(m, extensions) {
					continue
				}
				add(m)
				continue
			}
			files, err := FindFilesByExtension(m, extensions...)
			if err != nil {
				return nil, err
			}
			add(files...)
		}
	}
	return out, nil
}
