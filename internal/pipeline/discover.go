package pipeline

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// Tabular file extensions (lowercase, with leading dot).
var tableExtensions = map[string]bool{
	".csv": true,
}

// Discover walks dataDir and returns the paths of all CSV files relative to
// it, slash separated (the form the label index uses), sorted
// lexicographically. Hidden files and directories are skipped.
func Discover(dataDir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dataDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path != dataDir && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if !tableExtensions[strings.ToLower(filepath.Ext(path))] {
			return nil
		}
		rel, err := filepath.Rel(dataDir, path)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}
