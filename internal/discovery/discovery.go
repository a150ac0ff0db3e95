// Package discovery scans the filesystem for video files to track.
package discovery

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/vidmend/vidmend/internal/errors"
	"github.com/vidmend/vidmend/internal/util"
)

// Scan returns the video files under dir, sorted by path. With recursive
// set it descends into subdirectories, otherwise only the top level is
// considered. Hidden files and directories are skipped. An empty result is
// a NoFilesFound error.
func Scan(dir string, recursive bool) ([]string, error) {
	if !util.DirectoryExists(dir) {
		return nil, errors.NewNotFoundError(dir)
	}

	var files []string
	var err error
	if recursive {
		files, err = scanRecursive(dir)
	} else {
		files, err = scanFlat(dir)
	}
	if err != nil {
		return nil, errors.NewIOError("could not scan "+dir, err)
	}

	if len(files) == 0 {
		return nil, errors.NewNoFilesFoundError(dir)
	}
	sort.Strings(files)
	return files, nil
}

func scanFlat(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, entry := range entries {
		if entry.IsDir() || hidden(entry.Name()) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if util.IsVideoFile(path) {
			files = append(files, path)
		}
	}
	return files, nil
}

func scanRecursive(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if hidden(d.Name()) && path != dir {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.IsDir() && util.IsVideoFile(path) {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

func hidden(name string) bool {
	return strings.HasPrefix(name, ".")
}
