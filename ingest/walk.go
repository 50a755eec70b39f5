package ingest

import (
	"fmt"
	"os"
	"path/filepath"
)

// collectFiles lists every regular file under dir, depth first with
// directory entries in name order, so the file list is deterministic across
// runs. Symlinks are resolved: a link to a directory is descended into, a
// link to a file is listed.
func collectFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("ingest: read dir %s: %w", dir, err)
	}

	var files []string
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("ingest: stat %s: %w", path, err)
		}
		if info.IsDir() {
			sub, err := collectFiles(path)
			if err != nil {
				return nil, err
			}
			files = append(files, sub...)
		} else {
			files = append(files, path)
		}
	}
	return files, nil
}
