package core

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Digital-Shane/rom-tidy/internal/log"
	"github.com/Digital-Shane/rom-tidy/internal/rom"
)

// metaFiles are OS artifacts that keep otherwise empty ROM folders alive.
var metaFiles = []string{"desktop.ini", "thumbs.db", ".ds_store"}

// IsMetaFile reports whether name is an OS metadata file. Matching ignores case.
func IsMetaFile(name string) bool {
	lower := strings.ToLower(name)
	for _, m := range metaFiles {
		if lower == m {
			return true
		}
	}
	return false
}

// DeleteFile removes a losing ROM and records the attempt in the session log.
func DeleteFile(path string) error {
	group := rom.Parse(path).Key()
	if err := os.Remove(path); err != nil {
		log.LogDelete(path, group, false, err)
		return err
	}
	log.LogDelete(path, group, true, nil)
	return nil
}

// DryRunRemove stands in for DeleteFile when nothing may be touched. The
// planned deletion is still logged so the session shows what a real run
// would have removed.
func DryRunRemove(path string) error {
	log.LogDelete(path, rom.Parse(path).Key(), true, nil)
	return nil
}

// RemoveMetaFiles deletes every meta file below root.
//
// Returns the number of files removed and contextual errors for the ones that
// could not be.
func RemoveMetaFiles(root string) (int, []error) {
	removed := 0
	errs := []error{}

	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			errs = append(errs, fmt.Errorf("walk %s: %w", path, err))
			return nil
		}
		if d.IsDir() || !IsMetaFile(d.Name()) {
			return nil
		}
		if err := os.Remove(path); err != nil {
			log.LogDelete(path, "", false, err)
			errs = append(errs, fmt.Errorf("remove %s: %w", path, err))
			return nil
		}
		log.LogDelete(path, "", true, nil)
		removed++
		return nil
	})
	if walkErr != nil {
		errs = append(errs, walkErr)
	}
	return removed, errs
}

// PruneEmptyDirs removes empty directories below root, deepest first, so a
// chain of nested empty folders disappears in one pass. root itself is never
// removed.
func PruneEmptyDirs(root string) (int, []error) {
	removed := 0
	errs := []error{}

	var dirs []string
	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			errs = append(errs, fmt.Errorf("walk %s: %w", path, err))
			return nil
		}
		if d.IsDir() && path != root {
			dirs = append(dirs, path)
		}
		return nil
	})
	if walkErr != nil {
		errs = append(errs, walkErr)
		return removed, errs
	}

	sort.Slice(dirs, func(i, j int) bool {
		di, dj := strings.Count(dirs[i], string(os.PathSeparator)), strings.Count(dirs[j], string(os.PathSeparator))
		if di != dj {
			return di > dj
		}
		return dirs[i] < dirs[j]
	})

	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			errs = append(errs, fmt.Errorf("read %s: %w", dir, err))
			continue
		}
		if len(entries) > 0 {
			continue
		}
		if err := os.Remove(dir); err != nil {
			log.LogRemoveDir(dir, false, err)
			errs = append(errs, fmt.Errorf("remove %s: %w", dir, err))
			continue
		}
		log.LogRemoveDir(dir, true, nil)
		removed++
	}
	return removed, errs
}
