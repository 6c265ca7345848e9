package analyzer

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/hhatto/gocloc"
)

// CountFiles returns the number of non-directory entries under root. A
// symlinked root is followed; symlinks to directories below it are neither
// followed nor counted. Paths relative to
// root that match one of the exclude patterns are skipped; an excluded
// directory is skipped entirely. Unreadable subdirectories are ignored.
func CountFiles(root string, exclude []string) (int, error) {
	root, err := resolveRoot(root)
	if err != nil {
		return 0, err
	}

	count := 0
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			return nil
		}
		if path == root {
			return nil
		}

		excluded, err := matchExclude(root, path, exclude)
		if err != nil {
			return err
		}
		if d.IsDir() {
			if excluded {
				return filepath.SkipDir
			}
			return nil
		}
		if excluded {
			return nil
		}

		if d.Type()&fs.ModeSymlink != 0 {
			if info, err := os.Stat(path); err == nil && info.IsDir() {
				return nil
			}
		}
		count++
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to scan %s: %w", root, err)
	}
	return count, nil
}

// CountLines returns the number of code lines under root as classified by
// gocloc, skipping files that match an exclude pattern.
func CountLines(root string, exclude []string) (int, error) {
	root, err := resolveRoot(root)
	if err != nil {
		return 0, err
	}

	clocOpts := gocloc.NewClocOptions()
	languages := gocloc.NewDefinedLanguages()
	processor := gocloc.NewProcessor(languages, clocOpts)

	result, err := processor.Analyze([]string{root})
	if err != nil {
		return 0, fmt.Errorf("failed to count lines under %s: %w", root, err)
	}

	sum := 0
	for _, file := range result.Files {
		excluded, err := matchExclude(root, file.Name, exclude)
		if err != nil {
			return 0, err
		}
		if excluded {
			continue
		}
		sum += int(file.Code)
	}
	return sum, nil
}

// resolveRoot follows symlinks in root so the walk starts inside the target
// directory rather than at the link itself.
func resolveRoot(root string) (string, error) {
	resolved, err := filepath.EvalSymlinks(root)
	if err != nil {
		return "", fmt.Errorf("failed to scan %s: %w", root, err)
	}
	return resolved, nil
}

func matchExclude(root, path string, patterns []string) (bool, error) {
	if len(patterns) == 0 {
		return false, nil
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false, err
	}
	rel = filepath.ToSlash(rel)
	for _, pattern := range patterns {
		matched, err := doublestar.Match(pattern, rel)
		if err != nil {
			return false, fmt.Errorf("malformed exclude pattern %s", pattern)
		}
		if matched {
			return true, nil
		}
	}
	return false, nil
}
