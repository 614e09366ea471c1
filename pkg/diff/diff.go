// Package diff compares a primary data tree against its backup by relative
// path and size. It deliberately avoids content hashing: discrepancies it
// finds are real, while a clean result means "same shape and sizes", which
// is the contract the backup verification step relies on.
package diff

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"sync"
)

// Discrepancy tags applied to affected top-level folders
const (
	TagMissing  = "Missing in backup"
	TagExtra    = "Extra in backup"
	TagMismatch = "Size mismatch"
)

// SizeMismatch is a file present in both trees with different sizes
type SizeMismatch struct {
	// Path is the slash-separated path relative to both roots
	Path string

	// PrimarySize is the file's size in the primary tree
	PrimarySize int64

	// BackupSize is the file's size in the backup tree
	BackupSize int64
}

// Result is the outcome of comparing two trees. All slices are sorted by
// path, so identical inputs always produce identical results.
type Result struct {
	// OnlyInPrimary lists relative paths present only in the primary tree
	OnlyInPrimary []string

	// OnlyInBackup lists relative paths present only in the backup tree
	OnlyInBackup []string

	// SizeMismatches lists files whose sizes differ between the trees
	SizeMismatches []SizeMismatch
}

// Identical reports whether the trees match by path and size
func (r Result) Identical() bool {
	return len(r.OnlyInPrimary) == 0 &&
		len(r.OnlyInBackup) == 0 &&
		len(r.SizeMismatches) == 0
}

// AffectedTopFolders maps each top-level folder touched by a discrepancy
// to the sorted set of tags describing what is wrong beneath it.
func (r Result) AffectedTopFolders() map[string][]string {
	tags := make(map[string]map[string]struct{})
	mark := func(relPath, tag string) {
		top := topSegment(relPath)
		if tags[top] == nil {
			tags[top] = make(map[string]struct{})
		}
		tags[top][tag] = struct{}{}
	}

	for _, p := range r.OnlyInPrimary {
		mark(p, TagMissing)
	}
	for _, p := range r.OnlyInBackup {
		mark(p, TagExtra)
	}
	for _, m := range r.SizeMismatches {
		mark(m.Path, TagMismatch)
	}

	out := make(map[string][]string, len(tags))
	for top, set := range tags {
		list := make([]string, 0, len(set))
		for tag := range set {
			list = append(list, tag)
		}
		sort.Strings(list)
		out[top] = list
	}
	return out
}

func topSegment(relPath string) string {
	for i := 0; i < len(relPath); i++ {
		if relPath[i] == '/' {
			return relPath[:i]
		}
	}
	return relPath
}

// Differ compares directory trees
type Differ struct{}

// New creates a tree differ
func New() *Differ {
	return &Differ{}
}

// Diff walks both trees and reports their differences. The walks run
// concurrently; the merge is sequential and deterministic.
func (d *Differ) Diff(ctx context.Context, primaryRoot, backupRoot string) (Result, error) {
	var (
		wg         sync.WaitGroup
		primary    map[string]int64
		backup     map[string]int64
		pErr, bErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		primary, pErr = walkSizes(ctx, primaryRoot)
	}()
	go func() {
		defer wg.Done()
		backup, bErr = walkSizes(ctx, backupRoot)
	}()
	wg.Wait()

	if pErr != nil {
		return Result{}, fmt.Errorf("failed to walk primary tree: %w", pErr)
	}
	if bErr != nil {
		return Result{}, fmt.Errorf("failed to walk backup tree: %w", bErr)
	}

	var result Result
	for path, size := range primary {
		backupSize, ok := backup[path]
		switch {
		case !ok:
			result.OnlyInPrimary = append(result.OnlyInPrimary, path)
		case backupSize != size:
			result.SizeMismatches = append(result.SizeMismatches, SizeMismatch{
				Path:        path,
				PrimarySize: size,
				BackupSize:  backupSize,
			})
		}
	}
	for path := range backup {
		if _, ok := primary[path]; !ok {
			result.OnlyInBackup = append(result.OnlyInBackup, path)
		}
	}

	sort.Strings(result.OnlyInPrimary)
	sort.Strings(result.OnlyInBackup)
	sort.Slice(result.SizeMismatches, func(i, j int) bool {
		return result.SizeMismatches[i].Path < result.SizeMismatches[j].Path
	})

	return result, nil
}

// walkSizes maps every regular file under root to its size, keyed by
// slash-separated relative path
func walkSizes(ctx context.Context, root string) (map[string]int64, error) {
	sizes := make(map[string]int64)
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if entry.IsDir() || !entry.Type().IsRegular() {
			return nil
		}
		info, err := entry.Info()
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		sizes[filepath.ToSlash(rel)] = info.Size()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sizes, nil
}
