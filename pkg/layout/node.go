// Package layout owns the destination directory scheme: the canonical
// plot/date scaffold and the per-sensor level0_raw target paths.
package layout

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// Node describes one level of a directory template. The three variants
// keep the scaffold declarative: a Leaf is an empty directory, a List is a
// set of sibling empty directories, and a Tree nests named children.
type Node interface {
	// materialize creates the node's directories under parent
	materialize(parent string) error
}

// Leaf is an empty directory
type Leaf struct{}

func (Leaf) materialize(parent string) error {
	return mkdir(parent)
}

// List is a set of sibling empty directories
type List struct {
	Names []string
}

func (l List) materialize(parent string) error {
	if err := mkdir(parent); err != nil {
		return err
	}
	for _, name := range l.Names {
		if err := mkdir(filepath.Join(parent, name)); err != nil {
			return err
		}
	}
	return nil
}

// Tree nests named child nodes
type Tree struct {
	Children map[string]Node
}

func (t Tree) materialize(parent string) error {
	if err := mkdir(parent); err != nil {
		return err
	}
	// Deterministic creation order keeps logs and failures reproducible
	names := make([]string, 0, len(t.Children))
	for name := range t.Children {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := t.Children[name].materialize(filepath.Join(parent, name)); err != nil {
			return err
		}
	}
	return nil
}

// Materialize creates the directory template rooted at root. Existing
// directories are left untouched, so it is safe to re-run over a
// partially built tree.
func Materialize(root string, node Node) error {
	return node.materialize(root)
}

func mkdir(path string) error {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", path, err)
	}
	return nil
}
