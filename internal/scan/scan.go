// Package scan discovers candidate ROM files below a directory.
package scan

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Digital-Shane/rom-tidy/internal/core"
	"github.com/Digital-Shane/rom-tidy/internal/rom"
	"github.com/Digital-Shane/treeview"
)

const (
	// MaxDepth bounds recursion. ROM sets are rarely more than a few folders deep.
	MaxDepth = 16

	// TraversalCap bounds the number of visited entries.
	TraversalCap = 2000000
)

type treeBuilderFunc func(context.Context, string, bool, ...treeview.Option[treeview.FileInfo]) (*treeview.Tree[treeview.FileInfo], error)

var treeBuilder treeBuilderFunc = treeview.NewTreeFromFileSystem

// Filter keeps directories so traversal can descend, and files that look like
// ROMs: a name with an extension that is neither hidden nor OS metadata.
// Hidden directories are skipped entirely.
func Filter(fi treeview.FileInfo) bool {
	name := fi.Name()
	if strings.HasPrefix(name, ".") {
		return false
	}
	if fi.IsDir() {
		return true
	}
	if !fi.FileInfo.Mode().IsRegular() || core.IsMetaFile(name) {
		return false
	}
	return rom.StripExtension(name) != name
}

// RootFilter wraps Filter so that root itself is always accepted, even when
// it is "." or a hidden directory named explicitly by the user.
func RootFilter(root string) func(treeview.FileInfo) bool {
	clean := filepath.Clean(root)
	return func(fi treeview.FileInfo) bool {
		if filepath.Clean(fi.Path) == clean {
			return true
		}
		return Filter(fi)
	}
}

// Options returns the treeview options used to index the ROM directory root.
func Options(root string) []treeview.Option[treeview.FileInfo] {
	return []treeview.Option[treeview.FileInfo]{
		treeview.WithMaxDepth[treeview.FileInfo](MaxDepth),
		treeview.WithTraversalCap[treeview.FileInfo](TraversalCap),
		treeview.WithFilterFunc(RootFilter(root)),
	}
}

// Collect returns the path of every file node in tree, in traversal order.
func Collect(ctx context.Context, tree *treeview.Tree[treeview.FileInfo]) ([]string, error) {
	if tree == nil {
		return nil, nil
	}
	var paths []string
	for info, err := range tree.All(ctx) {
		if err != nil {
			return paths, err
		}
		data := info.Node.Data()
		if data.IsDir() {
			continue
		}
		paths = append(paths, data.Path)
	}
	return paths, nil
}

// Files indexes dir without any UI and returns the candidate paths.
func Files(ctx context.Context, dir string) ([]string, error) {
	tree, err := treeBuilder(ctx, dir, false, Options(dir)...)
	if err != nil {
		return nil, fmt.Errorf("index %s: %w", dir, err)
	}
	return Collect(ctx, tree)
}
