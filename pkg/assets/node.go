// Package assets models the template trees embedded in the binary.
//
// A tree is a snapshot of a directory hierarchy. Directory nodes hold their
// children in name order; file nodes hold their bytes, read lazily from the
// backing fs.FS. Trees are never mutated after Load returns.
package assets

import (
	"fmt"
	"io/fs"
	"path"
)

// Node is either a file or a directory in an asset tree.
type Node struct {
	// Path is slash-separated and relative to the tree root. The root itself
	// has an empty path.
	Path     string
	Dir      bool
	Children []*Node

	data []byte
	fsys fs.FS
	src  string
}

// File returns a file node holding data.
func File(p string, data []byte) *Node {
	return &Node{Path: p, data: data}
}

// Directory returns a directory node with the given children.
func Directory(p string, children ...*Node) *Node {
	return &Node{Path: p, Dir: true, Children: children}
}

// Name is the last path element.
func (n *Node) Name() string {
	if n.Path == "" {
		return ""
	}
	return path.Base(n.Path)
}

// Contents returns the bytes of a file node.
func (n *Node) Contents() ([]byte, error) {
	if n.Dir {
		return nil, fmt.Errorf("%s is a directory", n.Path)
	}
	if n.fsys == nil {
		return n.data, nil
	}
	return fs.ReadFile(n.fsys, n.src)
}

// Walk calls fn for every node below n, depth first, parents before children.
func (n *Node) Walk(fn func(*Node) error) error {
	for _, child := range n.Children {
		if err := fn(child); err != nil {
			return err
		}
		if child.Dir {
			if err := child.Walk(fn); err != nil {
				return err
			}
		}
	}
	return nil
}

// Load snapshots the directory root of fsys. File contents are read when
// Contents is called.
func Load(fsys fs.FS, root string) (*Node, error) {
	info, err := fs.Stat(fsys, root)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", root)
	}

	tree := Directory("")
	if err := loadChildren(fsys, root, tree); err != nil {
		return nil, err
	}
	return tree, nil
}

func loadChildren(fsys fs.FS, src string, parent *Node) error {
	entries, err := fs.ReadDir(fsys, src)
	if err != nil {
		return fmt.Errorf("reading directory %s: %w", src, err)
	}

	for _, entry := range entries {
		childSrc := path.Join(src, entry.Name())
		childPath := path.Join(parent.Path, entry.Name())

		if entry.IsDir() {
			dir := Directory(childPath)
			if err := loadChildren(fsys, childSrc, dir); err != nil {
				return err
			}
			parent.Children = append(parent.Children, dir)
			continue
		}

		parent.Children = append(parent.Children, &Node{Path: childPath, fsys: fsys, src: childSrc})
	}
	return nil
}
