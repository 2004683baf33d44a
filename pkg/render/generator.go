package render

import (
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/pavlovdog/hyperindex/pkg/assets"
)

const (
	DefaultMarker = ".hbs"

	dirMode  = 0o755
	fileMode = 0o644
)

// GeneratedFile records one file written by the Generator.
type GeneratedFile struct {
	Path string // slash-separated, relative to the output directory
	Size int
}

// Generator mirrors asset trees onto disk.
type Generator struct {
	renderer *Renderer
	marker   string
}

// Option configures a Generator.
type Option func(*Generator)

// WithMarker sets the filename suffix that identifies templates.
func WithMarker(marker string) Option {
	return func(g *Generator) { g.marker = marker }
}

// NewGenerator creates a Generator. A nil renderer gets a default one.
func NewGenerator(renderer *Renderer, opts ...Option) *Generator {
	if renderer == nil {
		renderer = NewRenderer()
	}
	g := &Generator{renderer: renderer, marker: DefaultMarker}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// IsTemplate reports whether the node is a template file.
func (g *Generator) IsTemplate(n *assets.Node) bool {
	return !n.Dir && strings.HasSuffix(n.Path, g.marker)
}

// Generate renders every template file in tree against data and writes the
// result under outDir at the marker-stripped path. Other files are skipped.
// Files written before a failure stay on disk.
func (g *Generator) Generate(tree *assets.Node, data any, outDir string) ([]GeneratedFile, error) {
	var written []GeneratedFile

	err := tree.Walk(func(n *assets.Node) error {
		if !g.IsTemplate(n) {
			return nil
		}

		f, err := g.generateFile(n, data, outDir)
		if err != nil {
			return err
		}
		written = append(written, f)
		return nil
	})
	if err != nil {
		return written, err
	}

	slog.Debug("templates generated", "dir", outDir, "count", len(written))
	return written, nil
}

func (g *Generator) generateFile(n *assets.Node, data any, outDir string) (GeneratedFile, error) {
	if !utf8.ValidString(n.Path) {
		return GeneratedFile{}, &PathEncodingError{Path: n.Path, Reason: "not valid UTF-8"}
	}

	rel := strings.TrimSuffix(n.Path, g.marker)
	if rel == "" || strings.HasSuffix(rel, "/") {
		return GeneratedFile{}, &PathEncodingError{Path: n.Path, Reason: "empty file name after removing " + g.marker}
	}

	text, err := n.Contents()
	if err != nil {
		return GeneratedFile{}, &IOError{Op: "read", Path: n.Path, Err: err}
	}

	rendered, err := g.renderer.Render(n.Path, string(text), data)
	if err != nil {
		return GeneratedFile{}, err
	}

	target := safeJoin(outDir, rel)
	if err := writeFile(target, rendered); err != nil {
		return GeneratedFile{}, err
	}

	slog.Debug("template rendered", "template", n.Path, "output", target)
	return GeneratedFile{Path: relativeTo(outDir, target), Size: len(rendered)}, nil
}

// Copy writes every non-template file in tree that filter selects to outDir
// unchanged.
func (g *Generator) Copy(tree *assets.Node, outDir string, filter Filter) ([]GeneratedFile, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	var written []GeneratedFile
	err := tree.Walk(func(n *assets.Node) error {
		if n.Dir || g.IsTemplate(n) || !filter.Match(n.Path) {
			return nil
		}
		if !utf8.ValidString(n.Path) {
			return &PathEncodingError{Path: n.Path, Reason: "not valid UTF-8"}
		}

		data, err := n.Contents()
		if err != nil {
			return &IOError{Op: "read", Path: n.Path, Err: err}
		}

		target := safeJoin(outDir, n.Path)
		if err := writeFile(target, data); err != nil {
			return err
		}
		written = append(written, GeneratedFile{Path: relativeTo(outDir, target), Size: len(data)})
		return nil
	})
	if err != nil {
		return written, err
	}

	slog.Debug("static files copied", "dir", outDir, "count", len(written))
	return written, nil
}

// Materialize copies the static files of tree and then renders its templates.
func (g *Generator) Materialize(tree *assets.Node, data any, outDir string) ([]GeneratedFile, error) {
	copied, err := g.Copy(tree, outDir, Filter{})
	if err != nil {
		return copied, err
	}
	rendered, err := g.Generate(tree, data, outDir)
	return append(copied, rendered...), err
}

// safeJoin joins the slash-separated rel onto root. Rooting rel before
// cleaning drops any ".." that would climb above root.
func safeJoin(root, rel string) string {
	cleaned := path.Clean("/" + rel)
	return filepath.Join(root, filepath.FromSlash(cleaned))
}

func relativeTo(root, target string) string {
	rel, err := filepath.Rel(root, target)
	if err != nil {
		return filepath.ToSlash(target)
	}
	return filepath.ToSlash(rel)
}

func writeFile(target string, data []byte) error {
	dir := filepath.Dir(target)
	if err := os.MkdirAll(dir, dirMode); err != nil {
		return &IOError{Op: "create directory", Path: dir, Err: err}
	}
	if err := os.WriteFile(target, data, fileMode); err != nil {
		return &IOError{Op: "write", Path: target, Err: err}
	}
	return nil
}
