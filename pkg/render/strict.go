package render

import (
	"errors"
	"fmt"

	"github.com/aymerick/raymond"
	"github.com/aymerick/raymond/ast"
)

var builtinHelpers = map[string]bool{
	"if": true, "unless": true, "each": true, "with": true,
	"log": true, "lookup": true, "equal": true,
}

type missingError struct {
	path string
}

func (e *missingError) Error() string {
	return fmt.Sprintf("missing variable %q", e.path)
}

type frame struct {
	ctx    any
	params map[string]any
}

// checker walks a parsed template against the context it will be executed
// with and reports the first path the context does not provide. It follows
// the branches and iterations the context selects: a path under a false
// #if, or inside an #each over an empty list, is never required. Paths used
// as #if and #unless conditions may be absent and count as false.
type checker struct {
	helpers map[string]any
	stack   []frame
}

func (c *checker) isHelper(name string) bool {
	if builtinHelpers[name] {
		return true
	}
	_, ok := c.helpers[name]
	return ok
}

func (c *checker) program(p *ast.Program) error {
	if p == nil {
		return nil
	}
	for _, n := range p.Body {
		if err := c.node(n); err != nil {
			return err
		}
	}
	return nil
}

func (c *checker) node(n ast.Node) error {
	switch n := n.(type) {
	case *ast.MustacheStatement:
		return c.expression(n.Expression)
	case *ast.BlockStatement:
		return c.block(n)
	case *ast.PartialStatement:
		return errors.New("partials are not supported")
	}
	return nil
}

func (c *checker) expression(e *ast.Expression) error {
	name := helperName(e)
	if name != "" && c.isHelper(name) {
		return c.arguments(e)
	}
	if len(e.Params) > 0 || e.Hash != nil {
		return fmt.Errorf("unknown helper %q", name)
	}
	return c.value(e.Path)
}

func (c *checker) arguments(e *ast.Expression) error {
	for _, p := range e.Params {
		if err := c.value(p); err != nil {
			return err
		}
	}
	if e.Hash != nil {
		for _, pair := range e.Hash.Pairs {
			if err := c.value(pair.Val); err != nil {
				return err
			}
		}
	}
	return nil
}

func (c *checker) value(n ast.Node) error {
	switch n := n.(type) {
	case *ast.PathExpression:
		_, err := c.resolve(n)
		return err
	case *ast.SubExpression:
		return c.expression(n.Expression)
	}
	return nil
}

func (c *checker) block(b *ast.BlockStatement) error {
	e := b.Expression
	name := helperName(e)

	switch name {
	case "if", "unless":
		if len(e.Params) != 1 {
			return fmt.Errorf("#%s takes exactly one argument", name)
		}
		path, ok := e.Params[0].(*ast.PathExpression)
		if !ok || path.Data {
			if err := c.value(e.Params[0]); err != nil {
				return err
			}
			return c.both(b)
		}
		v, err := c.resolve(path)
		var missing *missingError
		if errors.As(err, &missing) {
			v, err = nil, nil
		}
		if err != nil {
			return err
		}
		if raymond.IsTrue(v) != (name == "unless") {
			return c.program(b.Program)
		}
		return c.program(b.Inverse)

	case "each", "with":
		if len(e.Params) != 1 {
			return fmt.Errorf("#%s takes exactly one argument", name)
		}
		v, err := c.argument(e.Params[0])
		if err != nil {
			return err
		}
		if name == "each" {
			return c.iterate(b, v)
		}
		if !raymond.IsTrue(v) {
			return c.program(b.Inverse)
		}
		return c.scoped(b.Program, v, nil)
	}

	if name != "" && c.isHelper(name) {
		if err := c.arguments(e); err != nil {
			return err
		}
		return c.both(b)
	}
	if len(e.Params) > 0 || e.Hash != nil {
		return fmt.Errorf("unknown helper %q", name)
	}

	// A section named by a path: lists iterate, maps change the context,
	// everything else acts as a condition.
	v, err := c.argument(e.Path)
	if err != nil {
		return err
	}
	switch v.(type) {
	case []any:
		return c.iterate(b, v)
	case map[string]any:
		return c.scoped(b.Program, v, nil)
	}
	if raymond.IsTrue(v) {
		return c.program(b.Program)
	}
	return c.program(b.Inverse)
}

func (c *checker) both(b *ast.BlockStatement) error {
	if err := c.program(b.Program); err != nil {
		return err
	}
	return c.program(b.Inverse)
}

func (c *checker) iterate(b *ast.BlockStatement, v any) error {
	switch v := v.(type) {
	case []any:
		if len(v) == 0 {
			return c.program(b.Inverse)
		}
		for i, item := range v {
			if err := c.scoped(b.Program, item, i); err != nil {
				return err
			}
		}
		return nil
	case map[string]any:
		if len(v) == 0 {
			return c.program(b.Inverse)
		}
		for key, item := range v {
			if err := c.scoped(b.Program, item, key); err != nil {
				return err
			}
		}
		return nil
	}
	return c.program(b.Inverse)
}

// argument resolves a path or checks any other expression. Values that are
// only known at execution time come back as nil.
func (c *checker) argument(n ast.Node) (any, error) {
	if path, ok := n.(*ast.PathExpression); ok {
		return c.resolve(path)
	}
	return nil, c.value(n)
}

func (c *checker) scoped(p *ast.Program, ctx, key any) error {
	f := frame{ctx: ctx}
	if p != nil && len(p.BlockParams) > 0 {
		f.params = map[string]any{p.BlockParams[0]: ctx}
		if len(p.BlockParams) > 1 {
			f.params[p.BlockParams[1]] = key
		}
	}

	c.stack = append(c.stack, f)
	defer func() { c.stack = c.stack[:len(c.stack)-1] }()
	return c.program(p)
}

func (c *checker) resolve(p *ast.PathExpression) (any, error) {
	if p.Data {
		return nil, nil
	}
	if p.Depth >= len(c.stack) {
		return nil, &missingError{path: p.Original}
	}

	parts := p.Parts
	if p.Depth == 0 && !p.Scoped && len(parts) > 0 {
		for i := len(c.stack) - 1; i >= 0; i-- {
			if v, ok := c.stack[i].params[parts[0]]; ok {
				return lookup(v, parts[1:], p.Original)
			}
		}
	}
	return lookup(c.stack[len(c.stack)-1-p.Depth].ctx, parts, p.Original)
}

func lookup(v any, parts []string, original string) (any, error) {
	for _, part := range parts {
		m, ok := v.(map[string]any)
		if !ok {
			return nil, &missingError{path: original}
		}
		if v, ok = m[part]; !ok {
			return nil, &missingError{path: original}
		}
	}
	return v, nil
}

// helperName returns the name an expression would call as a helper, or ""
// when its path cannot name one.
func helperName(e *ast.Expression) string {
	path, ok := e.Path.(*ast.PathExpression)
	if !ok || path.Data || path.Scoped || path.Depth > 0 || len(path.Parts) != 1 {
		return ""
	}
	return path.Parts[0]
}
