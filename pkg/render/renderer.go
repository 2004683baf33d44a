package render

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/Masterminds/sprig/v3"
	"github.com/aymerick/raymond"
	"github.com/aymerick/raymond/parser"
)

// ErrMissingVariable is wrapped by a RenderError whose template references
// a path the render context does not provide.
var ErrMissingVariable = errors.New("not defined in the render context")

// helperNames are the sprig string functions exposed as Handlebars helpers.
var helperNames = []string{"upper", "lower", "title", "trim", "camelcase", "snakecase", "kebabcase"}

// Renderer renders Handlebars template text strictly: a path missing from
// the data is an error, never an empty string. Output is not HTML-escaped.
type Renderer struct {
	helpers map[string]any
}

// NewRenderer creates a Renderer with a set of sprig string helpers.
func NewRenderer() *Renderer {
	return &Renderer{helpers: stringHelpers(helperNames)}
}

// Render executes text as a template named name against data.
func (r *Renderer) Render(name, text string, data any) ([]byte, error) {
	program, err := parser.Parse(text)
	if err != nil {
		return nil, &RenderError{Template: name, Err: err}
	}

	ctx := renderContext(data)
	c := &checker{helpers: r.helpers, stack: []frame{{ctx: ctx}}}
	if err := c.program(program); err != nil {
		var missing *missingError
		if errors.As(err, &missing) {
			return nil, &RenderError{Template: name, Variable: missing.path, Err: ErrMissingVariable}
		}
		return nil, &RenderError{Template: name, Err: err}
	}

	tpl, err := raymond.Parse(text)
	if err != nil {
		return nil, &RenderError{Template: name, Err: err}
	}
	tpl.RegisterHelpers(r.helpers)

	out, err := tpl.Exec(ctx)
	if err != nil {
		return nil, &RenderError{Template: name, Err: err}
	}
	return []byte(out), nil
}

func stringHelpers(names []string) map[string]any {
	funcs := sprig.GenericFuncMap()
	helpers := make(map[string]any, len(names))
	for _, name := range names {
		fn, ok := funcs[name].(func(string) string)
		if !ok {
			panic(fmt.Sprintf("sprig function %q is not a string function", name))
		}
		helpers[name] = func(v any) raymond.SafeString {
			return raymond.SafeString(fn(raymond.Str(v)))
		}
	}
	return helpers
}

// renderContext converts data into maps, slices and scalars. Strings become
// raymond.SafeString so the engine writes them without HTML escaping. Struct
// fields are keyed by their Go name.
func renderContext(data any) any {
	if data == nil {
		return map[string]any{}
	}
	return plain(reflect.ValueOf(data))
}

func plain(v reflect.Value) any {
	if !v.IsValid() {
		return nil
	}

	switch v.Kind() {
	case reflect.Pointer, reflect.Interface:
		if v.IsNil() {
			return nil
		}
		return plain(v.Elem())
	case reflect.String:
		return raymond.SafeString(v.String())
	case reflect.Map:
		m := make(map[string]any, v.Len())
		iter := v.MapRange()
		for iter.Next() {
			m[fmt.Sprint(iter.Key().Interface())] = plain(iter.Value())
		}
		return m
	case reflect.Slice, reflect.Array:
		if v.Kind() == reflect.Slice && v.IsNil() {
			return []any{}
		}
		out := make([]any, v.Len())
		for i := range out {
			out[i] = plain(v.Index(i))
		}
		return out
	case reflect.Struct:
		t := v.Type()
		m := make(map[string]any, t.NumField())
		for i := 0; i < t.NumField(); i++ {
			if f := t.Field(i); f.IsExported() {
				m[f.Name] = plain(v.Field(i))
			}
		}
		return m
	}

	if v.CanInterface() {
		return v.Interface()
	}
	return nil
}
