package assets

import (
	"embed"
	"errors"
	"fmt"

	"github.com/pavlovdog/hyperindex/pkg/api"
)

//go:embed all:templates
var templatesFS embed.FS

// Kind names a family of embedded trees.
type Kind string

const (
	KindBlank          Kind = "blank"
	KindGreeter        Kind = "greeter"
	KindErc20          Kind = "erc20"
	KindBlankDynamic   Kind = "blank-dynamic"
	KindInit           Kind = "init"
	KindCodegenStatic  Kind = "codegen-static"
	KindCodegenDynamic Kind = "codegen-dynamic"
)

// Shared marks a tree that is the same for every language.
const Shared api.Language = ""

// ErrNoTree is returned when no tree is registered for a key.
var ErrNoTree = errors.New("no embedded tree")

// Key identifies one embedded tree.
type Key struct {
	Kind     Kind
	Language api.Language
}

var registry = map[Key]string{
	{KindBlank, api.LanguageReScript}:   "templates/static/blank_template/rescript",
	{KindBlank, api.LanguageTypeScript}: "templates/static/blank_template/typescript",
	{KindBlank, api.LanguageJavaScript}: "templates/static/blank_template/javascript",
	{KindBlank, Shared}:                 "templates/static/blank_template/shared",

	{KindGreeter, api.LanguageReScript}:   "templates/static/greeter_template/rescript",
	{KindGreeter, api.LanguageTypeScript}: "templates/static/greeter_template/typescript",
	{KindGreeter, api.LanguageJavaScript}: "templates/static/greeter_template/javascript",
	{KindGreeter, Shared}:                 "templates/static/greeter_template/shared",

	{KindErc20, api.LanguageReScript}:   "templates/static/erc20_template/rescript",
	{KindErc20, api.LanguageTypeScript}: "templates/static/erc20_template/typescript",
	{KindErc20, api.LanguageJavaScript}: "templates/static/erc20_template/javascript",
	{KindErc20, Shared}:                 "templates/static/erc20_template/shared",

	{KindBlankDynamic, Shared}:   "templates/dynamic/blank_template",
	{KindInit, Shared}:           "templates/dynamic/init_templates/shared",
	{KindCodegenStatic, Shared}:  "templates/static/codegen",
	{KindCodegenDynamic, Shared}: "templates/dynamic/codegen",
}

// Lookup returns the embedded tree registered for kind and lang.
func Lookup(kind Kind, lang api.Language) (*Node, error) {
	root, ok := registry[Key{Kind: kind, Language: lang}]
	if !ok {
		if lang == Shared {
			return nil, fmt.Errorf("%w for %s", ErrNoTree, kind)
		}
		return nil, fmt.Errorf("%w for %s/%s", ErrNoTree, kind, lang)
	}
	return Load(templatesFS, root)
}

// StarterKind maps an init template to the kind holding its static files.
func StarterKind(t api.Template) (Kind, error) {
	switch t {
	case api.TemplateBlank:
		return KindBlank, nil
	case api.TemplateGreeter:
		return KindGreeter, nil
	case api.TemplateErc20:
		return KindErc20, nil
	default:
		return "", fmt.Errorf("%w: %q", api.ErrUnknownTemplate, t)
	}
}
