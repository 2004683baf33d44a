package scaffold

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/pavlovdog/hyperindex/pkg/api"
	"github.com/pavlovdog/hyperindex/pkg/processing"
)

// InitContext is the render context of the init templates. Language is a
// plain string so template functions like title accept it.
type InitContext struct {
	ProjectName  string
	ModuleName   string
	Language     string
	IsReScript   bool
	IsTypeScript bool
	IsJavaScript bool
}

// NewInitContext builds the init render context for a project.
func NewInitContext(name string, lang api.Language) InitContext {
	return InitContext{
		ProjectName:  name,
		ModuleName:   ModuleName(name),
		Language:     string(lang),
		IsReScript:   lang == api.LanguageReScript,
		IsTypeScript: lang == api.LanguageTypeScript,
		IsJavaScript: lang == api.LanguageJavaScript,
	}
}

// ModuleName turns a project name such as "my-indexer" into a ReScript
// module name ("MyIndexer").
func ModuleName(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return r == '-' || r == '_' || r == ' ' || r == '.'
	})
	caser := cases.Title(language.Und, cases.NoLower)
	for i, p := range parts {
		parts[i] = caser.String(p)
	}
	return strings.Join(parts, "")
}

// CodegenContext builds the render context of the codegen templates.
// Values derived from cfg are overridden by cfg.Context, which is overridden
// by extra.
func CodegenContext(cfg *api.ProjectConfig, extra map[string]any) map[string]any {
	derived := map[string]any{
		"project_name": cfg.Name,
		"module_name":  ModuleName(cfg.Name),
		"language":     string(cfg.Language),
		"entities":     []any{},
		"contracts":    contracts(cfg),
	}
	return processing.MergeContext(processing.MergeContext(derived, cfg.Context), extra)
}

// contracts lists every contract of cfg once, keeping the first network's
// definition when a name repeats.
func contracts(cfg *api.ProjectConfig) []any {
	seen := make(map[string]bool)
	out := []any{}
	for _, n := range cfg.Networks {
		for _, c := range n.Contracts {
			if seen[c.Name] {
				continue
			}
			seen[c.Name] = true

			events := make([]any, 0, len(c.Events))
			for _, e := range c.Events {
				events = append(events, e.Event)
			}
			out = append(out, map[string]any{
				"name":          c.Name,
				"abi_file_path": c.AbiFilePath,
				"handler":       c.Handler,
				"events":        events,
			})
		}
	}
	return out
}
