package api

import (
	"errors"
	"fmt"
	"strings"
)

const (
	DefaultConfigFile   = "config.yaml"
	DefaultGeneratedDir = "generated"
	PersistedStateFile  = "persisted_state.json"

	LanguageReScript   Language = "rescript"
	LanguageTypeScript Language = "typescript"
	LanguageJavaScript Language = "javascript"

	TemplateBlank   Template = "blank"
	TemplateGreeter Template = "greeter"
	TemplateErc20   Template = "erc20"
)

var (
	ErrUnknownLanguage = errors.New("unknown language")
	ErrUnknownTemplate = errors.New("unknown template")
)

// Language is the language handlers of a generated project are written in.
type Language string

// Languages lists every supported handler language.
var Languages = []Language{LanguageReScript, LanguageTypeScript, LanguageJavaScript}

// ParseLanguage accepts a language name case-insensitively.
func ParseLanguage(s string) (Language, error) {
	l := Language(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Languages {
		if l == known {
			return l, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownLanguage, s)
}

// Template is the starter project an init run copies in.
type Template string

// Templates lists every starter template.
var Templates = []Template{TemplateBlank, TemplateGreeter, TemplateErc20}

// ParseTemplate accepts a template name case-insensitively.
func ParseTemplate(s string) (Template, error) {
	t := Template(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Templates {
		if t == known {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownTemplate, s)
}

// ProjectConfig is the project's config.yaml. Only the fields the scaffolder
// consumes are decoded; the context block is passed to templates as-is.
type ProjectConfig struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Language    Language       `yaml:"language"`
	Networks    []Network      `yaml:"networks"`
	Context     map[string]any `yaml:"context"`

	// Set by the loader, not from YAML.
	Dir      string `yaml:"-"`
	FilePath string `yaml:"-"`
}

// Network is one chain the indexer reads from.
type Network struct {
	ID         int        `yaml:"id"`
	StartBlock int        `yaml:"start_block"`
	Contracts  []Contract `yaml:"contracts"`
}

// Contract is a contract indexed on a network.
type Contract struct {
	Name        string  `yaml:"name"`
	AbiFilePath string  `yaml:"abi_file_path"`
	Address     string  `yaml:"address"`
	Handler     string  `yaml:"handler"`
	Events      []Event `yaml:"events"`
}

// Event is a contract event the handlers subscribe to.
type Event struct {
	Event string `yaml:"event"`
}
