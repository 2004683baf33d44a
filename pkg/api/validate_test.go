package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     ProjectConfig
		wantErr string
	}{
		{"minimal", ProjectConfig{Name: "indexer"}, ""},
		{"with language", ProjectConfig{Name: "indexer", Language: "rescript"}, ""},
		{"missing name", ProjectConfig{}, "name is required"},
		{"bad characters", ProjectConfig{Name: "my indexer"}, "must start with a letter"},
		{"leading digit", ProjectConfig{Name: "1indexer"}, "must start with a letter"},
		{"unknown language", ProjectConfig{Name: "indexer", Language: "python"}, "unknown language"},
		{"reserved rescript", ProjectConfig{Name: "module", Language: LanguageReScript}, "reserved word"},
		{"reserved typescript", ProjectConfig{Name: "symbol", Language: LanguageTypeScript}, "reserved word"},
		{"reserved elsewhere only", ProjectConfig{Name: "symbol", Language: LanguageReScript}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestParseLanguage(t *testing.T) {
	for _, in := range []string{"rescript", "ReScript", " typescript ", "JAVASCRIPT"} {
		_, err := ParseLanguage(in)
		assert.NoError(t, err, "ParseLanguage(%q)", in)
	}

	_, err := ParseLanguage("go")
	assert.ErrorIs(t, err, ErrUnknownLanguage)
}

func TestParseTemplate(t *testing.T) {
	tpl, err := ParseTemplate("Greeter")
	require.NoError(t, err)
	assert.Equal(t, TemplateGreeter, tpl)

	_, err = ParseTemplate("uniswap")
	assert.ErrorIs(t, err, ErrUnknownTemplate)
}

func TestIsReservedWord(t *testing.T) {
	assert.True(t, IsReservedWord(LanguageJavaScript, "yield"))
	assert.False(t, IsReservedWord(LanguageJavaScript, "gravatar"))
	assert.False(t, IsReservedWord("cobol", "let"), "unknown languages have no reserved words")
}
