package assets

import (
	"strings"
	"testing"

	"github.com/pavlovdog/hyperindex/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup_EveryStarterHasAllLanguages(t *testing.T) {
	for _, tpl := range api.Templates {
		kind, err := StarterKind(tpl)
		require.NoError(t, err)

		for _, lang := range api.Languages {
			tree, err := Lookup(kind, lang)
			require.NoError(t, err, "%s/%s", kind, lang)
			assert.NotEmpty(t, tree.Children, "%s/%s", kind, lang)
		}

		shared, err := Lookup(kind, Shared)
		require.NoError(t, err)
		assert.NotEmpty(t, shared.Children)
	}
}

func TestLookup_DotFilesEmbedded(t *testing.T) {
	tree, err := Lookup(KindBlank, Shared)
	require.NoError(t, err)

	found := false
	require.NoError(t, tree.Walk(func(n *Node) error {
		if n.Path == ".gitignore" {
			found = true
		}
		return nil
	}))
	assert.True(t, found, ".gitignore should be embedded")
}

func TestLookup_DynamicTreesHoldTemplates(t *testing.T) {
	for _, kind := range []Kind{KindBlankDynamic, KindInit, KindCodegenDynamic} {
		tree, err := Lookup(kind, Shared)
		require.NoError(t, err)

		require.NoError(t, tree.Walk(func(n *Node) error {
			if !n.Dir {
				assert.True(t, strings.HasSuffix(n.Path, ".hbs"), "%s: %s", kind, n.Path)
			}
			return nil
		}))
	}
}

func TestLookup_Unknown(t *testing.T) {
	_, err := Lookup(KindCodegenStatic, api.LanguageReScript)
	assert.ErrorIs(t, err, ErrNoTree)

	_, err = Lookup(Kind("nope"), Shared)
	assert.ErrorIs(t, err, ErrNoTree)
}

func TestStarterKind_Unknown(t *testing.T) {
	_, err := StarterKind("uniswap")
	assert.ErrorIs(t, err, api.ErrUnknownTemplate)
}
