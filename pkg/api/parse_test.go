package api

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) (dir, file string) {
	t.Helper()
	dir = t.TempDir()
	file = filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(file, []byte(content), 0600))
	return dir, file
}

func TestLoadProjectConfig_Valid(t *testing.T) {
	dir, f := writeConfig(t, `
name: gravatar-indexer
description: Gravatar for Ethereum
language: TypeScript
context:
  value: 5
  contracts:
    - name: Gravatar
`)

	c, err := LoadProjectConfig(f)
	require.NoError(t, err)

	assert.Equal(t, "gravatar-indexer", c.Name)
	assert.Equal(t, LanguageTypeScript, c.Language, "language is normalised")
	assert.Equal(t, dir, c.Dir)
	assert.Equal(t, 5, c.Context["value"])
}

func TestLoadProjectConfig_FileNotFound(t *testing.T) {
	_, err := LoadProjectConfig("/nonexistent/config.yaml")
	assert.ErrorContains(t, err, "reading project config")
}

func TestLoadProjectConfig_InvalidYAML(t *testing.T) {
	_, f := writeConfig(t, "name: [unclosed")

	_, err := LoadProjectConfig(f)
	assert.ErrorContains(t, err, "parsing project config")
}

func TestLoadProjectConfig_ValidationFails(t *testing.T) {
	_, f := writeConfig(t, "description: no name\n")

	_, err := LoadProjectConfig(f)
	assert.ErrorContains(t, err, "name is required")
}

func TestLoadProjectConfig_Networks(t *testing.T) {
	_, f := writeConfig(t, `
name: greeter
networks:
  - id: 1337
    start_block: 0
    contracts:
      - name: Greeter
        abi_file_path: abis/greeter-abi.json
        address: "0x2B2f78c5BF6D9C12Ee1225D5F374aa91204580c3"
        handler: src/EventHandlers
        events:
          - event: "NewGreeting"
          - event: "ClearGreeting"
`)

	c, err := LoadProjectConfig(f)
	require.NoError(t, err)

	require.Len(t, c.Networks, 1)
	assert.Equal(t, 1337, c.Networks[0].ID)

	contracts := c.Networks[0].Contracts
	require.Len(t, contracts, 1)
	assert.Equal(t, "Greeter", contracts[0].Name)
	assert.Equal(t, "abis/greeter-abi.json", contracts[0].AbiFilePath)
	require.Len(t, contracts[0].Events, 2)
	assert.Equal(t, "ClearGreeting", contracts[0].Events[1].Event)
}
