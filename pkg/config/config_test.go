// Copyright 2025 Kadir Pekel
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigHasSaneValues(t *testing.T) {
	cfg := DefaultConfig()
	assert.True(t, cfg.Provider.Fallback)
	assert.Equal(t, "regex", cfg.Guard.Backend)
	assert.Equal(t, 3, cfg.Harness.MaxRounds)
	assert.Equal(t, 0.8, cfg.Harness.MinScore)
	assert.Equal(t, []string{"ygn-core", "mcp"}, cfg.MCP.Command)
}

func TestLoadMergesFileWithDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
provider:
  default: ollama
  ollama:
    model: mistral
harness:
  max_rounds: 5
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "ollama", cfg.Provider.Default)
	assert.Equal(t, "mistral", cfg.Provider.Ollama.Model)
	assert.Equal(t, 5, cfg.Harness.MaxRounds)
	// untouched defaults survive the merge
	assert.Equal(t, "regex", cfg.Guard.Backend)
}

func TestLoadExpandsEnvVarReferences(t *testing.T) {
	t.Setenv("TEST_YGN_MODEL", "gemini-2.5-pro")

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
provider:
  gemini:
    model: ${TEST_YGN_MODEL}
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "gemini-2.5-pro", cfg.Provider.Gemini.Model)
}

func TestApplyEnvOverridesWinsOverFile(t *testing.T) {
	t.Setenv("YGN_LLM_PROVIDER", "stub")

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
provider:
  default: gemini
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "stub", cfg.Provider.Default)
}

func TestNewLoaderRequiresPath(t *testing.T) {
	_, err := NewLoader(LoaderOptions{})
	assert.Error(t, err)
}

func TestLoaderWatchReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("harness:\n  max_rounds: 1\n"), 0o644))

	reloaded := make(chan *Config, 1)
	loader, err := NewLoader(LoaderOptions{
		Path:  path,
		Watch: true,
		OnChange: func(c *Config) error {
			reloaded <- c
			return nil
		},
	})
	require.NoError(t, err)
	defer loader.Stop()

	_, err = loader.Load()
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("harness:\n  max_rounds: 9\n"), 0o644))

	select {
	case cfg := <-reloaded:
		assert.Equal(t, 9, cfg.Harness.MaxRounds)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for config reload")
	}
}
