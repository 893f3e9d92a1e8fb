package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, ":8081", cfg.Server.GatewayAddr)
	assert.Equal(t, "gpt-4o-mini", cfg.LLM.Model)
	assert.Equal(t, 30, cfg.LLM.TimeoutSeconds)
	assert.Equal(t, "studypilot.db", cfg.Transcript.Path)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadYAMLOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "studypilot.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  addr: ":9090"
llm:
  model: gpt-4o
  timeoutSeconds: 10
transcript:
  path: /tmp/chat.db
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, ":8081", cfg.Server.GatewayAddr)
	assert.Equal(t, "gpt-4o", cfg.LLM.Model)
	assert.Equal(t, 10, cfg.LLM.TimeoutSeconds)
	assert.Equal(t, "/tmp/chat.db", cfg.Transcript.Path)
}

func TestLoadMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [not a mapping"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("STUDYPILOT_ADDR", ":7070")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("STUDYPILOT_MODEL", "gpt-4.1-mini")
	t.Setenv("STUDYPILOT_DB", "override.db")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.Server.Addr)
	assert.Equal(t, "sk-test", cfg.LLM.APIKey)
	assert.Equal(t, "gpt-4.1-mini", cfg.LLM.Model)
	assert.Equal(t, "override.db", cfg.Transcript.Path)
}

func TestEnvOverridesBeatFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "studypilot.yaml")
	require.NoError(t, os.WriteFile(path, []byte("llm:\n  model: from-file\n"), 0o644))
	t.Setenv("STUDYPILOT_MODEL", "from-env")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.LLM.Model)
}
