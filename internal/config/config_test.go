package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DEEPSEEK_API_KEY", "")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ProviderDeepSeek, cfg.Provider)
	assert.Equal(t, "deepseek-chat", cfg.Model.Name)
	assert.Equal(t, 2048, cfg.Model.MaxTokens)
	assert.Equal(t, 5, cfg.Assistant.SweepInterval)
	assert.Equal(t, 3, cfg.Assistant.BadgeInterval)
	assert.True(t, cfg.UI.RenderMarkdown)
	assert.NotEmpty(t, cfg.Assistant.DataFile)
}

func TestLoadFromFile(t *testing.T) {
	t.Setenv("DEEPSEEK_API_KEY", "")

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
provider: ollama
model:
  name: llama3
assistant:
  sweep_interval: 30
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ProviderOllama, cfg.Provider)
	assert.Equal(t, "llama3", cfg.Model.Name)
	assert.Equal(t, 30, cfg.Assistant.SweepInterval)
	// Untouched keys keep their defaults.
	assert.Equal(t, 2048, cfg.Model.MaxTokens)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("ASSISTANT_MODEL_NAME", "deepseek-reasoner")
	t.Setenv("ASSISTANT_ASSISTANT_SWEEP_INTERVAL", "60")
	t.Setenv("DEEPSEEK_API_KEY", "sk-test")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "deepseek-reasoner", cfg.Model.Name)
	assert.Equal(t, 60, cfg.Assistant.SweepInterval)
	assert.Equal(t, "sk-test", cfg.DeepSeek.APIKey)
}

func TestEnvToKey(t *testing.T) {
	tests := []struct {
		env  string
		want string
	}{
		{"ASSISTANT_PROVIDER", "provider"},
		{"ASSISTANT_MODEL_NAME", "model.name"},
		{"ASSISTANT_MODEL_MAX_TOKENS", "model.max_tokens"},
		{"ASSISTANT_ASSISTANT_DATA_FILE", "assistant.data_file"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, envToKey(tt.env), tt.env)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Provider: ProviderDeepSeek,
			Model: ModelConfig{
				Name:        "deepseek-chat",
				MaxTokens:   2048,
				Temperature: 1.0,
			},
			Assistant: AssistantConfig{
				DataFile:      "/tmp/assistant.db",
				SweepInterval: 5,
			},
		}
	}

	assert.NoError(t, valid().Validate())

	cfg := valid()
	cfg.Provider = "openai"
	assert.ErrorContains(t, cfg.Validate(), "unknown provider")

	cfg = valid()
	cfg.Model.Name = ""
	assert.ErrorContains(t, cfg.Validate(), "model name")

	cfg = valid()
	cfg.Model.MaxTokens = 0
	assert.ErrorContains(t, cfg.Validate(), "max_tokens")

	cfg = valid()
	cfg.Model.Temperature = 3
	assert.ErrorContains(t, cfg.Validate(), "temperature")

	cfg = valid()
	cfg.Assistant.DataFile = ""
	assert.ErrorContains(t, cfg.Validate(), "data_file")

	cfg = valid()
	cfg.Assistant.SweepInterval = 0
	assert.ErrorContains(t, cfg.Validate(), "sweep_interval")

	cfg = valid()
	cfg.Provider = ProviderOllama
	cfg.Ollama.BaseURL = ""
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "http://localhost:11434", cfg.Ollama.BaseURL)
}
