package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("OLLAMA_URL", "")
	t.Setenv("SD_WEBUI_URL", "")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "data", cfg.RAG.DataDir)
	assert.Equal(t, DefaultChunkSize, cfg.RAG.ChunkSize)
	assert.Equal(t, DefaultChunkOverlap, cfg.RAG.ChunkOverlap)
	assert.Equal(t, 3, cfg.RAG.TopK)
	assert.Equal(t, ProviderOllama, cfg.EmbedLLM.Provider)
	assert.Equal(t, "all-minilm", cfg.EmbedLLM.Model)
	assert.Equal(t, ProviderOpenAI, cfg.ChatLLM.Provider)
	assert.Equal(t, "resources", cfg.Cover.ResourcesDir)
	assert.Equal(t, "output", cfg.Cover.OutputDir)
	assert.Equal(t, "auto", cfg.Cover.Device)
	assert.Equal(t, ":8501", cfg.Server.Addr)
}

func TestLoadConfig_FileAndEnv(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-env")
	t.Setenv("OLLAMA_URL", "http://ollama:11434")
	t.Setenv("SD_WEBUI_URL", "http://sd:7860")

	path := filepath.Join(t.TempDir(), "config.yaml")
	yml := `
debug: true
rag:
  data_dir: docs
  chunk_size: 500
  chunk_overlap: 50
  top_k: 5
chat_llm:
  model: gpt-4o-mini
server:
  addr: ":9000"
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.True(t, cfg.Debug)
	assert.Equal(t, "docs", cfg.RAG.DataDir)
	assert.Equal(t, 500, cfg.RAG.ChunkSize)
	assert.Equal(t, 50, cfg.RAG.ChunkOverlap)
	assert.Equal(t, 5, cfg.RAG.TopK)
	assert.Equal(t, "gpt-4o-mini", cfg.ChatLLM.Model)
	assert.Equal(t, "sk-env", cfg.ChatLLM.Key)
	assert.Equal(t, "http://ollama:11434", cfg.EmbedLLM.BaseURL)
	assert.Equal(t, "http://sd:7860", cfg.Cover.BackendURL)
	assert.Equal(t, ":9000", cfg.Server.Addr)
}

func TestLoadConfig_KeyInFileWins(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-env")

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("chat_llm:\n  key: sk-file\n"), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "sk-file", cfg.ChatLLM.Key)
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("rag: [unclosed"), 0o644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative chunk size", func(c *Config) { c.RAG.ChunkSize = -1 }},
		{"overlap not smaller than size", func(c *Config) { c.RAG.ChunkOverlap = c.RAG.ChunkSize }},
		{"negative overlap", func(c *Config) { c.RAG.ChunkOverlap = -5 }},
		{"zero top k", func(c *Config) { c.RAG.TopK = 0 }},
		{"unknown provider", func(c *Config) { c.ChatLLM.Provider = "bard" }},
		{"hash chat provider", func(c *Config) { c.ChatLLM.Provider = ProviderHash }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cfg Config
			cfg.applyDefaults()
			require.NoError(t, cfg.Validate())

			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoadConfig_ZeroOverlapKept(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("rag:\n  chunk_size: 400\n  chunk_overlap: 0\n"), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 400, cfg.RAG.ChunkSize)
	assert.Equal(t, 0, cfg.RAG.ChunkOverlap)
}

func TestLoadConfig_OverlapDefaultsWhenUnset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("rag:\n  top_k: 4\n"), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultChunkOverlap, cfg.RAG.ChunkOverlap)
}

func TestValidate_HashEmbedder(t *testing.T) {
	var cfg Config
	cfg.applyDefaults()
	cfg.EmbedLLM.Provider = ProviderHash
	assert.NoError(t, cfg.Validate())
}
