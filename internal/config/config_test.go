package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 800, cfg.RAG.ChunkSize)
	assert.Equal(t, 100, cfg.RAG.ChunkOverlap)
	assert.Equal(t, "\n", cfg.RAG.Separator)
	assert.Equal(t, 4, cfg.RAG.TopK)
	assert.Zero(t, cfg.RAG.Temperature)
	assert.Equal(t, "gpt-4o", cfg.LLM.ChatModel)
	assert.Equal(t, 60, cfg.LLM.TimeoutSecs)
}

func TestLoadCompactPreset(t *testing.T) {
	path := writeConfig(t, "rag:\n  preset: compact\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 500, cfg.RAG.ChunkSize)
	assert.Equal(t, 20, cfg.RAG.ChunkOverlap)
}

func TestLoadExplicitValuesWinOverPreset(t *testing.T) {
	path := writeConfig(t, "rag:\n  preset: compact\n  chunk_size: 1200\n  chunk_overlap: 50\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1200, cfg.RAG.ChunkSize)
	assert.Equal(t, 50, cfg.RAG.ChunkOverlap)
}

func TestLoadPartialFileGetsDefaults(t *testing.T) {
	path := writeConfig(t, "llm:\n  chat_model: gpt-4o-mini\nrag:\n  top_k: 8\n  persona: answer tersely\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o-mini", cfg.LLM.ChatModel)
	assert.Equal(t, "text-embedding-3-small", cfg.LLM.EmbeddingModel)
	assert.Equal(t, 8, cfg.RAG.TopK)
	assert.Equal(t, "answer tersely", cfg.RAG.Persona)
	assert.Equal(t, 800, cfg.RAG.ChunkSize)
}

func TestLoadMalformedFile(t *testing.T) {
	path := writeConfig(t, "rag: [not a mapping")

	_, err := Load(path)
	assert.Error(t, err)
}
