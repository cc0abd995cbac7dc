// Package config loads the YAML configuration. The API key is
// deliberately not part of the file: it comes from the environment or
// a flag and is passed into constructors explicitly.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"pdfchat/internal/chunker"
	"pdfchat/internal/retriever"
)

// Chunking preset names accepted in the config file.
const (
	PresetDefault = "default" // 800 characters, 100 overlap
	PresetCompact = "compact" // 500 characters, 20 overlap
)

type LLMConfig struct {
	BaseURL        string `yaml:"base_url"`
	ChatModel      string `yaml:"chat_model"`
	EmbeddingModel string `yaml:"embedding_model"`
	TimeoutSecs    int    `yaml:"timeout_secs"`
}

type RAGConfig struct {
	Preset       string  `yaml:"preset"`
	ChunkSize    int     `yaml:"chunk_size"`
	ChunkOverlap int     `yaml:"chunk_overlap"`
	Separator    string  `yaml:"separator"`
	TopK         int     `yaml:"top_k"`
	Temperature  float64 `yaml:"temperature"`
	Persona      string  `yaml:"persona"`
}

// PricingConfig holds per-1000-token prices for the cost estimate.
type PricingConfig struct {
	PromptPer1K     float64 `yaml:"prompt_per_1k"`
	CompletionPer1K float64 `yaml:"completion_per_1k"`
}

type Config struct {
	LLM     LLMConfig     `yaml:"llm"`
	RAG     RAGConfig     `yaml:"rag"`
	Pricing PricingConfig `yaml:"pricing"`
}

// Default returns the shipped configuration.
func Default() *Config {
	return &Config{
		LLM: LLMConfig{
			ChatModel:      "gpt-4o",
			EmbeddingModel: "text-embedding-3-small",
			TimeoutSecs:    60,
		},
		RAG: RAGConfig{
			Preset:       PresetDefault,
			ChunkSize:    chunker.DefaultSize,
			ChunkOverlap: chunker.DefaultOverlap,
			Separator:    chunker.DefaultSeparator,
			TopK:         retriever.DefaultK,
			Temperature:  0,
		},
	}
}

// Load reads a config file, applying defaults for everything left
// unset. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	applyDefaults(&cfg)
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	def := Default()
	if cfg.LLM.ChatModel == "" {
		cfg.LLM.ChatModel = def.LLM.ChatModel
	}
	if cfg.LLM.EmbeddingModel == "" {
		cfg.LLM.EmbeddingModel = def.LLM.EmbeddingModel
	}
	if cfg.LLM.TimeoutSecs <= 0 {
		cfg.LLM.TimeoutSecs = def.LLM.TimeoutSecs
	}

	// Preset name picks the chunking pair; explicit values win.
	if cfg.RAG.ChunkSize == 0 && cfg.RAG.ChunkOverlap == 0 {
		switch cfg.RAG.Preset {
		case PresetCompact:
			cfg.RAG.ChunkSize, cfg.RAG.ChunkOverlap = 500, 20
		default:
			cfg.RAG.ChunkSize, cfg.RAG.ChunkOverlap = def.RAG.ChunkSize, def.RAG.ChunkOverlap
		}
	}
	if cfg.RAG.Preset == "" {
		cfg.RAG.Preset = def.RAG.Preset
	}
	if cfg.RAG.Separator == "" {
		cfg.RAG.Separator = def.RAG.Separator
	}
	if cfg.RAG.TopK <= 0 {
		cfg.RAG.TopK = def.RAG.TopK
	}
}
