package main

import (
	"errors"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"pdfchat/internal/chunker"
	"pdfchat/internal/config"
	"pdfchat/internal/embedding"
	"pdfchat/internal/pipeline"
	"pdfchat/internal/synthesizer"
)

const apiKeyEnv = "OPENAI_API_KEY"

var (
	flagConfig  string
	flagAPIKey  string
	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:           "pdfchat",
	Short:         "Ask questions about a document, answered from its own content",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// .env is optional, ignore a missing file.
		_ = godotenv.Load()

		zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
		level := zerolog.InfoLevel
		if flagVerbose {
			level = zerolog.DebugLevel
		}
		zerolog.SetGlobalLevel(level)
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "config.yaml", "path to the config file")
	rootCmd.PersistentFlags().StringVar(&flagAPIKey, "api-key", "", "API key for the model provider (defaults to $"+apiKeyEnv+")")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(chatCmd)
}

// Execute runs the CLI.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		log.Error().Err(err).Msg("command failed")
	}
	return err
}

func apiKey() (string, error) {
	if flagAPIKey != "" {
		return flagAPIKey, nil
	}
	if key := os.Getenv(apiKeyEnv); key != "" {
		return key, nil
	}
	return "", errors.New("no API key: pass --api-key or set $" + apiKeyEnv)
}

// newPipeline builds the production pipeline from config and
// credential. The key goes into the two external clients and nowhere
// else.
func newPipeline(cfg *config.Config) (*pipeline.Pipeline, error) {
	key, err := apiKey()
	if err != nil {
		return nil, err
	}

	ch, err := chunker.New(cfg.RAG.ChunkSize, cfg.RAG.ChunkOverlap, cfg.RAG.Separator)
	if err != nil {
		return nil, err
	}

	embedder, err := embedding.NewEmbedder(key, cfg.LLM.BaseURL, cfg.LLM.EmbeddingModel)
	if err != nil {
		return nil, err
	}

	model, err := synthesizer.NewChatModel(key, cfg.LLM.BaseURL, cfg.LLM.ChatModel)
	if err != nil {
		return nil, err
	}

	synth := synthesizer.New(model,
		synthesizer.WithPersona(cfg.RAG.Persona),
		synthesizer.WithTemperature(cfg.RAG.Temperature),
		synthesizer.WithPricing(synthesizer.Pricing{
			PromptPer1K:     cfg.Pricing.PromptPer1K,
			CompletionPer1K: cfg.Pricing.CompletionPer1K,
		}),
	)

	return pipeline.New(ch, embedder, synth, cfg.RAG.TopK), nil
}
