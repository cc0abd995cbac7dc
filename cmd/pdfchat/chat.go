package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"pdfchat/internal/config"
	"pdfchat/internal/pipeline"
	"pdfchat/internal/retriever"
)

var chatFile string

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Load a document once, then answer questions interactively",
	Long: `Builds the knowledge base for one document, then reads questions
from stdin until EOF. Use /load <path> to switch to another document;
the previous knowledge base is discarded wholesale.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(flagConfig)
		if err != nil {
			return err
		}

		p, err := newPipeline(cfg)
		if err != nil {
			return err
		}

		timeout := time.Duration(cfg.LLM.TimeoutSecs) * time.Second
		session := &pipeline.Session{}

		load := func(path string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()
			base, err := p.BuildFromFile(ctx, path)
			if err != nil {
				return err
			}
			session.Replace(base)
			log.Info().Str("file", path).Int("fragments", base.Len()).Msg("knowledge base built")
			return nil
		}

		if err := load(chatFile); err != nil {
			return err
		}

		scanner := bufio.NewScanner(os.Stdin)
		fmt.Println("Ask a question (ctrl-d to quit):")
		for {
			fmt.Print("> ")
			if !scanner.Scan() {
				break
			}
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}

			if path, ok := strings.CutPrefix(line, "/load "); ok {
				if err := load(strings.TrimSpace(path)); err != nil {
					log.Error().Err(err).Msg("document load failed")
				}
				continue
			}

			base, err := session.Current()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			answer, err := p.Answer(ctx, base, line)
			cancel()
			if err != nil {
				if errors.Is(err, retriever.ErrEmptyQuery) {
					continue
				}
				// The knowledge base is intact, the same question can
				// simply be asked again.
				log.Error().Err(err).Msg("query failed")
				continue
			}

			printAnswer(line, answer, false)
		}
		return scanner.Err()
	},
}

func init() {
	chatCmd.Flags().StringVarP(&chatFile, "file", "f", "", "path to the document")
	_ = chatCmd.MarkFlagRequired("file")
}
