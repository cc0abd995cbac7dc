package main

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"pdfchat/internal/config"
	"pdfchat/internal/models"
)

var (
	flagFile        string
	flagQuestion    string
	flagShowContext bool
)

var askCmd = &cobra.Command{
	Use:   "ask",
	Short: "Load a document and answer a single question about it",
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

		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()
		base, err := p.BuildFromFile(ctx, flagFile)
		if err != nil {
			return err
		}
		log.Info().Int("fragments", base.Len()).Msg("knowledge base built")

		qctx, qcancel := context.WithTimeout(cmd.Context(), timeout)
		defer qcancel()
		answer, err := p.Answer(qctx, base, flagQuestion)
		if err != nil {
			return err
		}

		printAnswer(flagQuestion, answer, flagShowContext)
		return nil
	},
}

func init() {
	askCmd.Flags().StringVarP(&flagFile, "file", "f", "", "path to the document")
	askCmd.Flags().StringVarP(&flagQuestion, "question", "q", "", "question to answer")
	askCmd.Flags().BoolVar(&flagShowContext, "show-context", false, "print the retrieved fragments used for the answer")
	_ = askCmd.MarkFlagRequired("file")
	_ = askCmd.MarkFlagRequired("question")
}

func printAnswer(question string, answer *models.Answer, showContext bool) {
	fmt.Printf("Q: %s\n\n%s\n", question, answer.Content)

	if showContext {
		fmt.Println("\nContext used:")
		for i, f := range answer.Fragments {
			fmt.Printf("--- fragment %d (ordinal %d) ---\n%s\n", i+1, f.Ordinal, f.Content)
		}
	}

	u := answer.Usage
	fmt.Printf("\ntokens: %d (prompt %d, completion %d)", u.TotalTokens, u.PromptTokens, u.CompletionTokens)
	if u.EstimatedCost > 0 {
		fmt.Printf(", estimated cost: $%.6f", u.EstimatedCost)
	}
	fmt.Println()
}
