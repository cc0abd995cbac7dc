// Package pipeline wires the stages together: extract → chunk → embed
// → index for a document build, then embed → retrieve → synthesize for
// each question. Every failure is tagged with the stage it came from
// so the caller can show where a query died.
package pipeline

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/embeddings"

	"pdfchat/internal/chunker"
	"pdfchat/internal/embedding"
	"pdfchat/internal/extractor"
	"pdfchat/internal/knowledge"
	"pdfchat/internal/models"
	"pdfchat/internal/retriever"
	"pdfchat/internal/synthesizer"
)

// Stage names the pipeline step an error originated from.
type Stage string

const (
	StageExtract    Stage = "extract"
	StageChunk      Stage = "chunk"
	StageEmbed      Stage = "embed"
	StageIndex      Stage = "index"
	StageRetrieve   Stage = "retrieve"
	StageSynthesize Stage = "synthesize"
)

// StageError tags an underlying failure with its originating stage.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string { return fmt.Sprintf("%s: %v", e.Stage, e.Err) }
func (e *StageError) Unwrap() error { return e.Err }

func stageErr(stage Stage, err error) error {
	return &StageError{Stage: stage, Err: err}
}

// Pipeline bundles the configured stages for one document session.
type Pipeline struct {
	chunker  *chunker.Chunker
	embedder embeddings.Embedder
	synth    *synthesizer.Synthesizer
	topK     int
}

// New assembles a pipeline. topK <= 0 falls back to the retriever
// default.
func New(c *chunker.Chunker, embedder embeddings.Embedder, synth *synthesizer.Synthesizer, topK int) *Pipeline {
	if topK <= 0 {
		topK = retriever.DefaultK
	}
	return &Pipeline{chunker: c, embedder: embedder, synth: synth, topK: topK}
}

// BuildFromFile extracts a document from disk and builds its knowledge
// base.
func (p *Pipeline) BuildFromFile(ctx context.Context, path string) (*knowledge.Base, error) {
	text, err := extractor.FromFile(path)
	if err != nil {
		return nil, stageErr(StageExtract, err)
	}
	return p.BuildKnowledgeBase(ctx, text)
}

// BuildFromPDF builds a knowledge base straight from PDF bytes.
func (p *Pipeline) BuildFromPDF(ctx context.Context, data []byte) (*knowledge.Base, error) {
	text, err := extractor.PDF(data)
	if err != nil {
		return nil, stageErr(StageExtract, err)
	}
	return p.BuildKnowledgeBase(ctx, text)
}

// BuildKnowledgeBase chunks extracted text, embeds every fragment in
// one atomic batch, and indexes the result. The returned base is
// complete: it is never handed out half-built.
func (p *Pipeline) BuildKnowledgeBase(ctx context.Context, text string) (*knowledge.Base, error) {
	fragments := p.chunker.Split(text)
	if len(fragments) == 0 {
		return nil, stageErr(StageChunk, extractor.ErrNoExtractableText)
	}
	log.Debug().Int("fragments", len(fragments)).Msg("document chunked")

	vectors, err := embedding.EmbedFragments(ctx, p.embedder, fragments)
	if err != nil {
		return nil, stageErr(StageEmbed, err)
	}
	log.Debug().Int("vectors", len(vectors)).Int("dimension", len(vectors[0])).Msg("fragments embedded")

	base, err := knowledge.Build(ctx, fragments, vectors)
	if err != nil {
		return nil, stageErr(StageIndex, err)
	}
	return base, nil
}

// Answer runs one question through retrieval and synthesis. A failure
// here leaves the knowledge base untouched; the caller may retry the
// same question without rebuilding.
func (p *Pipeline) Answer(ctx context.Context, base *knowledge.Base, question string) (*models.Answer, error) {
	fragments, scores, err := retriever.Retrieve(ctx, base, p.embedder, question, p.topK)
	if err != nil {
		return nil, stageErr(StageRetrieve, err)
	}
	log.Debug().Int("fragments", len(fragments)).Floats32("scores", scores).Msg("context retrieved")

	answer, err := p.synth.Synthesize(ctx, fragments, question)
	if err != nil {
		return nil, stageErr(StageSynthesize, err)
	}
	log.Debug().
		Int("total_tokens", answer.Usage.TotalTokens).
		Float64("estimated_cost", answer.Usage.EstimatedCost).
		Msg("answer synthesized")
	return answer, nil
}
