// Package synthesizer turns retrieved fragments plus a question into a
// grounded answer via a chat completion.
package synthesizer

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkoukk/tiktoken-go"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"pdfchat/internal/models"
)

// usageEncoding is the tokenizer used to estimate token counts when
// the completion response reports none.
const usageEncoding = "cl100k_base"

// Error wraps a failure of the external completion service. It is
// terminal for the query; the caller may retry explicitly, the
// synthesizer never does (a retry with the same prompt burns cost
// without guaranteed benefit).
type Error struct {
	Err error
}

func (e *Error) Error() string { return fmt.Sprintf("completion service: %v", e.Err) }
func (e *Error) Unwrap() error { return e.Err }

// Pricing is the per-1000-token price table used for the estimated
// cost figure. Zero values disable the estimate.
type Pricing struct {
	PromptPer1K     float64
	CompletionPer1K float64
}

// Synthesizer assembles prompts and invokes the language model.
type Synthesizer struct {
	model       llms.Model
	persona     string
	temperature float64
	pricing     Pricing
}

// Option configures a Synthesizer.
type Option func(*Synthesizer)

// WithPersona overrides the default system instruction.
func WithPersona(persona string) Option {
	return func(s *Synthesizer) {
		if strings.TrimSpace(persona) != "" {
			s.persona = persona
		}
	}
}

// WithTemperature overrides the default sampling temperature of 0.
// Zero is the default on purpose: grounded answers should prefer the
// cited context over creative variation.
func WithTemperature(t float64) Option {
	return func(s *Synthesizer) { s.temperature = t }
}

// WithPricing enables cost estimation.
func WithPricing(p Pricing) Option {
	return func(s *Synthesizer) { s.pricing = p }
}

// New builds a Synthesizer around any langchaingo chat model.
func New(model llms.Model, opts ...Option) *Synthesizer {
	s := &Synthesizer{
		model:       model,
		persona:     models.DefaultPersona,
		temperature: 0,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewChatModel builds the production chat client against an
// OpenAI-compatible endpoint. The API key is passed through verbatim
// and never logged.
func NewChatModel(apiKey, baseURL, model string) (llms.Model, error) {
	opts := []openai.Option{
		openai.WithToken(strings.TrimPrefix(apiKey, "Bearer ")),
		openai.WithModel(model),
	}
	if baseURL != "" {
		opts = append(opts, openai.WithBaseURL(baseURL))
	}
	llm, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("initializing chat client: %w", err)
	}
	return llm, nil
}

// Synthesize builds the prompt from the fragments in retrieval-rank
// order and the question, invokes the completion, and returns the raw
// answer text plus usage accounting. The fragments ride along on the
// answer so the caller can show which context was used.
func (s *Synthesizer) Synthesize(ctx context.Context, fragments []models.Fragment, question string) (*models.Answer, error) {
	prompt := s.buildPrompt(fragments, question)

	messages := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextContent{Text: s.persona}},
		},
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextContent{Text: prompt}},
		},
	}

	resp, err := s.model.GenerateContent(ctx, messages, llms.WithTemperature(s.temperature))
	if err != nil {
		return nil, &Error{Err: err}
	}
	if len(resp.Choices) == 0 {
		return nil, &Error{Err: fmt.Errorf("completion returned no choices")}
	}

	choice := resp.Choices[0]
	usage := s.usageFor(choice, s.persona+"\n"+prompt)

	return &models.Answer{
		Content:   choice.Content,
		Fragments: fragments,
		Usage:     usage,
	}, nil
}

func (s *Synthesizer) buildPrompt(fragments []models.Fragment, question string) string {
	contents := make([]string, len(fragments))
	for i, f := range fragments {
		contents[i] = f.Content
	}
	context := strings.Join(contents, models.FragmentSeparator)
	return fmt.Sprintf(models.PromptTemplate, context, question)
}

// usageFor reads token counts from the completion's generation info,
// estimating with a tokenizer when the provider reports none.
func (s *Synthesizer) usageFor(choice *llms.ContentChoice, promptText string) models.UsageMetrics {
	usage := models.UsageMetrics{
		PromptTokens:     intFromInfo(choice.GenerationInfo, "PromptTokens"),
		CompletionTokens: intFromInfo(choice.GenerationInfo, "CompletionTokens"),
		TotalTokens:      intFromInfo(choice.GenerationInfo, "TotalTokens"),
	}

	if usage.PromptTokens == 0 && usage.CompletionTokens == 0 {
		usage.PromptTokens = estimateTokens(promptText)
		usage.CompletionTokens = estimateTokens(choice.Content)
	}
	if usage.TotalTokens == 0 {
		usage.TotalTokens = usage.PromptTokens + usage.CompletionTokens
	}

	usage.EstimatedCost = float64(usage.PromptTokens)/1000*s.pricing.PromptPer1K +
		float64(usage.CompletionTokens)/1000*s.pricing.CompletionPer1K
	return usage
}

func intFromInfo(info map[string]any, key string) int {
	switch v := info[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}

func estimateTokens(text string) int {
	if text == "" {
		return 0
	}
	enc, err := tiktoken.GetEncoding(usageEncoding)
	if err != nil {
		// Rough fallback, ~4 characters per token.
		return (len(text) + 3) / 4
	}
	return len(enc.Encode(text, nil, nil))
}
