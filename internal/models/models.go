package models

// Fragment is a bounded piece of the extracted document text, the unit
// of retrieval. Ordinal is its zero-based position in the chunk
// sequence and stays stable for the lifetime of the knowledge base.
type Fragment struct {
	Content string
	Ordinal int
}

// ScoredFragment pairs a fragment with its similarity score from a
// vector search.
type ScoredFragment struct {
	Fragment Fragment
	Score    float32
}

// UsageMetrics is the token and cost accounting for one completion.
type UsageMetrics struct {
	TotalTokens      int
	PromptTokens     int
	CompletionTokens int
	EstimatedCost    float64
}

// Answer is the result of one question against a knowledge base:
// the generated text, the fragments it was grounded on in retrieval
// rank order, and usage accounting.
type Answer struct {
	Content   string
	Fragments []Fragment
	Usage     UsageMetrics
}
