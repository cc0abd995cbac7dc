package models

const (
	// DefaultPersona is the system instruction used when the caller
	// configures none. It biases the model toward the retrieved
	// context instead of its own prior knowledge.
	DefaultPersona = "You are a helpful assistant. Answer the question using only the provided context. If the context does not contain the answer, say you could not find it in the document."

	// PromptTemplate lays out the user message: retrieved fragments
	// first, question last.
	PromptTemplate = `Context:
%s

Question: %s`

	// FragmentSeparator joins retrieved fragments inside the prompt.
	FragmentSeparator = "\n\n"
)
