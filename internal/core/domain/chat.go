package domain

import (
	"fmt"
	"strings"
)

// DefaultNResults is the number of matches retrieved when the caller does not
// ask for a specific count.
const DefaultNResults = 5

// MaxNResults caps how many matches a single question may retrieve
const MaxNResults = 50

// noContextSentinel replaces the context block when retrieval produced nothing
const noContextSentinel = "No relevant context found."

// ChatRequest is a single incoming question
type ChatRequest struct {
	Question string `json:"question"`
	NResults int    `json:"n_results"`
}

// Normalize applies the n_results default and cap
func (r *ChatRequest) Normalize() {
	if r.NResults <= 0 {
		r.NResults = DefaultNResults
	}
	if r.NResults > MaxNResults {
		r.NResults = MaxNResults
	}
}

// ChatExchange pairs a question with its generated answer and the ordered
// context sentences that grounded it. This is the unit cached and returned to
// the caller; it is never mutated after creation.
type ChatExchange struct {
	Question string   `json:"question"`
	NResults int      `json:"n_results"`
	Answer   string   `json:"answer"`
	Context  []string `json:"context"`
}

// BuildPrompt assembles the single self-contained generation prompt: a fixed
// instruction preamble, the joined context block, and the verbatim question.
func BuildPrompt(question string, context []string) string {
	contextBlock := noContextSentinel
	if len(context) > 0 {
		contextBlock = strings.Join(context, "\n")
	}

	var b strings.Builder
	b.WriteString("You are a helpful assistant for a stock control management system. ")
	b.WriteString("Use the following context to answer the question. ")
	b.WriteString("If you cannot find the answer in the context, say so. Do not make up information.\n\n")
	b.WriteString("Context:\n")
	b.WriteString(contextBlock)
	b.WriteString("\n\nQuestion: ")
	b.WriteString(question)
	b.WriteString("\n\nAnswer:")
	return b.String()
}

// FallbackAnswer is returned when the generation service is unavailable. It
// echoes the original question so the caller can retry it verbatim.
func FallbackAnswer(question string) string {
	return fmt.Sprintf("I'm sorry, but I'm currently unable to process your question due to a service issue. "+
		"Please try again later or contact support. Your question was: %s", question)
}
