// Package summarize provides text summarization via an external inference API.
package summarize

import "context"

// Summarizer produces a short summary of the given text.
// Implementations make a single attempt with a bounded timeout; retry policy
// is deliberately absent.
type Summarizer interface {
	Summarize(ctx context.Context, text string) (string, error)
}

// APIError is an error reported by the inference API itself (model loading,
// rate limiting, invalid input), as opposed to a transport failure.
type APIError struct {
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}
