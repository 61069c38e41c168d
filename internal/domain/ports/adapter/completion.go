package adapter

import "context"

// CompletionResult is the typed outcome of one completion call. The adapter
// never returns an error: provider failures become a Degraded result whose
// Reply is a user-facing substitute, and the caller-supplied context is passed
// through unchanged.
type CompletionResult struct {
	Reply string
	// NextContext seeds the following turn. On a genuine reply it is the
	// prior context joined with the reply; otherwise it equals the prior
	// context.
	NextContext string
	Degraded    bool
	// Reason classifies a degraded outcome: "auth", "provider_rate_limit",
	// "not_found", "unavailable", "empty_response".
	Reason string
}

// CompletionAdapter is the port for the external chat completion provider.
// Complete blocks for the duration of the call, including the fixed retry
// delay, so callers must tolerate multi-second stalls.
type CompletionAdapter interface {
	Complete(ctx context.Context, userText, priorContext string) CompletionResult
}
