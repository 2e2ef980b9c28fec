// Package search provides best-effort web lookups for scam verification.
package search

import "context"

// Provider performs a web search and returns a short snippet of findings.
// Implementations must be best-effort: an empty string means no evidence,
// never an error the caller has to handle.
type Provider interface {
	Search(ctx context.Context, query string) string
}
