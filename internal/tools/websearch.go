package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/techpal/techpal/internal/search"
)

// SearchWeb looks up information on the internet.
func SearchWeb(provider search.Provider) *Tool {
	return &Tool{
		Name: "search_web",
		Description: "Search the internet for information. Use when the user asks a question " +
			"you don't know the answer to, when you need to verify something (like a " +
			"phone number or organization), or when the user asks 'look this up for me'.",
		Schema: objectSchema([]string{"query"}, map[string]any{
			"query":       stringProp("What to search for (e.g., 'IRS phone number', 'CVS pharmacy hours Main Street')"),
			"num_results": intProp("How many results to return (1-5, default 3)"),
		}),
		Run: func(ctx context.Context, in Input) (Result, error) {
			query := strings.TrimSpace(in.Str("query", ""))
			if query == "" {
				return TextResult("I need something to search for. What would you like me to look up?"), nil
			}

			snippet := provider.Search(ctx, query)
			if snippet == "" {
				return TextResult(fmt.Sprintf(
					"I wasn't able to search for '%s' right now. Let me try to help you with what I know.", query)), nil
			}
			return TextResult(fmt.Sprintf("Here's what I found about '%s':\n\n%s", query, snippet)), nil
		},
	}
}
