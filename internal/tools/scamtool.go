package tools

import (
	"context"

	"github.com/techpal/techpal/internal/scam"
)

// AnalyzeScamRisk runs the full scam assessment on arbitrary content.
func AnalyzeScamRisk(evaluator *scam.Evaluator) *Tool {
	return &Tool{
		Name: "analyze_scam_risk",
		Description: "Analyze any content for scam indicators and return a safety assessment. " +
			"Use this whenever you encounter suspicious emails, links, phone calls, or popups. " +
			"Always use this BEFORE opening links, downloading files, or acting on requests " +
			"that ask for personal information or money.",
		Schema: objectSchema([]string{"content"}, map[string]any{
			"content":      stringProp("The text to analyze (email body, URL, phone message, popup text, etc.)"),
			"content_type": stringProp("What kind of content: 'email', 'link', 'phone', 'popup'"),
		}),
		Run: func(ctx context.Context, in Input) (Result, error) {
			content := in.Str("content", "")
			if content == "" {
				return TextResult("I need the content to analyze. Paste or describe what you received."), nil
			}
			contentType := in.Str("content_type", "email")
			return TextResult(evaluator.Evaluate(ctx, content, contentType)), nil
		},
	}
}
