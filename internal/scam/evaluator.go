package scam

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/techpal/techpal/internal/domain"
	"github.com/techpal/techpal/internal/model"
	"github.com/techpal/techpal/internal/search"
)

// Evaluator produces plain-language scam assessments. Keyword scanning always
// runs; when a model client is available, non-safe content additionally gets
// a deep analysis pass whose reasoning trace is embedded in the report.
type Evaluator struct {
	scanner  *Scanner
	client   model.Client
	provider search.Provider
	modelID  string
}

// NewEvaluator builds an evaluator. client and provider may be nil; both
// degrade to keyword-only assessment.
func NewEvaluator(scanner *Scanner, client model.Client, provider search.Provider, modelID string) *Evaluator {
	return &Evaluator{scanner: scanner, client: client, provider: provider, modelID: modelID}
}

// Scan exposes the raw keyword scan for callers that only need the score.
func (e *Evaluator) Scan(text string) ScanResult {
	return e.scanner.Scan(text)
}

// Evaluate analyzes content and returns a safety assessment the user can
// read aloud. contentType is "email", "link", "phone", or "popup" and only
// changes the phrasing.
func (e *Evaluator) Evaluate(ctx context.Context, content, contentType string) string {
	scan := e.scanner.Scan(content)
	if scan.Risk == RiskSafe {
		return "This looks safe. I didn't find any scam indicators."
	}

	webEvidence := WebVerify(ctx, e.provider, content, scan.MatchedOrgs)

	if e.client != nil && e.client.Available() {
		if report, err := e.deepAnalysis(ctx, content, contentType, scan, webEvidence); err == nil {
			return report
		} else {
			slog.Warn("deep scam analysis failed, using keyword report", "error", err)
		}
	}

	return e.keywordReport(scan, contentType)
}

func (e *Evaluator) deepAnalysis(ctx context.Context, content, contentType string, scan ScanResult, webEvidence string) (string, error) {
	var flagDesc []string
	for _, f := range scan.Flags {
		flagDesc = append(flagDesc, fmt.Sprintf("(%s: %q)", f.Category, f.Phrase))
	}

	webContext := ""
	if webEvidence != "" {
		webContext = "\n\n" + webEvidence
	}

	prompt := fmt.Sprintf(
		"You are a scam detection expert protecting an elderly person. "+
			"Analyze this %s for scam risk.\n\n"+
			"Content:\n%s\n\n"+
			"Our keyword pre-filter found these flags: %s\n"+
			"Matched organizations: %s%s\n\n"+
			"Provide your analysis in this exact format:\n"+
			"RISK: HIGH or MEDIUM\n"+
			"TYPE: (tech support / phishing / lottery / grandparent / romance / government impersonation / other)\n"+
			"EXPLANATION: (2-3 sentences in plain language an elderly person can understand)\n"+
			"WHAT TO DO:\n- (step 1)\n- (step 2)\n- (step 3)\n\n"+
			"Keep it under 200 words. Use simple language.",
		contentType, content, strings.Join(flagDesc, ", "), strings.Join(scan.MatchedOrgs, ", "), webContext,
	)

	resp, err := e.client.Messages(ctx, model.MessageRequest{
		Model:    e.modelID,
		Messages: []domain.Turn{domain.TextTurn(domain.RoleUser, prompt)},
		Thinking: model.AdaptiveThinking(),
	})
	if err != nil {
		return "", err
	}

	turn := resp.AsTurn()
	analysis := turn.JoinedText()
	thinking := turn.JoinedThinking()
	if strings.TrimSpace(analysis) == "" {
		return "", fmt.Errorf("deep analysis returned no text")
	}

	var lines []string
	lines = append(lines, riskHeader(scan.Risk))
	lines = append(lines, analysis)
	lines = append(lines, orgContactLines(scan.MatchedOrgs, true)...)
	if thinking != "" {
		lines = append(lines, fmt.Sprintf("\n[THINKING_TRACE]%s[/THINKING_TRACE]", thinking))
	}
	return strings.Join(lines, "\n"), nil
}

func (e *Evaluator) keywordReport(scan ScanResult, contentType string) string {
	var lines []string
	lines = append(lines, riskHeader(scan.Risk))
	lines = append(lines, "Here's what I found that concerns me:\n")

	seen := make(map[string]bool)
	for _, f := range scan.Flags {
		if seen[f.Category] {
			continue
		}
		seen[f.Category] = true
		switch f.Category {
		case CategoryUrgency:
			lines = append(lines, fmt.Sprintf("  - Pressure language: %q. Scammers create fake urgency so you don't think carefully", f.Phrase))
		case CategoryAuthority:
			lines = append(lines, fmt.Sprintf("  - Claims to be from: %q. Scammers often pretend to be trusted organizations", f.Phrase))
		case CategoryFinancial:
			lines = append(lines, fmt.Sprintf("  - Asks for money/info: %q. Legitimate organizations don't ask for this by %s", f.Phrase, contentType))
		case CategoryTechSupport:
			lines = append(lines, fmt.Sprintf("  - Fake tech support: %q. Real companies never show popups asking you to call", f.Phrase))
		case CategoryGrandparent:
			lines = append(lines, fmt.Sprintf("  - Emergency money request: %q. This is a common 'grandparent scam'", f.Phrase))
		case CategoryShortenedURL:
			lines = append(lines, fmt.Sprintf("  - Hidden link: %q. Scammers hide dangerous links behind shortened URLs", f.Phrase))
		case CategorySuspiciousTLD:
			lines = append(lines, fmt.Sprintf("  - Suspicious website: %q. Legitimate organizations don't use these web addresses", f.Phrase))
		}
	}

	lines = append(lines, orgContactLines(scan.MatchedOrgs, false)...)

	lines = append(lines, "\nWhat you should do:")
	if scan.Risk == RiskDangerous {
		lines = append(lines,
			"  1. Do NOT click any links in this message",
			"  2. Do NOT call any phone numbers listed here",
			"  3. Do NOT send money, gift cards, or personal information",
			"  4. Delete this message",
		)
		if len(scan.MatchedOrgs) > 0 {
			lines = append(lines, "  5. If you're worried, call the REAL number listed above to verify")
		}
	} else {
		lines = append(lines,
			"  1. Be careful: don't click links or share personal information",
			"  2. If someone asks for money or passwords, it's almost certainly a scam",
			"  3. When in doubt, ask a family member or call the organization directly",
		)
	}

	return strings.Join(lines, "\n")
}

func riskHeader(risk string) string {
	if risk == RiskDangerous {
		return "DANGER: This is very likely a SCAM!\n"
	}
	return "WARNING: This looks suspicious.\n"
}

func orgContactLines(matchedOrgs []string, brief bool) []string {
	if len(matchedOrgs) == 0 {
		return nil
	}
	var lines []string
	if brief {
		lines = append(lines, "\nVerified contact numbers (call these to check):\n")
	} else {
		lines = append(lines, "\nIf this is really from a legitimate organization, here's how to check:\n")
	}
	for _, orgKey := range matchedOrgs {
		org, ok := KnownLegitimateContacts[orgKey]
		if !ok {
			continue
		}
		if brief {
			lines = append(lines,
				fmt.Sprintf("  %s: %s", org.Name, org.Phone),
				fmt.Sprintf("    %s", org.KeyFact),
				"")
		} else {
			lines = append(lines,
				fmt.Sprintf("  %s", org.Name),
				fmt.Sprintf("    Real phone number: %s", org.Phone),
				fmt.Sprintf("    Real website: %s", org.Website),
				fmt.Sprintf("    Remember: %s", org.KeyFact),
				"")
		}
	}
	return lines
}
