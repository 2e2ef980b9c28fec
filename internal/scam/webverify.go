package scam

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/techpal/techpal/internal/search"
)

const maxVerifySearches = 6

var (
	phonePattern  = regexp.MustCompile(`1?[-.\s]?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}`)
	domainPattern = regexp.MustCompile(`(?:https?://)?([a-zA-Z0-9.-]+\.[a-zA-Z]{2,})`)
	nonDigits     = regexp.MustCompile(`[^\d]`)
)

// Well-known domains that never warrant a scam lookup.
var safeDomains = map[string]bool{
	"gmail.com":     true,
	"yahoo.com":     true,
	"outlook.com":   true,
	"hotmail.com":   true,
	"cvs.com":       true,
	"zoom.us":       true,
	"google.com":    true,
	"microsoft.com": true,
	"apple.com":     true,
}

// WebVerify searches the web to check claims in suspicious content: the real
// phone numbers of matched organizations, scam reports for unknown domains,
// and scam reports for unknown phone numbers. At most six searches run per
// call. An empty string means no evidence was found.
func WebVerify(ctx context.Context, provider search.Provider, content string, matchedOrgs []string) string {
	if provider == nil {
		return ""
	}

	var findings []string
	searchesDone := 0

	for _, orgKey := range capSlice(matchedOrgs, 2) {
		if searchesDone >= maxVerifySearches {
			break
		}
		org, ok := KnownLegitimateContacts[orgKey]
		if !ok {
			continue
		}
		if snippet := provider.Search(ctx, org.Name+" official phone number 2026"); snippet != "" {
			findings = append(findings, fmt.Sprintf("Web check for %s: %s", org.Name, snippet))
		}
		searchesDone++
	}

	domains := domainPattern.FindAllStringSubmatch(content, -1)
	checked := 0
	for _, m := range domains {
		if searchesDone >= maxVerifySearches || checked >= 2 {
			break
		}
		domain := m[1]
		if safeDomains[strings.ToLower(domain)] {
			continue
		}
		if snippet := provider.Search(ctx, fmt.Sprintf("%q scam report", domain)); snippet != "" {
			findings = append(findings, fmt.Sprintf("Web check for %s: %s", domain, snippet))
		}
		searchesDone++
		checked++
	}

	knownNumbers := make(map[string]bool)
	for _, org := range KnownLegitimateContacts {
		knownNumbers[nonDigits.ReplaceAllString(org.Phone, "")] = true
	}

	phones := phonePattern.FindAllString(content, -1)
	checked = 0
	for _, phone := range phones {
		if searchesDone >= maxVerifySearches || checked >= 2 {
			break
		}
		clean := nonDigits.ReplaceAllString(phone, "")
		if len(clean) < 10 || knownNumbers[clean] {
			continue
		}
		if snippet := provider.Search(ctx, fmt.Sprintf("%q scam report", phone)); snippet != "" {
			findings = append(findings, fmt.Sprintf("Web check for %s: %s", phone, snippet))
		}
		searchesDone++
		checked++
	}

	if len(findings) == 0 {
		return ""
	}
	return "WEB VERIFICATION RESULTS:\n" + strings.Join(findings, "\n")
}

func capSlice(s []string, n int) []string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
