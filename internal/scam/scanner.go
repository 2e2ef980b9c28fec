package scam

import (
	"strings"
)

// Flag is one matched scam indicator.
type Flag struct {
	Category string
	Phrase   string
}

// ScanResult is the outcome of a keyword scan.
type ScanResult struct {
	Risk        string
	Flags       []Flag
	MatchedOrgs []string
}

// Scanner performs keyword-based scam scanning. DangerFlagCount is the flag
// total at which content is escalated from SUSPICIOUS to DANGEROUS.
type Scanner struct {
	DangerFlagCount int
}

// NewScanner builds a scanner with the given danger threshold.
func NewScanner(dangerFlagCount int) *Scanner {
	if dangerFlagCount <= 0 {
		dangerFlagCount = 3
	}
	return &Scanner{DangerFlagCount: dangerFlagCount}
}

// Scan matches the text against all keyword families and scores the risk.
// Matching is case-insensitive substring search; false positives are
// acceptable since the output is advisory.
func (s *Scanner) Scan(text string) ScanResult {
	lower := strings.ToLower(text)
	var flags []Flag
	var matchedOrgs []string

	addOrg := func(key string) {
		for _, o := range matchedOrgs {
			if o == key {
				return
			}
		}
		matchedOrgs = append(matchedOrgs, key)
	}

	for _, phrase := range urgencyPhrases {
		if strings.Contains(lower, phrase) {
			flags = append(flags, Flag{CategoryUrgency, phrase})
		}
	}

	for _, keyword := range authorityKeywords {
		if strings.Contains(lower, keyword) {
			flags = append(flags, Flag{CategoryAuthority, keyword})
			for _, orgKey := range orgKeys {
				if strings.Contains(keyword, orgKey) || strings.Contains(orgKey, keyword) {
					addOrg(orgKey)
				}
			}
		}
	}

	for _, phrase := range financialPhrases {
		if strings.Contains(lower, phrase) {
			flags = append(flags, Flag{CategoryFinancial, phrase})
		}
	}

	for _, phrase := range techSupportPhrases {
		if strings.Contains(lower, phrase) {
			flags = append(flags, Flag{CategoryTechSupport, phrase})
			// Tech support scams overwhelmingly impersonate Microsoft.
			addOrg("microsoft")
		}
	}

	for _, phrase := range grandparentPhrases {
		if strings.Contains(lower, phrase) {
			flags = append(flags, Flag{CategoryGrandparent, phrase})
		}
	}

	for _, host := range shortenedURLHosts {
		if strings.Contains(lower, host) {
			flags = append(flags, Flag{CategoryShortenedURL, host})
		}
	}

	for _, tld := range suspiciousTLDs {
		if strings.Contains(lower, tld) {
			flags = append(flags, Flag{CategorySuspiciousTLD, tld})
		}
	}

	return ScanResult{
		Risk:        s.score(flags),
		Flags:       flags,
		MatchedOrgs: matchedOrgs,
	}
}

func (s *Scanner) score(flags []Flag) string {
	if len(flags) == 0 {
		return RiskSafe
	}
	categories := make(map[string]bool)
	for _, f := range flags {
		categories[f.Category] = true
	}
	if len(flags) >= s.DangerFlagCount || categories[CategoryFinancial] || categories[CategoryTechSupport] {
		return RiskDangerous
	}
	return RiskSuspicious
}

// Categories returns the distinct flag categories in first-seen order.
func (r ScanResult) Categories() []string {
	seen := make(map[string]bool)
	var out []string
	for _, f := range r.Flags {
		if !seen[f.Category] {
			seen[f.Category] = true
			out = append(out, f.Category)
		}
	}
	return out
}
