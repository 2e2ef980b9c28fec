package scam

import (
	"testing"
)

func TestScanSafeContent(t *testing.T) {
	s := NewScanner(3)
	result := s.Scan("Hi! We'd love to have you over for dinner this Sunday at 5pm.")

	if result.Risk != RiskSafe {
		t.Errorf("expected SAFE, got %s with flags %v", result.Risk, result.Flags)
	}
	if len(result.Flags) != 0 {
		t.Errorf("expected no flags, got %v", result.Flags)
	}
}

func TestScanLotteryScam(t *testing.T) {
	s := NewScanner(3)
	result := s.Scan("CONGRATULATIONS! You have won the lottery! Act now to claim your prize!")

	if result.Risk != RiskDangerous {
		t.Errorf("expected DANGEROUS, got %s", result.Risk)
	}

	categories := result.Categories()
	hasFinancial, hasUrgency := false, false
	for _, c := range categories {
		if c == CategoryFinancial {
			hasFinancial = true
		}
		if c == CategoryUrgency {
			hasUrgency = true
		}
	}
	if !hasFinancial || !hasUrgency {
		t.Errorf("expected financial and urgency categories, got %v", categories)
	}
	if len(result.MatchedOrgs) != 0 {
		t.Errorf("lottery scam should match no orgs, got %v", result.MatchedOrgs)
	}
}

func TestScanIRSImpersonation(t *testing.T) {
	s := NewScanner(3)
	result := s.Scan("This is the IRS. This is your final warning: pay immediately or face arrest.")

	if result.Risk != RiskDangerous {
		t.Errorf("expected DANGEROUS, got %s with flags %v", result.Risk, result.Flags)
	}

	foundIRS := false
	for _, org := range result.MatchedOrgs {
		if org == "irs" {
			foundIRS = true
		}
	}
	if !foundIRS {
		t.Errorf("expected irs in matched orgs, got %v", result.MatchedOrgs)
	}
}

func TestScanTechSupportEscalates(t *testing.T) {
	s := NewScanner(3)

	// A single tech-support flag is enough for DANGEROUS.
	result := s.Scan("Virus detected on your machine.")
	if result.Risk != RiskDangerous {
		t.Errorf("expected DANGEROUS for tech support flag, got %s", result.Risk)
	}

	foundMicrosoft := false
	for _, org := range result.MatchedOrgs {
		if org == "microsoft" {
			foundMicrosoft = true
		}
	}
	if !foundMicrosoft {
		t.Errorf("tech support scan should map to microsoft, got %v", result.MatchedOrgs)
	}
}

func TestScanSingleUrgencyFlagIsSuspicious(t *testing.T) {
	s := NewScanner(3)
	result := s.Scan("This is urgent, please read when you get a chance.")

	if result.Risk != RiskSuspicious {
		t.Errorf("expected SUSPICIOUS for a lone urgency flag, got %s with flags %v", result.Risk, result.Flags)
	}
}

func TestScanSuspiciousDomainsAndShorteners(t *testing.T) {
	s := NewScanner(3)
	result := s.Scan("Visit free-prizes-now.xyz or bit.ly/win to learn more")

	categories := result.Categories()
	hasTLD, hasShortener := false, false
	for _, c := range categories {
		if c == CategorySuspiciousTLD {
			hasTLD = true
		}
		if c == CategoryShortenedURL {
			hasShortener = true
		}
	}
	if !hasTLD {
		t.Errorf("expected suspicious_tld flag, got %v", result.Flags)
	}
	if !hasShortener {
		t.Errorf("expected shortened_url flag, got %v", result.Flags)
	}
}

func TestScanMatchingIsCaseInsensitive(t *testing.T) {
	s := NewScanner(3)
	result := s.Scan("ACT NOW! Send a GIFT CARD to MEDICARE!")

	if result.Risk != RiskDangerous {
		t.Errorf("expected DANGEROUS, got %s", result.Risk)
	}
	if len(result.Flags) < 3 {
		t.Errorf("expected at least 3 flags, got %v", result.Flags)
	}
}

func TestCategoriesFirstSeenOrder(t *testing.T) {
	result := ScanResult{Flags: []Flag{
		{CategoryUrgency, "act now"},
		{CategoryFinancial, "gift card"},
		{CategoryUrgency, "urgent"},
	}}

	categories := result.Categories()
	if len(categories) != 2 {
		t.Fatalf("expected 2 distinct categories, got %v", categories)
	}
	if categories[0] != CategoryUrgency || categories[1] != CategoryFinancial {
		t.Errorf("expected first-seen order [urgency financial], got %v", categories)
	}
}

func TestScannerDefaultThreshold(t *testing.T) {
	s := NewScanner(0)
	if s.DangerFlagCount != 3 {
		t.Errorf("expected default threshold 3, got %d", s.DangerFlagCount)
	}
}
