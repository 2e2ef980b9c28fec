// Package scam implements the scam detection engine: keyword scanning,
// best-effort web verification, and model-assisted deep analysis.
package scam

// Flag categories.
const (
	CategoryUrgency       = "urgency"
	CategoryAuthority     = "authority"
	CategoryFinancial     = "financial"
	CategoryTechSupport   = "tech_support"
	CategoryGrandparent   = "grandparent"
	CategoryShortenedURL  = "shortened_url"
	CategorySuspiciousTLD = "suspicious_tld"
)

// Risk levels.
const (
	RiskSafe       = "SAFE"
	RiskSuspicious = "SUSPICIOUS"
	RiskDangerous  = "DANGEROUS"
)

var urgencyPhrases = []string{
	"act now", "urgent", "immediately", "within 24 hours", "expires today",
	"don't delay", "time-sensitive", "last chance", "limited time",
	"your account will be closed", "suspended account", "account suspended",
	"verify immediately", "respond immediately", "final notice", "final warning",
}

var authorityKeywords = []string{
	"irs", "internal revenue", "social security administration", "ssa",
	"medicare", "fbi", "department of justice", "doj", "homeland security",
	"microsoft support", "apple support", "amazon security", "bank of america",
	"wells fargo", "chase bank",
}

var financialPhrases = []string{
	"gift card", "wire transfer", "cryptocurrency", "bitcoin", "western union",
	"moneygram", "bank account number", "routing number", "social security number",
	"ssn", "send money", "claim your prize", "you have won", "lottery",
	"tax refund", "verify your identity", "credit card number",
}

var techSupportPhrases = []string{
	"virus detected", "your computer is infected", "call this number",
	"remote access", "teamviewer", "anydesk", "chrome remote desktop",
	"your computer has been compromised", "security alert", "windows alert",
	"microsoft alert", "apple alert",
}

var grandparentPhrases = []string{
	"i'm in jail", "need bail", "don't tell anyone", "been arrested",
	"i need money", "please don't tell mom", "please don't tell dad",
}

var suspiciousTLDs = []string{".xyz", ".info", ".top", ".click", ".buzz", ".tk", ".ml", ".ga"}

var shortenedURLHosts = []string{"bit.ly", "tinyurl", "t.co", "goo.gl", "is.gd", "buff.ly"}

// OrgContact holds the verified contact details of an organization scammers
// commonly impersonate. These are factual, published numbers.
type OrgContact struct {
	Name    string
	Phone   string
	Website string
	KeyFact string
}

// KnownLegitimateContacts maps org keys (matched against authority keywords)
// to their real contact details.
var KnownLegitimateContacts = map[string]OrgContact{
	"irs": {
		Name:    "Internal Revenue Service (IRS)",
		Phone:   "1-800-829-1040",
		Website: "irs.gov",
		KeyFact: "The IRS will ALWAYS contact you by MAIL first. They NEVER call, email, or text to demand immediate payment.",
	},
	"social security": {
		Name:    "Social Security Administration (SSA)",
		Phone:   "1-800-772-1213",
		Website: "ssa.gov",
		KeyFact: "Social Security will NEVER call to threaten you or say your number is suspended.",
	},
	"medicare": {
		Name:    "Medicare",
		Phone:   "1-800-633-4227",
		Website: "medicare.gov",
		KeyFact: "Medicare will NEVER call to ask for your personal information or threaten your benefits.",
	},
	"fbi": {
		Name:    "FBI Elder Fraud Hotline",
		Phone:   "1-833-372-8311",
		Website: "ic3.gov",
		KeyFact: "The FBI does NOT call to demand payment or threaten arrest. If you've been scammed, call this number to report it.",
	},
	"microsoft": {
		Name:    "Microsoft Support",
		Phone:   "1-800-642-7676",
		Website: "support.microsoft.com",
		KeyFact: "Microsoft will NEVER show a popup asking you to call a phone number. Those are always scams.",
	},
}

// OrgKeys lists known org keys in a stable order for iteration.
var orgKeys = []string{"irs", "social security", "medicare", "fbi", "microsoft"}
