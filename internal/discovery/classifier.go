package discovery

import (
	"regexp"
	"strings"
)

// Keyword sets driving link classification. The split into a subject group
// and a form group stops navigation chrome that merely mentions
// "sustainability" from passing, while the negative gate filters
// investor-relations noise.
var (
	negativeTerms = []string{
		"policy", "charter", "code of conduct", "code-of-conduct",
		"guideline", "presentation", "earnings", "quarterly", "slide",
		"webcast", "proxy", "transcript", "privacy", "terms of use",
	}

	// Explicit report designations that override the negative gate.
	gateCarveOuts = []string{"annual report", "sustainability report"}

	subjectTerms = []string{
		"esg", "sustainability", "climate", "csr", "annual",
		"responsibility", "environment", "impact", "integrated",
	}

	formTerms = []string{"report", "review", "year"}

	// Shorter list that actually accumulates score.
	strongTerms = []string{"report", "esg", "sustainability", "impact", "tcfd", "annual"}

	yearPattern = regexp.MustCompile(`\b(202[0-9]|2030)\b`)
)

const pdfBonus = 2

// Classify scores a (link text, URL) pair as disclosure-document-like.
// Higher is more report-like; 0 is a hard reject. The score is an integer
// rather than a boolean so candidates can be ranked.
func Classify(text, url string) int {
	lowerText := strings.ToLower(text)
	lowerURL := strings.ToLower(url)
	haystack := lowerText + " " + lowerURL

	// Negative gate, with a carve-out for titles that carry an explicit
	// report designation alongside an operational noise word
	// ("2024 Annual Report and Proxy Statement" must still pass).
	if containsAny(haystack, negativeTerms) && !containsAny(lowerText, gateCarveOuts) {
		return 0
	}

	// Both a subject and a form signal are required.
	if !containsAny(haystack, subjectTerms) {
		return 0
	}
	if !containsAny(haystack, formTerms) && !yearPattern.MatchString(haystack) {
		return 0
	}

	score := 0
	for _, kw := range strongTerms {
		if strings.Contains(haystack, kw) {
			score++
		}
	}
	if yearPattern.MatchString(haystack) {
		score++
	}
	if strings.HasSuffix(strings.SplitN(lowerURL, "?", 2)[0], ".pdf") {
		score += pdfBonus
	}
	return score
}

func containsAny(s string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}
