package entity

import "strings"

// legal-entity suffixes stripped when deriving the significant token.
var corporateStopwords = map[string]bool{
	"the": true, "inc": true, "corp": true, "corporation": true,
	"company": true, "ltd": true, "limited": true, "group": true,
	"holdings": true, "plc": true, "nv": true, "sa": true, "ag": true,
}

// OrganizationQuery is the immutable input for one discovery run.
type OrganizationQuery struct {
	Name     string `json:"organization"`
	Ticker   string `json:"ticker,omitempty"`
	EntryURL string `json:"entry_url,omitempty"`
}

// SignificantToken returns the first name component that is not a generic
// corporate suffix, lower-cased. It is the identity check used against
// extracted document text. Empty only for an empty name.
func (q OrganizationQuery) SignificantToken() string {
	for _, tok := range strings.Fields(strings.ToLower(q.Name)) {
		tok = strings.Trim(tok, ".,&()")
		if tok == "" || corporateStopwords[tok] {
			continue
		}
		return tok
	}
	return ""
}

// NameTokens returns the whitespace-delimited name tokens longer than two
// characters, lower-cased, used for domain matching.
func (q OrganizationQuery) NameTokens() []string {
	var out []string
	for _, tok := range strings.Fields(strings.ToLower(q.Name)) {
		tok = strings.Trim(tok, ".,&()")
		if len(tok) > 2 {
			out = append(out, tok)
		}
	}
	return out
}
