package discovery

import (
	"net/url"
	"path"
	"regexp"
	"strings"
)

// Terms that make visible anchor text useless as a title on their own.
var genericTerms = map[string]bool{
	"download": true, "pdf": true, "click here": true, "view": true,
	"read more": true, "report": true, "file": true, "link": true,
	"learn more": true, "here": true,
}

const (
	shortTitleLen    = 30
	maxContextLen    = 200
	fallbackDocument = "Report"
	fallbackWeb      = "Unknown Web Resource"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// TitleSignals carries every weak signal available for one anchor. Any field
// may be empty; synthesis never fails on missing input.
type TitleSignals struct {
	AnchorText    string
	AriaLabel     string
	TitleAttr     string
	ImgAlt        string
	URL           string
	PrecedingHead string // nearest preceding h1-h6 text, bounded hops
	ParentText    string // surrounding block text, capped length
}

// SynthesizeTitle derives a human-readable label for a link from multiple
// weak signals. Best effort: every missing signal is skipped, and the
// absolute fallback is a content-type default string.
func SynthesizeTitle(sig TitleSignals) string {
	base := chooseBase(sig)

	// Append a year from the URL when the base text carries none.
	if !yearPattern.MatchString(base) {
		if y := yearPattern.FindString(sig.URL); y != "" {
			base = base + " (" + y + ")"
		}
	}

	// Short or generic bases borrow the nearest preceding heading for
	// context, unless the heading is already part of the text.
	if len(base) < shortTitleLen || isGeneric(base) {
		head := cleanText(sig.PrecedingHead)
		if head != "" && !strings.Contains(strings.ToLower(base), strings.ToLower(head)) {
			base = head + " - " + base
		}
	}

	// Last chance for a year: the surrounding block text.
	if !yearPattern.MatchString(base) {
		context := sig.ParentText
		if len(context) > maxContextLen {
			context = context[:maxContextLen]
		}
		if y := yearPattern.FindString(context); y != "" {
			base = base + " (" + y + ")"
		}
	}

	return cleanText(base)
}

// chooseBase picks the strongest available signal in priority order.
func chooseBase(sig TitleSignals) string {
	text := cleanText(sig.AnchorText)
	aria := cleanText(sig.AriaLabel)

	if text != "" && !isGeneric(text) && len(text) >= 4 {
		// An aria-label that is clearly more descriptive wins over
		// terse visible text.
		if aria != "" && len(aria) > len(text)+5 {
			return aria
		}
		return text
	}
	if aria != "" {
		return aria
	}
	if t := cleanText(sig.TitleAttr); t != "" {
		return t
	}
	if alt := cleanText(sig.ImgAlt); alt != "" {
		return alt
	}
	if seg := deslugPathSegment(sig.URL); seg != "" {
		return seg
	}
	return contentTypeDefault(sig.URL)
}

func isGeneric(text string) bool {
	return genericTerms[strings.ToLower(strings.TrimSpace(text))]
}

func cleanText(s string) string {
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(s, " "))
}

// deslugPathSegment turns the last URL path segment into a title-cased
// label: "annual-esg_report.pdf" -> "Annual Esg Report".
func deslugPathSegment(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	seg := path.Base(u.Path)
	if seg == "" || seg == "/" || seg == "." {
		return ""
	}
	seg = strings.TrimSuffix(seg, path.Ext(seg))
	seg = strings.NewReplacer("-", " ", "_", " ").Replace(seg)
	seg = cleanText(seg)
	if seg == "" {
		return ""
	}
	words := strings.Fields(strings.ToLower(seg))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// contentTypeDefault is the absolute fallback, chosen by scanning the URL
// for a document-type keyword.
func contentTypeDefault(rawURL string) string {
	lower := strings.ToLower(rawURL)
	switch {
	case strings.Contains(lower, "sustainability") || strings.Contains(lower, "esg") || strings.Contains(lower, "csr"):
		return "Sustainability Report"
	case strings.Contains(lower, ".pdf") || strings.Contains(lower, "report"):
		return fallbackDocument
	default:
		return fallbackWeb
	}
}
