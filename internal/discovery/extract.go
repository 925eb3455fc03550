package discovery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/user/esg-discovery/pkg/utils"
)

// anchorInfo is one anchor in document order with every title signal the
// synthesizer can use.
type anchorInfo struct {
	URL     string
	RawText string
	Signals TitleSignals
}

const (
	maxHeadingHops = 4
	maxParentHops  = 2
)

var contextParents = map[string]bool{
	"div": true, "p": true, "li": true, "td": true,
	"section": true, "article": true,
}

// extractAnchors parses one HTML document and returns its anchors in
// document order, hrefs normalized against the page URL. Anchors that
// normalize to nothing (fragments, javascript:, mailto:) are skipped.
func extractAnchors(pageURL, html string) ([]anchorInfo, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	// <base href> shifts relative resolution for the whole document.
	if baseHref, ok := doc.Find("base[href]").First().Attr("href"); ok {
		if parsed, err := url.Parse(baseHref); err == nil {
			base = base.ResolveReference(parsed)
		}
	}

	var anchors []anchorInfo
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		abs := utils.NormalizeAnchor(base, href)
		if abs == "" {
			return
		}

		aria, _ := s.Attr("aria-label")
		titleAttr, _ := s.Attr("title")
		imgAlt, _ := s.Find("img").First().Attr("alt")

		anchors = append(anchors, anchorInfo{
			URL:     abs,
			RawText: strings.TrimSpace(s.Text()),
			Signals: TitleSignals{
				AnchorText:    s.Text(),
				AriaLabel:     aria,
				TitleAttr:     titleAttr,
				ImgAlt:        imgAlt,
				URL:           abs,
				PrecedingHead: precedingHeading(s),
				ParentText:    parentContext(s),
			},
		})
	})
	return anchors, nil
}

// precedingHeading finds the nearest h1-h6 before the anchor, searching
// previous siblings at each ancestor level up to a bounded number of hops.
func precedingHeading(s *goquery.Selection) string {
	node := s
	for hop := 0; hop < maxHeadingHops; hop++ {
		if h := node.PrevAllFiltered("h1,h2,h3,h4,h5,h6").First(); h.Length() > 0 {
			return strings.TrimSpace(h.Text())
		}
		node = node.Parent()
		if node.Length() == 0 {
			break
		}
		if goquery.NodeName(node) == "h1" || goquery.NodeName(node) == "h2" ||
			goquery.NodeName(node) == "h3" || goquery.NodeName(node) == "h4" ||
			goquery.NodeName(node) == "h5" || goquery.NodeName(node) == "h6" {
			return strings.TrimSpace(node.Text())
		}
	}
	return ""
}

// parentContext returns text from the nearest small enclosing block, for
// year inference. Huge containers are skipped so navigation chrome does not
// leak in.
func parentContext(s *goquery.Selection) string {
	parent := s.Parent()
	for hop := 0; hop < maxParentHops && parent.Length() > 0; hop++ {
		if contextParents[goquery.NodeName(parent)] {
			text := strings.TrimSpace(parent.Text())
			if text != "" && len(text) < maxContextLen {
				return text
			}
		}
		parent = parent.Parent()
	}
	return ""
}
