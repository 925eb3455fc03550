package discovery

import (
	"regexp"
	"sort"
	"strconv"

	"github.com/user/esg-discovery/internal/entity"
)

var fiscalYearPattern = regexp.MustCompile(`(?i)\bFY['\s]?(\d{2})\b`)

// InferYear extracts a document year from a title: a 4-digit year in the
// 2020-2030 window, or a fiscal short form ("FY23" -> 2023). Returns 0 when
// no year is detectable.
func InferYear(title string) int {
	if m := yearPattern.FindString(title); m != "" {
		y, _ := strconv.Atoi(m)
		return y
	}
	if m := fiscalYearPattern.FindStringSubmatch(title); m != nil {
		y, _ := strconv.Atoi(m[1])
		return 2000 + y
	}
	return 0
}

// Aggregate merges per-strategy document streams into the final ordered
// list. Streams must be passed in strategy-priority order: on URL collisions
// the first occurrence wins, since earlier strategies are higher-trust. The
// merged list is sorted by inferred year descending with yearless documents
// last, then capped.
func Aggregate(streams [][]entity.VerifiedDocument, maxResults int) []entity.VerifiedDocument {
	seen := map[string]bool{}
	var merged []entity.VerifiedDocument
	for _, stream := range streams {
		for _, doc := range stream {
			if seen[doc.URL] {
				continue
			}
			seen[doc.URL] = true
			doc.InferredYear = InferYear(doc.Title)
			merged = append(merged, doc)
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].InferredYear > merged[j].InferredYear
	})

	if maxResults > 0 && len(merged) > maxResults {
		merged = merged[:maxResults]
	}
	return merged
}
