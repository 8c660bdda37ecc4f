package client

import (
	"strings"

	"github.com/jonesrussell/mapscraper/internal/models"
)

// FilterKeywords returns the keywords whose text contains the query,
// case-insensitively. An empty query matches everything. The input
// slice is never modified.
func FilterKeywords(keywords []models.Keyword, query string) []models.Keyword {
	if query == "" {
		return keywords
	}

	needle := strings.ToLower(query)
	matched := make([]models.Keyword, 0, len(keywords))
	for _, kw := range keywords {
		if strings.Contains(strings.ToLower(kw.Text), needle) {
			matched = append(matched, kw)
		}
	}
	return matched
}
