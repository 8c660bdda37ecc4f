package client

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonesrussell/mapscraper/internal/models"
)

func TestFilterKeywords(t *testing.T) {
	keywords := []models.Keyword{
		{Text: "Plumber", City: "Toronto"},
		{Text: "electrician", City: "Ottawa"},
		{Text: "roofing contractor", City: "North Bay"},
	}

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{name: "empty query matches all", query: "", want: []string{"Plumber", "electrician", "roofing contractor"}},
		{name: "case-insensitive text match", query: "PLUMB", want: []string{"Plumber"}},
		{name: "city is not matched", query: "ottawa", want: []string{}},
		{name: "substring match", query: "contract", want: []string{"roofing contractor"}},
		{name: "no match", query: "dentist", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterKeywords(keywords, tt.query)
			texts := make([]string, 0, len(got))
			for _, kw := range got {
				texts = append(texts, kw.Text)
			}
			assert.Equal(t, tt.want, texts)
		})
	}
}

func TestFilterKeywords_DoesNotMutateInput(t *testing.T) {
	keywords := []models.Keyword{{Text: "a"}, {Text: "b"}}
	_ = FilterKeywords(keywords, "a")
	assert.Len(t, keywords, 2)
	assert.Equal(t, "a", keywords[0].Text)
}
