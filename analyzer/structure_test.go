package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeHeadings(t *testing.T) {
	tests := []struct {
		name     string
		headings []Heading
		want     []string
	}{
		{"no headings", nil, []string{IssueMissingH1, IssueFewSubheadings}},
		{"single h1", []Heading{{1, "Title"}}, []string{IssueFewSubheadings}},
		{"well structured", []Heading{{1, "Title"}, {2, "One"}, {2, "Two"}, {3, "Detail"}}, []string{}},
		{"duplicate h1", []Heading{{1, "A"}, {1, "B"}, {2, "One"}, {2, "Two"}},
			[]string{"Duplicate H1 headings: found 2, keep a single main title"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := analyzeHeadings(&Document{Headings: tt.headings})
			assert.Equal(t, tt.want, h.Issues)
		})
	}
}

func TestAnalyzeHeadingsCountsLevels(t *testing.T) {
	h := analyzeHeadings(&Document{Headings: []Heading{{1, "A"}, {2, "B"}, {3, "C"}, {3, "D"}, {4, "E"}}})
	assert.Equal(t, 1, h.H1)
	assert.Equal(t, 1, h.H2)
	assert.Equal(t, 2, h.H3)
	assert.Equal(t, 1, h.H4)
}

func TestAnalyzeParagraphs(t *testing.T) {
	doc := &Document{Paragraphs: []Paragraph{
		{WordCount: 10},
		{WordCount: 200},
		{WordCount: 15},
	}}

	stats := analyzeParagraphs(doc, 150)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 75.0, stats.AverageLength)
	assert.Equal(t, 1, stats.LongParagraphs)

	assert.Equal(t, ParagraphStats{}, analyzeParagraphs(&Document{}, 150))
}

func TestLinkingSuggestions(t *testing.T) {
	t.Run("topics", func(t *testing.T) {
		doc := &Document{Words: []string{"Our", "pricing", "tutorial", "covers", "customer", "needs"}}
		suggestions, topics := linkingSuggestions(doc)
		assert.Equal(t, []string{
			"Link to related tutorials or guides on your website",
			"Link to your pricing page where plans or costs are mentioned",
			"Link to customer stories or testimonials",
		}, suggestions)
		assert.Equal(t, 3, topics)
	})

	t.Run("plurals match", func(t *testing.T) {
		suggestions, topics := linkingSuggestions(&Document{Words: []string{"Guides"}})
		assert.Equal(t, []string{"Link to related tutorials or guides on your website"}, suggestions)
		assert.Equal(t, 1, topics)
	})

	t.Run("capped", func(t *testing.T) {
		doc := &Document{
			Words:     []string{"guide", "product", "research", "price", "customer"},
			ListItems: 5,
		}
		suggestions, topics := linkingSuggestions(doc)
		assert.Len(t, suggestions, maxLinkingSuggestion)
		assert.Equal(t, maxLinkingSuggestion, topics)
	})

	t.Run("generic fallback", func(t *testing.T) {
		suggestions, topics := linkingSuggestions(&Document{Words: []string{"weather", "today"}})
		assert.Equal(t, genericLinkSuggestions, suggestions)
		assert.Zero(t, topics)
	})
}

func TestAnalyzeStructureKeepsReadability(t *testing.T) {
	doc := NewDocument(articleText)
	r := AnalyzeReadability(doc)
	cs := AnalyzeStructure(doc, r, DefaultOptions())

	assert.Equal(t, r, cs.Readability)
	require.NotEmpty(t, cs.LinkingSuggestions)
	assert.Equal(t, 1, cs.Headings.H1)
}
