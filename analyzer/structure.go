package analyzer

import (
	"fmt"
	"strings"
)

const (
	IssueMissingH1       = "Missing H1 heading: add one main title"
	IssueFewSubheadings  = "Add more subheadings (H2) for structure"
	maxLinkingSuggestion = 4
)

// linkTopic maps terms found in the text to an internal-linking suggestion
type linkTopic struct {
	terms      []string
	suggestion string
}

var linkTopics = []linkTopic{
	{[]string{"guide", "tutorial", "step", "learn", "lesson"}, "Link to related tutorials or guides on your website"},
	{[]string{"product", "service", "solution", "feature", "platform", "tool"}, "Add links to relevant product or service pages"},
	{[]string{"research", "study", "data", "report", "survey", "statistic"}, "Link to supporting research or case studies"},
	{[]string{"price", "pricing", "plan", "cost", "subscription", "discount"}, "Link to your pricing page where plans or costs are mentioned"},
	{[]string{"customer", "client", "review", "testimonial", "case"}, "Link to customer stories or testimonials"},
}

var genericLinkSuggestions = []string{
	"Add links to related articles on your website",
	"Include links to your main category pages",
	"Link to your contact or about page where relevant",
}

// AnalyzeStructure reports heading counts with validation issues, paragraph
// statistics and internal-linking suggestions
func AnalyzeStructure(doc *Document, readability ReadabilityMetrics, opts Options) ContentStructure {
	cs := ContentStructure{
		Headings:    analyzeHeadings(doc),
		Paragraphs:  analyzeParagraphs(doc, opts.LongParagraphWords),
		Readability: readability,
	}
	cs.LinkingSuggestions, cs.topicLinks = linkingSuggestions(doc)
	return cs
}

func analyzeHeadings(doc *Document) HeadingStats {
	counts := doc.countHeadings()
	h := HeadingStats{
		H1:     counts[1],
		H2:     counts[2],
		H3:     counts[3],
		H4:     counts[4],
		Issues: []string{},
	}

	switch {
	case h.H1 == 0:
		h.Issues = append(h.Issues, IssueMissingH1)
	case h.H1 > 1:
		h.Issues = append(h.Issues, fmt.Sprintf("Duplicate H1 headings: found %d, keep a single main title", h.H1))
	}
	if h.H2 < 2 {
		h.Issues = append(h.Issues, IssueFewSubheadings)
	}
	return h
}

func analyzeParagraphs(doc *Document, longThreshold int) ParagraphStats {
	stats := ParagraphStats{Total: len(doc.Paragraphs)}
	if stats.Total == 0 {
		return stats
	}

	words := 0
	for _, p := range doc.Paragraphs {
		words += p.WordCount
		if p.WordCount > longThreshold {
			stats.LongParagraphs++
		}
	}
	stats.AverageLength = round1(float64(words) / float64(stats.Total))
	return stats
}

// linkingSuggestions derives suggestions from topics in the text. When none is
// found it falls back to generic advice, so the result is never empty. The
// second value is the number of topic-derived suggestions.
func linkingSuggestions(doc *Document) ([]string, int) {
	terms := make(map[string]bool)
	for _, w := range doc.Words {
		terms[stem(normalizeTerm(w))] = true
	}

	var suggestions []string
	for _, topic := range linkTopics {
		for _, t := range topic.terms {
			if terms[t] {
				suggestions = append(suggestions, topic.suggestion)
				break
			}
		}
	}
	if doc.ListItems >= 3 {
		suggestions = append(suggestions, "Link each listed item to the page that covers it in depth")
	}

	if len(suggestions) > maxLinkingSuggestion {
		suggestions = suggestions[:maxLinkingSuggestion]
	}
	if len(suggestions) == 0 {
		return append([]string{}, genericLinkSuggestions...), 0
	}
	return suggestions, len(suggestions)
}

// headingIssueSummary joins heading issues for use in a recommendation
func headingIssueSummary(h HeadingStats) string {
	return strings.Join(h.Issues, "; ")
}
