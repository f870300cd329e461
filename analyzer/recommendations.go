package analyzer

import (
	"fmt"
	"sort"
	"unicode/utf8"
)

// ruleContext is the read-only view every recommendation rule evaluates
type ruleContext struct {
	doc       *Document
	opts      Options
	meta      MetaTags
	structure ContentStructure
	keywords  []string
}

func (c *ruleContext) primaryKeyword() string {
	if len(c.keywords) == 0 {
		return ""
	}
	return c.keywords[0]
}

// candidate is a recommendation before ids and priorities are assigned
type candidate struct {
	Recommendation
	actionable *bool
}

type rule struct {
	name     string
	category Category
	evaluate func(*ruleContext) *candidate
}

// rules are evaluated in order; the order also breaks priority ties
var rules = []rule{
	{"title-length", CategoryTechnical, titleLengthRule},
	{"description-length", CategoryTechnical, descriptionLengthRule},
	{"heading-structure", CategoryTechnical, headingStructureRule},
	{"content-length", CategoryContent, contentLengthRule},
	{"paragraph-length", CategoryContent, paragraphLengthRule},
	{"keyword-in-title", CategoryKeywords, keywordInTitleRule},
	{"readability", CategoryContent, readabilityRule},
	{"internal-links", CategoryLinks, internalLinksRule},
}

// GenerateRecommendations evaluates all rules and returns the triggered
// recommendations ordered by priority then impact, with ids from 1
func GenerateRecommendations(ctx *ruleContext) []Recommendation {
	type ranked struct {
		candidate
		order int
	}
	var found []ranked
	for i, r := range rules {
		c := r.evaluate(ctx)
		if c == nil {
			continue
		}
		c.Category = r.category
		found = append(found, ranked{*c, i})
	}

	for i := range found {
		c := &found[i]
		c.Priority = priorityFor(c.Impact, c.Category)
		if c.actionable != nil {
			c.Actionable = *c.actionable
		} else {
			c.Actionable = c.Effort == EffortQuickFix
		}
	}

	sort.SliceStable(found, func(i, j int) bool {
		a, b := found[i], found[j]
		if a.Priority != b.Priority {
			return a.Priority < b.Priority
		}
		if a.Impact.rank() != b.Impact.rank() {
			return a.Impact.rank() > b.Impact.rank()
		}
		return a.order < b.order
	})

	out := make([]Recommendation, 0, len(found))
	for i, c := range found {
		rec := c.Recommendation
		rec.ID = i + 1
		out = append(out, rec)
	}
	return out
}

func priorityFor(impact Impact, category Category) int {
	p := 3
	switch impact {
	case ImpactHigh:
		p = 1
	case ImpactMedium:
		p = 2
	}
	switch category {
	case CategoryContent:
		p++
	case CategoryLinks:
		p += 2
	}
	return min(max(p, 1), 5)
}

// impactByDistance grades how far a length is from its accepted range
func impactByDistance(length, lo, hi, high, medium int) (Impact, int) {
	if length == 0 {
		return ImpactHigh, lo
	}
	dist := 0
	if length < lo {
		dist = lo - length
	} else if length > hi {
		dist = length - hi
	}
	switch {
	case dist > high:
		return ImpactHigh, dist
	case dist > medium:
		return ImpactMedium, dist
	}
	return ImpactLow, dist
}

func titleLengthRule(c *ruleContext) *candidate {
	n := utf8.RuneCountInString(c.meta.Title)
	if n >= c.opts.TitleMin && n <= c.opts.TitleMax {
		return nil
	}
	impact, _ := impactByDistance(n, c.opts.TitleMin, c.opts.TitleMax, 20, 10)

	rec := Recommendation{Impact: impact, Effort: EffortQuickFix}
	switch {
	case n == 0:
		rec.Title = "Add a Page Title"
		rec.Description = "The content has no title. Search engines use the title as the main headline of the result."
	case n < c.opts.TitleMin:
		rec.Title = "Lengthen Your Title"
		rec.Description = fmt.Sprintf("Your title is %d characters. Titles between %d and %d characters get more clicks.",
			n, c.opts.TitleMin, c.opts.TitleMax)
	default:
		rec.Title = "Shorten Your Title"
		rec.Description = fmt.Sprintf("Your title is %d characters and will be cut off in search results after %d.",
			n, c.opts.TitleMax)
	}
	rec.FixSuggestion = fmt.Sprintf("Write a title of %d-%d characters that starts with your main topic%s.",
		c.opts.TitleMin, c.opts.TitleMax, keywordHint(c.primaryKeyword()))
	return &candidate{Recommendation: rec}
}

func descriptionLengthRule(c *ruleContext) *candidate {
	n := utf8.RuneCountInString(c.meta.Description)
	if n >= c.opts.DescriptionMin && n <= c.opts.DescriptionMax {
		return nil
	}
	impact, _ := impactByDistance(n, c.opts.DescriptionMin, c.opts.DescriptionMax, 60, 30)

	rec := Recommendation{Impact: impact, Effort: EffortQuickFix}
	switch {
	case n == 0:
		rec.Title = "Add a Meta Description"
		rec.Description = "There is no meta description, so search engines will pick a snippet on their own."
	case n < c.opts.DescriptionMin:
		rec.Title = "Expand Your Meta Description"
		rec.Description = fmt.Sprintf("Your meta description is %d characters. Use %d-%d characters to fill the snippet.",
			n, c.opts.DescriptionMin, c.opts.DescriptionMax)
	default:
		rec.Title = "Trim Your Meta Description"
		rec.Description = fmt.Sprintf("Your meta description is %d characters and will be truncated after %d.",
			n, c.opts.DescriptionMax)
	}
	rec.FixSuggestion = fmt.Sprintf("Summarize the page in %d-%d characters%s, and end with a reason to click.",
		c.opts.DescriptionMin, c.opts.DescriptionMax, keywordHint(c.primaryKeyword()))
	return &candidate{Recommendation: rec}
}

func headingStructureRule(c *ruleContext) *candidate {
	h := c.structure.Headings
	if h.H1 == 1 && h.H2 >= 2 {
		return nil
	}
	impact := ImpactMedium
	if h.H1 != 1 {
		impact = ImpactHigh
	}
	fix := "Use one H1 for the main title and break the body into sections with at least two H2 subheadings."
	if h.H1 > 1 {
		fix = fmt.Sprintf("Keep a single H1 and turn the other %d into H2 subheadings.", h.H1-1)
	}
	return &candidate{Recommendation: Recommendation{
		Title:         "Improve Heading Structure",
		Description:   headingIssueSummary(h),
		Impact:        impact,
		Effort:        EffortQuickFix,
		FixSuggestion: fix,
	}}
}

func contentLengthRule(c *ruleContext) *candidate {
	words := c.doc.WordCount
	if words >= c.opts.MinWords {
		return nil
	}
	impact := ImpactMedium
	if words < c.opts.ShortWords {
		impact = ImpactHigh
	}
	actionable := true
	return &candidate{
		Recommendation: Recommendation{
			Title: "Add More Content",
			Description: fmt.Sprintf("The content has %d words. Pages with at least %d words tend to rank better.",
				words, c.opts.MinWords),
			Impact: impact,
			Effort: EffortModerate,
			FixSuggestion: fmt.Sprintf("Add about %d more words: examples, answers to common questions or a short summary.",
				c.opts.MinWords-words),
		},
		actionable: &actionable,
	}
}

func paragraphLengthRule(c *ruleContext) *candidate {
	p := c.structure.Paragraphs
	if p.LongParagraphs == 0 && p.AverageLength <= float64(c.opts.MaxAverageParagraph) {
		return nil
	}
	desc := fmt.Sprintf("Paragraphs average %.0f words.", p.AverageLength)
	if p.LongParagraphs > 0 {
		desc = fmt.Sprintf("%d paragraph(s) run over %d words.", p.LongParagraphs, c.opts.LongParagraphWords)
	}
	return &candidate{Recommendation: Recommendation{
		Title:       "Break Up Long Paragraphs",
		Description: desc + " Long blocks of text are hard to scan.",
		Impact:      ImpactMedium,
		Effort:      EffortModerate,
		FixSuggestion: fmt.Sprintf("Split paragraphs so each covers one idea in under %d words.",
			c.opts.MaxAverageParagraph),
	}}
}

func keywordInTitleRule(c *ruleContext) *candidate {
	primary := c.primaryKeyword()
	if primary == "" || c.meta.Title == "" || containsTerm(c.meta.Title, primary) {
		return nil
	}
	return &candidate{Recommendation: Recommendation{
		Title:         "Use Your Main Keyword in the Title",
		Description:   fmt.Sprintf("The most frequent keyword %q does not appear in the title.", primary),
		Impact:        ImpactHigh,
		Effort:        EffortQuickFix,
		FixSuggestion: fmt.Sprintf("Rewrite the title so it includes %q, ideally near the beginning.", primary),
	}}
}

func readabilityRule(c *ruleContext) *candidate {
	score := c.structure.Readability.FleschScore
	if score >= 60 || c.doc.WordCount == 0 {
		return nil
	}
	return &candidate{Recommendation: Recommendation{
		Title: "Enhance Content Clarity",
		Description: fmt.Sprintf("The readability score is %.1f (%s). Most readers prefer text scoring 60 or higher.",
			score, c.structure.Readability.Grade),
		Impact:        ImpactMedium,
		Effort:        EffortModerate,
		FixSuggestion: "Use shorter sentences and simpler words, and replace jargon with plain terms.",
	}}
}

func internalLinksRule(c *ruleContext) *candidate {
	if c.structure.topicLinks >= c.opts.MinTopicLinks {
		return nil
	}
	return &candidate{Recommendation: Recommendation{
		Title:         "Plan Internal Links",
		Description:   "No clear linking opportunities were found in the text.",
		Impact:        ImpactLow,
		Effort:        EffortModerate,
		FixSuggestion: "Mention related guides, products or research on your site and link to them from those passages.",
	}}
}

func keywordHint(primary string) string {
	if primary == "" {
		return ""
	}
	return fmt.Sprintf(", mentioning %q", primary)
}
