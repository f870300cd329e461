package analyzer

import (
	"math"
	"unicode/utf8"
)

// Sub-score weights; they sum to 1
const (
	weightTechnical = 0.25
	weightContent   = 0.30
	weightStructure = 0.20
	weightKeywords  = 0.25

	neutralSubScore = 50.0
)

// Content health labels
const (
	HealthExcellent        = "Excellent"
	HealthGood             = "Good"
	HealthFair             = "Fair"
	HealthNeedsImprovement = "Needs Improvement"
)

// CalculateScore combines the sub-scores into the overall 0-100 score
func CalculateScore(ctx *ruleContext) (int, ScoreBreakdown) {
	b := ScoreBreakdown{
		Technical: safeSubScore(technicalScore(ctx)),
		Content:   safeSubScore(contentScore(ctx)),
		Structure: safeSubScore(structureScore(ctx.structure)),
		Keywords:  safeSubScore(keywordScore(ctx)),
	}
	total := b.Technical*weightTechnical +
		b.Content*weightContent +
		b.Structure*weightStructure +
		b.Keywords*weightKeywords
	return int(math.Round(clampScore(total))), b
}

// safeSubScore replaces NaN or infinite values with the neutral score
func safeSubScore(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return neutralSubScore
	}
	return clampScore(v)
}

func technicalScore(ctx *ruleContext) float64 {
	title := lengthCompliance(utf8.RuneCountInString(ctx.meta.Title), ctx.opts.TitleMin, ctx.opts.TitleMax, 30)
	desc := lengthCompliance(utf8.RuneCountInString(ctx.meta.Description), ctx.opts.DescriptionMin, ctx.opts.DescriptionMax, 80)
	return (title + desc) / 2
}

// lengthCompliance is 100 inside [lo, hi] and falls linearly to 0 at tolerance
// characters outside the range
func lengthCompliance(n, lo, hi, tolerance int) float64 {
	if n == 0 {
		return 0
	}
	dist := 0
	if n < lo {
		dist = lo - n
	} else if n > hi {
		dist = n - hi
	}
	return math.Max(0, 100*(1-float64(dist)/float64(tolerance)))
}

func contentScore(ctx *ruleContext) float64 {
	words := ctx.doc.WordCount
	var length float64
	switch {
	case words >= 2*ctx.opts.MinWords:
		length = 100
	case words >= ctx.opts.MinWords:
		length = 80
	case words >= ctx.opts.ShortWords:
		length = 60
	default:
		length = float64(words) / float64(ctx.opts.ShortWords) * 40
	}
	return 0.5*length + 0.5*ctx.structure.Readability.FleschScore
}

func structureScore(cs ContentStructure) float64 {
	score := 0.0
	if cs.Headings.H1 == 1 {
		score += 40
	}
	switch {
	case cs.Headings.H2 >= 2:
		score += 30
	case cs.Headings.H2 == 1:
		score += 15
	}
	if cs.Paragraphs.Total == 0 {
		return score + 15
	}
	long := float64(cs.Paragraphs.LongParagraphs) / float64(cs.Paragraphs.Total)
	return score + 30*(1-long)
}

func keywordScore(ctx *ruleContext) float64 {
	if len(ctx.keywords) == 0 {
		return 0
	}
	score := 0.0
	primary := ctx.primaryKeyword()
	if containsTerm(ctx.meta.Title, primary) {
		score += 40
	}
	if containsTerm(ctx.meta.Description, primary) {
		score += 20
	}
	return score + 40*float64(len(ctx.keywords))/float64(ctx.opts.KeywordCap)
}

// contentHealth labels the text from readability, length and keyword variety
func contentHealth(flesch float64, words, keywords int) string {
	switch {
	case flesch >= 70 && words >= 300 && keywords >= 5:
		return HealthExcellent
	case flesch >= 50 && words >= 200 && keywords >= 3:
		return HealthGood
	case flesch >= 30 && words >= 100:
		return HealthFair
	}
	return HealthNeedsImprovement
}

// readingTime is the whole number of minutes needed to read words, rounded up
func readingTime(words, wordsPerMinute int) int {
	if words <= 0 || wordsPerMinute <= 0 {
		return 0
	}
	return (words + wordsPerMinute - 1) / wordsPerMinute
}
