package analyzer

import "strings"

const (
	emptyInputTitle       = "No Content"
	emptyInputDescription = "No content provided for analysis"
	analysisErrorTitle    = "Analysis Error"
)

// inputErrorReport is returned for text with no words or invalid encoding.
// Every metric is zeroed and the single recommendation asks for new input.
func inputErrorReport(text string, opts Options) *AnalysisReport {
	meta := MetaTags{
		Title:       emptyInputTitle,
		Description: emptyInputDescription,
		Keywords:    []string{},
	}
	return &AnalysisReport{
		SEOScore: 0,
		ContentHealth: ContentHealth{
			Health: HealthNeedsImprovement,
		},
		ContentStructure: ContentStructure{
			Headings:   HeadingStats{Issues: []string{"No content provided"}},
			Paragraphs: ParagraphStats{},
			Readability: ReadabilityMetrics{
				FleschScore: 0,
				Grade:       "N/A",
				Complexity:  ComplexityMedium,
			},
			LinkingSuggestions: []string{"Add content to analyze"},
		},
		Recommendations: []Recommendation{{
			ID:            1,
			Title:         "Add Content to Analyze",
			Description:   "No readable text was found in the input.",
			Impact:        ImpactHigh,
			Effort:        EffortQuickFix,
			Category:      CategoryContent,
			Priority:      1,
			Actionable:    true,
			FixSuggestion: "Paste your content into the text area and click analyze again.",
		}},
		MetaTags:       meta,
		GooglePreview:  BuildPreview(meta, "", opts.DefaultPreviewDomain),
		Sentiment:      SentimentNeutral,
		Keywords:       []string{},
		RawTextExcerpt: excerpt(strings.ToValidUTF8(text, ""), opts.ExcerptLength),
	}
}

// errorReport is returned when a stage fails unexpectedly. It keeps the
// report shape so callers never have to handle a missing result.
func errorReport(text string, opts Options) *AnalysisReport {
	meta := MetaTags{
		Title:       analysisErrorTitle,
		Description: "Error occurred during analysis",
		Keywords:    []string{},
	}
	return &AnalysisReport{
		SEOScore: 50,
		ContentHealth: ContentHealth{
			ReadabilityScore: neutralFlesch,
			ReadingTime:      1,
			Health:           "Error",
		},
		ContentStructure: ContentStructure{
			Headings: HeadingStats{Issues: []string{"Analysis error occurred"}},
			Readability: ReadabilityMetrics{
				FleschScore: neutralFlesch,
				Grade:       "Error",
				Complexity:  ComplexityMedium,
			},
			LinkingSuggestions: []string{"Try analyzing different content"},
		},
		Recommendations: []Recommendation{{
			ID:            1,
			Title:         analysisErrorTitle,
			Description:   "An error occurred during analysis. Please try again with different content.",
			Impact:        ImpactHigh,
			Effort:        EffortQuickFix,
			Category:      CategoryTechnical,
			Priority:      1,
			Actionable:    true,
			FixSuggestion: "Try with shorter content or check for special characters that might cause issues.",
		}},
		MetaTags:       meta,
		GooglePreview:  BuildPreview(meta, "", opts.DefaultPreviewDomain),
		Sentiment:      SentimentNeutral,
		Keywords:       []string{},
		RawTextExcerpt: excerpt(strings.ToValidUTF8(text, ""), opts.ExcerptLength),
	}
}
