package analyzer

import (
	"math"
	"strings"
	"unicode"
)

// neutralFlesch is used when a score cannot be computed from zero counts
const neutralFlesch = 50.0

// AnalyzeReadability scores the document with the Flesch Reading Ease formula.
// Syllables come from a vowel-group heuristic, so the score is approximate.
func AnalyzeReadability(doc *Document) ReadabilityMetrics {
	score := fleschScore(len(doc.Words), len(doc.Sentences), countSyllables(doc.Words))
	return ReadabilityMetrics{
		FleschScore: score,
		Grade:       readingGrade(score),
		Complexity:  complexityLevel(score),
	}
}

func fleschScore(words, sentences, syllables int) float64 {
	if words == 0 || sentences == 0 {
		return neutralFlesch
	}
	wordsPerSentence := float64(words) / float64(sentences)
	syllablesPerWord := float64(syllables) / float64(words)
	score := 206.835 - 1.015*wordsPerSentence - 84.6*syllablesPerWord
	return round1(clampScore(score))
}

func countSyllables(words []string) int {
	total := 0
	for _, w := range words {
		total += syllablesInWord(w)
	}
	return total
}

// syllablesInWord counts vowel groups, drops a trailing silent e and never
// returns less than one for a word with letters
func syllablesInWord(word string) int {
	word = strings.ToLower(word)
	count := 0
	prevVowel := false
	letters := 0
	for _, r := range word {
		if !unicode.IsLetter(r) {
			prevVowel = false
			continue
		}
		letters++
		vowel := strings.ContainsRune("aeiouy", r)
		if vowel && !prevVowel {
			count++
		}
		prevVowel = vowel
	}
	if letters == 0 {
		// digits and codes are read as a single unit
		return 1
	}

	if strings.HasSuffix(word, "e") && !strings.HasSuffix(word, "le") && count > 1 {
		count--
	}
	if count == 0 {
		count = 1
	}
	return count
}

func readingGrade(score float64) string {
	switch {
	case score >= 90:
		return "5th grade"
	case score >= 80:
		return "6th grade"
	case score >= 70:
		return "7th grade"
	case score >= 60:
		return "8th-9th grade"
	case score >= 50:
		return "10th-12th grade"
	case score >= 30:
		return "College"
	default:
		return "College graduate"
	}
}

func complexityLevel(score float64) Complexity {
	switch {
	case score >= 80:
		return ComplexityEasy
	case score >= 60:
		return ComplexityMedium
	default:
		return ComplexityHard
	}
}

func clampScore(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(100, v))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
