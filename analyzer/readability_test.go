package analyzer

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFleschScore(t *testing.T) {
	assert.Equal(t, neutralFlesch, fleschScore(0, 0, 0))
	assert.Equal(t, neutralFlesch, fleschScore(10, 0, 12))
	assert.Equal(t, 59.6, fleschScore(100, 5, 150))
	// very simple text is clamped to the top of the scale
	assert.Equal(t, 100.0, fleschScore(6, 1, 6))
	// very dense text is clamped to the bottom
	assert.Equal(t, 0.0, fleschScore(60, 1, 240))
}

func TestSyllablesInWord(t *testing.T) {
	tests := map[string]int{
		"cat":       1,
		"table":     2,
		"make":      1,
		"the":       1,
		"beautiful": 3,
		"rhythm":    1,
		"42":        1,
	}
	for word, want := range tests {
		t.Run(word, func(t *testing.T) {
			assert.Equal(t, want, syllablesInWord(word))
		})
	}
}

func TestReadingGradeAndComplexity(t *testing.T) {
	tests := []struct {
		score      float64
		grade      string
		complexity Complexity
	}{
		{95, "5th grade", ComplexityEasy},
		{80, "6th grade", ComplexityEasy},
		{79.9, "7th grade", ComplexityMedium},
		{65, "8th-9th grade", ComplexityMedium},
		{59.9, "10th-12th grade", ComplexityHard},
		{35, "College", ComplexityHard},
		{10, "College graduate", ComplexityHard},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.grade, readingGrade(tt.score), "grade for %v", tt.score)
		assert.Equal(t, tt.complexity, complexityLevel(tt.score), "complexity for %v", tt.score)
	}
}

func TestAnalyzeReadabilityRange(t *testing.T) {
	for _, text := range []string{
		"",
		"Go.",
		articleText,
		"Incomprehensibilities notwithstanding, institutionalization characteristically necessitates extraordinarily multidimensional considerations",
	} {
		m := AnalyzeReadability(NewDocument(text))
		assert.GreaterOrEqual(t, m.FleschScore, 0.0)
		assert.LessOrEqual(t, m.FleschScore, 100.0)
		assert.NotEmpty(t, m.Grade)
		assert.Contains(t, []Complexity{ComplexityEasy, ComplexityMedium, ComplexityHard}, m.Complexity)
	}
}

func TestClampScore(t *testing.T) {
	assert.Equal(t, 0.0, clampScore(math.NaN()))
	assert.Equal(t, 100.0, clampScore(math.Inf(1)))
	assert.Equal(t, 0.0, clampScore(-3))
	assert.Equal(t, 42.5, clampScore(42.5))
}
