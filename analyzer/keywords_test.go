package analyzer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractKeywords(t *testing.T) {
	doc := NewDocument("Go guides help developers. Guides explain concurrency. Developers love guides and concurrency.")

	t.Run("ranked by frequency then first occurrence", func(t *testing.T) {
		assert.Equal(t, []string{"guides", "developers", "concurrency"}, ExtractKeywords(doc, 3))
	})

	t.Run("short and stop words are dropped", func(t *testing.T) {
		keywords := ExtractKeywords(doc, 10)
		assert.NotContains(t, keywords, "go")
		assert.NotContains(t, keywords, "and")
		assert.Equal(t, []string{"guides", "developers", "concurrency", "help", "explain", "love"}, keywords)
	})

	t.Run("zero limit", func(t *testing.T) {
		keywords := ExtractKeywords(doc, 0)
		assert.NotNil(t, keywords)
		assert.Empty(t, keywords)
	})

	t.Run("empty document", func(t *testing.T) {
		keywords := ExtractKeywords(NewDocument(""), 10)
		assert.NotNil(t, keywords)
		assert.Empty(t, keywords)
	})
}

func TestExtractKeywordsCapAndUniqueness(t *testing.T) {
	var b strings.Builder
	for _, w := range []string{"alpha", "bravo", "charlie", "delta", "echoes", "foxtrot", "golf", "hotel",
		"india", "juliet", "kilo", "lima", "mike", "november", "oscar", "papa", "quebec", "romeo"} {
		b.WriteString(w + " " + strings.ToUpper(w) + " ")
	}
	doc := NewDocument(b.String())

	for _, limit := range []int{1, 5, 10, 15} {
		keywords := ExtractKeywords(doc, limit)
		assert.Len(t, keywords, limit)

		seen := make(map[string]bool)
		for _, k := range keywords {
			assert.False(t, seen[strings.ToLower(k)], "duplicate keyword %q", k)
			seen[strings.ToLower(k)] = true
		}
	}
}

func TestMergeKeywords(t *testing.T) {
	merged := mergeKeywords([]string{"Go Concurrency", "GUIDES", " "}, []string{"guides", "developers", "channels"}, 3)
	assert.Equal(t, []string{"Go Concurrency", "GUIDES", "developers"}, merged)

	assert.Equal(t, []string{"guides"}, mergeKeywords(nil, []string{"guides"}, 10))
}

func TestStem(t *testing.T) {
	assert.Equal(t, "guide", stem("guides"))
	assert.Equal(t, "story", stem("stories"))
	assert.Equal(t, "class", stem("classes"))
	assert.Equal(t, "business", stem("business"))
	assert.Equal(t, "status", stem("status"))
	assert.Equal(t, "analysis", stem("analysis"))
	assert.Equal(t, "bus", stem("bus"))
	assert.Equal(t, "movie", stem("movies"))
	assert.Equal(t, stem("movie"), stem("movies"))
	assert.Equal(t, "cookie", stem("cookies"))
	assert.Equal(t, "series", stem("series"))
	assert.Equal(t, "company", stem("companies"))
}

func TestContainsTerm(t *testing.T) {
	assert.True(t, containsTerm("The Best Guide to Go", "guides"))
	assert.True(t, containsTerm("Customer's Choice", "customer"))
	assert.False(t, containsTerm("Guidelines for teams", "guide"))
	assert.True(t, containsTerm("Learn go concurrency today", "Go Concurrency"))
	assert.False(t, containsTerm("anything", " "))
}
