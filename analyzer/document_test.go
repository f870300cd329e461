package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDocumentMarkdown(t *testing.T) {
	text := "# Main Title\n\nIntro paragraph here. Second sentence!\n\n## Section One\n\nBody text for one.\n\n" +
		"## Section Two\n\n### Detail A\n\nMore body.\n\n### Detail B\n\nFinal words here."

	doc := NewDocument(text)

	counts := doc.countHeadings()
	assert.Equal(t, 1, counts[1])
	assert.Equal(t, 2, counts[2])
	assert.Equal(t, 2, counts[3])
	assert.Equal(t, 0, counts[4])
	assert.Equal(t, "Main Title", doc.Headings[0].Text)

	require.Len(t, doc.Paragraphs, 4)
	assert.Equal(t, "Intro paragraph here. Second sentence!", doc.firstParagraph())
	assert.Equal(t, 5, doc.Paragraphs[0].WordCount)

	// headings are sentences of their own and never merge into body text
	assert.Len(t, doc.Sentences, 10)
	assert.Equal(t, 24, doc.WordCount)
}

func TestNewDocumentHeuristicHeadings(t *testing.T) {
	t.Run("standalone lines", func(t *testing.T) {
		doc := NewDocument("Getting Started With Go\n\nGo is a language. It is fast.\n\nWhy Teams Choose Go\n\nBecause it compiles quickly.")
		counts := doc.countHeadings()
		assert.Equal(t, 1, counts[1])
		assert.Equal(t, 1, counts[2])
		assert.Len(t, doc.Paragraphs, 2)
	})

	t.Run("ambiguous line keeps its words", func(t *testing.T) {
		doc := NewDocument("Intro text.\n\nA quick note on usage\n\nBody text.")
		assert.Empty(t, doc.Headings)
		assert.Len(t, doc.Paragraphs, 2)
		assert.Equal(t, 9, doc.WordCount)
	})

	t.Run("sentence is not a heading", func(t *testing.T) {
		doc := NewDocument("This line ends with a period.\n\nAnd this is the body.")
		assert.Empty(t, doc.Headings)
		assert.Len(t, doc.Paragraphs, 2)
	})

	t.Run("setext", func(t *testing.T) {
		doc := NewDocument("Title\n=====\n\nText here.\n\nSub\n---\n\nMore.")
		counts := doc.countHeadings()
		assert.Equal(t, 1, counts[1])
		assert.Equal(t, 1, counts[2])
	})

	t.Run("deep ATX levels are not counted", func(t *testing.T) {
		doc := NewDocument("##### Tiny heading\n\nBody text here.")
		assert.Empty(t, doc.Headings)
		assert.Equal(t, 5, doc.WordCount)
	})
}

func TestNewDocumentEmpty(t *testing.T) {
	for _, text := range []string{"", "   ", "\n\n\t\n"} {
		doc := NewDocument(text)
		assert.Zero(t, doc.WordCount)
		assert.Empty(t, doc.Sentences)
		assert.Empty(t, doc.Paragraphs)
		assert.Empty(t, doc.Headings)
	}
}

func TestNewDocumentCRLF(t *testing.T) {
	doc := NewDocument("# Title\r\n\r\nFirst line.\r\n\r\nSecond line.")
	assert.Len(t, doc.Headings, 1)
	assert.Len(t, doc.Paragraphs, 2)
}

func TestListItemsAreCounted(t *testing.T) {
	doc := NewDocument("Steps to follow:\n- install the tool\n- run the setup\n- check the output")
	assert.Equal(t, 3, doc.ListItems)
}

func TestTokenize(t *testing.T) {
	assert.Equal(t,
		[]string{"It's", "a", "well-known", "fact", "42", "apples"},
		tokenize("It's a well-known fact: 42 apples!"))
	assert.Empty(t, tokenize("!!! ??? ---"))
}

func TestSplitSentences(t *testing.T) {
	assert.Equal(t, []string{"Hello world.", "How are you?", "Fine!"}, splitSentences("Hello world. How are you? Fine!"))
	assert.Equal(t, []string{"Version 2.5 is out."}, splitSentences("Version 2.5 is out."))
	assert.Equal(t, []string{"No terminal punctuation"}, splitSentences("No terminal punctuation"))
}
