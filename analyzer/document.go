package analyzer

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	blankLineRe  = regexp.MustCompile(`\n[ \t\r]*\n`)
	atxHeadingRe = regexp.MustCompile(`^(#{1,6})[ \t]+(.+?)[ \t#]*$`)
	setextH1Re   = regexp.MustCompile(`^=+$`)
	setextH2Re   = regexp.MustCompile(`^-+$`)
	listItemRe   = regexp.MustCompile(`^(?:[-*+•]|\d+[.)])[ \t]+\S`)
)

const (
	headingMaxWords = 12
	headingMaxChars = 80
)

// Heading is a detected heading line
type Heading struct {
	Level int
	Text  string
}

// Paragraph is a blank-line separated block of body text
type Paragraph struct {
	Text      string
	WordCount int
}

// Document is the preprocessed form of the input text. It is built once per
// analysis and never modified afterwards.
type Document struct {
	Raw        string
	Words      []string
	Sentences  []string
	Paragraphs []Paragraph
	Headings   []Heading
	ListItems  int
	WordCount  int
	CharCount  int
}

// NewDocument tokenizes text into words, sentences, paragraphs and headings
func NewDocument(text string) *Document {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	doc := &Document{
		Raw:       text,
		CharCount: utf8.RuneCountInString(text),
	}
	if strings.TrimSpace(text) == "" {
		return doc
	}

	blocks := blankLineRe.Split(strings.Trim(text, "\n"), -1)
	for i, block := range blocks {
		block = strings.Trim(block, "\n")
		if strings.TrimSpace(block) == "" {
			continue
		}
		doc.addBlock(block, i == 0, i == len(blocks)-1)
	}

	doc.WordCount = len(doc.Words)
	return doc
}

// addBlock splits one blank-line separated block into headings and body text
func (d *Document) addBlock(block string, first, last bool) {
	lines := strings.Split(block, "\n")
	var body []string

	for i := 0; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}

		if m := atxHeadingRe.FindStringSubmatch(line); m != nil {
			d.addHeading(len(m[1]), m[2])
			continue
		}

		// Setext headings: a text line underlined with === or ---
		if i+1 < len(lines) && len(body) == 0 {
			next := strings.TrimSpace(lines[i+1])
			if setextH1Re.MatchString(next) {
				d.addHeading(1, line)
				i++
				continue
			}
			if len(next) >= 3 && setextH2Re.MatchString(next) {
				d.addHeading(2, line)
				i++
				continue
			}
		}

		if listItemRe.MatchString(line) {
			d.ListItems++
		}
		body = append(body, line)
	}

	if len(body) == 0 {
		return
	}

	// A short standalone line followed by a blank line reads as a heading
	if len(body) == 1 && len(lines) == 1 && !last {
		if level, ok := heuristicHeadingLevel(body[0], first); ok {
			d.addHeading(level, body[0])
			return
		}
	}

	text := strings.Join(body, "\n")
	words := tokenize(text)
	if len(words) == 0 {
		return
	}
	d.Words = append(d.Words, words...)
	d.Paragraphs = append(d.Paragraphs, Paragraph{Text: text, WordCount: len(words)})
	d.Sentences = append(d.Sentences, splitSentences(text)...)
}

// addHeading records a heading; only h1-h4 are kept, deeper levels are ambiguous
func (d *Document) addHeading(level int, text string) {
	text = strings.TrimSpace(text)
	words := tokenize(text)
	if len(words) == 0 {
		return
	}
	// Heading words still count towards the document length
	d.Words = append(d.Words, words...)
	d.Sentences = append(d.Sentences, text)
	if level < 1 || level > 4 {
		return
	}
	d.Headings = append(d.Headings, Heading{Level: level, Text: text})
}

// heuristicHeadingLevel classifies a standalone line. ok is false when the line
// is body text; level 0 with ok true means a heading-like line whose depth is
// ambiguous, which is dropped from the counts.
func heuristicHeadingLevel(line string, first bool) (level int, ok bool) {
	if utf8.RuneCountInString(line) > headingMaxChars {
		return 0, false
	}
	words := tokenize(line)
	if len(words) == 0 || len(words) > headingMaxWords {
		return 0, false
	}
	lastRune, _ := utf8.DecodeLastRuneInString(line)
	if strings.ContainsRune(".!?,;:", lastRune) {
		return 0, false
	}
	firstRune, _ := utf8.DecodeRuneInString(line)
	if !unicode.IsUpper(firstRune) && !unicode.IsDigit(firstRune) {
		return 0, false
	}

	switch {
	case first:
		return 1, true
	case isUpperCase(line), isTitleCase(words):
		return 2, true
	}
	return 0, true
}

// tokenize splits text on whitespace and punctuation and keeps tokens with at
// least one letter or digit
func tokenize(text string) []string {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		if r == '\'' || r == '’' || r == '-' {
			return false
		}
		return unicode.IsSpace(r) || unicode.IsPunct(r) || unicode.IsSymbol(r)
	})

	words := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, "'’-")
		if hasAlnum(f) {
			words = append(words, f)
		}
	}
	return words
}

// splitSentences breaks text on '.', '!' or '?' followed by whitespace or end of text
func splitSentences(text string) []string {
	var sentences []string
	runes := []rune(text)
	start := 0

	flush := func(end int) {
		s := strings.TrimSpace(string(runes[start:end]))
		if s != "" && hasAlnum(s) {
			sentences = append(sentences, s)
		}
		start = end
	}

	for i, r := range runes {
		if r != '.' && r != '!' && r != '?' {
			continue
		}
		if i+1 == len(runes) || unicode.IsSpace(runes[i+1]) {
			flush(i + 1)
		}
	}
	if start < len(runes) {
		flush(len(runes))
	}
	return sentences
}

func hasAlnum(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

func isUpperCase(s string) bool {
	hasLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			hasLetter = true
			if !unicode.IsUpper(r) {
				return false
			}
		}
	}
	return hasLetter
}

// isTitleCase reports whether every significant word starts with a capital
func isTitleCase(words []string) bool {
	for i, w := range words {
		r, _ := utf8.DecodeRuneInString(w)
		if unicode.IsUpper(r) || unicode.IsDigit(r) {
			continue
		}
		if i > 0 && minorWords[strings.ToLower(w)] {
			continue
		}
		return false
	}
	return true
}

// minorWords may stay lower-case inside a Title Case heading
var minorWords = map[string]bool{
	"a": true, "an": true, "the": true, "and": true, "or": true, "but": true,
	"for": true, "nor": true, "of": true, "on": true, "in": true, "to": true,
	"at": true, "by": true, "with": true, "from": true, "as": true, "vs": true,
}

// firstParagraph returns the text of the first body paragraph, or "" if none
func (d *Document) firstParagraph() string {
	if len(d.Paragraphs) == 0 {
		return ""
	}
	return d.Paragraphs[0].Text
}

// countHeadings returns the number of headings per level, index 1..4
func (d *Document) countHeadings() [5]int {
	var counts [5]int
	for _, h := range d.Headings {
		counts[h.Level]++
	}
	return counts
}
