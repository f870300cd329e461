package analyzer

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	serpTitleLimit       = 60
	serpDescriptionLimit = 160
	ellipsis             = "..."
)

// BuildPreview renders a simulated search result for the given tags. It is a
// total function: empty values produce an empty but well-formed preview.
func BuildPreview(meta MetaTags, url, defaultDomain string) GooglePreview {
	titleLen := utf8.RuneCountInString(meta.Title)
	descLen := utf8.RuneCountInString(meta.Description)

	preview := GooglePreview{
		Title:                meta.Title,
		URL:                  strings.TrimSpace(url),
		Description:          meta.Description,
		TitleTruncated:       titleLen > serpTitleLimit,
		DescriptionTruncated: descLen > serpDescriptionLimit,
	}
	if preview.TitleTruncated {
		preview.Title = truncateRunes(meta.Title, serpTitleLimit-len(ellipsis)) + ellipsis
	}
	if preview.DescriptionTruncated {
		preview.Description = truncateRunes(meta.Description, serpDescriptionLimit-len(ellipsis)) + ellipsis
	}
	if preview.URL == "" {
		preview.URL = placeholderURL(meta.Title, defaultDomain)
	}
	return preview
}

// placeholderURL builds domain/slug from the title
func placeholderURL(title, domain string) string {
	if domain == "" {
		domain = DefaultOptions().DefaultPreviewDomain
	}
	if slug := slugify(title); slug != "" {
		return domain + "/" + slug
	}
	return domain
}

func slugify(s string) string {
	words := tokenize(strings.ToLower(s))
	parts := make([]string, 0, len(words))
	size := 0
	for _, w := range words {
		w = strings.Map(func(r rune) rune {
			if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' {
				return r
			}
			return -1
		}, w)
		if w == "" {
			continue
		}
		if size+len(w) > 60 {
			break
		}
		parts = append(parts, w)
		size += len(w) + 1
	}
	return strings.Join(parts, "-")
}

// DeriveMetaTags fills every empty field of supplied from the document:
// the first heading becomes the title and the first paragraph, cut at a
// sentence or word boundary, becomes the description.
func DeriveMetaTags(doc *Document, supplied *MetaTags, keywords []string, opts Options) MetaTags {
	meta := MetaTags{}
	if supplied != nil {
		meta.Title = strings.TrimSpace(supplied.Title)
		meta.Description = strings.TrimSpace(supplied.Description)
		for _, k := range supplied.Keywords {
			if k = strings.TrimSpace(k); k != "" {
				meta.Keywords = append(meta.Keywords, k)
			}
		}
	}

	if meta.Title == "" {
		meta.Title = deriveTitle(doc, opts.TitleMax)
	}
	if meta.Description == "" {
		meta.Description = deriveDescription(doc, opts.DescriptionMax)
	}
	if len(meta.Keywords) == 0 {
		meta.Keywords = append([]string{}, keywords...)
	}
	return meta
}

func deriveTitle(doc *Document, limit int) string {
	if len(doc.Headings) > 0 {
		return doc.Headings[0].Text
	}
	if len(doc.Sentences) == 0 {
		return ""
	}
	first := strings.TrimRight(doc.Sentences[0], ".!? ")
	first = strings.Join(strings.Fields(first), " ")
	if utf8.RuneCountInString(first) <= limit {
		return first
	}
	return truncateWords(first, limit-len(ellipsis)) + ellipsis
}

func deriveDescription(doc *Document, limit int) string {
	para := doc.firstParagraph()
	if para == "" {
		return ""
	}

	var b strings.Builder
	for _, s := range splitSentences(para) {
		s = strings.Join(strings.Fields(s), " ")
		next := utf8.RuneCountInString(s)
		if b.Len() > 0 {
			next++
		}
		if utf8.RuneCountInString(b.String())+next > limit {
			break
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(s)
	}
	if b.Len() > 0 {
		return b.String()
	}

	flat := strings.Join(strings.Fields(para), " ")
	if utf8.RuneCountInString(flat) <= limit {
		return flat
	}
	return truncateWords(flat, limit-len(ellipsis)) + ellipsis
}

func truncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// truncateWords cuts s to at most n runes without splitting a word when possible
func truncateWords(s string, n int) string {
	cut := truncateRunes(s, n)
	if len(cut) == len(s) {
		return s
	}
	if i := strings.LastIndexByte(cut, ' '); i > 0 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ,;:-")
}

// excerpt returns the first n runes of text, with an ellipsis when cut
func excerpt(text string, n int) string {
	text = strings.TrimSpace(text)
	if utf8.RuneCountInString(text) <= n {
		return text
	}
	return truncateRunes(text, n) + ellipsis
}
