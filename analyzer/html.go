package analyzer

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"
	"golang.org/x/net/html"
)

var (
	htmlDocRe = regexp.MustCompile(`(?i)^\s*(<!doctype\s+html|<html[\s>])`)
	htmlTagRe = regexp.MustCompile(`(?i)<(body|h[1-6]|p|article|main)[\s>]`)
)

// htmlInput is the result of flattening an HTML document into plain text
type htmlInput struct {
	Text string
	Meta MetaTags
}

// looksLikeHTML accepts full documents and fragments made of markup from
// start to end. Text that only mentions a tag stays plain text.
func looksLikeHTML(text string) bool {
	if htmlDocRe.MatchString(text) {
		return true
	}
	trimmed := strings.TrimSpace(text)
	return strings.HasPrefix(trimmed, "<") && strings.HasSuffix(trimmed, ">") &&
		htmlTagRe.MatchString(trimmed)
}

// flattenHTML converts markup into the heading-annotated plain text the
// preprocessor understands and collects the meta tags found in the head
func flattenHTML(markup string) (htmlInput, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return htmlInput{}, err
	}

	var in htmlInput
	in.Meta.Title = strings.TrimSpace(doc.Find("title").First().Text())
	if desc, exists := doc.Find("meta[name='description']").Attr("content"); exists {
		in.Meta.Description = strings.TrimSpace(desc)
	}
	if kw, exists := doc.Find("meta[name='keywords']").Attr("content"); exists {
		for _, k := range strings.Split(kw, ",") {
			if k = strings.TrimSpace(k); k != "" {
				in.Meta.Keywords = append(in.Meta.Keywords, k)
			}
		}
	}

	doc.Find("script, style, noscript, nav, footer").Remove()

	var blocks []string
	doc.Find("h1, h2, h3, h4, h5, h6, p, li, blockquote").Each(func(i int, s *goquery.Selection) {
		text := ownText(s)
		if text == "" {
			return
		}
		name := goquery.NodeName(s)
		switch name {
		case "h1", "h2", "h3", "h4", "h5", "h6":
			level := int(name[1] - '0')
			blocks = append(blocks, strings.Repeat("#", level)+" "+text)
		case "li":
			blocks = append(blocks, "- "+text)
		default:
			// nested blocks such as <li><p> are reported twice otherwise
			if s.ParentsFiltered("li, blockquote").Length() > 0 && name == "p" {
				return
			}
			blocks = append(blocks, text)
		}
	})
	in.Text = strings.Join(blocks, "\n\n")

	if in.Text == "" || in.Meta.Description == "" {
		article, err := readableArticle(markup)
		if err == nil {
			if in.Text == "" {
				in.Text = strings.TrimSpace(article.TextContent)
			}
			if in.Meta.Description == "" {
				in.Meta.Description = strings.TrimSpace(article.Excerpt)
			}
			if in.Meta.Title == "" {
				in.Meta.Title = strings.TrimSpace(article.Title)
			}
		}
	}
	if in.Text == "" {
		in.Text = strings.Join(strings.Fields(doc.Text()), " ")
	}
	return in, nil
}

// Blocks emitted on their own; their text is left out of the enclosing block
var nestedBlocks = map[string]bool{
	"ul": true, "ol": true, "li": true, "blockquote": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
}

var inlineTags = map[string]bool{
	"a": true, "abbr": true, "b": true, "cite": true, "code": true, "em": true, "i": true,
	"kbd": true, "mark": true, "q": true, "s": true, "small": true, "span": true,
	"strong": true, "sub": true, "sup": true, "time": true, "u": true,
}

// ownText returns the text of a block without the text of nested blocks.
// Non-inline element boundaries separate words.
func ownText(s *goquery.Selection) string {
	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			switch {
			case c.Type == html.TextNode:
				b.WriteString(c.Data)
			case c.Type != html.ElementNode, nestedBlocks[c.Data]:
			case inlineTags[c.Data]:
				walk(c)
			default:
				b.WriteByte(' ')
				walk(c)
				b.WriteByte(' ')
			}
		}
	}
	for _, n := range s.Nodes {
		walk(n)
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

func readableArticle(markup string) (readability.Article, error) {
	node, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return readability.Article{}, err
	}
	return readability.FromDocument(node, nil)
}
