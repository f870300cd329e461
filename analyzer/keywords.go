package analyzer

import (
	"context"
	"sort"
	"strings"
	"unicode"
)

// KeywordEnhancer re-ranks or extends the deterministic keyword list. It is
// best-effort: any error makes the extractor keep its own result.
type KeywordEnhancer interface {
	EnhanceKeywords(ctx context.Context, text string, base []string) ([]string, error)
}

const minKeywordLength = 4

// ExtractKeywords returns up to limit terms ranked by frequency after stop-word
// removal and plural folding. Ties keep first-occurrence order.
func ExtractKeywords(doc *Document, limit int) []string {
	if limit <= 0 {
		return []string{}
	}

	type termCount struct {
		display string
		count   int
		first   int
	}
	counts := make(map[string]*termCount)

	for i, w := range doc.Words {
		term := normalizeTerm(w)
		if !isKeywordCandidate(term) {
			continue
		}
		key := stem(term)
		if tc, ok := counts[key]; ok {
			tc.count++
			continue
		}
		counts[key] = &termCount{display: term, count: 1, first: i}
	}

	ranked := make([]*termCount, 0, len(counts))
	for _, tc := range counts {
		ranked = append(ranked, tc)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].count != ranked[j].count {
			return ranked[i].count > ranked[j].count
		}
		return ranked[i].first < ranked[j].first
	})

	keywords := make([]string, 0, limit)
	for _, tc := range ranked {
		if len(keywords) == limit {
			break
		}
		keywords = append(keywords, tc.display)
	}
	return keywords
}

// mergeKeywords puts the enhanced terms first, then any deterministic term the
// enhancer left out, deduplicated case-insensitively and capped
func mergeKeywords(enhanced, base []string, limit int) []string {
	seen := make(map[string]bool, limit)
	merged := make([]string, 0, limit)

	add := func(term string) {
		term = strings.TrimSpace(term)
		if term == "" || len(merged) == limit {
			return
		}
		key := strings.ToLower(term)
		if seen[key] {
			return
		}
		seen[key] = true
		merged = append(merged, term)
	}

	for _, t := range enhanced {
		add(t)
	}
	for _, t := range base {
		add(t)
	}
	return merged
}

// normalizeTerm lower-cases a token and strips possessives
func normalizeTerm(w string) string {
	w = strings.ToLower(w)
	w = strings.ReplaceAll(w, "’", "'")
	w = strings.TrimSuffix(w, "'s")
	w = strings.TrimSuffix(w, "s'")
	return strings.Trim(w, "'-")
}

func isKeywordCandidate(term string) bool {
	if len([]rune(term)) < minKeywordLength || stopWords[term] {
		return false
	}
	for _, r := range term {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

// stem folds common English plural forms so "guides" and "guide" count together
func stem(term string) string {
	switch {
	case invariantPlurals[term]:
		return term
	case strings.HasSuffix(term, "ies") && ieSingulars[strings.TrimSuffix(term, "s")]:
		return strings.TrimSuffix(term, "s")
	case strings.HasSuffix(term, "ies") && len(term) > 4:
		return strings.TrimSuffix(term, "ies") + "y"
	case strings.HasSuffix(term, "sses"):
		return strings.TrimSuffix(term, "es")
	case strings.HasSuffix(term, "ss"), strings.HasSuffix(term, "us"), strings.HasSuffix(term, "is"):
		return term
	case strings.HasSuffix(term, "s") && len(term) > 4:
		return strings.TrimSuffix(term, "s")
	}
	return term
}

var invariantPlurals = makeSet("series", "species")

// ieSingulars are nouns ending in "ie" whose plural is not a "y" word
var ieSingulars = makeSet(
	"movie", "cookie", "rookie", "zombie", "selfie", "hippie", "calorie", "brownie",
	"smoothie", "goalie", "freebie", "newbie", "genie", "prairie", "pie", "tie", "lie",
	"die", "bootie", "sortie", "reverie", "eerie", "birdie", "hoodie", "foodie", "indie",
)

// containsTerm reports whether text mentions term, ignoring case and plurals
func containsTerm(text, term string) bool {
	term = strings.TrimSpace(term)
	if term == "" {
		return false
	}
	// Multi-word terms from an enhancer are matched as phrases
	if strings.ContainsRune(term, ' ') {
		return strings.Contains(strings.ToLower(text), strings.ToLower(term))
	}
	target := stem(normalizeTerm(term))
	for _, w := range tokenize(text) {
		if stem(normalizeTerm(w)) == target {
			return true
		}
	}
	return false
}

var stopWords = makeSet(
	"a", "about", "above", "after", "again", "against", "all", "also", "am", "an", "and", "any",
	"are", "aren't", "as", "at", "be", "because", "been", "before", "being", "below", "between",
	"both", "but", "by", "can", "cannot", "could", "couldn't", "did", "didn't", "do", "does",
	"doesn't", "doing", "don't", "down", "during", "each", "even", "every", "few", "for", "from",
	"further", "get", "gets", "got", "had", "hadn't", "has", "hasn't", "have", "haven't", "having",
	"he", "her", "here", "hers", "herself", "him", "himself", "his", "how", "however", "i", "if",
	"in", "into", "is", "isn't", "it", "its", "itself", "just", "let", "like", "made", "make",
	"makes", "many", "may", "me", "might", "more", "most", "much", "must", "my", "myself", "need",
	"needs", "never", "new", "no", "nor", "not", "now", "of", "off", "often", "on", "once", "one",
	"only", "or", "other", "others", "ought", "our", "ours", "ourselves", "out", "over", "own",
	"really", "same", "say", "says", "see", "she", "should", "shouldn't", "since", "so", "some",
	"still", "such", "take", "than", "that", "the", "their", "theirs", "them", "themselves", "then",
	"there", "these", "they", "thing", "things", "this", "those", "through", "thus", "to", "too",
	"under", "until", "up", "upon", "us", "use", "used", "using", "very", "want", "was", "wasn't",
	"way", "we", "well", "were", "weren't", "what", "when", "where", "whether", "which", "while",
	"who", "whom", "whose", "why", "will", "with", "within", "without", "won't", "would",
	"wouldn't", "yet", "you", "your", "yours", "yourself", "yourselves",
)

func makeSet(words ...string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}
