package analyzer

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/seo-optimizer/content-analyzer/logging"
)

// Verdict is the outcome of a sentiment classification
type Verdict struct {
	Label         Sentiment
	Confidence    float64
	HasConfidence bool
	Source        string
}

const (
	SourceModel   = "model"
	SourceLexical = "lexical"
)

var errInvalidLabel = errors.New("classifier returned an unknown sentiment label")

// Classifier labels the overall sentiment of a text
type Classifier interface {
	Classify(ctx context.Context, text string) (Verdict, error)
}

// LexicalClassifier counts positive and negative words. It needs no network
// and never fails, which makes it the fallback for model-backed classifiers.
type LexicalClassifier struct{}

func (LexicalClassifier) Classify(_ context.Context, text string) (Verdict, error) {
	return Verdict{Label: lexicalSentiment(tokenize(text)), Source: SourceLexical}, nil
}

func lexicalSentiment(words []string) Sentiment {
	if len(words) == 0 {
		return SentimentNeutral
	}

	positive, negative := 0, 0
	negated := false
	for _, w := range words {
		w = normalizeTerm(w)
		if negators[w] {
			negated = true
			continue
		}
		switch {
		case positiveWords[w]:
			if negated {
				negative++
			} else {
				positive++
			}
		case negativeWords[w]:
			if negated {
				positive++
			} else {
				negative++
			}
		}
		negated = false
	}

	if positive+negative == 0 {
		return SentimentNeutral
	}
	score := float64(positive-negative) / float64(len(words)) * 10
	score = math.Max(-1, math.Min(1, score))

	switch {
	case score > 0.1:
		return SentimentPositive
	case score < -0.1:
		return SentimentNegative
	}
	return SentimentNeutral
}

// ResilientClassifier asks a model-backed classifier first and falls back to
// the lexical one when the model is missing, slow or failing. Low-confidence
// model labels are reported as Neutral.
type ResilientClassifier struct {
	Primary   Classifier
	Fallback  Classifier
	Threshold float64
	Timeout   time.Duration
	Retries   int

	// OnFallback is called with the primary error each time the fallback is used
	OnFallback func(err error)
}

// Classify never returns an error; the error result exists to satisfy Classifier
func (c *ResilientClassifier) Classify(ctx context.Context, text string) (Verdict, error) {
	if c.Primary != nil {
		v, err := callExternal(ctx, c.Timeout, c.Retries, func(ctx context.Context) (Verdict, error) {
			return c.Primary.Classify(ctx, text)
		})
		if err == nil && v.Label.Valid() {
			if v.Source == "" {
				v.Source = SourceModel
			}
			if v.HasConfidence && v.Confidence < c.Threshold {
				logging.Log.Debugf("sentiment %s below confidence threshold (%.2f < %.2f), reporting Neutral",
					v.Label, v.Confidence, c.Threshold)
				v.Label = SentimentNeutral
			}
			return v, nil
		}
		if err == nil {
			err = errInvalidLabel
		}
		logging.Log.Warnf("sentiment classifier unavailable, using lexical fallback: %v", err)
		if c.OnFallback != nil {
			c.OnFallback(err)
		}
	}

	fallback := c.Fallback
	if fallback == nil {
		fallback = LexicalClassifier{}
	}
	v, err := fallback.Classify(ctx, text)
	if err != nil || !v.Label.Valid() {
		return Verdict{Label: SentimentNeutral, Source: SourceLexical}, nil
	}
	return v, nil
}

var negators = makeSet("not", "no", "never", "without", "hardly", "isn't", "aren't", "wasn't",
	"don't", "doesn't", "didn't", "can't", "cannot", "won't", "nothing")

var positiveWords = makeSet(
	"good", "great", "excellent", "amazing", "awesome", "best", "better", "love", "loved", "loves",
	"happy", "enjoy", "enjoyed", "wonderful", "fantastic", "perfect", "beautiful", "easy", "effective",
	"efficient", "reliable", "helpful", "success", "successful", "win", "wins", "benefit", "benefits",
	"improve", "improved", "improves", "powerful", "recommend", "recommended", "impressive", "simple",
	"fast", "secure", "trusted", "valuable", "positive", "exciting", "excited", "innovative", "smart",
	"delight", "delightful", "satisfied", "quality", "favorite", "brilliant", "robust", "seamless",
	"affordable", "boost", "gain", "growth", "strong", "clear", "glad", "pleased", "proud", "superb",
)

var negativeWords = makeSet(
	"bad", "poor", "terrible", "awful", "worst", "worse", "hate", "hated", "sad", "angry", "problem",
	"problems", "issue", "issues", "fail", "failed", "failure", "fails", "broken", "bug", "bugs",
	"difficult", "hard", "slow", "expensive", "disappointing", "disappointed", "negative", "wrong",
	"error", "errors", "risk", "risky", "loss", "lose", "losing", "weak", "annoying", "frustrating",
	"frustrated", "complicated", "confusing", "useless", "unreliable", "insecure", "crash", "crashes",
	"painful", "ugly", "horrible", "unfortunately", "lack", "lacks", "missing", "decline", "damage",
)
