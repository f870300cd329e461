// Package llm provides the model-backed sentiment classifier and keyword
// enhancer used by the analyzer when a Gemini API key is configured.
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"google.golang.org/genai"

	"github.com/seo-optimizer/content-analyzer/analyzer"
	"github.com/seo-optimizer/content-analyzer/logging"
)

var (
	ErrNotConfigured   = errors.New("llm: no API key configured")
	ErrQuotaExhausted  = errors.New("llm: daily request quota exhausted")
	ErrInvalidResponse = errors.New("llm: invalid model response")
)

const (
	DefaultModel         = "gemini-2.5-flash"
	defaultMaxInputChars = 8000
	maxEnhancedKeywords  = 15
)

// Generator is the subset of the genai models API used here. *genai.Models
// satisfies it.
type Generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Config holds the model settings
type Config struct {
	APIKey            string
	Model             string
	MaxInputChars     int
	RequestsPerDay    int
	RequestsPerMinute int
}

// Client talks to Gemini and implements analyzer.Classifier and
// analyzer.KeywordEnhancer
type Client struct {
	gen      Generator
	model    string
	maxInput int
	quota    *QuotaLimiter
}

// NewClient creates a Gemini-backed client. It returns ErrNotConfigured when
// no API key is set, in which case the analyzer keeps its local stages.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrNotConfigured
	}
	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: cfg.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return NewClientWithGenerator(gc.Models, cfg), nil
}

// NewClientWithGenerator builds a client on top of any Generator
func NewClientWithGenerator(gen Generator, cfg Config) *Client {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.MaxInputChars <= 0 {
		cfg.MaxInputChars = defaultMaxInputChars
	}
	return &Client{
		gen:      gen,
		model:    cfg.Model,
		maxInput: cfg.MaxInputChars,
		quota:    NewQuotaLimiter(cfg.RequestsPerDay, cfg.RequestsPerMinute),
	}
}

// Model returns the configured model name
func (c *Client) Model() string {
	return c.model
}

const sentimentInstruction = `
You classify the overall sentiment of marketing and editorial web content.
Respond with ONLY a raw JSON object, without a markdown code block, with two keys:

1. sentiment: one of "Positive", "Neutral" or "Negative".
2. confidence: a number between 0 and 1 describing how sure you are.

Judge the tone of the text as a whole, not individual sentences.
`

const keywordInstruction = `
You pick SEO keywords for web content.
You receive the content and a list of candidate keywords extracted by frequency.
Respond with ONLY a raw JSON object, without a markdown code block, with one key:

1. keywords: a list of 5 to 15 keywords or short phrases (at most 4 words each),
   ordered from most to least important for search. Reuse good candidates,
   drop generic words, and add phrases that describe the main topic.
   Write the keywords in the language of the content. Remove duplicates.
`

type sentimentResponse struct {
	Sentiment  string   `json:"sentiment"`
	Confidence *float64 `json:"confidence"`
}

type keywordResponse struct {
	Keywords []string `json:"keywords"`
}

// Classify asks the model for the sentiment of text
func (c *Client) Classify(ctx context.Context, text string) (analyzer.Verdict, error) {
	raw, err := c.generate(ctx, sentimentInstruction, c.truncate(text))
	if err != nil {
		return analyzer.Verdict{}, err
	}

	var resp sentimentResponse
	if err := decodeJSON(raw, &resp); err != nil {
		return analyzer.Verdict{}, err
	}
	label, ok := parseSentiment(resp.Sentiment)
	if !ok {
		return analyzer.Verdict{}, fmt.Errorf("%w: unknown sentiment %q", ErrInvalidResponse, resp.Sentiment)
	}

	v := analyzer.Verdict{Label: label, Source: analyzer.SourceModel}
	if resp.Confidence != nil && *resp.Confidence >= 0 && *resp.Confidence <= 1 {
		v.Confidence = *resp.Confidence
		v.HasConfidence = true
	}
	return v, nil
}

// EnhanceKeywords asks the model to re-rank and extend the extracted keywords
func (c *Client) EnhanceKeywords(ctx context.Context, text string, base []string) ([]string, error) {
	prompt := fmt.Sprintf("Candidate keywords: %s\n\nContent:\n%s", strings.Join(base, ", "), c.truncate(text))
	raw, err := c.generate(ctx, keywordInstruction, prompt)
	if err != nil {
		return nil, err
	}

	var resp keywordResponse
	if err := decodeJSON(raw, &resp); err != nil {
		return nil, err
	}

	keywords := make([]string, 0, len(resp.Keywords))
	for _, k := range resp.Keywords {
		k = strings.Join(strings.Fields(k), " ")
		if k == "" || len(strings.Fields(k)) > 4 {
			continue
		}
		keywords = append(keywords, k)
		if len(keywords) == maxEnhancedKeywords {
			break
		}
	}
	if len(keywords) == 0 {
		return nil, fmt.Errorf("%w: no keywords returned", ErrInvalidResponse)
	}
	return keywords, nil
}

func (c *Client) generate(ctx context.Context, instruction, prompt string) (string, error) {
	ok, err := c.quota.WaitAndReserve(ctx)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", ErrQuotaExhausted
	}

	start := time.Now()
	result, err := c.gen.GenerateContent(ctx, c.model, genai.Text(prompt), &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: instruction}}},
		ResponseMIMEType:  "application/json",
		Temperature:       genai.Ptr[float32](0.2),
	})
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	if result == nil {
		return "", fmt.Errorf("%w: empty result", ErrInvalidResponse)
	}

	fields := logging.Fields{
		"model":      c.model,
		"latency_ms": time.Since(start).Milliseconds(),
	}
	if result.UsageMetadata != nil {
		fields["total_tokens"] = result.UsageMetadata.TotalTokenCount
	}
	logging.InfoWithFields("llm request completed", fields)

	return result.Text(), nil
}

func (c *Client) truncate(text string) string {
	if utf8.RuneCountInString(text) <= c.maxInput {
		return text
	}
	return string([]rune(text)[:c.maxInput])
}

// decodeJSON parses a model reply, tolerating a surrounding markdown fence
func decodeJSON(raw string, v any) error {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSuffix(strings.TrimSpace(raw), "```")
	}
	if raw == "" {
		return fmt.Errorf("%w: empty body", ErrInvalidResponse)
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return nil
}

func parseSentiment(s string) (analyzer.Sentiment, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "positive":
		return analyzer.SentimentPositive, true
	case "neutral":
		return analyzer.SentimentNeutral, true
	case "negative":
		return analyzer.SentimentNegative, true
	}
	return "", false
}
