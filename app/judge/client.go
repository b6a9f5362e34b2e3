package judge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/novikoff/brandpulse/app/brand"
	"github.com/novikoff/brandpulse/app/ingest"
)

// Provider produces a judgment for one (item, brand) pair. It never
// fails: internal errors map to the fallback judgment.
type Provider interface {
	Judge(ctx context.Context, item ingest.RawItem, config *brand.Config) Judgment
}

const systemPrompt = "You are an expert at analyzing text to determine if it references specific companies. Return only valid JSON."

const maxPromptBodyLength = 1500

// Client judges items through an OpenAI-compatible chat completions
// endpoint.
type Client struct {
	endpoint   string
	model      string
	apiKey     string
	httpClient *http.Client
}

var _ Provider = (*Client)(nil)

func NewClient(endpoint, model, apiKey string, httpClient *http.Client) *Client {
	return &Client{
		endpoint:   endpoint,
		model:      model,
		apiKey:     apiKey,
		httpClient: httpClient,
	}
}

func (c *Client) Judge(ctx context.Context, item ingest.RawItem, config *brand.Config) Judgment {
	payload, err := c.complete(ctx, item, config)
	if err != nil {
		slog.Warn("Judgment provider call failed", "brand", config.Name, "item", item.QualifiedID(), "error", err)
		return Fallback(fmt.Sprintf("error during judgment: %v", err))
	}

	judgment := Judgment{
		Confidence:     payload.Confidence,
		Sentiment:      NormalizeSentiment(payload.Sentiment),
		SentimentScore: clampScore(payload.SentimentScore),
		Reasoning:      payload.Reasoning,
	}

	switch {
	case payload.IsRelevant == nil:
		return Fallback("provider returned no relevance verdict")
	case *payload.IsRelevant:
		judgment.Relevance = RelevanceYes
		judgment.Subject = NormalizeSubject(payload.Subject)
	default:
		judgment.Relevance = RelevanceNo
		judgment.Subject = FallbackSubject
	}
	judgment.IsRelevant = judgment.Relevance.String()

	return judgment
}

type judgmentPayload struct {
	IsRelevant     *bool   `json:"is_relevant"`
	Confidence     float64 `json:"confidence"`
	Reasoning      string  `json:"reasoning"`
	Subject        string  `json:"subject"`
	Sentiment      string  `json:"sentiment"`
	SentimentScore float64 `json:"sentiment_score"`
}

type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	Temperature    float64       `json:"temperature"`
	ResponseFormat responseFmt   `json:"response_format"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFmt struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (c *Client) complete(ctx context.Context, item ingest.RawItem, config *brand.Config) (*judgmentPayload, error) {
	if c.apiKey == "" || c.endpoint == "" || c.model == "" {
		return nil, fmt.Errorf("judgment client misconfigured")
	}

	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: buildPrompt(item, config)},
		},
		Temperature:    0.1,
		ResponseFormat: responseFmt{Type: "json_object"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call provider: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("provider error %s: %s", resp.Status, strings.TrimSpace(string(detail)))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var completion chatResponse
	if err := json.Unmarshal(data, &completion); err != nil {
		return nil, fmt.Errorf("failed to parse completion: %w", err)
	}
	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("completion has no choices")
	}

	var payload judgmentPayload
	if err := json.Unmarshal([]byte(completion.Choices[0].Message.Content), &payload); err != nil {
		return nil, fmt.Errorf("failed to parse judgment JSON: %w", err)
	}

	return &payload, nil
}

func buildPrompt(item ingest.RawItem, config *brand.Config) string {
	term := config.Term()

	body := truncateBody(item.Body, maxPromptBodyLength)

	var b strings.Builder
	fmt.Fprintf(&b, "Analyze this post and determine if it's genuinely about %s company.\n\n", term)

	if config.Description != "" {
		fmt.Fprintf(&b, "Company Context:\n%s\n\n", config.Description)
	}

	fmt.Fprintf(&b, "Post:\nTitle: %s\nContent: %s\nCommunity: %s\nSource: %s\n\n", item.Title, body, item.Community, item.Source)

	fmt.Fprintf(&b, "Instructions:\n")
	fmt.Fprintf(&b, "1. Determine if this post is actually discussing %s the company/platform\n", term)
	fmt.Fprintf(&b, "2. Consider false positives: the brand name may collide with common words or similar-sounding names\n")
	fmt.Fprintf(&b, "3. Look for context clues: advertising, marketing, platform, campaigns, native ads, content recommendations\n")
	fmt.Fprintf(&b, "4. If relevant, classify the main SUBJECT being discussed from these categories: %s\n", strings.Join(Subjects, ", "))
	fmt.Fprintf(&b, "5. Determine the overall SENTIMENT toward %s in this post\n\n", term)

	fmt.Fprintf(&b, `Respond in this exact JSON format:
{
    "is_relevant": true/false,
    "confidence": 0.0-1.0,
    "reasoning": "Brief explanation of your decision",
    "subject": "Main subject category (from the list above, or 'N/A' if not relevant)",
    "sentiment": "positive/negative/neutral/mixed",
    "sentiment_score": -1.0 to 1.0 (where -1 is very negative, 0 is neutral, 1 is very positive)
}`)

	return b.String()
}

// truncateBody cuts the body to at most limit bytes without splitting a
// UTF-8 sequence, so prompts never carry invalid text.
func truncateBody(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

func clampScore(score float64) float64 {
	if score < -1.0 {
		return -1.0
	}
	if score > 1.0 {
		return 1.0
	}
	return score
}
