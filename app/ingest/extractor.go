package ingest

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	readability "github.com/go-shiori/go-readability"
)

// Judgment prompts only carry the lead of an article, so extracted bodies
// are capped.
const maxExtractedLength = 2000

// ContentExtractor fetches an article page and reduces it to readable
// text. Used for news items whose feed entry carries no usable body.
type ContentExtractor struct {
	httpClient *http.Client
	userAgent  string
}

func NewContentExtractor(httpClient *http.Client, userAgent string) *ContentExtractor {
	return &ContentExtractor{
		httpClient: httpClient,
		userAgent:  userAgent,
	}
}

func (e *ContentExtractor) Run(ctx context.Context, pageURL string) (string, error) {
	if pageURL == "" {
		return "", fmt.Errorf("page URL is empty")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", e.userAgent)

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	article, err := readability.FromReader(strings.NewReader(string(data)), resp.Request.URL)
	if err != nil {
		return "", fmt.Errorf("failed to extract content: %w", err)
	}

	text := strings.TrimSpace(article.TextContent)
	if text == "" {
		return "", fmt.Errorf("no content extracted from page")
	}
	text = truncateText(text, maxExtractedLength)

	slog.Debug("Content extracted", "url", pageURL, "title", article.Title, "length", len(text))

	return text, nil
}
