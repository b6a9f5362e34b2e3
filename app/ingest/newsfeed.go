package ingest

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/novikoff/brandpulse/app/brand"
)

const defaultNewsBaseURL = "https://news.google.com/rss"

// NewsAdapter searches the Google News RSS index per brand. Feed entries
// carry no engagement counters, so items arrive with zero counts and a
// quality ratio of 1.0. When extraction is enabled for the brand, items
// without a body get readable text pulled from the article page.
type NewsAdapter struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
	feedParser *gofeed.Parser
	extractor  *ContentExtractor
}

func NewNewsAdapter(httpClient *http.Client, userAgent string, extractor *ContentExtractor) *NewsAdapter {
	return &NewsAdapter{
		baseURL:    defaultNewsBaseURL,
		httpClient: httpClient,
		userAgent:  userAgent,
		feedParser: gofeed.NewParser(),
		extractor:  extractor,
	}
}

func (a *NewsAdapter) Source() Source {
	return SourceNews
}

func (a *NewsAdapter) Requests(config *brand.Config) []Request {
	if !config.Sources.News {
		return nil
	}

	return []Request{{
		Term:     config.Term(),
		Strategy: "search",
		Limit:    config.Settings.Limit,
		Cutoff:   config.Cutoff(),
		Timeout:  time.Duration(config.Settings.Timeout) * time.Second,
		Extract:  config.Settings.ExtractContent,
	}}
}

func (a *NewsAdapter) Fetch(ctx context.Context, req Request) []RawItem {
	timeoutCtx, cancel := context.WithTimeout(ctx, req.Timeout)
	defer cancel()

	query := url.Values{}
	query.Set("q", fmt.Sprintf("%q", req.Term))
	query.Set("hl", "en-US")
	query.Set("gl", "US")
	query.Set("ceid", "US:en")

	searchURL := fmt.Sprintf("%s/search?%s", a.baseURL, query.Encode())

	data, err := a.fetchFeed(timeoutCtx, searchURL)
	if err != nil {
		slog.Warn("News search failed", "term", req.Term, "error", err)
		return nil
	}

	feed, err := a.feedParser.Parse(bytes.NewReader(data))
	if err != nil {
		slog.Warn("News feed parse failed", "term", req.Term, "error", err)
		return nil
	}

	items := make([]RawItem, 0, len(feed.Items))
	for _, entry := range feed.Items {
		if len(items) >= req.Limit {
			break
		}
		items = append(items, a.toRawItem(timeoutCtx, entry, req.Extract))
	}
	return items
}

func (a *NewsAdapter) fetchFeed(ctx context.Context, feedURL string) ([]byte, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("User-Agent", a.userAgent)

	resp, err := a.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	return io.ReadAll(resp.Body)
}

func (a *NewsAdapter) toRawItem(ctx context.Context, entry *gofeed.Item, extract bool) RawItem {
	id := entry.GUID
	if id == "" {
		id = entry.Link
	}

	createdAt := time.Now().UTC()
	if entry.PublishedParsed != nil {
		createdAt = entry.PublishedParsed.UTC()
	}

	author := "[unknown]"
	if len(entry.Authors) > 0 && entry.Authors[0].Name != "" {
		author = entry.Authors[0].Name
	}

	body := entry.Description
	if body == "" && extract && a.extractor != nil {
		extracted, err := a.extractor.Run(ctx, entry.Link)
		if err != nil {
			slog.Debug("Article extraction skipped", "url", entry.Link, "error", err)
		} else {
			body = extracted
		}
	}

	return RawItem{
		Source:          SourceNews,
		IngestType:      "search",
		ID:              id,
		Text:            joinText(entry.Title, body),
		Title:           entry.Title,
		Body:            body,
		URL:             entry.Link,
		Permalink:       entry.Link,
		CreatedAt:       createdAt,
		Author:          author,
		EngagementCount: 0,
		CommentCount:    0,
		Community:       "news.google.com",
		QualityRatio:    1.0,
	}
}
