package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/novikoff/brandpulse/app/brand"
)

const defaultRedditBaseURL = "https://www.reddit.com"

// RedditAdapter searches subreddits through Reddit's public JSON search
// endpoint. Each configured subreddit is a sub-source and each sort
// strategy is a separate retrieval pass.
type RedditAdapter struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
}

func NewRedditAdapter(httpClient *http.Client, userAgent string) *RedditAdapter {
	return &RedditAdapter{
		baseURL:    defaultRedditBaseURL,
		httpClient: httpClient,
		userAgent:  userAgent,
	}
}

func (a *RedditAdapter) Source() Source {
	return SourceReddit
}

func (a *RedditAdapter) Requests(config *brand.Config) []Request {
	if !config.Sources.Reddit {
		return nil
	}

	timeout := time.Duration(config.Settings.Timeout) * time.Second
	requests := make([]Request, 0, len(config.Sources.Subreddits)*len(config.Sources.SortStrategies))
	for _, subreddit := range config.Sources.Subreddits {
		for _, strategy := range config.Sources.SortStrategies {
			requests = append(requests, Request{
				Term:      config.Term(),
				Community: subreddit,
				Strategy:  strategy,
				Limit:     config.Settings.Limit,
				Cutoff:    config.Cutoff(),
				Timeout:   timeout,
			})
		}
	}
	return requests
}

func (a *RedditAdapter) Fetch(ctx context.Context, req Request) []RawItem {
	timeoutCtx, cancel := context.WithTimeout(ctx, req.Timeout)
	defer cancel()

	query := url.Values{}
	query.Set("q", fmt.Sprintf("%q", req.Term))
	query.Set("restrict_sr", "1")
	query.Set("sort", req.Strategy)
	query.Set("t", "all")
	query.Set("limit", strconv.Itoa(req.Limit))

	searchURL := fmt.Sprintf("%s/r/%s/search.json?%s", a.baseURL, url.PathEscape(req.Community), query.Encode())

	var listing redditListing
	if err := a.getJSON(timeoutCtx, searchURL, &listing); err != nil {
		slog.Warn("Reddit search failed", "subreddit", req.Community, "strategy", req.Strategy, "error", err)
		return nil
	}

	items := make([]RawItem, 0, len(listing.Data.Children))
	for _, child := range listing.Data.Children {
		items = append(items, child.Data.toRawItem(req.Strategy))
	}
	return items
}

func (a *RedditAdapter) getJSON(ctx context.Context, rawURL string, out any) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("User-Agent", a.userAgent)

	resp, err := a.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

type redditListing struct {
	Data struct {
		Children []struct {
			Data redditPost `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

type redditPost struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Selftext    string  `json:"selftext"`
	URL         string  `json:"url"`
	Permalink   string  `json:"permalink"`
	CreatedUTC  float64 `json:"created_utc"`
	Author      string  `json:"author"`
	Score       int     `json:"score"`
	NumComments int     `json:"num_comments"`
	Subreddit   string  `json:"subreddit"`
	UpvoteRatio float64 `json:"upvote_ratio"`
}

func (p redditPost) toRawItem(strategy string) RawItem {
	author := p.Author
	if author == "" {
		author = "[deleted]"
	}

	title := p.Title
	body := p.Selftext

	return RawItem{
		Source:          SourceReddit,
		IngestType:      strategy,
		ID:              p.ID,
		Text:            joinText(title, body),
		Title:           title,
		Body:            body,
		URL:             p.URL,
		Permalink:       "https://reddit.com" + p.Permalink,
		CreatedAt:       time.Unix(int64(p.CreatedUTC), 0).UTC(),
		Author:          author,
		EngagementCount: p.Score,
		CommentCount:    p.NumComments,
		Community:       p.Subreddit,
		QualityRatio:    p.UpvoteRatio,
	}
}

func joinText(title, body string) string {
	if body == "" {
		return title
	}
	return title + " " + body
}
