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

const defaultHackerNewsBaseURL = "https://hn.algolia.com/api/v1"

const hackerNewsPageCap = 100

// HackerNewsAdapter searches Hacker News through the Algolia API. The two
// item tags (story, comment) act as retrieval strategies; Hacker News has
// no sub-source partitions.
type HackerNewsAdapter struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
}

func NewHackerNewsAdapter(httpClient *http.Client, userAgent string) *HackerNewsAdapter {
	return &HackerNewsAdapter{
		baseURL:    defaultHackerNewsBaseURL,
		httpClient: httpClient,
		userAgent:  userAgent,
	}
}

func (a *HackerNewsAdapter) Source() Source {
	return SourceHackerNews
}

func (a *HackerNewsAdapter) Requests(config *brand.Config) []Request {
	if !config.Sources.HackerNews {
		return nil
	}

	timeout := time.Duration(config.Settings.Timeout) * time.Second
	requests := make([]Request, 0, 2)
	for _, tag := range []string{"story", "comment"} {
		requests = append(requests, Request{
			Term:     config.Term(),
			Strategy: tag,
			Limit:    config.Settings.Limit,
			Cutoff:   config.Cutoff(),
			Timeout:  timeout,
		})
	}
	return requests
}

func (a *HackerNewsAdapter) Fetch(ctx context.Context, req Request) []RawItem {
	timeoutCtx, cancel := context.WithTimeout(ctx, req.Timeout)
	defer cancel()

	perPage := req.Limit * 2
	if perPage > hackerNewsPageCap {
		perPage = hackerNewsPageCap
	}

	query := url.Values{}
	query.Set("query", req.Term)
	query.Set("tags", req.Strategy)
	query.Set("hitsPerPage", strconv.Itoa(perPage))
	query.Set("numericFilters", fmt.Sprintf("created_at_i>%d", req.Cutoff.Unix()))

	searchURL := fmt.Sprintf("%s/search?%s", a.baseURL, query.Encode())

	httpReq, err := http.NewRequestWithContext(timeoutCtx, http.MethodGet, searchURL, nil)
	if err != nil {
		slog.Warn("Hacker News request creation failed", "tag", req.Strategy, "error", err)
		return nil
	}
	httpReq.Header.Set("User-Agent", a.userAgent)

	resp, err := a.httpClient.Do(httpReq)
	if err != nil {
		slog.Warn("Hacker News search failed", "tag", req.Strategy, "error", err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		slog.Warn("Hacker News search failed", "tag", req.Strategy, "status", resp.Status)
		return nil
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		slog.Warn("Hacker News response read failed", "tag", req.Strategy, "error", err)
		return nil
	}

	var result hackerNewsResult
	if err := json.Unmarshal(data, &result); err != nil {
		slog.Warn("Hacker News response parse failed", "tag", req.Strategy, "error", err)
		return nil
	}

	items := make([]RawItem, 0, len(result.Hits))
	for _, hit := range result.Hits {
		items = append(items, hit.toRawItem(req.Strategy))
	}
	return items
}

type hackerNewsResult struct {
	Hits []hackerNewsHit `json:"hits"`
}

type hackerNewsHit struct {
	ObjectID    string `json:"objectID"`
	Title       string `json:"title"`
	StoryText   string `json:"story_text"`
	CommentText string `json:"comment_text"`
	StoryTitle  string `json:"story_title"`
	URL         string `json:"url"`
	StoryURL    string `json:"story_url"`
	Author      string `json:"author"`
	Points      int    `json:"points"`
	NumComments int    `json:"num_comments"`
	CreatedAt   string `json:"created_at"`
}

func (h hackerNewsHit) toRawItem(tag string) RawItem {
	var title, body string
	if tag == "comment" {
		title = "Comment on: " + truncateText(h.StoryTitle, 80)
		body = h.CommentText
	} else {
		title = h.Title
		body = h.StoryText
	}

	createdAt, err := time.Parse(time.RFC3339, h.CreatedAt)
	if err != nil {
		createdAt = time.Now().UTC()
	}

	author := h.Author
	if author == "" {
		author = "[unknown]"
	}

	itemURL := h.URL
	if itemURL == "" {
		itemURL = h.StoryURL
	}

	return RawItem{
		Source:          SourceHackerNews,
		IngestType:      tag,
		ID:              h.ObjectID,
		Text:            joinText(title, body),
		Title:           title,
		Body:            body,
		URL:             itemURL,
		Permalink:       "https://news.ycombinator.com/item?id=" + h.ObjectID,
		CreatedAt:       createdAt.UTC(),
		Author:          author,
		EngagementCount: h.Points,
		CommentCount:    h.NumComments,
		Community:       "hackernews",
		QualityRatio:    1.0, // Hacker News has no vote-ratio concept
	}
}
