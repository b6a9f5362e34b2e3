package ingest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/novikoff/brandpulse/app/brand"
)

const hackerNewsStoryResponse = `{
	"hits": [
		{
			"objectID": "39001234",
			"title": "Acme raises a round",
			"story_text": "",
			"url": "https://example.com/acme-round",
			"author": "pg",
			"points": 120,
			"num_comments": 45,
			"created_at": "2024-06-01T12:00:00Z"
		}
	]
}`

const hackerNewsCommentResponse = `{
	"hits": [
		{
			"objectID": "39005678",
			"comment_text": "We switched to Acme and never looked back",
			"story_title": "` + "Ask HN: What advertising stack do you use for a small content site these days, honestly?" + `",
			"story_url": "https://example.com/thread",
			"author": "someone",
			"points": 0,
			"num_comments": 0,
			"created_at": "2024-06-02T08:30:00Z"
		}
	]
}`

func TestHackerNewsAdapterFetchStories(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(hackerNewsStoryResponse))
	}))
	defer server.Close()

	adapter := NewHackerNewsAdapter(server.Client(), "TestAgent/1.0")
	adapter.baseURL = server.URL

	cutoff := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	items := adapter.Fetch(context.Background(), Request{
		Term:     "Acme",
		Strategy: "story",
		Limit:    30,
		Cutoff:   cutoff,
		Timeout:  5 * time.Second,
	})

	for _, fragment := range []string{"query=Acme", "tags=story", "hitsPerPage=60"} {
		if !strings.Contains(gotQuery, fragment) {
			t.Errorf("Expected query to contain %s, got %s", fragment, gotQuery)
		}
	}
	if !strings.Contains(gotQuery, "created_at_i%3E1577836800") {
		t.Errorf("Expected cutoff filter in query, got %s", gotQuery)
	}

	if len(items) != 1 {
		t.Fatalf("Expected 1 item, got %d", len(items))
	}

	item := items[0]
	if item.Source != SourceHackerNews || item.ID != "39001234" {
		t.Errorf("Unexpected item identity: %s %s", item.Source, item.ID)
	}
	if item.Title != "Acme raises a round" {
		t.Errorf("Unexpected title: %s", item.Title)
	}
	if item.Permalink != "https://news.ycombinator.com/item?id=39001234" {
		t.Errorf("Unexpected permalink: %s", item.Permalink)
	}
	if item.EngagementCount != 120 || item.CommentCount != 45 {
		t.Errorf("Unexpected engagement fields: %d %d", item.EngagementCount, item.CommentCount)
	}
	if item.QualityRatio != 1.0 {
		t.Errorf("Expected neutral quality ratio, got %v", item.QualityRatio)
	}
	if item.Community != "hackernews" {
		t.Errorf("Unexpected community: %s", item.Community)
	}
}

func TestHackerNewsAdapterFetchComments(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(hackerNewsCommentResponse))
	}))
	defer server.Close()

	adapter := NewHackerNewsAdapter(server.Client(), "TestAgent/1.0")
	adapter.baseURL = server.URL

	items := adapter.Fetch(context.Background(), Request{
		Term:     "Acme",
		Strategy: "comment",
		Limit:    30,
		Timeout:  5 * time.Second,
	})

	if len(items) != 1 {
		t.Fatalf("Expected 1 item, got %d", len(items))
	}

	item := items[0]
	if !strings.HasPrefix(item.Title, "Comment on: ") {
		t.Errorf("Expected comment title prefix, got %s", item.Title)
	}
	if len(item.Title) > len("Comment on: ")+80 {
		t.Errorf("Expected story title truncated to 80 chars, got %d: %s", len(item.Title), item.Title)
	}
	if item.Body != "We switched to Acme and never looked back" {
		t.Errorf("Unexpected body: %s", item.Body)
	}
	if item.URL != "https://example.com/thread" {
		t.Errorf("Expected story URL fallback, got %s", item.URL)
	}
	if item.IngestType != "comment" {
		t.Errorf("Unexpected ingest type: %s", item.IngestType)
	}
}

func TestHackerNewsCommentTitleTruncationKeepsValidUTF8(t *testing.T) {
	// A multibyte rune straddles the 80-byte boundary.
	hit := hackerNewsHit{
		ObjectID:    "1",
		CommentText: "some comment",
		StoryTitle:  strings.Repeat("x", 79) + "éllo",
		CreatedAt:   "2024-06-01T12:00:00Z",
	}

	item := hit.toRawItem("comment")

	if !utf8.ValidString(item.Title) {
		t.Errorf("Truncated title contains invalid UTF-8: %q", item.Title)
	}
	if len(item.Title) > len("Comment on: ")+80 {
		t.Errorf("Title exceeds the truncation bound: %d bytes", len(item.Title))
	}
}

func TestHackerNewsAdapterFetchServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	adapter := NewHackerNewsAdapter(server.Client(), "TestAgent/1.0")
	adapter.baseURL = server.URL

	items := adapter.Fetch(context.Background(), Request{
		Term:     "Acme",
		Strategy: "story",
		Limit:    30,
		Timeout:  5 * time.Second,
	})

	if items != nil {
		t.Errorf("Expected nil on server error, got %d items", len(items))
	}
}

func TestHackerNewsAdapterRequests(t *testing.T) {
	config := &brand.Config{
		Name:     "acme",
		Settings: brand.ConfigSettings{Limit: 30, MinYear: 2020, Timeout: 30},
		Sources:  brand.ConfigSources{HackerNews: true},
	}

	requests := NewHackerNewsAdapter(http.DefaultClient, "TestAgent/1.0").Requests(config)

	if len(requests) != 2 {
		t.Fatalf("Expected 2 requests (story and comment), got %d", len(requests))
	}
	if requests[0].Strategy != "story" || requests[1].Strategy != "comment" {
		t.Errorf("Unexpected strategies: %s, %s", requests[0].Strategy, requests[1].Strategy)
	}

	config.Sources.HackerNews = false
	if requests := NewHackerNewsAdapter(http.DefaultClient, "TestAgent/1.0").Requests(config); len(requests) != 0 {
		t.Errorf("Expected no requests for disabled source, got %d", len(requests))
	}
}
