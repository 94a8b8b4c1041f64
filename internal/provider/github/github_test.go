package github

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/drewdunne/recap/internal/provider"
)

func TestGitHubProvider_SearchMergedPullRequests(t *testing.T) {
	since := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search/issues" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-token" {
			t.Errorf("missing or incorrect authorization header")
		}
		q := r.URL.Query().Get("q")
		want := "repo:owner/repo is:pr is:merged merged:>=2026-08-30T12:00:00Z"
		if q != want {
			t.Errorf("query = %q, want %q", q, want)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"total_count": 1,
			"items": []map[string]interface{}{
				{
					"number":    42,
					"title":     "[WEB-123] Fix login",
					"html_url":  "https://github.com/owner/repo/pull/42",
					"closed_at": "2026-08-31T09:00:00Z",
					"user":      map[string]string{"login": "alice", "type": "User"},
				},
			},
		})
	}))
	defer server.Close()

	p := New("test-token", WithBaseURL(server.URL))
	prs, err := p.SearchMergedPullRequests(context.Background(), "owner", "repo", since)
	if err != nil {
		t.Fatalf("SearchMergedPullRequests() error = %v", err)
	}

	if len(prs) != 1 {
		t.Fatalf("SearchMergedPullRequests() returned %d PRs, want 1", len(prs))
	}
	if prs[0].Number != 42 {
		t.Errorf("Number = %d, want %d", prs[0].Number, 42)
	}
	if prs[0].Author.Login != "alice" {
		t.Errorf("Author.Login = %q, want %q", prs[0].Author.Login, "alice")
	}
	if prs[0].MergedAt == nil || !prs[0].MergedAt.Equal(time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC)) {
		t.Errorf("MergedAt = %v, want 2026-08-31T09:00:00Z", prs[0].MergedAt)
	}
}

func TestGitHubProvider_SearchFollowsPagination(t *testing.T) {
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "2" {
			json.NewEncoder(w).Encode(map[string]interface{}{
				"total_count": 2,
				"items": []map[string]interface{}{
					{
						"number":    43,
						"title":     "Second page",
						"html_url":  "https://github.com/owner/repo/pull/43",
						"closed_at": "2026-08-31T10:00:00Z",
						"user":      map[string]string{"login": "bob", "type": "User"},
					},
				},
			})
			return
		}
		w.Header().Set("Link", `<`+server.URL+`/search/issues?q=x&page=2>; rel="next"`)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"total_count": 2,
			"items": []map[string]interface{}{
				{
					"number":    42,
					"title":     "First page",
					"html_url":  "https://github.com/owner/repo/pull/42",
					"closed_at": "2026-08-31T09:00:00Z",
					"user":      map[string]string{"login": "alice", "type": "User"},
				},
			},
		})
	}))
	defer server.Close()

	p := New("test-token", WithBaseURL(server.URL))
	prs, err := p.SearchMergedPullRequests(context.Background(), "owner", "repo", time.Now())
	if err != nil {
		t.Fatalf("SearchMergedPullRequests() error = %v", err)
	}

	if len(prs) != 2 {
		t.Fatalf("SearchMergedPullRequests() returned %d PRs, want 2 across pages", len(prs))
	}
	if prs[1].Number != 43 {
		t.Errorf("second page PR = #%d, want #43", prs[1].Number)
	}
}

func TestGitHubProvider_SearchAuthError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"message": "Bad credentials"})
	}))
	defer server.Close()

	p := New("bad-token", WithBaseURL(server.URL))
	_, err := p.SearchMergedPullRequests(context.Background(), "owner", "repo", time.Now())
	if !errors.Is(err, provider.ErrAuth) {
		t.Errorf("error = %v, want provider.ErrAuth", err)
	}
}

func TestGitHubProvider_SearchNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"message": "Not Found"})
	}))
	defer server.Close()

	p := New("test-token", WithBaseURL(server.URL))
	_, err := p.SearchMergedPullRequests(context.Background(), "owner", "repo", time.Now())
	if !errors.Is(err, provider.ErrNotFound) {
		t.Errorf("error = %v, want provider.ErrNotFound", err)
	}
}

func TestGitHubProvider_GetPullRequest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos/owner/repo/pulls/42" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"number":    42,
			"title":     "Test PR",
			"body":      "Description",
			"html_url":  "https://github.com/owner/repo/pull/42",
			"merged_at": "2026-08-31T09:00:00Z",
			"user":      map[string]string{"login": "alice", "type": "User"},
		})
	}))
	defer server.Close()

	p := New("test-token", WithBaseURL(server.URL))
	pr, err := p.GetPullRequest(context.Background(), "owner", "repo", 42)
	if err != nil {
		t.Fatalf("GetPullRequest() error = %v", err)
	}

	if pr.Body != "Description" {
		t.Errorf("Body = %q, want %q", pr.Body, "Description")
	}
	if pr.MergedAt == nil {
		t.Error("MergedAt = nil, want merge timestamp")
	}
}

func TestGitHubProvider_GetUser(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/users/alice" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]string{
			"login": "alice",
			"name":  "Alice Smith",
			"type":  "User",
		})
	}))
	defer server.Close()

	p := New("test-token", WithBaseURL(server.URL))
	u, err := p.GetUser(context.Background(), "alice")
	if err != nil {
		t.Fatalf("GetUser() error = %v", err)
	}

	if u.Name != "Alice Smith" {
		t.Errorf("Name = %q, want %q", u.Name, "Alice Smith")
	}
}

func TestGitHubProvider_GetComments(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos/owner/repo/issues/42/comments" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode([]map[string]interface{}{
			{"body": "LGTM", "user": map[string]string{"login": "bob", "type": "User"}},
			{"body": "WEB-123 Login fix", "user": map[string]string{"login": "linear[bot]", "type": "Bot"}},
		})
	}))
	defer server.Close()

	p := New("test-token", WithBaseURL(server.URL))
	comments, err := p.GetComments(context.Background(), "owner", "repo", 42)
	if err != nil {
		t.Fatalf("GetComments() error = %v", err)
	}

	if len(comments) != 2 {
		t.Fatalf("GetComments() returned %d comments, want 2", len(comments))
	}
	if comments[1].Author.Type != provider.TypeBot {
		t.Errorf("comments[1].Author.Type = %q, want %q", comments[1].Author.Type, provider.TypeBot)
	}
}

func TestGitHubProvider_Name(t *testing.T) {
	p := New("test-token")
	if p.Name() != "github" {
		t.Errorf("Name() = %q, want %q", p.Name(), "github")
	}
}
