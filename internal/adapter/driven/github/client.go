// Package github implements the GitHubClient port using the go-github library.
package github

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	gh "github.com/google/go-github/v82/github"
	"github.com/gregjones/httpcache"

	"github.com/gofri/go-github-ratelimit/v2/github_ratelimit"

	"github.com/ericfisherdev/gitshelf/internal/domain/model"
	"github.com/ericfisherdev/gitshelf/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.GitHubClient = (*Client)(nil)

// DefaultBaseURL is the public GitHub REST API root.
const DefaultBaseURL = "https://api.github.com/"

// Client implements the driven.GitHubClient port using the go-github library.
type Client struct {
	gh *gh.Client
}

// NewClient creates a new GitHub API client with the following transport stack:
//  1. httpcache (ETag-based conditional request caching)
//  2. go-github-ratelimit (secondary rate limit middleware, sleeps on 429)
//  3. go-github (GitHub REST API client, PAT auth when token is non-empty)
//
// An empty token issues anonymous requests. An empty baseURL uses DefaultBaseURL.
func NewClient(token, baseURL string) (*Client, error) {
	cacheTransport := httpcache.NewMemoryCacheTransport()
	rateLimitClient := github_ratelimit.NewClient(cacheTransport)
	return newClient(rateLimitClient, baseURL, token)
}

// NewClientWithHTTPClient creates a Client with a custom http.Client and base URL.
// This constructor is intended for testing, allowing injection of an httptest server.
func NewClientWithHTTPClient(httpClient *http.Client, baseURL, token string) (*Client, error) {
	return newClient(httpClient, baseURL, token)
}

func newClient(httpClient *http.Client, baseURL, token string) (*Client, error) {
	client := gh.NewClient(httpClient)
	if token != "" {
		client = client.WithAuthToken(token)
	}

	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	client.BaseURL = u

	return &Client{gh: client}, nil
}

// FetchRepository retrieves repository metadata for identifier ("owner/name").
// A 404 from GitHub, or an identifier that cannot name a repository, is
// reported as driven.ErrRepositoryNotFound.
func (c *Client) FetchRepository(ctx context.Context, identifier string) (*model.RepositoryDetail, error) {
	owner, repo, err := splitRepo(identifier)
	if err != nil {
		return nil, fmt.Errorf("fetching repository %q: %w: %w", identifier, driven.ErrRepositoryNotFound, err)
	}

	r, resp, err := c.gh.Repositories.Get(ctx, owner, repo)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("fetching repository %s: %w", identifier, driven.ErrRepositoryNotFound)
		}
		return nil, fmt.Errorf("fetching repository %s: %w", identifier, err)
	}

	logRateLimit(resp, identifier, 0, 1)

	if r.GetFullName() == "" {
		return nil, fmt.Errorf("fetching repository %s: response has no full_name", identifier)
	}

	return mapRepository(r), nil
}

// FetchIssues retrieves a single page of issues for identifier filtered by
// query.State. Pages past the end return an empty slice.
func (c *Client) FetchIssues(ctx context.Context, identifier string, query model.IssueQuery) ([]model.Issue, error) {
	owner, repo, err := splitRepo(identifier)
	if err != nil {
		return nil, err
	}

	query = model.NewIssueQuery(query.State, query.Page)
	opts := &gh.IssueListByRepoOptions{
		State: string(query.State),
		ListOptions: gh.ListOptions{
			Page:    query.Page,
			PerPage: query.PerPage,
		},
	}

	issues, resp, err := c.gh.Issues.ListByRepo(ctx, owner, repo, opts)
	if err != nil {
		return nil, fmt.Errorf("listing %s issues for %s (page %d): %w", query.State, identifier, query.Page, err)
	}

	logRateLimit(resp, identifier+"/issues", query.Page, len(issues))

	result := make([]model.Issue, 0, len(issues))
	for _, issue := range issues {
		result = append(result, mapIssue(issue))
	}

	return result, nil
}

// logRateLimit logs the GitHub API rate limit status after each call.
func logRateLimit(resp *gh.Response, endpoint string, page, count int) {
	if resp == nil {
		return
	}

	slog.Debug("github api call",
		"endpoint", endpoint,
		"page", page,
		"count", count,
		"rate_remaining", resp.Rate.Remaining,
		"rate_limit", resp.Rate.Limit,
	)

	if resp.Rate.Remaining < 100 {
		slog.Warn("github rate limit low",
			"remaining", resp.Rate.Remaining,
			"reset_in", time.Until(resp.Rate.Reset.Time).Round(time.Second),
		)
	}
}

// mapRepository converts a go-github Repository to a domain RepositoryDetail.
// It uses GetXxx() helper methods exclusively to avoid nil pointer panics.
func mapRepository(r *gh.Repository) *model.RepositoryDetail {
	return &model.RepositoryDetail{
		FullName:    r.GetFullName(),
		Name:        r.GetName(),
		Description: r.GetDescription(),
		Owner: model.User{
			Login:     r.GetOwner().GetLogin(),
			AvatarURL: r.GetOwner().GetAvatarURL(),
		},
	}
}

// mapIssue converts a go-github Issue to a domain Issue.
func mapIssue(issue *gh.Issue) model.Issue {
	labels := make([]model.Label, 0, len(issue.Labels))
	for _, l := range issue.Labels {
		labels = append(labels, model.Label{
			ID:   l.GetID(),
			Name: l.GetName(),
		})
	}

	return model.Issue{
		ID:      issue.GetID(),
		Number:  issue.GetNumber(),
		Title:   issue.GetTitle(),
		HTMLURL: issue.GetHTMLURL(),
		User: model.User{
			Login:     issue.GetUser().GetLogin(),
			AvatarURL: issue.GetUser().GetAvatarURL(),
		},
		Labels: labels,
	}
}

// splitRepo splits a "owner/repo" string into its two components.
func splitRepo(fullName string) (string, string, error) {
	parts := strings.SplitN(strings.TrimSpace(fullName), "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" || strings.Contains(parts[1], "/") {
		return "", "", fmt.Errorf("invalid repo name %q: expected owner/repo", fullName)
	}
	return parts[0], parts[1], nil
}
