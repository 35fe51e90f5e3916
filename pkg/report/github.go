package report

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	gh "github.com/google/go-github/v60/github"

	"github.com/cgast/netintent/pkg/experiment"
)

// Publisher files a run summary with an external service.
type Publisher interface {
	Publish(ctx context.Context, sum experiment.Summary) (string, error)
}

// GitHubPublisher creates a GitHub issue containing the run report.
type GitHubPublisher struct {
	client *gh.Client
	owner  string
	repo   string
}

// NewGitHubPublisher creates a publisher for the given "owner/name"
// repository.
func NewGitHubPublisher(token, repo string) (*GitHubPublisher, error) {
	if token == "" {
		return nil, fmt.Errorf("report: github token is required")
	}
	owner, name, err := splitRepo(repo)
	if err != nil {
		return nil, err
	}
	httpClient := &http.Client{
		Transport: &tokenTransport{token: token},
	}
	return &GitHubPublisher{
		client: gh.NewClient(httpClient),
		owner:  owner,
		repo:   name,
	}, nil
}

// Publish files the summary as a new issue and returns its URL.
func (p *GitHubPublisher) Publish(ctx context.Context, sum experiment.Summary) (string, error) {
	at := sum.FinishedAt
	if at.IsZero() {
		at = time.Now()
	}
	title := fmt.Sprintf("Intent verification run %s: %.0f%% success",
		at.UTC().Format("2006-01-02 15:04"), sum.SuccessRate()*100)
	body := Markdown(sum)

	issue, _, err := p.client.Issues.Create(ctx, p.owner, p.repo, &gh.IssueRequest{
		Title: &title,
		Body:  &body,
	})
	if err != nil {
		return "", fmt.Errorf("report: create issue: %w", err)
	}
	return issue.GetHTMLURL(), nil
}

// splitRepo parses "owner/name".
func splitRepo(repo string) (string, string, error) {
	owner, name, ok := strings.Cut(repo, "/")
	if !ok || owner == "" || name == "" {
		return "", "", fmt.Errorf("report: repo must be in owner/name format, got %q", repo)
	}
	return owner, name, nil
}

// tokenTransport adds Bearer token auth to HTTP requests.
type tokenTransport struct {
	token string
}

func (t *tokenTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.Header.Set("Authorization", "Bearer "+t.token)
	return http.DefaultTransport.RoundTrip(req)
}
