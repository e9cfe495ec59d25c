package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/devlinkhq/devlink-api/internal/apperror"
	"github.com/devlinkhq/devlink-api/pkg/helpers"
)

// Repo is the subset of the GitHub repository payload surfaced to
// clients of the profile route.
type Repo struct {
	Name        string `json:"name"`
	HTMLURL     string `json:"html_url"`
	Description string `json:"description"`
	Stars       int    `json:"stargazers_count"`
	Forks       int    `json:"forks_count"`
	Watchers    int    `json:"watchers_count"`
}

// Client lists a user's five most recent public repositories. Responses
// are cached in Redis so the upstream rate limit is not burned on every
// profile view.
type Client struct {
	HTTP     *http.Client
	Redis    *redis.Client
	Logger   *logrus.Logger
	Token    string
	CacheTTL time.Duration
}

func NewClient(rdb *redis.Client, logger *logrus.Logger, token string, cacheTTL time.Duration) *Client {
	return &Client{
		HTTP:     &http.Client{Timeout: 10 * time.Second},
		Redis:    rdb,
		Logger:   logger,
		Token:    token,
		CacheTTL: cacheTTL,
	}
}

func cacheKey(username string) string { return "github:repos:" + username }

// ListRepos returns the user's latest public repos, newest first.
// An unknown login surfaces as NotFound; upstream trouble as a plain error.
func (c *Client) ListRepos(ctx context.Context, username string) ([]Repo, error) {
	if c.Redis != nil {
		var cached []Repo
		if ok, err := helpers.RedisGetJSON(ctx, c.Redis, cacheKey(username), &cached); err == nil && ok {
			return cached, nil
		}
	}

	url := fmt.Sprintf("https://api.github.com/users/%s/repos?per_page=5&sort=created:asc", username)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	res, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode == http.StatusNotFound {
		return nil, apperror.NotFound("github profile")
	}
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("github responded %d", res.StatusCode)
	}

	var repos []Repo
	if err := json.NewDecoder(res.Body).Decode(&repos); err != nil {
		return nil, err
	}

	if c.Redis != nil {
		if err := helpers.RedisSetJSON(ctx, c.Redis, cacheKey(username), repos, c.CacheTTL); err != nil && c.Logger != nil {
			c.Logger.WithError(err).WithField("username", username).Warn("github cache write failed")
		}
	}
	return repos, nil
}
