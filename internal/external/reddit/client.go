package reddit

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/sentival/backend/pkg/config"
	"github.com/sentival/backend/pkg/httputil"
	"github.com/sentival/backend/pkg/logger"
)

// Post is a Reddit submission as seen by the public listing API
type Post struct {
	Title       string
	Selftext    string
	URL         string
	Subreddit   string
	Score       int
	NumComments int
	CreatedAt   time.Time
}

// Client reads subreddit listings via the public JSON endpoints
// A local limiter keeps each process under Reddit's unauthenticated
// quota on top of the shared Redis limit.
type Client struct {
	http       *httputil.Client
	baseURL    string
	subreddits []string
	hoursBack  int
	limiter    *rate.Limiter
	logger     *logger.Logger
}

func NewClient(cfg *config.Config, http *httputil.Client, log *logger.Logger) *Client {
	return &Client{
		http:       http.WithUserAgent(cfg.Reddit.UserAgent),
		baseURL:    cfg.Reddit.BaseURL,
		subreddits: cfg.Reddit.Subreddits,
		hoursBack:  cfg.Reddit.HoursBack,
		limiter:    rate.NewLimiter(rate.Every(time.Second), 1),
		logger:     log,
	}
}

// Subreddits returns the configured target subreddits
func (c *Client) Subreddits() []string {
	return c.subreddits
}

// listing mirrors the subset of the Reddit listing payload we read
type listing struct {
	Data struct {
		Children []struct {
			Data struct {
				Title       string  `json:"title"`
				Selftext    string  `json:"selftext"`
				URL         string  `json:"url"`
				Subreddit   string  `json:"subreddit"`
				Score       int     `json:"score"`
				NumComments int     `json:"num_comments"`
				CreatedUTC  float64 `json:"created_utc"`
			} `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

// FetchRecentPosts returns hot and new posts from a subreddit, filtered
// to the configured lookback window
func (c *Client) FetchRecentPosts(ctx context.Context, subreddit string) ([]Post, error) {
	cutoff := time.Now().UTC().Add(-time.Duration(c.hoursBack) * time.Hour)

	var posts []Post
	for _, sort := range []string{"hot", "new"} {
		batch, err := c.fetchListing(ctx, subreddit, sort)
		if err != nil {
			return nil, err
		}
		for _, p := range batch {
			if p.CreatedAt.Before(cutoff) {
				continue
			}
			posts = append(posts, p)
		}
	}

	c.logger.WithFields(map[string]interface{}{
		"subreddit": subreddit,
		"posts":     len(posts),
	}).Debug("Fetched subreddit posts")

	return posts, nil
}

func (c *Client) fetchListing(ctx context.Context, subreddit, sort string) ([]Post, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/r/%s/%s.json?limit=100", c.baseURL, subreddit, sort)

	var payload listing
	if err := c.http.GetJSON(ctx, url, &payload); err != nil {
		return nil, fmt.Errorf("fetch r/%s %s listing: %w", subreddit, sort, err)
	}

	posts := make([]Post, 0, len(payload.Data.Children))
	for _, child := range payload.Data.Children {
		d := child.Data
		posts = append(posts, Post{
			Title:       d.Title,
			Selftext:    d.Selftext,
			URL:         d.URL,
			Subreddit:   d.Subreddit,
			Score:       d.Score,
			NumComments: d.NumComments,
			CreatedAt:   time.Unix(int64(d.CreatedUTC), 0).UTC(),
		})
	}
	return posts, nil
}
