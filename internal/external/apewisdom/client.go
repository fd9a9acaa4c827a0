package apewisdom

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/sentival/backend/pkg/config"
	"github.com/sentival/backend/pkg/httputil"
	"github.com/sentival/backend/pkg/logger"
	"github.com/sentival/backend/pkg/redis"
)

// TrendEntry is one row of the trending-ticker table
type TrendEntry struct {
	Rank     int    `json:"rank"`
	Symbol   string `json:"symbol"`
	Mentions int    `json:"mentions"`
	Upvotes  int    `json:"upvotes"`
}

// Client scrapes the ApeWisdom trending page
type Client struct {
	http    *httputil.Client
	baseURL string
	topN    int
	cache   *redis.Cache
	logger  *logger.Logger
}

func NewClient(cfg *config.Config, http *httputil.Client, cache *redis.Cache, log *logger.Logger) *Client {
	return &Client{
		http:    http,
		baseURL: cfg.ApeWisdom.BaseURL,
		topN:    cfg.ApeWisdom.TopN,
		cache:   cache,
		logger:  log,
	}
}

// FetchTrending returns the current top-N trending tickers
// The scraped page is cached briefly so repeated pipeline stages within
// one run hit the site once.
func (c *Client) FetchTrending(ctx context.Context) ([]TrendEntry, error) {
	if c.cache != nil {
		var cached []TrendEntry
		hit, err := c.cache.Get(ctx, redis.TrendSnapshotKey(), &cached)
		if err == nil && hit {
			c.logger.WithField("entries", len(cached)).Debug("Trend snapshot served from cache")
			return cached, nil
		}
	}

	resp, err := c.http.Get(ctx, c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("fetch trend page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("trend page returned status %d", resp.StatusCode)
	}

	entries, err := ParseTrendPage(resp.Body, c.topN)
	if err != nil {
		return nil, err
	}

	c.logger.WithField("entries", len(entries)).Info("Scraped trending tickers")

	if c.cache != nil {
		if err := c.cache.Set(ctx, redis.TrendSnapshotKey(), entries, redis.TTLShort); err != nil {
			c.logger.WithError(err).Warn("Failed to cache trend snapshot")
		}
	}

	return entries, nil
}

// ParseTrendPage extracts trending entries from the page HTML
// Rank is positional: the first row of the table is rank 1. Rows with
// no recognizable symbol are skipped.
func ParseTrendPage(r io.Reader, topN int) ([]TrendEntry, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse trend page: %w", err)
	}

	var entries []TrendEntry
	doc.Find("tr.ticker-row").EachWithBreak(func(i int, row *goquery.Selection) bool {
		if len(entries) >= topN {
			return false
		}

		symbolCell := row.Find("td.ticker-symbol")
		if symbolCell.Length() == 0 {
			symbolCell = row.Find("a.ticker")
		}
		symbol := strings.ToUpper(strings.TrimSpace(symbolCell.Text()))
		if symbol == "" {
			return true
		}

		entries = append(entries, TrendEntry{
			Rank:     len(entries) + 1,
			Symbol:   symbol,
			Mentions: cellInt(row.Find("td.mentions")),
			Upvotes:  cellInt(row.Find("td.upvotes")),
		})
		return true
	})

	return entries, nil
}

func cellInt(sel *goquery.Selection) int {
	text := strings.ReplaceAll(strings.TrimSpace(sel.Text()), ",", "")
	n, err := strconv.Atoi(text)
	if err != nil {
		return 0
	}
	return n
}
