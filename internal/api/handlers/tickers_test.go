package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sentival/backend/internal/contracts"
)

type stubTickerRepo struct {
	tickers map[string]*contracts.Ticker
}

func (r *stubTickerRepo) Upsert(context.Context, *contracts.Ticker) (*contracts.Ticker, error) {
	return nil, errors.New("not implemented")
}
func (r *stubTickerRepo) GetBySymbol(_ context.Context, symbol string) (*contracts.Ticker, error) {
	t, ok := r.tickers[symbol]
	if !ok {
		return nil, contracts.ErrNotFound
	}
	return t, nil
}
func (r *stubTickerRepo) GetByID(context.Context, int64) (*contracts.Ticker, error) {
	return nil, contracts.ErrNotFound
}
func (r *stubTickerRepo) List(context.Context) ([]*contracts.Ticker, error) { return nil, nil }
func (r *stubTickerRepo) UpdateMetadata(context.Context, int64, string, string) error {
	return nil
}

type stubSentimentRepo struct {
	posts     map[int64][]*contracts.TopPost
	lastLimit int
}

func (r *stubSentimentRepo) InsertSample(context.Context, *contracts.SentimentSample) error {
	return nil
}
func (r *stubSentimentRepo) LatestSample(context.Context, int64, contracts.SentimentSource, time.Time) (*contracts.SentimentSample, error) {
	return nil, contracts.ErrNotFound
}
func (r *stubSentimentRepo) InsertTopPost(context.Context, *contracts.TopPost) error { return nil }
func (r *stubSentimentRepo) TopPosts(_ context.Context, tickerID int64, limit int) ([]*contracts.TopPost, error) {
	r.lastLimit = limit
	posts := r.posts[tickerID]
	if len(posts) > limit {
		posts = posts[:limit]
	}
	return posts, nil
}

func tickerTestRouter(h *TickerHandler) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/api/tickers/{symbol}", h.Get).Methods("GET")
	r.HandleFunc("/api/tickers/{symbol}/posts", h.Posts).Methods("GET")
	return r
}

func TestTickerHandlerPosts(t *testing.T) {
	tickers := &stubTickerRepo{tickers: map[string]*contracts.Ticker{
		"GME": {ID: 1, Symbol: "GME"},
	}}
	sentiments := &stubSentimentRepo{posts: map[int64][]*contracts.TopPost{
		1: {
			{TickerID: 1, Subreddit: "wallstreetbets", Title: "GME to the moon", Score: 900},
			{TickerID: 1, Subreddit: "stocks", Title: "GME earnings recap", Score: 400},
		},
	}}
	handler := NewTickerHandler(tickers, newStubFlagRepo(), sentiments, newTestLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/tickers/gme/posts", nil)
	rec := httptest.NewRecorder()
	tickerTestRouter(handler).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Symbol string              `json:"symbol"`
		Count  int                 `json:"count"`
		Posts  []contracts.TopPost `json:"posts"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "GME", body.Symbol)
	assert.Equal(t, 2, body.Count)
	require.Len(t, body.Posts, 2)
	assert.Equal(t, "wallstreetbets", body.Posts[0].Subreddit)
	assert.Equal(t, defaultPostsLimit, sentiments.lastLimit)
}

func TestTickerHandlerPostsLimit(t *testing.T) {
	tickers := &stubTickerRepo{tickers: map[string]*contracts.Ticker{
		"GME": {ID: 1, Symbol: "GME"},
	}}
	sentiments := &stubSentimentRepo{posts: map[int64][]*contracts.TopPost{
		1: {
			{TickerID: 1, Subreddit: "wallstreetbets", Score: 900},
			{TickerID: 1, Subreddit: "stocks", Score: 400},
		},
	}}
	handler := NewTickerHandler(tickers, newStubFlagRepo(), sentiments, newTestLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/tickers/GME/posts?limit=1", nil)
	rec := httptest.NewRecorder()
	tickerTestRouter(handler).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, sentiments.lastLimit)

	req = httptest.NewRequest(http.MethodGet, "/api/tickers/GME/posts?limit=0", nil)
	rec = httptest.NewRecorder()
	tickerTestRouter(handler).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTickerHandlerPostsUnknownTicker(t *testing.T) {
	handler := NewTickerHandler(&stubTickerRepo{}, newStubFlagRepo(), &stubSentimentRepo{}, newTestLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/tickers/ZZZZ/posts", nil)
	rec := httptest.NewRecorder()
	tickerTestRouter(handler).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
