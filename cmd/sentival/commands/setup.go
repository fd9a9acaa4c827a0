package commands

import (
	"fmt"
	"time"

	"github.com/sentival/backend/internal/data"
	"github.com/sentival/backend/internal/data/repos"
	"github.com/sentival/backend/internal/discovery"
	"github.com/sentival/backend/internal/engine"
	"github.com/sentival/backend/internal/external/apewisdom"
	"github.com/sentival/backend/internal/external/reddit"
	"github.com/sentival/backend/internal/external/yahoo"
	"github.com/sentival/backend/internal/pipeline"
	"github.com/sentival/backend/internal/validator"
	"github.com/sentival/backend/pkg/config"
	"github.com/sentival/backend/pkg/database"
	"github.com/sentival/backend/pkg/httputil"
	"github.com/sentival/backend/pkg/logger"
	"github.com/sentival/backend/pkg/redis"
)

// app holds the wired components shared by the CLI commands
type app struct {
	cfg   *config.Config
	log   *logger.Logger
	db    *database.DB
	redis *redis.Client

	tickerRepo    *repos.TickerRepo
	sentimentRepo *repos.SentimentRepo
	flagRepo      *repos.FlagRepo

	discovery    *discovery.Discovery
	validator    *validator.Validator
	aggregator   *data.Aggregator
	engine       *engine.Engine
	orchestrator *pipeline.Orchestrator
}

// newApp loads config and wires the full component graph
func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log := logger.New(cfg)
	if verbose {
		cfg.LogLevel = "debug"
		log = logger.New(cfg)
	}

	db, err := database.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	redisClient, err := redis.New(cfg)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	cache := redis.NewCache(redisClient, "sentival")
	limiter := redis.NewRateLimiter(redisClient, "sentival")

	// HTTP clients per upstream, each with its own rate limit
	apewisdomHTTP := httputil.New(log).WithRateLimiter(limiter, redis.ApeWisdomRateLimit)
	redditHTTP := httputil.New(log).WithRateLimiter(limiter, redis.RedditRateLimit)
	yahooHTTP := httputil.New(log).WithRateLimiter(limiter, redis.YahooRateLimit)

	apewisdomClient := apewisdom.NewClient(cfg, apewisdomHTTP, cache, log)
	redditClient := reddit.NewClient(cfg, redditHTTP, log)
	yahooClient := yahoo.NewClient(cfg, yahooHTTP, cache, log)

	tickerRepo := repos.NewTickerRepo(db)
	sentimentRepo := repos.NewSentimentRepo(db)
	velocityRepo := repos.NewVelocityRepo(db)
	fundamentalRepo := repos.NewFundamentalRepo(db)
	flagRepo := repos.NewFlagRepo(db)

	window := time.Duration(cfg.Reddit.HoursBack) * time.Hour

	disc := discovery.New(apewisdomClient, redditClient, tickerRepo, sentimentRepo, velocityRepo, window, log)
	val := validator.New(tickerRepo, fundamentalRepo, yahooClient, log)
	agg := data.NewAggregator(tickerRepo, sentimentRepo, velocityRepo, fundamentalRepo, window, log)
	eng := engine.New(flagRepo, cfg.Engine, log)
	orch := pipeline.New(disc, val, agg, eng, log)

	return &app{
		cfg:           cfg,
		log:           log,
		db:            db,
		redis:         redisClient,
		tickerRepo:    tickerRepo,
		sentimentRepo: sentimentRepo,
		flagRepo:      flagRepo,
		discovery:     disc,
		validator:     val,
		aggregator:    agg,
		engine:        eng,
		orchestrator:  orch,
	}, nil
}

// Close releases connections
func (a *app) Close() {
	if a.redis != nil {
		a.redis.Close()
	}
	if a.db != nil {
		a.db.Close()
	}
}
