package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/sentival/backend/pkg/config"
	"github.com/sentival/backend/pkg/httputil"
	"github.com/sentival/backend/pkg/logger"
	"github.com/sentival/backend/pkg/redis"
)

// Fundamentals is the subset of quote data the validator needs
// Pointer fields are nil when the upstream payload omitted the value.
type Fundamentals struct {
	Symbol           string   `json:"symbol"`
	CompanyName      string   `json:"company_name"`
	Industry         string   `json:"industry"`
	MarketCap        *float64 `json:"market_cap"`
	CurrentPrice     *float64 `json:"current_price"`
	DebtToEquity     *float64 `json:"debt_to_equity"`
	ProfitMarginPct  *float64 `json:"profit_margin_pct"`
	RevenueGrowthPct *float64 `json:"revenue_growth_pct"`
	PERatio          *float64 `json:"pe_ratio"`
	Beta             *float64 `json:"beta"`
}

// Client reads company fundamentals from the quoteSummary API
// Yahoo throttles aggressively; responses are cached for a day and
// requests retried with exponential backoff.
type Client struct {
	http    *httputil.Client
	baseURL string
	cache   *redis.Cache
	logger  *logger.Logger
}

func NewClient(cfg *config.Config, http *httputil.Client, cache *redis.Cache, log *logger.Logger) *Client {
	return &Client{
		// httputil retry would double up with the backoff loop below
		http:    http.DisableRetry(),
		baseURL: cfg.Yahoo.BaseURL,
		cache:   cache,
		logger:  log,
	}
}

const quoteModules = "price,summaryProfile,financialData,defaultKeyStatistics"

// FetchFundamentals returns fundamentals for one symbol
func (c *Client) FetchFundamentals(ctx context.Context, symbol string) (*Fundamentals, error) {
	if c.cache != nil {
		var cached Fundamentals
		hit, err := c.cache.Get(ctx, redis.FundamentalsKey(symbol), &cached)
		if err == nil && hit {
			c.logger.WithField("symbol", symbol).Debug("Fundamentals served from cache")
			return &cached, nil
		}
	}

	url := fmt.Sprintf("%s/v10/finance/quoteSummary/%s?modules=%s", c.baseURL, symbol, quoteModules)

	var body []byte
	operation := func() error {
		resp, err := c.http.Get(ctx, url)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if httputil.IsRetryableStatus(resp.StatusCode) {
			return fmt.Errorf("quote summary returned status %d", resp.StatusCode)
		}
		if resp.StatusCode != http.StatusOK {
			return backoff.Permanent(fmt.Errorf("quote summary returned status %d", resp.StatusCode))
		}

		body, err = io.ReadAll(resp.Body)
		return err
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 4), ctx)
	if err := backoff.RetryNotify(operation, policy, func(err error, next time.Duration) {
		c.logger.WithFields(map[string]interface{}{
			"symbol": symbol,
			"retry":  next.String(),
			"error":  err.Error(),
		}).Warn("Retrying quote summary fetch")
	}); err != nil {
		return nil, fmt.Errorf("fetch fundamentals for %s: %w", symbol, err)
	}

	fund, err := ParseQuoteSummary(symbol, body)
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		if err := c.cache.Set(ctx, redis.FundamentalsKey(symbol), fund, redis.TTLDaily); err != nil {
			c.logger.WithError(err).WithField("symbol", symbol).Warn("Failed to cache fundamentals")
		}
	}

	return fund, nil
}

// rawValue is Yahoo's {"raw": n, "fmt": "n"} number wrapper
type rawValue struct {
	Raw *float64 `json:"raw"`
}

type quoteSummaryResponse struct {
	QuoteSummary struct {
		Result []struct {
			Price struct {
				LongName           string   `json:"longName"`
				RegularMarketPrice rawValue `json:"regularMarketPrice"`
				MarketCap          rawValue `json:"marketCap"`
			} `json:"price"`
			SummaryProfile struct {
				Industry string `json:"industry"`
			} `json:"summaryProfile"`
			FinancialData struct {
				DebtToEquity  rawValue `json:"debtToEquity"`
				ProfitMargins rawValue `json:"profitMargins"`
				RevenueGrowth rawValue `json:"revenueGrowth"`
			} `json:"financialData"`
			DefaultKeyStatistics struct {
				TrailingPE rawValue `json:"trailingPE"`
				Beta       rawValue `json:"beta"`
			} `json:"defaultKeyStatistics"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"quoteSummary"`
}

// ParseQuoteSummary decodes a quoteSummary payload into Fundamentals
// Ratio fields arrive as fractions and are converted to percentages.
func ParseQuoteSummary(symbol string, body []byte) (*Fundamentals, error) {
	var payload quoteSummaryResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode quote summary for %s: %w", symbol, err)
	}

	if payload.QuoteSummary.Error != nil {
		return nil, fmt.Errorf("quote summary error for %s: %s", symbol, payload.QuoteSummary.Error.Description)
	}
	if len(payload.QuoteSummary.Result) == 0 {
		return nil, fmt.Errorf("quote summary for %s: empty result", symbol)
	}

	r := payload.QuoteSummary.Result[0]
	return &Fundamentals{
		Symbol:           symbol,
		CompanyName:      r.Price.LongName,
		Industry:         r.SummaryProfile.Industry,
		MarketCap:        r.Price.MarketCap.Raw,
		CurrentPrice:     r.Price.RegularMarketPrice.Raw,
		DebtToEquity:     r.FinancialData.DebtToEquity.Raw,
		ProfitMarginPct:  asPercent(r.FinancialData.ProfitMargins.Raw),
		RevenueGrowthPct: asPercent(r.FinancialData.RevenueGrowth.Raw),
		PERatio:          r.DefaultKeyStatistics.TrailingPE.Raw,
		Beta:             r.DefaultKeyStatistics.Beta.Raw,
	}, nil
}

func asPercent(fraction *float64) *float64 {
	if fraction == nil {
		return nil
	}
	pct := *fraction * 100
	return &pct
}
