package yahoo

import (
	"math"
	"testing"
)

const sampleQuoteSummary = `{
  "quoteSummary": {
    "result": [{
      "price": {
        "longName": "GameStop Corp.",
        "regularMarketPrice": {"raw": 24.5, "fmt": "24.50"},
        "marketCap": {"raw": 7500000000, "fmt": "7.5B"}
      },
      "summaryProfile": {"industry": "Specialty Retail"},
      "financialData": {
        "debtToEquity": {"raw": 45.2},
        "profitMargins": {"raw": 0.012},
        "revenueGrowth": {"raw": -0.11}
      },
      "defaultKeyStatistics": {
        "trailingPE": {"raw": 180.3},
        "beta": {"raw": 1.8}
      }
    }],
    "error": null
  }
}`

func TestParseQuoteSummary(t *testing.T) {
	fund, err := ParseQuoteSummary("GME", []byte(sampleQuoteSummary))
	if err != nil {
		t.Fatalf("ParseQuoteSummary failed: %v", err)
	}

	if fund.CompanyName != "GameStop Corp." {
		t.Errorf("CompanyName = %q", fund.CompanyName)
	}
	if fund.Industry != "Specialty Retail" {
		t.Errorf("Industry = %q", fund.Industry)
	}
	if fund.MarketCap == nil || *fund.MarketCap != 7.5e9 {
		t.Errorf("MarketCap = %v, want 7.5e9", fund.MarketCap)
	}
	if fund.CurrentPrice == nil || *fund.CurrentPrice != 24.5 {
		t.Errorf("CurrentPrice = %v, want 24.5", fund.CurrentPrice)
	}
	if fund.ProfitMarginPct == nil || math.Abs(*fund.ProfitMarginPct-1.2) > 1e-9 {
		t.Errorf("ProfitMarginPct = %v, want 1.2 (fraction converted)", fund.ProfitMarginPct)
	}
	if fund.RevenueGrowthPct == nil || math.Abs(*fund.RevenueGrowthPct+11) > 1e-9 {
		t.Errorf("RevenueGrowthPct = %v, want -11", fund.RevenueGrowthPct)
	}
	if fund.Beta == nil || *fund.Beta != 1.8 {
		t.Errorf("Beta = %v, want 1.8", fund.Beta)
	}
}

func TestParseQuoteSummaryMissingFields(t *testing.T) {
	body := `{"quoteSummary": {"result": [{"price": {"longName": "Shell Co"}}], "error": null}}`

	fund, err := ParseQuoteSummary("SHEL", []byte(body))
	if err != nil {
		t.Fatalf("ParseQuoteSummary failed: %v", err)
	}

	if fund.MarketCap != nil || fund.CurrentPrice != nil || fund.DebtToEquity != nil {
		t.Errorf("missing fields must stay nil: %+v", fund)
	}
}

func TestParseQuoteSummaryError(t *testing.T) {
	body := `{"quoteSummary": {"result": [], "error": {"code": "Not Found", "description": "No data found"}}}`

	if _, err := ParseQuoteSummary("NOPE", []byte(body)); err == nil {
		t.Fatal("expected error for upstream error payload")
	}
}

func TestParseQuoteSummaryEmptyResult(t *testing.T) {
	body := `{"quoteSummary": {"result": [], "error": null}}`

	if _, err := ParseQuoteSummary("NONE", []byte(body)); err == nil {
		t.Fatal("expected error for empty result")
	}
}
