package reddit

import "regexp"

var (
	dollarTickerRe     = regexp.MustCompile(`\$([A-Z]{1,5})\b`)
	standaloneTickerRe = regexp.MustCompile(`\b([A-Z]{2,5})\b`)
)

// Common uppercase words that are not tickers
var excludedWords = map[string]struct{}{
	"THE": {}, "AND": {}, "FOR": {}, "ARE": {}, "BUT": {}, "NOT": {},
	"YOU": {}, "ALL": {}, "CAN": {}, "HER": {}, "WAS": {}, "ONE": {},
	"OUR": {}, "OUT": {}, "DAY": {}, "GET": {}, "HAS": {}, "HIM": {},
	"HOW": {}, "ITS": {}, "MAY": {}, "NEW": {}, "NOW": {}, "OLD": {},
	"SEE": {}, "TWO": {}, "WAY": {}, "WHO": {}, "BOY": {}, "DID": {},
	"HIS": {}, "SHE": {}, "USE": {}, "WIN": {}, "YET": {}, "YOLO": {},
}

// ExtractTickers finds candidate ticker symbols in free text
// Matches $TICKER and standalone 2-5 letter uppercase words, minus a
// stop list of common words. Returns each symbol once.
func ExtractTickers(text string) []string {
	seen := make(map[string]struct{})

	for _, m := range dollarTickerRe.FindAllStringSubmatch(text, -1) {
		seen[m[1]] = struct{}{}
	}
	for _, m := range standaloneTickerRe.FindAllStringSubmatch(text, -1) {
		seen[m[1]] = struct{}{}
	}

	tickers := make([]string, 0, len(seen))
	for symbol := range seen {
		if _, excluded := excludedWords[symbol]; excluded {
			continue
		}
		tickers = append(tickers, symbol)
	}
	return tickers
}
