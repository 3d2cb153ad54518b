package spam

import (
	"crypto/sha1"
	"encoding/hex"
	"regexp"
	"strings"

	"tickerpulse/internal/domain/stream"
)

// Heuristic thresholds. The final score is the maximum over all triggered
// heuristics, not a sum: any single strong signal is sufficient to flag
// spam, weak signals don't compound.
const (
	tickerStuffingMin   = 5
	tickerStuffingScore = 0.9

	cashtagCountMin     = 3
	cashtagDensityMin   = 0.3
	cashtagDensityScore = 0.85

	promoScore = 0.55

	crossTickerScore = 0.95

	lowRepFollowersMax = 5
	lowRepAgeDaysMax   = 30
	lowRepBodyLenMax   = 60
	lowRepScore        = 0.6
)

// Reason names attached for explainability
const (
	ReasonTickerStuffing       = "ticker_stuffing"
	ReasonCashtagDensity       = "cashtag_density"
	ReasonPromoKeywords        = "promo_keywords"
	ReasonCrossTickerDuplicate = "cross_ticker_duplicate"
	ReasonLowRepShortPost      = "low_rep_short_post"
)

var (
	urlRe        = regexp.MustCompile(`https?://\S+`)
	cashtagRe    = regexp.MustCompile(`\$([a-zA-Z]{1,6})\b`)
	nonWordRe    = regexp.MustCompile(`[^a-z0-9\s]`)
	spaceRe      = regexp.MustCompile(`\s+`)
	tokenSplitRe = regexp.MustCompile(`[^A-Za-z0-9$]+`)
	promoRe      = regexp.MustCompile(`(?i)\b(telegram|discord|signal group|join my|free alert|whatsapp)\b`)
)

// NormalizedHash fingerprints a body after stripping URLs, folding cashtags
// to their bare symbol, lowercasing, and collapsing whitespace. The same
// text posted with different casing, spacing, links, or a leading "$" on
// tickers hashes identically.
func NormalizedHash(body string) string {
	norm := normalizeBody(body)
	sum := sha1.Sum([]byte(norm))
	return hex.EncodeToString(sum[:])
}

func normalizeBody(body string) string {
	text := urlRe.ReplaceAllString(body, " ")
	text = strings.ToLower(text)
	text = cashtagRe.ReplaceAllString(text, "$1")
	text = nonWordRe.ReplaceAllString(text, " ")
	text = spaceRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// CountCashtags counts $TICKER-like tokens in a body
func CountCashtags(body string) int {
	return len(cashtagRe.FindAllString(body, -1))
}

// CountTokens counts the words of a body with URLs stripped
func CountTokens(body string) int {
	text := urlRe.ReplaceAllString(body, " ")
	text = strings.TrimSpace(tokenSplitRe.ReplaceAllString(text, " "))
	if text == "" {
		return 0
	}
	return len(strings.Fields(text))
}

// Features are the per-message inputs to Score
type Features struct {
	Body               string
	SymbolsTaggedCount int
	CashtagCount       int
	TokenCount         int
	Followers          int
	AccountAgeDays     *int
	// DuplicateSymbolsCount is the cross-ticker blast signal: distinct
	// symbols that posted this normalized body within the window
	DuplicateSymbolsCount int
}

// Detector scores messages against the spam heuristics
type Detector struct {
	duplicateSymbolsMin int
}

// NewDetector creates a detector; duplicateSymbolsMin is the distinct-symbol
// count at which a duplicate blast is flagged
func NewDetector(duplicateSymbolsMin int) *Detector {
	return &Detector{duplicateSymbolsMin: duplicateSymbolsMin}
}

// Score runs every heuristic and returns the maximum triggered score with
// the named reasons for each trigger
func (d *Detector) Score(f Features) stream.SpamInfo {
	var (
		score   float64
		reasons []string
	)

	trigger := func(s float64, reason string) {
		if s > score {
			score = s
		}
		reasons = append(reasons, reason)
	}

	if f.SymbolsTaggedCount >= tickerStuffingMin {
		trigger(tickerStuffingScore, ReasonTickerStuffing)
	}

	density := 0.0
	if f.TokenCount > 0 {
		density = float64(f.CashtagCount) / float64(f.TokenCount)
	}
	if f.CashtagCount >= cashtagCountMin && density >= cashtagDensityMin {
		trigger(cashtagDensityScore, ReasonCashtagDensity)
	}

	if promoRe.MatchString(f.Body) {
		trigger(promoScore, ReasonPromoKeywords)
	}

	if f.DuplicateSymbolsCount >= d.duplicateSymbolsMin {
		trigger(crossTickerScore, ReasonCrossTickerDuplicate)
	}

	if f.Followers <= lowRepFollowersMax &&
		f.AccountAgeDays != nil && *f.AccountAgeDays <= lowRepAgeDaysMax &&
		len(f.Body) <= lowRepBodyLenMax {
		trigger(lowRepScore, ReasonLowRepShortPost)
	}

	if score > 1 {
		score = 1
	}

	return stream.SpamInfo{Score: score, Reasons: reasons}
}
