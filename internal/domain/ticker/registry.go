package ticker

import (
	"strings"

	"tickerpulse/pkg/errors"
)

// WhitelistUser maps a provider username to a verified display name shown on
// the dashboard (company officers and the like)
type WhitelistUser struct {
	Username string
	Name     string
}

// Ticker is one tracked symbol
type Ticker struct {
	Symbol         string
	DisplayName    string
	LogoURL        string
	WhitelistUsers []WhitelistUser
}

// DisplayNameFor returns the whitelist display name for a username, or ""
func (t Ticker) DisplayNameFor(username string) string {
	for _, u := range t.WhitelistUsers {
		if strings.EqualFold(u.Username, username) {
			return u.Name
		}
	}
	return ""
}

// Defaults is the built-in tracked set
var Defaults = []Ticker{
	{
		Symbol:      "RCAT",
		DisplayName: "Red Cat Holdings",
		LogoURL:     "https://logos.stocktwits-cdn.com/RCAT.png",
		WhitelistUsers: []WhitelistUser{
			{Username: "Duckworks", Name: "Jeffrey Thompson (CEO)"},
		},
	},
	{
		Symbol:      "UMAC",
		DisplayName: "Unusual Machines",
		LogoURL:     "https://logos.stocktwits-cdn.com/UMAC.png",
	},
	{
		Symbol:      "GRRR",
		DisplayName: "Gorilla Technology",
		LogoURL:     "https://logos.stocktwits-cdn.com/GRRR.png",
	},
	{
		Symbol:      "ACHR",
		DisplayName: "Archer Aviation",
		LogoURL:     "https://logos.stocktwits-cdn.com/ACHR.png",
	},
	{
		Symbol:      "FIG",
		DisplayName: "FIG",
		LogoURL:     "https://logos.stocktwits-cdn.com/FIG.png",
	},
}

// Registry is the set of symbols the pipeline is allowed to ingest
type Registry struct {
	bySymbol map[string]Ticker
	order    []string
}

// NewRegistry builds a registry from the given tickers
func NewRegistry(tickers []Ticker) *Registry {
	r := &Registry{bySymbol: make(map[string]Ticker, len(tickers))}
	for _, t := range tickers {
		sym := strings.ToUpper(strings.TrimSpace(t.Symbol))
		if sym == "" {
			continue
		}
		t.Symbol = sym
		if _, seen := r.bySymbol[sym]; !seen {
			r.order = append(r.order, sym)
		}
		r.bySymbol[sym] = t
	}
	return r
}

// NewDefaultRegistry builds a registry from Defaults, optionally restricted
// to the given symbols
func NewDefaultRegistry(symbols []string) *Registry {
	if len(symbols) == 0 {
		return NewRegistry(Defaults)
	}
	want := make(map[string]bool, len(symbols))
	for _, s := range symbols {
		want[strings.ToUpper(strings.TrimSpace(s))] = true
	}
	var picked []Ticker
	for _, t := range Defaults {
		if want[strings.ToUpper(t.Symbol)] {
			picked = append(picked, t)
		}
	}
	return NewRegistry(picked)
}

// Symbols returns the tracked symbols in registration order
func (r *Registry) Symbols() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Require validates and uppercases a symbol, rejecting unknown ones
func (r *Registry) Require(raw string) (Ticker, error) {
	sym := strings.ToUpper(strings.TrimSpace(raw))
	if sym == "" {
		return Ticker{}, errors.Wrap(errors.ErrInvalidSymbol, "missing symbol")
	}
	t, ok := r.bySymbol[sym]
	if !ok {
		return Ticker{}, errors.Wrapf(errors.ErrInvalidSymbol, "symbol %s", sym)
	}
	return t, nil
}
