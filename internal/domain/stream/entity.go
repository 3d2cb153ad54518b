package stream

import "time"

// SentimentLabel classifies a message's model sentiment
type SentimentLabel string

const (
	LabelBull    SentimentLabel = "bull"
	LabelBear    SentimentLabel = "bear"
	LabelNeutral SentimentLabel = "neutral"
)

// Sentiment is the model-derived sentiment of a message body
type Sentiment struct {
	Score float64        `json:"score"` // [-1..1]
	Label SentimentLabel `json:"label"`
}

// SpamInfo carries the spam verdict for a message
type SpamInfo struct {
	Score          float64  `json:"score"` // [0..1]
	Reasons        []string `json:"reasons"`
	NormalizedHash string   `json:"normalizedHash,omitempty"`
}

// Author is the message author snapshot taken at ingest time
type Author struct {
	ID             int64  `json:"id"`
	Username       string `json:"username"`
	DisplayName    string `json:"displayName,omitempty"`
	Followers      int    `json:"followers"`
	JoinDate       string `json:"joinDate,omitempty"`
	AccountAgeDays *int   `json:"accountAgeDays,omitempty"`
	Official       bool   `json:"official,omitempty"`
}

// Link is a URL shared in a message
type Link struct {
	URL    string `json:"url"`
	Title  string `json:"title,omitempty"`
	Source string `json:"source,omitempty"`
}

// Message is the canonical ingested post. Derived fields are computed once
// during normalization and never mutated after persistence.
type Message struct {
	ID        int64     `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	Body      string    `json:"body"`
	HasMedia  bool      `json:"hasMedia,omitempty"`

	Author Author `json:"user"`

	// ProviderSentiment is the author-picked tag from the provider
	// ("Bullish" or "Bearish"), empty when absent.
	ProviderSentiment string `json:"stSentimentBasic,omitempty"`

	Sentiment Sentiment `json:"modelSentiment"`
	Spam      SpamInfo  `json:"spam"`

	Likes   int `json:"likes,omitempty"`
	Replies int `json:"replies,omitempty"`

	SymbolsTagged []string `json:"symbolsTagged,omitempty"`
	Links         []Link   `json:"links,omitempty"`
}

// Day returns the UTC calendar date the message belongs to
func (m Message) Day() string {
	return m.CreatedAt.UTC().Format("2006-01-02")
}

// SymbolState is the per-symbol sync cursor record. LastSeenID is the
// watermark: the highest message id durably ingested, monotonically
// non-decreasing across successful syncs.
type SymbolState struct {
	Symbol           string     `json:"symbol"`
	LastSeenID       *int64     `json:"lastSeenId"`
	LastSyncAt       *time.Time `json:"lastSyncAt"`
	LastWatchers     *int       `json:"lastWatchers"`
	LastBackfillAt   *time.Time `json:"lastBackfillAt,omitempty"`
	LastBackfillDays int        `json:"lastBackfillDays,omitempty"`
}

// Lock is the advisory per-symbol sync lease
type Lock struct {
	Symbol     string    `json:"symbol"`
	Owner      string    `json:"owner"`
	AcquiredAt time.Time `json:"acquiredAt"`
}

// SyncResult summarizes one sync run for a symbol
type SyncResult struct {
	Symbol         string    `json:"symbol"`
	Fetched        int       `json:"fetched"`
	StoredNew      int       `json:"storedNew"`
	StoredNewClean int       `json:"storedNewClean"`
	PagesUsed      int       `json:"pagesUsed"`
	LastSeenID     *int64    `json:"lastSeenId"`
	LastSyncAt     time.Time `json:"lastSyncAt"`
	Watchers       *int      `json:"watchers"`
}

// BackfillResult summarizes one backfill run for a symbol
type BackfillResult struct {
	Symbol      string `json:"symbol"`
	Days        int    `json:"days"`
	Pages       int    `json:"pages"`
	Stored      int    `json:"stored"`
	DaysWritten int    `json:"wroteDays"`
}
