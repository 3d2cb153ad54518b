package ingest

import (
	"strings"
	"time"

	"tickerpulse/internal/domain/stream"
	"tickerpulse/internal/services/sentiment"
	"tickerpulse/internal/services/spam"
)

// Normalizer maps raw provider payloads into canonical messages. Every field
// coerces to a safe default when missing or malformed; a raw message never
// fails to normalize. Both scorers run exactly once per message.
type Normalizer struct {
	scorer   *sentiment.Scorer
	detector *spam.Detector
	now      func() time.Time
}

// NewNormalizer creates a normalizer over the given scorers
func NewNormalizer(scorer *sentiment.Scorer, detector *spam.Detector) *Normalizer {
	return &Normalizer{
		scorer:   scorer,
		detector: detector,
		now:      time.Now,
	}
}

// Normalize builds the canonical message. duplicateSymbols is the
// cross-ticker blast count computed before normalization; displayName is the
// whitelist override for verified authors, empty for everyone else.
func (n *Normalizer) Normalize(raw stream.RawMessage, duplicateSymbols int, displayName string) stream.Message {
	body := strings.TrimSpace(raw.Body)
	createdAt := parseTime(raw.CreatedAt)
	hasMedia := len(raw.Entities.Media) > 0

	author := stream.Author{
		ID:          raw.User.ID,
		Username:    raw.User.Username,
		DisplayName: displayName,
		Followers:   raw.User.Followers,
		JoinDate:    raw.User.JoinDate,
		Official:    raw.User.Official,
	}
	if author.Username == "" {
		author.Username = "unknown"
	}
	if join := parseTime(raw.User.JoinDate); !join.IsZero() {
		days := int(n.now().Sub(join).Hours() / 24)
		author.AccountAgeDays = &days
	}

	var tagged []string
	for _, s := range raw.Symbols {
		if sym := strings.ToUpper(strings.TrimSpace(s.Symbol)); sym != "" {
			tagged = append(tagged, sym)
		}
	}

	var spamInfo stream.SpamInfo
	if body != "" {
		spamInfo = n.detector.Score(spam.Features{
			Body:                  body,
			SymbolsTaggedCount:    len(tagged),
			CashtagCount:          spam.CountCashtags(body),
			TokenCount:            spam.CountTokens(body),
			Followers:             author.Followers,
			AccountAgeDays:        author.AccountAgeDays,
			DuplicateSymbolsCount: duplicateSymbols,
		})
		spamInfo.NormalizedHash = spam.NormalizedHash(body)
	}

	var sent stream.Sentiment
	if hasMedia && body == "" {
		sent = stream.Sentiment{Score: 0, Label: stream.LabelNeutral}
	} else {
		sent = n.scorer.Score(body)
	}

	var links []stream.Link
	for _, l := range raw.Links {
		url := strings.TrimSpace(l.URL)
		if url == "" {
			url = strings.TrimSpace(l.ShortenedURL)
		}
		if url == "" {
			continue
		}
		link := stream.Link{URL: url, Title: l.Title}
		if l.Source != nil {
			link.Source = l.Source.Name
		}
		links = append(links, link)
	}

	providerSentiment := ""
	if raw.Entities.Sentiment != nil {
		if b := raw.Entities.Sentiment.Basic; b == "Bullish" || b == "Bearish" {
			providerSentiment = b
		}
	}

	return stream.Message{
		ID:                raw.ID,
		CreatedAt:         createdAt,
		Body:              body,
		HasMedia:          hasMedia,
		Author:            author,
		ProviderSentiment: providerSentiment,
		Sentiment:         sent,
		Spam:              spamInfo,
		Likes:             raw.Likes.Total,
		Replies:           raw.Convo.Replies,
		SymbolsTagged:     tagged,
		Links:             links,
	}
}

// parseTime accepts the provider's timestamp formats, returning the zero
// time on anything unparseable
func parseTime(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05Z07:00", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}
