package ingest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tickerpulse/internal/domain/stream"
	"tickerpulse/internal/services/sentiment"
	"tickerpulse/internal/services/spam"
)

func newTestNormalizer() *Normalizer {
	return NewNormalizer(
		sentiment.NewScorer(sentiment.DefaultLexicon()),
		spam.NewDetector(3),
	)
}

func TestNormalize_EmptyRawCoercesToSafeDefaults(t *testing.T) {
	n := newTestNormalizer()

	msg := n.Normalize(stream.RawMessage{}, 1, "")

	assert.Equal(t, int64(0), msg.ID)
	assert.Empty(t, msg.Body)
	assert.True(t, msg.CreatedAt.IsZero())
	assert.Equal(t, "unknown", msg.Author.Username)
	assert.Nil(t, msg.Author.AccountAgeDays)
	assert.Equal(t, stream.LabelNeutral, msg.Sentiment.Label)
	assert.Equal(t, 0.0, msg.Sentiment.Score)
	assert.Equal(t, 0.0, msg.Spam.Score)
	assert.Empty(t, msg.Spam.NormalizedHash)
	assert.Empty(t, msg.SymbolsTagged)
	assert.Empty(t, msg.Links)
}

func TestNormalize_MediaOnlyIsNeutral(t *testing.T) {
	n := newTestNormalizer()

	msg := n.Normalize(stream.RawMessage{
		ID:       42,
		Entities: stream.RawEntities{Media: []stream.RawMedia{{URL: "https://charts.example/x.png"}}},
	}, 1, "")

	assert.True(t, msg.HasMedia)
	assert.Equal(t, stream.LabelNeutral, msg.Sentiment.Label)
	assert.Equal(t, 0.0, msg.Spam.Score)
	assert.Empty(t, msg.Spam.NormalizedHash)
}

func TestNormalize_BodyTrimmedAndHashed(t *testing.T) {
	n := newTestNormalizer()

	msg := n.Normalize(stream.RawMessage{
		ID:        7,
		Body:      "  solid beat today  ",
		CreatedAt: "2026-03-10T14:00:00Z",
	}, 1, "")

	assert.Equal(t, "solid beat today", msg.Body)
	assert.Equal(t, spam.NormalizedHash("solid beat today"), msg.Spam.NormalizedHash)
	assert.Equal(t, stream.LabelBull, msg.Sentiment.Label)
	assert.Equal(t, "2026-03-10", msg.Day())
}

func TestNormalize_TimestampFormats(t *testing.T) {
	n := newTestNormalizer()

	rfc := n.Normalize(stream.RawMessage{Body: "x", CreatedAt: "2026-03-10T14:30:00Z"}, 1, "")
	assert.Equal(t, time.Date(2026, 3, 10, 14, 30, 0, 0, time.UTC), rfc.CreatedAt)

	offset := n.Normalize(stream.RawMessage{Body: "x", CreatedAt: "2026-03-10T16:30:00+02:00"}, 1, "")
	assert.Equal(t, time.Date(2026, 3, 10, 14, 30, 0, 0, time.UTC), offset.CreatedAt)

	dateOnly := n.Normalize(stream.RawMessage{Body: "x", CreatedAt: "2026-03-10"}, 1, "")
	assert.Equal(t, "2026-03-10", dateOnly.Day())

	garbage := n.Normalize(stream.RawMessage{Body: "x", CreatedAt: "last tuesday"}, 1, "")
	assert.True(t, garbage.CreatedAt.IsZero())
}

func TestNormalize_AccountAge(t *testing.T) {
	n := newTestNormalizer()
	n.now = func() time.Time { return time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC) }

	msg := n.Normalize(stream.RawMessage{
		Body:      "hello",
		CreatedAt: "2026-01-31T00:00:00Z",
		User:      stream.RawUser{Username: "newbie", JoinDate: "2026-01-01"},
	}, 1, "")

	require.NotNil(t, msg.Author.AccountAgeDays)
	assert.Equal(t, 30, *msg.Author.AccountAgeDays)

	noJoin := n.Normalize(stream.RawMessage{
		Body: "hello",
		User: stream.RawUser{Username: "mystery", JoinDate: "unknown"},
	}, 1, "")
	assert.Nil(t, noJoin.Author.AccountAgeDays)
}

func TestNormalize_WhitelistDisplayName(t *testing.T) {
	n := newTestNormalizer()

	msg := n.Normalize(stream.RawMessage{
		Body: "drone update",
		User: stream.RawUser{Username: "Duckworks"},
	}, 1, "Jeffrey Thompson (CEO)")

	assert.Equal(t, "Duckworks", msg.Author.Username)
	assert.Equal(t, "Jeffrey Thompson (CEO)", msg.Author.DisplayName)
}

func TestNormalize_CrossTickerDuplicateFlagged(t *testing.T) {
	n := newTestNormalizer()

	msg := n.Normalize(stream.RawMessage{
		Body:      "same blast everywhere",
		CreatedAt: "2026-03-10T14:00:00Z",
		User:      stream.RawUser{Username: "blaster", Followers: 5000},
	}, 3, "")

	assert.Equal(t, 0.95, msg.Spam.Score)
	assert.Contains(t, msg.Spam.Reasons, spam.ReasonCrossTickerDuplicate)
}

func TestNormalize_SymbolsUppercasedAndTrimmed(t *testing.T) {
	n := newTestNormalizer()

	msg := n.Normalize(stream.RawMessage{
		Body: "pair trade",
		Symbols: []stream.RawSymbol{
			{Symbol: " rcat "},
			{Symbol: "umac"},
			{Symbol: "   "},
		},
	}, 1, "")

	assert.Equal(t, []string{"RCAT", "UMAC"}, msg.SymbolsTagged)
}

func TestNormalize_ProviderSentiment(t *testing.T) {
	n := newTestNormalizer()

	bullish := n.Normalize(stream.RawMessage{
		Body:     "tagged bullish",
		Entities: stream.RawEntities{Sentiment: &stream.RawSentiment{Basic: "Bullish"}},
	}, 1, "")
	assert.Equal(t, "Bullish", bullish.ProviderSentiment)

	odd := n.Normalize(stream.RawMessage{
		Body:     "tagged something else",
		Entities: stream.RawEntities{Sentiment: &stream.RawSentiment{Basic: "Confused"}},
	}, 1, "")
	assert.Empty(t, odd.ProviderSentiment)
}

func TestNormalize_LinksFallBackToShortenedURL(t *testing.T) {
	n := newTestNormalizer()

	msg := n.Normalize(stream.RawMessage{
		Body: "news drop",
		Links: []stream.RawLink{
			{URL: "https://example.com/full", Title: "Full"},
			{ShortenedURL: "https://st.tw/abc", Title: "Short"},
			{}, // no usable url at all
		},
	}, 1, "")

	require.Len(t, msg.Links, 2)
	assert.Equal(t, "https://example.com/full", msg.Links[0].URL)
	assert.Equal(t, "https://st.tw/abc", msg.Links[1].URL)
}

func TestNormalize_EngagementCountsCopied(t *testing.T) {
	n := newTestNormalizer()

	msg := n.Normalize(stream.RawMessage{
		Body:  "popular take",
		Likes: stream.RawTotal{Total: 12},
		Convo: stream.RawReplies{Replies: 4},
	}, 1, "")

	assert.Equal(t, 12, msg.Likes)
	assert.Equal(t, 4, msg.Replies)
}
