package series

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tickerpulse/internal/domain/series"
	"tickerpulse/internal/domain/stream"
	"tickerpulse/internal/repository/memory"
)

func msgAt(id int64, at time.Time, sentiment, spamScore float64) stream.Message {
	return stream.Message{
		ID:        id,
		CreatedAt: at,
		Sentiment: stream.Sentiment{Score: sentiment},
		Spam:      stream.SpamInfo{Score: spamScore},
	}
}

func TestUpdate_CleanAndSpamVolumes(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := NewService(store.Series(), 0.75, 420)

	at := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)
	msgs := []stream.Message{
		msgAt(1, at, 0.2, 0.1),
		msgAt(2, at, 0.4, 0.0),
		msgAt(3, at, 0.9, 0.95), // spam: volume only
	}

	require.NoError(t, svc.Update(ctx, "RCAT", msgs, nil))

	srs, err := svc.Load(ctx, "RCAT")
	require.NoError(t, err)
	day := srs.Days["2026-03-10"]
	require.NotNil(t, day)
	assert.Equal(t, 3, day.VolumeTotal)
	assert.Equal(t, 2, day.VolumeClean)
	assert.Equal(t, 2, day.SentimentCountClean)
	assert.InDelta(t, 0.6, day.SentimentSumClean, 1e-9)
}

func TestUpdate_SpamThresholdIsInclusive(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := NewService(store.Series(), 0.75, 420)

	at := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)
	require.NoError(t, svc.Update(ctx, "RCAT", []stream.Message{msgAt(1, at, 0.5, 0.75)}, nil))

	srs, err := svc.Load(ctx, "RCAT")
	require.NoError(t, err)
	day := srs.Days["2026-03-10"]
	require.NotNil(t, day)
	assert.Equal(t, 1, day.VolumeTotal)
	assert.Equal(t, 0, day.VolumeClean)
	assert.Equal(t, 0, day.SentimentCountClean)
}

func TestUpdate_CountersAccumulateAcrossCalls(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := NewService(store.Series(), 0.75, 420)

	at := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	require.NoError(t, svc.Update(ctx, "RCAT", []stream.Message{msgAt(1, at, 0.2, 0)}, nil))
	require.NoError(t, svc.Update(ctx, "RCAT", []stream.Message{msgAt(2, at.Add(time.Hour), 0.4, 0)}, nil))

	srs, err := svc.Load(ctx, "RCAT")
	require.NoError(t, err)
	day := srs.Days["2026-03-10"]
	require.NotNil(t, day)
	assert.Equal(t, 2, day.VolumeTotal)
	assert.Equal(t, 2, day.VolumeClean)
}

func TestUpdate_WatchersLandOnTodayOnly(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := NewService(store.Series(), 0.75, 420)

	today := time.Date(2026, 3, 12, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return today }

	yesterday := today.AddDate(0, 0, -1)
	watchers := 4200

	require.NoError(t, svc.Update(ctx, "RCAT", []stream.Message{msgAt(1, yesterday, 0.1, 0)}, &watchers))

	srs, err := svc.Load(ctx, "RCAT")
	require.NoError(t, err)

	require.NotNil(t, srs.Days["2026-03-12"])
	require.NotNil(t, srs.Days["2026-03-12"].Watchers)
	assert.Equal(t, 4200, *srs.Days["2026-03-12"].Watchers)

	require.NotNil(t, srs.Days["2026-03-11"])
	assert.Nil(t, srs.Days["2026-03-11"].Watchers)
}

func TestUpdate_NilWatchersLeaveSnapshotAlone(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := NewService(store.Series(), 0.75, 420)

	today := time.Date(2026, 3, 12, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return today }

	watchers := 100
	require.NoError(t, svc.Update(ctx, "RCAT", nil, &watchers))
	require.NoError(t, svc.Update(ctx, "RCAT", []stream.Message{msgAt(1, today, 0.1, 0)}, nil))

	srs, err := svc.Load(ctx, "RCAT")
	require.NoError(t, err)
	require.NotNil(t, srs.Days["2026-03-12"].Watchers)
	assert.Equal(t, 100, *srs.Days["2026-03-12"].Watchers)
}

func TestUpdate_RetentionPrunesOldestFirst(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := NewService(store.Series(), 0.75, 420)

	start := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	msgs := make([]stream.Message, 0, 500)
	for i := 0; i < 500; i++ {
		msgs = append(msgs, msgAt(int64(i+1), start.AddDate(0, 0, i), 0.1, 0))
	}

	require.NoError(t, svc.Update(ctx, "RCAT", msgs, nil))

	srs, err := svc.Load(ctx, "RCAT")
	require.NoError(t, err)
	assert.Len(t, srs.Days, 420)

	newest := start.AddDate(0, 0, 499).Format("2006-01-02")
	cutoff := start.AddDate(0, 0, 80).Format("2006-01-02")
	assert.NotNil(t, srs.Days[newest])
	assert.NotNil(t, srs.Days[cutoff])
	assert.Nil(t, srs.Days[start.Format("2006-01-02")])
	assert.Nil(t, srs.Days[start.AddDate(0, 0, 79).Format("2006-01-02")])
}

func TestToPoints(t *testing.T) {
	srs := series.NewSeries("RCAT")
	day := srs.Day("2026-03-10")
	day.VolumeTotal = 5
	day.VolumeClean = 4
	day.SentimentSumClean = 1.2
	day.SentimentCountClean = 4

	spamOnly := srs.Day("2026-03-11")
	spamOnly.VolumeTotal = 3

	points := ToPoints(srs, []string{"2026-03-10", "2026-03-11", "2026-03-12"})
	require.Len(t, points, 3)

	require.NotNil(t, points[0].SentimentMean)
	assert.InDelta(t, 0.3, *points[0].SentimentMean, 1e-9)
	assert.Equal(t, 5, points[0].VolumeTotal)

	// volume without clean messages: mean stays nil, not zero
	assert.Nil(t, points[1].SentimentMean)
	assert.Equal(t, 3, points[1].VolumeTotal)

	// missing day: zero volumes, nil mean
	assert.Nil(t, points[2].SentimentMean)
	assert.Equal(t, 0, points[2].VolumeTotal)
	assert.Equal(t, "2026-03-12", points[2].Date)
}

func TestDaysBack(t *testing.T) {
	dates := DaysBack(3)
	require.Len(t, dates, 3)

	today := time.Now().UTC().Format("2006-01-02")
	assert.Equal(t, today, dates[2])
	assert.Less(t, dates[0], dates[1])
	assert.Less(t, dates[1], dates[2])
}

func TestLoad_MissingSymbolReturnsEmptySeries(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := NewService(store.Series(), 0.75, 420)

	srs, err := svc.Load(ctx, "GHOST")
	require.NoError(t, err)
	assert.Equal(t, "GHOST", srs.Symbol)
	assert.Empty(t, srs.Days)
}
