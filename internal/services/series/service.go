package series

import (
	"context"
	"sort"
	"time"

	"tickerpulse/internal/domain/series"
	"tickerpulse/internal/domain/stream"
	"tickerpulse/pkg/errors"
)

// Service maintains the per-symbol daily aggregate series
type Service struct {
	repo          series.Repository
	spamThreshold float64
	retentionDays int
	now           func() time.Time
}

// NewService creates the aggregate service. Messages with a spam score at or
// above spamThreshold are counted in volume but excluded from sentiment.
func NewService(repo series.Repository, spamThreshold float64, retentionDays int) *Service {
	return &Service{
		repo:          repo,
		spamThreshold: spamThreshold,
		retentionDays: retentionDays,
		now:           time.Now,
	}
}

// Update merges newly stored messages into the day buckets and persists the
// series. Counters only ever grow; the watcher snapshot lands on today's
// bucket only. Days beyond the retention window are pruned oldest-first.
func (s *Service) Update(ctx context.Context, symbol string, newMessages []stream.Message, watchers *int) error {
	srs, err := s.repo.Load(ctx, symbol)
	if err != nil {
		return errors.Wrapf(err, "failed to load series: symbol=%s", symbol)
	}

	for _, m := range newMessages {
		day := srs.Day(m.Day())
		day.VolumeTotal++
		if m.Spam.Score < s.spamThreshold {
			day.VolumeClean++
			day.SentimentSumClean += m.Sentiment.Score
			day.SentimentCountClean++
		}
	}

	if watchers != nil {
		today := s.now().UTC().Format("2006-01-02")
		srs.Day(today).Watchers = watchers
	}

	s.prune(srs)

	srs.UpdatedAt = s.now().UTC()
	if err := s.repo.Save(ctx, srs); err != nil {
		return errors.Wrapf(err, "failed to save series: symbol=%s", symbol)
	}

	return nil
}

// prune drops the oldest days beyond the retention window. Date-string sort
// order is chronological for YYYY-MM-DD keys.
func (s *Service) prune(srs *series.Series) {
	if len(srs.Days) <= s.retentionDays {
		return
	}

	dates := make([]string, 0, len(srs.Days))
	for d := range srs.Days {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	for _, d := range dates[:len(dates)-s.retentionDays] {
		delete(srs.Days, d)
	}
}

// Load returns the stored series for a symbol
func (s *Service) Load(ctx context.Context, symbol string) (*series.Series, error) {
	return s.repo.Load(ctx, symbol)
}

// ToPoints projects the requested dates into chart points. A date with no
// clean messages yields a nil SentimentMean, distinguishing "no data" from
// "neutral sentiment".
func ToPoints(srs *series.Series, dates []string) []series.Point {
	points := make([]series.Point, 0, len(dates))
	for _, date := range dates {
		p := series.Point{Date: date}
		if d, ok := srs.Days[date]; ok {
			p.VolumeClean = d.VolumeClean
			p.VolumeTotal = d.VolumeTotal
			p.Watchers = d.Watchers
			if d.SentimentCountClean > 0 {
				mean := d.SentimentSumClean / float64(d.SentimentCountClean)
				p.SentimentMean = &mean
			}
		}
		points = append(points, p)
	}
	return points
}

// DaysBack lists the trailing n UTC dates ending today, oldest first
func DaysBack(n int) []string {
	out := make([]string, 0, n)
	today := time.Now().UTC()
	for i := n - 1; i >= 0; i-- {
		out = append(out, today.AddDate(0, 0, -i).Format("2006-01-02"))
	}
	return out
}
