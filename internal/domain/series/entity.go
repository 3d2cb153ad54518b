package series

import "time"

// DayAggregate holds the incremental counters for one (symbol, UTC date)
// bucket. Counters accumulate monotonically within a day; a day is only ever
// removed whole, by retention pruning.
type DayAggregate struct {
	Date                string  `json:"date"`
	VolumeTotal         int     `json:"volumeTotal"`
	VolumeClean         int     `json:"volumeClean"`
	SentimentSumClean   float64 `json:"sentimentSumClean"`
	SentimentCountClean int     `json:"sentimentCountClean"`
	Watchers            *int    `json:"watchers"`
}

// Series is the whole per-symbol daily aggregate store
type Series struct {
	Symbol    string                   `json:"symbol"`
	UpdatedAt time.Time                `json:"updatedAt"`
	Days      map[string]*DayAggregate `json:"days"`
}

// NewSeries returns an empty series for the symbol
func NewSeries(symbol string) *Series {
	return &Series{
		Symbol:    symbol,
		UpdatedAt: time.Now().UTC(),
		Days:      make(map[string]*DayAggregate),
	}
}

// Day returns the aggregate for the date, creating it when absent
func (s *Series) Day(date string) *DayAggregate {
	if s.Days == nil {
		s.Days = make(map[string]*DayAggregate)
	}
	d, ok := s.Days[date]
	if !ok {
		d = &DayAggregate{Date: date}
		s.Days[date] = d
	}
	return d
}

// Point is the projection of one day for chart rendering. SentimentMean is
// nil when the day had no clean messages, to distinguish "no data" from
// "neutral sentiment".
type Point struct {
	Date          string   `json:"date"`
	VolumeClean   int      `json:"volumeClean"`
	VolumeTotal   int      `json:"volumeTotal"`
	SentimentMean *float64 `json:"sentimentMean"`
	Watchers      *int     `json:"watchers"`
}
