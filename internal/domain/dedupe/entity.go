package dedupe

import "time"

// HashRecord tracks which symbols posted a given normalized body within the
// duplicate window. The window slides on last-touch time: a record whose
// LastSeenAt falls outside the window is reset, not deleted.
type HashRecord struct {
	Hash       string         `json:"hash"`
	Symbols    map[string]int `json:"symbols"`
	LastSeenAt time.Time      `json:"lastSeenAt"`
}

// DistinctSymbols returns the cross-ticker blast signal: how many distinct
// symbols posted this exact normalized text within the window
func (r *HashRecord) DistinctSymbols() int {
	return len(r.Symbols)
}
