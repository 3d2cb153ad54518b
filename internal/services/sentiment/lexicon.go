package sentiment

// Lexicon is the immutable keyword configuration for the scorer. It is
// loaded once at process start and injected, so tests can substitute their
// own tables.
type Lexicon struct {
	Positive     map[string]float64
	Negative     map[string]float64
	StopWords    map[string]bool
	Negations    map[string]bool
	Intensifiers map[string]bool
}

// DefaultLexicon returns the built-in finance lexicon
func DefaultLexicon() *Lexicon {
	return &Lexicon{
		Positive: map[string]float64{
			"beat": 2, "beats": 2, "guidance": 1.5, "upgrade": 2, "upgraded": 2,
			"contract": 2.5, "award": 2.5, "orders": 2, "order": 2, "partnership": 2,
			"revenue": 1.5, "growth": 2, "profitable": 2.5, "profit": 2,
			"approved": 2.5, "approval": 2.5, "faa": 1.5, "certification": 2,
			"bull": 1.5, "bullish": 2, "rip": 1.5, "moon": 2,
		},
		Negative: map[string]float64{
			"miss": -2, "missed": -2, "downgrade": -2, "downgraded": -2,
			"offering": -3, "dilution": -3, "dilutive": -3, "s-3": -2.5,
			"reverse": -2, "split": -1.5, "bankrupt": -4, "fraud": -4,
			"bear": -1.5, "bearish": -2, "dump": -2.5, "rug": -3,
			"lawsuit": -2.5, "investigation": -2.5,
		},
		StopWords: toSet(
			"the", "a", "an", "and", "or", "to", "of", "in", "on", "for", "with",
			"is", "are", "was", "were", "be", "been", "this", "that", "it", "as",
			"at", "by", "from", "im", "we", "you", "they", "i", "me", "my", "our",
			"your", "their",
		),
		Negations:    toSet("not", "no", "never"),
		Intensifiers: toSet("very", "huge", "massive"),
	}
}

func toSet(words ...string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}
