package sentiment

import (
	"regexp"
	"strings"

	"tickerpulse/internal/domain/stream"
)

const (
	// negationWindow is how many preceding tokens are inspected for a
	// negation or intensity cue
	negationWindow = 3

	// softClipDivisor normalizes the raw weight sum into [-1..1]
	softClipDivisor = 6

	// labelCut separates bull/bear from neutral
	labelCut = 0.15

	intensityMultiplier = 1.25
)

var (
	urlRe     = regexp.MustCompile(`https?://\S+`)
	cashtagRe = regexp.MustCompile(`\$[a-zA-Z]{1,6}`)
	nonWordRe = regexp.MustCompile(`[^a-z0-9\s\-]`)
	spaceRe   = regexp.MustCompile(`\s+`)
)

// Scorer scores message bodies against an injected lexicon. Deterministic
// and pure: same body always yields the same result, no I/O.
type Scorer struct {
	lex *Lexicon
}

// NewScorer creates a scorer over the given lexicon
func NewScorer(lex *Lexicon) *Scorer {
	return &Scorer{lex: lex}
}

// Score returns the bounded sentiment of a body. Empty or media-only bodies
// are neutral with zero score, never an error.
func (s *Scorer) Score(body string) stream.Sentiment {
	text := strings.TrimSpace(body)
	if text == "" {
		return stream.Sentiment{Score: 0, Label: stream.LabelNeutral}
	}

	toks := tokenize(text)
	if len(toks) == 0 {
		return stream.Sentiment{Score: 0, Label: stream.LabelNeutral}
	}

	var sum float64
	for i, tok := range toks {
		if s.lex.StopWords[tok] {
			continue
		}

		w, hit := s.lex.Positive[tok]
		if nw, ok := s.lex.Negative[tok]; ok {
			w, hit = nw, true
		}
		if !hit {
			continue
		}

		// negation and intensity cues in the preceding window
		lo := i - negationWindow
		if lo < 0 {
			lo = 0
		}
		for _, prev := range toks[lo:i] {
			if s.lex.Negations[prev] {
				w = -w
				break
			}
		}
		for _, prev := range toks[lo:i] {
			if s.lex.Intensifiers[prev] {
				w *= intensityMultiplier
				break
			}
		}

		sum += w
	}

	score := sum / softClipDivisor
	if score > 1 {
		score = 1
	}
	if score < -1 {
		score = -1
	}

	label := stream.LabelNeutral
	switch {
	case score > labelCut:
		label = stream.LabelBull
	case score < -labelCut:
		label = stream.LabelBear
	}

	return stream.Sentiment{Score: score, Label: label}
}

func tokenize(raw string) []string {
	text := strings.ToLower(raw)
	text = urlRe.ReplaceAllString(text, " ")
	text = cashtagRe.ReplaceAllString(text, " $ticker ")
	text = nonWordRe.ReplaceAllString(text, " ")

	var toks []string
	for _, t := range spaceRe.Split(text, -1) {
		if t = strings.TrimSpace(t); t != "" {
			toks = append(toks, t)
		}
	}
	return toks
}
