package emotion

import (
	"math"
	"sort"
)

type Modality string

const (
	Text    Modality = "text"
	Audio   Modality = "audio"
	Image   Modality = "image"
	Video   Modality = "video"
	General Modality = "general"
)

// Probabilities maps an emotion name to its probability. Values are never
// renormalized, so they need not sum to 1.
type Probabilities map[string]float64

// Max returns the largest value; ok is false for an empty mapping.
func (p Probabilities) Max() (top float64, ok bool) {
	top = math.Inf(-1)
	for _, v := range p {
		if v > top {
			top = v
		}
		ok = true
	}
	return top, ok
}

// Dominant returns the arg-max key. Ties go to the lexicographically
// smallest key.
func (p Probabilities) Dominant() string {
	best, bestV := "", math.Inf(-1)
	for _, k := range p.Keys() {
		if p[k] > bestV {
			best, bestV = k, p[k]
		}
	}
	return best
}

func (p Probabilities) Keys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (p Probabilities) Clone() Probabilities {
	if p == nil {
		return nil
	}
	out := make(Probabilities, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Result is one backend response. Optional fields are pointers so that an
// absent value is distinguishable from zero.
type Result struct {
	Label         string        `json:"label"`
	Probabilities Probabilities `json:"probabilities,omitempty"`
	Faces         *int          `json:"faces,omitempty"`
	Confidence    *float64      `json:"confidence,omitempty"`
	Text          string        `json:"text,omitempty"`
	Error         string        `json:"error,omitempty"`
}

// HasProbabilities reports whether the backend sent a probability mapping at
// all (an empty mapping still counts).
func (r Result) HasProbabilities() bool { return r.Probabilities != nil }
