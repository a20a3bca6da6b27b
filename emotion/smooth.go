package emotion

import "sync"

const (
	DefaultAlpha       = 0.7
	DefaultHistorySize = 5
)

// Smoother is a per-channel first-order IIR filter over consecutive
// probability mappings, keeping a bounded FIFO of the smoothed outputs.
type Smoother struct {
	mu      sync.Mutex
	alpha   float64
	size    int
	history []Probabilities
}

func NewSmoother(alpha float64, size int) *Smoother {
	if alpha <= 0 || alpha > 1 {
		alpha = DefaultAlpha
	}
	if size <= 0 {
		size = DefaultHistorySize
	}
	return &Smoother{alpha: alpha, size: size, history: make([]Probabilities, 0, size+1)}
}

// Smooth blends current with the most recent history entry and records the
// result. The first sample is stored and returned as is. Keys that appear
// only in history are dropped.
func (s *Smoother) Smooth(current Probabilities) Probabilities {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.history) == 0 {
		s.history = append(s.history, current.Clone())
		return current
	}

	last := s.history[len(s.history)-1]
	out := make(Probabilities, len(current))
	for k, v := range current {
		if prev, ok := last[k]; ok {
			out[k] = s.alpha*v + (1-s.alpha)*prev
		} else {
			out[k] = v
		}
	}

	s.history = append(s.history, out.Clone())
	if len(s.history) > s.size {
		s.history = s.history[1:]
	}
	return out
}

func (s *Smoother) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.history)
}

// History returns a copy, oldest first.
func (s *Smoother) History() []Probabilities {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Probabilities, len(s.history))
	for i, h := range s.history {
		out[i] = h.Clone()
	}
	return out
}

func (s *Smoother) Reset() {
	s.mu.Lock()
	s.history = s.history[:0]
	s.mu.Unlock()
}

func (s *Smoother) Alpha() float64 { return s.alpha }
