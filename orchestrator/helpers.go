package orchestrator

import (
	"fmt"
	"math"
	"time"

	"github.com/maastricht-university/emotiai/emotion"
)

// aggregate accumulates the distributions shown during a session.
type aggregate struct {
	n   int
	sum emotion.Probabilities
}

func (a *aggregate) add(p emotion.Probabilities) {
	if len(p) == 0 {
		return
	}
	if a.sum == nil {
		a.sum = emotion.Probabilities{}
	}
	for k, v := range p {
		a.sum[k] += v
	}
	a.n++
}

// summary averages over frames; an emotion missing from a frame counts as 0.
func (a *aggregate) summary() Summary {
	s := Summary{Frames: a.n}
	if a.n == 0 {
		return s
	}
	s.Mean = make(emotion.Probabilities, len(a.sum))
	for k, v := range a.sum {
		s.Mean[k] = math.Round(v/float64(a.n)*1e4) / 1e4
	}
	s.Dominant = s.Mean.Dominant()
	return s
}

// Insights is the timestamped line shown next to the video feed for one
// backend response. Confidence is only mentioned when the backend sent a
// non-zero value.
func Insights(at time.Time, r emotion.Result) string {
	ts := at.Format("15:04:05")
	if r.Faces == nil || *r.Faces <= 0 {
		return ts + ": No faces detected in current frame."
	}
	line := fmt.Sprintf("%s: Detected %d face(s). Dominant emotion: %s", ts, *r.Faces, r.Label)
	if r.Confidence != nil && *r.Confidence != 0 {
		line += fmt.Sprintf(" (%d%% confidence)", int(math.Round(*r.Confidence*100)))
	}
	return line
}
