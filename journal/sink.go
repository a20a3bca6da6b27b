package journal

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/maastricht-university/emotiai/emotion"
	"github.com/maastricht-university/emotiai/render"
)

// Sink records every rendered result. It is meant to sit in a render.Multi
// next to a visible renderer.
type Sink struct {
	j       *Journal
	session string
	log     logrus.FieldLogger
	timeout time.Duration
}

func NewSink(j *Journal, session string, log logrus.FieldLogger) *Sink {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Sink{j: j, session: session, log: log, timeout: 5 * time.Second}
}

func (s *Sink) Render(r emotion.Result, m emotion.Modality) {
	v := render.BuildView(r, m)
	e := &Entry{
		Session:       s.session,
		Modality:      m,
		Label:         r.Label,
		Emotion:       v.Emotion,
		Confidence:    v.Confidence,
		Probabilities: r.Probabilities,
		Transcript:    r.Text,
	}
	if v.Faces != nil {
		e.Faces = *v.Faces
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	if err := s.j.Record(ctx, e); err != nil {
		s.log.WithError(err).WithField("modality", m).Warn("journal write failed")
	}
}
