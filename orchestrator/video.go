package orchestrator

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/maastricht-university/emotiai/capture"
	"github.com/maastricht-university/emotiai/emotion"
	"github.com/maastricht-university/emotiai/render"
)

const (
	DefaultPollInterval = 2 * time.Second
	frameName           = "frame.jpg"
	frameContentType    = "image/jpeg"
)

var ErrRunning = errors.New("video session already running")

type VideoOptions struct {
	Interval    time.Duration
	Alpha       float64
	HistorySize int
	// MinConfidence gates smoothed frames. Zero selects
	// emotion.VideoMinConfidence.
	MinConfidence float64

	// SkipWhileBusy drops a tick while an earlier frame request is pending.
	SkipWhileBusy bool
	// ResetHistoryOnStart clears the smoothing history on every Start.
	ResetHistoryOnStart bool

	// Outputs, when set, receives a session.json bundle on Stop.
	Outputs string

	Alert Alerter
	Log   logrus.FieldLogger
	Now   func() time.Time
}

func (o VideoOptions) withDefaults() VideoOptions {
	if o.Interval <= 0 {
		o.Interval = DefaultPollInterval
	}
	if o.Alpha <= 0 {
		o.Alpha = emotion.DefaultAlpha
	}
	if o.HistorySize <= 0 {
		o.HistorySize = emotion.DefaultHistorySize
	}
	if o.MinConfidence <= 0 {
		o.MinConfidence = emotion.VideoMinConfidence
	}
	if o.Alert == nil {
		o.Alert = WriterAlert(nil)
	}
	if o.Log == nil {
		o.Log = logrus.StandardLogger()
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// VideoState is owned by one VideoSession. The smoother outlives Stop/Start
// unless ResetHistoryOnStart is set.
type VideoState struct {
	ID       string
	Started  time.Time
	Smoother *emotion.Smoother

	active bool
	gen    uint64
	stats  FrameStats
	agg    aggregate
}

// VideoSession polls a camera at a fixed period and sends every frame to
// the image endpoint. Requests may overlap; a response that arrives after
// Stop (or after a restart) is discarded.
type VideoSession struct {
	api  Predictor
	cam  capture.Camera
	out  render.Renderer
	opts VideoOptions
	log  logrus.FieldLogger

	mu       sync.Mutex
	state    VideoState
	cancel   context.CancelFunc
	loopDone chan struct{}
	pending  int
	inflight sync.WaitGroup
}

func NewVideoSession(api Predictor, cam capture.Camera, out render.Renderer, opts VideoOptions) *VideoSession {
	opts = opts.withDefaults()
	return &VideoSession{
		api:   api,
		cam:   cam,
		out:   out,
		opts:  opts,
		log:   opts.Log,
		state: VideoState{Smoother: emotion.NewSmoother(opts.Alpha, opts.HistorySize)},
	}
}

func (s *VideoSession) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.state.active {
		s.mu.Unlock()
		return ErrRunning
	}
	// A session ended by its context may still be releasing the camera.
	if prev := s.loopDone; prev != nil {
		s.mu.Unlock()
		<-prev
		s.mu.Lock()
		if s.state.active {
			s.mu.Unlock()
			return ErrRunning
		}
	}

	if err := s.cam.Open(ctx); err != nil {
		s.mu.Unlock()
		e := deviceFailed("Failed to access camera", err)
		s.log.WithError(err).Warn("camera unavailable")
		s.opts.Alert.Alert(e.Error())
		return e
	}

	if s.opts.ResetHistoryOnStart {
		s.state.Smoother.Reset()
	}
	s.state.ID = uuid.NewString()
	s.state.Started = s.opts.Now()
	s.state.stats = FrameStats{}
	s.state.agg = aggregate{}
	s.state.gen++
	s.state.active = true

	loopCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.loopDone = make(chan struct{})
	go s.loop(loopCtx, ctx, s.state.gen, s.loopDone)
	id := s.state.ID
	s.mu.Unlock()

	s.log.WithFields(logrus.Fields{
		"session":  id,
		"interval": s.opts.Interval,
	}).Info("video session started")
	render.Annotate(s.out, emotion.Video, "Camera started. Real-time analysis beginning...")
	return nil
}

// Stop halts polling and releases the camera. Pending requests keep running
// but their responses are dropped. Stop on an idle session is a no-op.
func (s *VideoSession) Stop() error { return s.stop(0, false) }

// stop ends the session. From the loop it only acts when gen is still the
// current session, i.e. when the Start context was cancelled.
func (s *VideoSession) stop(gen uint64, fromLoop bool) error {
	s.mu.Lock()
	if !s.state.active || (fromLoop && s.state.gen != gen) {
		done := s.loopDone
		s.mu.Unlock()
		if !fromLoop && done != nil {
			<-done
		}
		return nil
	}
	s.state.active = false
	s.state.gen++
	s.cancel()
	done := s.loopDone
	bundle := SessionBundle{
		SessionID: s.state.ID,
		StartedAt: s.state.Started,
		StoppedAt: s.opts.Now(),
		Stats:     s.state.stats,
		Summary:   s.state.agg.summary(),
		History:   s.state.Smoother.History(),
	}
	s.mu.Unlock()

	if !fromLoop {
		<-done
	}
	err := s.cam.Close()
	if err != nil {
		s.log.WithError(err).Warn("camera close")
	}

	log := s.log.WithFields(logrus.Fields{
		"session":  bundle.SessionID,
		"rendered": bundle.Stats.Rendered,
		"dominant": bundle.Summary.Dominant,
	})
	if s.opts.Outputs != "" {
		path, perr := persist(s.opts.Outputs, bundle)
		if perr != nil {
			log.WithError(perr).Warn("session bundle not written")
		} else {
			log = log.WithField("bundle", path)
		}
	}
	log.Info("video session stopped")
	render.Annotate(s.out, emotion.Video, "Camera stopped.")
	return err
}

func (s *VideoSession) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.active
}

// Wait blocks until every frame request has finished. It is meant to follow
// Stop; while the session is running it returns immediately.
func (s *VideoSession) Wait() {
	s.mu.Lock()
	running := s.state.active
	done := s.loopDone
	s.mu.Unlock()
	if running {
		return
	}
	if done != nil {
		<-done
	}
	s.inflight.Wait()
}

func (s *VideoSession) Stats() FrameStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.stats
}

func (s *VideoSession) Summary() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.agg.summary()
}

func (s *VideoSession) ID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.ID
}

func (s *VideoSession) Smoother() *emotion.Smoother { return s.state.Smoother }

// loop ticks until loopCtx ends. Requests use reqCtx so Stop does not
// cancel them. When the Start context itself ends, the loop stops the
// session.
func (s *VideoSession) loop(loopCtx, reqCtx context.Context, gen uint64, done chan struct{}) {
	defer close(done)
	t := time.NewTicker(s.opts.Interval)
	defer t.Stop()
	for {
		select {
		case <-loopCtx.Done():
			if reqCtx.Err() != nil {
				s.stop(gen, true)
			}
			return
		case <-t.C:
			s.tick(loopCtx, reqCtx, gen)
		}
	}
}

func (s *VideoSession) tick(loopCtx, reqCtx context.Context, gen uint64) {
	s.mu.Lock()
	if !s.state.active || s.state.gen != gen {
		s.mu.Unlock()
		return
	}
	s.state.stats.Ticks++
	if s.opts.SkipWhileBusy && s.pending > 0 {
		s.state.stats.Skipped++
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	frame, err := s.cam.Frame(loopCtx)
	if err != nil {
		s.log.WithError(err).Debug("frame capture failed")
		s.count(func(st *FrameStats) { st.CaptureErrors++ })
		return
	}

	s.mu.Lock()
	s.pending++
	s.state.stats.Sent++
	s.mu.Unlock()
	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		defer func() {
			s.mu.Lock()
			s.pending--
			s.mu.Unlock()
		}()
		s.analyze(reqCtx, gen, frame)
	}()
}

func (s *VideoSession) count(f func(*FrameStats)) {
	s.mu.Lock()
	f(&s.state.stats)
	s.mu.Unlock()
}

func (s *VideoSession) analyze(ctx context.Context, gen uint64, frame []byte) {
	res, err := s.api.PredictImage(ctx, frameName, frameContentType, frame)
	if err != nil {
		s.log.WithError(err).Debug("frame analysis failed")
		s.count(func(st *FrameStats) { st.Failed++ })
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.state.active || s.state.gen != gen {
		s.state.stats.Discarded++
		return
	}
	s.present(*res)
}

// present renders one frame result. Called with s.mu held so results are
// smoothed and rendered in completion order.
func (s *VideoSession) present(res emotion.Result) {
	if len(res.Probabilities) > 0 {
		smoothed := s.state.Smoother.Smooth(res.Probabilities)
		shown := res
		shown.Probabilities = smoothed
		shown.Label = smoothed.Dominant()
		if emotion.ShouldDisplay(shown, s.opts.MinConfidence) {
			s.out.Render(shown, emotion.Video)
			s.state.stats.Rendered++
			s.state.agg.add(smoothed)
		} else {
			s.state.stats.Suppressed++
		}
	} else {
		s.out.Render(res, emotion.Video)
		s.state.stats.Rendered++
	}
	render.Annotate(s.out, emotion.Video, Insights(s.opts.Now(), res))
}
