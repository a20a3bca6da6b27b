// Package mic records from the default input device with PortAudio and
// hands back a WAV clip with leading and trailing silence removed.
package mic

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/gordonklaus/portaudio"
	webrtcvad "github.com/maxhawkins/go-webrtcvad"

	"github.com/maastricht-university/emotiai/capture"
)

type Config struct {
	SampleRate      int
	Channels        int
	FramesPerBuffer int
	MaxSeconds      int
	VADMode         int // 0-3; negative disables trimming
}

func DefaultConfig() Config {
	return Config{SampleRate: 16000, Channels: 1, FramesPerBuffer: 512, MaxSeconds: 30, VADMode: 2}
}

var ErrNotRecording = errors.New("mic: not recording")

type Microphone struct {
	cfg Config

	mu      sync.Mutex
	stream  *portaudio.Stream
	samples []int16
	stop    atomic.Bool
	done    chan struct{}
}

func New(cfg Config) *Microphone {
	def := DefaultConfig()
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = def.SampleRate
	}
	if cfg.Channels <= 0 {
		cfg.Channels = def.Channels
	}
	if cfg.FramesPerBuffer <= 0 {
		cfg.FramesPerBuffer = def.FramesPerBuffer
	}
	if cfg.MaxSeconds <= 0 {
		cfg.MaxSeconds = def.MaxSeconds
	}
	return &Microphone{cfg: cfg}
}

// Start opens the default input stream and records until Stop, ctx is
// cancelled, or MaxSeconds of audio have been captured.
func (m *Microphone) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stream != nil {
		return errors.New("mic: already recording")
	}

	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("initialize portaudio: %w", err)
	}
	buf := make([]int16, m.cfg.FramesPerBuffer*m.cfg.Channels)
	stream, err := portaudio.OpenDefaultStream(m.cfg.Channels, 0, float64(m.cfg.SampleRate), m.cfg.FramesPerBuffer, buf)
	if err != nil {
		portaudio.Terminate()
		return fmt.Errorf("open input stream: %w", err)
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return fmt.Errorf("start input stream: %w", err)
	}

	m.stream = stream
	m.samples = m.samples[:0]
	m.stop.Store(false)
	m.done = make(chan struct{})
	go m.loop(ctx, stream, buf)
	return nil
}

func (m *Microphone) loop(ctx context.Context, stream *portaudio.Stream, buf []int16) {
	defer close(m.done)
	limit := m.cfg.MaxSeconds * m.cfg.SampleRate * m.cfg.Channels
	for !m.stop.Load() && ctx.Err() == nil {
		if err := stream.Read(); err != nil {
			if errors.Is(err, portaudio.InputOverflowed) {
				continue
			}
			return
		}
		m.mu.Lock()
		m.samples = append(m.samples, buf...)
		full := len(m.samples) >= limit
		m.mu.Unlock()
		if full {
			return
		}
	}
}

// Stop ends the recording, releases the device and returns the clip as WAV.
func (m *Microphone) Stop() ([]byte, error) {
	m.mu.Lock()
	stream := m.stream
	m.mu.Unlock()
	if stream == nil {
		return nil, ErrNotRecording
	}

	m.stop.Store(true)
	<-m.done

	m.mu.Lock()
	defer m.mu.Unlock()
	stream.Stop()
	err := stream.Close()
	portaudio.Terminate()
	m.stream = nil
	if err != nil {
		return nil, fmt.Errorf("close input stream: %w", err)
	}

	samples := m.samples
	if m.cfg.Channels == 1 && m.cfg.VADMode >= 0 {
		samples = TrimSilence(samples, m.cfg.SampleRate, m.cfg.VADMode)
	}
	return capture.EncodeWAV(samples, m.cfg.SampleRate, m.cfg.Channels), nil
}

var vadRates = map[int]bool{8000: true, 16000: true, 32000: true, 48000: true}

// TrimSilence drops 10ms frames before the first and after the last frame
// the WebRTC VAD classifies as speech. Clips with no speech, or at a rate
// the VAD does not support, are returned unchanged.
func TrimSilence(samples []int16, sampleRate, mode int) []int16 {
	frame := sampleRate / 100
	if !vadRates[sampleRate] || len(samples) < frame {
		return samples
	}
	vad, err := webrtcvad.New()
	if err != nil {
		return samples
	}
	if err := vad.SetMode(min(max(mode, 0), 3)); err != nil {
		return samples
	}

	first, last := -1, -1
	pcm := make([]byte, frame*2)
	for i := 0; i+frame <= len(samples); i += frame {
		for j, s := range samples[i : i+frame] {
			pcm[j*2] = byte(s)
			pcm[j*2+1] = byte(s >> 8)
		}
		voiced, err := vad.Process(sampleRate, pcm)
		if err != nil {
			return samples
		}
		if voiced {
			if first < 0 {
				first = i
			}
			last = i + frame
		}
	}
	if first < 0 {
		return samples
	}
	return samples[first:last]
}
