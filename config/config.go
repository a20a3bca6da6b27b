package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Service struct {
	URL     string `mapstructure:"url"`
	Timeout int    `mapstructure:"timeout"` // seconds
}
type Display struct {
	MinConfidence float64 `mapstructure:"min_confidence"`
	Themes        string  `mapstructure:"themes"`
}
type Video struct {
	PollInterval        int     `mapstructure:"poll_interval_ms"`
	Alpha               float64 `mapstructure:"alpha"`
	HistorySize         int     `mapstructure:"history_size"`
	MinConfidence       float64 `mapstructure:"min_confidence"`
	Width               int     `mapstructure:"width"`
	Height              int     `mapstructure:"height"`
	JPEGQuality         int     `mapstructure:"jpeg_quality"`
	SkipWhileBusy       bool    `mapstructure:"skip_while_busy"`
	ResetHistoryOnStart bool    `mapstructure:"reset_history_on_start"`
	// AllowedOrigins are browser origins, besides the serve address itself,
	// that may open the results websocket.
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}
type Audio struct {
	SampleRate int `mapstructure:"sample_rate"`
	Channels   int `mapstructure:"channels"`
	MaxSeconds int `mapstructure:"max_seconds"`
	VADMode    int `mapstructure:"vad_mode"`
}
type Limits struct {
	MaxImageBytes int64 `mapstructure:"max_image_bytes"`
}
type Root struct {
	App struct {
		Name      string `mapstructure:"name"`
		Version   string `mapstructure:"version"`
		LogLvl    string `mapstructure:"log_level"`
		LogFormat string `mapstructure:"log_format"`
	} `mapstructure:"app"`
	Service Service `mapstructure:"service"`
	Display Display `mapstructure:"display"`
	Video   Video   `mapstructure:"video"`
	Audio   Audio   `mapstructure:"audio"`
	Limits  Limits  `mapstructure:"limits"`
	Paths   struct {
		Outputs string `mapstructure:"outputs"`
		Journal string `mapstructure:"journal"`
	} `mapstructure:"paths"`
}

const EnvPrefix = "EMOTIAI"

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "emotiai")
	v.SetDefault("app.version", "0.1.0")
	v.SetDefault("app.log_level", "info")
	v.SetDefault("app.log_format", "text")

	v.SetDefault("service.url", "http://localhost:5000")
	v.SetDefault("service.timeout", 60)

	v.SetDefault("display.min_confidence", 0.4)
	v.SetDefault("display.themes", "")

	v.SetDefault("video.poll_interval_ms", 2000)
	v.SetDefault("video.alpha", 0.7)
	v.SetDefault("video.history_size", 5)
	v.SetDefault("video.min_confidence", 0.3)
	v.SetDefault("video.width", 640)
	v.SetDefault("video.height", 480)
	v.SetDefault("video.jpeg_quality", 80)
	v.SetDefault("video.skip_while_busy", false)
	v.SetDefault("video.reset_history_on_start", false)
	v.SetDefault("video.allowed_origins", []string{})

	v.SetDefault("audio.sample_rate", 16000)
	v.SetDefault("audio.channels", 1)
	v.SetDefault("audio.max_seconds", 30)
	v.SetDefault("audio.vad_mode", 2)

	v.SetDefault("limits.max_image_bytes", 10*1024*1024)

	v.SetDefault("paths.outputs", "")
	v.SetDefault("paths.journal", "")
}

// guess lists the config files tried when no explicit path is given.
func guess() []string {
	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	return []string{
		filepath.Join("config", env, "config.yaml"),
		filepath.Join("src", "shared", "config.yaml"),
	}
}

// Load builds the configuration from defaults, an optional YAML file, a .env
// file and EMOTIAI_* environment variables, in increasing precedence.
func Load(path string) (*Root, error) { return LoadWith(viper.New(), path) }

// LoadWith is Load against a caller-owned viper, so CLI flags bound to it
// take precedence.
func LoadWith(v *viper.Viper, path string) (*Root, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config .env: %w", err)
	}
	return load(v, path)
}

func load(v *viper.Viper, path string) (*Root, error) {
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path == "" {
		for _, p := range guess() {
			if st, err := os.Stat(p); err == nil && !st.IsDir() {
				path = p
				break
			}
		}
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config %s: %w", path, err)
		}
	}

	var cfg Root
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Root) Validate() error {
	if c.Service.URL == "" {
		return errors.New("config: service.url is required")
	}
	if c.Video.Alpha <= 0 || c.Video.Alpha > 1 {
		return fmt.Errorf("config: video.alpha must be in (0,1], got %v", c.Video.Alpha)
	}
	// Zero would fall back to the built-in gate; use a small positive value
	// to show nearly everything.
	if c.Display.MinConfidence <= 0 || c.Display.MinConfidence > 1 {
		return fmt.Errorf("config: display.min_confidence must be in (0,1], got %v", c.Display.MinConfidence)
	}
	if c.Video.MinConfidence <= 0 || c.Video.MinConfidence > 1 {
		return fmt.Errorf("config: video.min_confidence must be in (0,1], got %v", c.Video.MinConfidence)
	}
	if c.Video.PollInterval <= 0 {
		return fmt.Errorf("config: video.poll_interval_ms must be positive, got %d", c.Video.PollInterval)
	}
	if c.Video.JPEGQuality < 1 || c.Video.JPEGQuality > 100 {
		return fmt.Errorf("config: video.jpeg_quality must be 1-100, got %d", c.Video.JPEGQuality)
	}
	return nil
}

func (c *Root) Timeout() time.Duration { return DurSeconds(c.Service.Timeout) }

func (v Video) Interval() time.Duration { return time.Duration(v.PollInterval) * time.Millisecond }

func DurSeconds(n int) time.Duration { return time.Duration(n) * time.Second }
