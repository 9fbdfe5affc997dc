package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// SupportedRates are the capture sample rates the core accepts.
var SupportedRates = []int{8000, 11025, 16000, 22050, 32000, 44100, 48000}

type Config struct {
	Audio   AudioConfig   `mapstructure:"audio" yaml:"audio"`
	Video   VideoConfig   `mapstructure:"video" yaml:"video"`
	Session SessionConfig `mapstructure:"session" yaml:"session"`
	Output  OutputConfig  `mapstructure:"output" yaml:"output"`
}

type AudioConfig struct {
	// SampleRate must be one of SupportedRates.
	SampleRate int `mapstructure:"sample_rate" yaml:"sample_rate"`

	// SinkChunk caps how many samples the harness audio sink consumes
	// per call. Zero means unlimited.
	SinkChunk int `mapstructure:"sink_chunk" yaml:"sink_chunk"`
}

type VideoConfig struct {
	FPS int `mapstructure:"fps" yaml:"fps"`

	// DumpEvery writes every Nth rendered frame as a PNG next to the
	// session output. Zero disables frame dumping.
	DumpEvery int `mapstructure:"dump_every" yaml:"dump_every"`
}

type SessionConfig struct {
	// HoldTicks is how many ticks the scripted record button stays
	// held once pressed.
	HoldTicks int `mapstructure:"hold_ticks" yaml:"hold_ticks"`

	// MaxTicks bounds a headless run. Zero picks a bound derived from
	// the recording length.
	MaxTicks int `mapstructure:"max_ticks" yaml:"max_ticks"`

	// Realtime paces ticks at the video FPS instead of running as fast
	// as possible.
	Realtime bool `mapstructure:"realtime" yaml:"realtime"`
}

type OutputConfig struct {
	Directory string `mapstructure:"directory" yaml:"directory"`
}

var defaultConfig = Config{
	Audio: AudioConfig{
		SampleRate: 44100,
	},
	Video: VideoConfig{
		FPS: 60,
	},
	Session: SessionConfig{
		HoldTicks: 120,
	},
	Output: OutputConfig{
		Directory: filepath.Join(os.Getenv("HOME"), "Audio", "Micloop"),
	},
}

// Load reads the config file if it exists and overlays it on the
// defaults. An empty path means defaults plus environment only.
func Load(configFile string) (*Config, error) {
	v := viper.New()

	v.SetDefault("audio.sample_rate", defaultConfig.Audio.SampleRate)
	v.SetDefault("audio.sink_chunk", defaultConfig.Audio.SinkChunk)
	v.SetDefault("video.fps", defaultConfig.Video.FPS)
	v.SetDefault("video.dump_every", defaultConfig.Video.DumpEvery)
	v.SetDefault("session.hold_ticks", defaultConfig.Session.HoldTicks)
	v.SetDefault("session.max_ticks", defaultConfig.Session.MaxTicks)
	v.SetDefault("session.realtime", defaultConfig.Session.Realtime)
	v.SetDefault("output.directory", defaultConfig.Output.Directory)

	v.SetEnvPrefix("MICLOOP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			if _, statErr := os.Stat(configFile); statErr == nil {
				return nil, fmt.Errorf("error reading config file %s: %w", configFile, err)
			}
			// A missing default config file is fine, defaults apply.
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	cfg.Output.Directory = expandPath(cfg.Output.Directory)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// Validate checks the loaded values against the ranges the core
// supports.
func (c *Config) Validate() error {
	if !IsSupportedRate(c.Audio.SampleRate) {
		return fmt.Errorf("sample_rate %d is not supported (must be one of %v)",
			c.Audio.SampleRate, SupportedRates)
	}

	if c.Audio.SinkChunk < 0 {
		return fmt.Errorf("sink_chunk must be >= 0, got: %d", c.Audio.SinkChunk)
	}

	if c.Video.FPS <= 0 {
		return fmt.Errorf("fps must be > 0, got: %d", c.Video.FPS)
	}
	if c.Video.FPS > c.Audio.SampleRate {
		return fmt.Errorf("fps %d exceeds sample_rate %d, no samples would fit in a tick",
			c.Video.FPS, c.Audio.SampleRate)
	}

	if c.Video.DumpEvery < 0 {
		return fmt.Errorf("dump_every must be >= 0, got: %d", c.Video.DumpEvery)
	}

	if c.Session.HoldTicks <= 0 {
		return fmt.Errorf("hold_ticks must be > 0, got: %d", c.Session.HoldTicks)
	}
	if c.Session.MaxTicks < 0 {
		return fmt.Errorf("max_ticks must be >= 0, got: %d", c.Session.MaxTicks)
	}

	if c.Output.Directory == "" {
		return fmt.Errorf("output directory must not be empty")
	}

	return nil
}

// IsSupportedRate reports whether rate is one of the fixed standard
// capture rates.
func IsSupportedRate(rate int) bool {
	for _, r := range SupportedRates {
		if r == rate {
			return true
		}
	}
	return false
}

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		homeDir, _ := os.UserHomeDir()
		return filepath.Join(homeDir, path[2:])
	}
	return path
}
