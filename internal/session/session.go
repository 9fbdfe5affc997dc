// Package session drives a full record/playback run of the core
// against the file-backed harness host.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	nanoid "github.com/matoous/go-nanoid/v2"
	"gopkg.in/yaml.v3"

	"github.com/audiolibrelab/micloop/internal/config"
	"github.com/audiolibrelab/micloop/internal/core"
	"github.com/audiolibrelab/micloop/internal/hostmedia"
)

// Info describes a running or finished session for status surfaces.
type Info struct {
	Name            string    `json:"name"`
	SourceFile      string    `json:"source_file"`
	StartTime       time.Time `json:"start_time"`
	OutputFile      string    `json:"output_file"`
	SampleRate      int       `json:"sample_rate"`
	TicksRun        int       `json:"ticks_run"`
	SamplesRecorded int       `json:"samples_recorded"`
	SamplesPlayed   int       `json:"samples_played"`
}

// Manifest is the yaml sidecar written next to the session output.
type Manifest struct {
	Name            string `yaml:"name"`
	SourceFile      string `yaml:"source_file"`
	SampleRate      int    `yaml:"sample_rate"`
	FPS             int    `yaml:"fps"`
	TicksRun        int    `yaml:"ticks_run"`
	SamplesRecorded int    `yaml:"samples_recorded"`
	SamplesPlayed   int    `yaml:"samples_played"`
	FinalState      string `yaml:"final_state"`
	OutputFile      string `yaml:"output_file"`
	CreatedAt       string `yaml:"created_at"`
}

// Session owns a core plus the harness adapters and runs the tick
// loop.
type Session struct {
	cfg  *config.Config
	log  *slog.Logger
	name string

	core  *core.Core
	host  *hostmedia.Host
	mic   *hostmedia.FileMicrophone
	sink  *hostmedia.WavSink
	video *hostmedia.FrameRecorder

	sourceFile string
	startTime  time.Time
	ticksRun   int
	maxTicks   int

	// Counters reset when the cycle returns to idle, so the totals are
	// tracked as peaks during the run.
	peakRecorded int
	peakPlayed   int
}

// New decodes the source file, builds the harness host around it and
// loads the core. The microphone failure options are passed through
// for fault-injection runs.
func New(cfg *config.Config, sourceFile string, logger *slog.Logger, micOpts ...hostmedia.MicOption) (*Session, error) {
	if logger == nil {
		logger = slog.Default()
	}

	samples, err := hostmedia.DecodeFile(sourceFile, cfg.Audio.SampleRate)
	if err != nil {
		return nil, fmt.Errorf("preparing microphone source: %w", err)
	}

	id, err := nanoid.New(8)
	if err != nil {
		return nil, fmt.Errorf("generating session id: %w", err)
	}
	name := cleanFileName(strings.TrimSuffix(filepath.Base(sourceFile), filepath.Ext(sourceFile))) + "-" + id

	if err := os.MkdirAll(cfg.Output.Directory, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	mic, err := hostmedia.NewFileMicrophone(samples, micOpts...)
	if err != nil {
		return nil, fmt.Errorf("preparing microphone: %w", err)
	}
	sink := hostmedia.NewWavSink(cfg.Audio.SampleRate, cfg.Audio.SinkChunk)
	video := hostmedia.NewFrameRecorder(cfg.Video.DumpEvery, cfg.Output.Directory, name)
	input := hostmedia.NewScriptedInput(1, cfg.Session.HoldTicks)
	host := hostmedia.NewHost(mic, sink, video, input, logger)

	c := core.New(host, core.Options{
		SampleRate: cfg.Audio.SampleRate,
		FPS:        cfg.Video.FPS,
	}, logger)
	if err := c.Load(); err != nil {
		return nil, fmt.Errorf("loading core: %w", err)
	}

	maxTicks := cfg.Session.MaxTicks
	if maxTicks == 0 {
		// Enough for a full recording, its playback and some slack.
		maxTicks = cfg.Session.HoldTicks + 4*core.RecordingSeconds*cfg.Video.FPS + 60
	}

	return &Session{
		cfg:        cfg,
		log:        logger,
		name:       name,
		core:       c,
		host:       host,
		mic:        mic,
		sink:       sink,
		video:      video,
		sourceFile: sourceFile,
		maxTicks:   maxTicks,
	}, nil
}

// Name returns the generated session name.
func (s *Session) Name() string { return s.name }

// Video exposes the frame recorder for the preview server.
func (s *Session) Video() *hostmedia.FrameRecorder { return s.video }

// OutputFile returns the path of the playback WAV.
func (s *Session) OutputFile() string {
	return filepath.Join(s.cfg.Output.Directory, s.name+".wav")
}

// ManifestFile returns the path of the yaml manifest.
func (s *Session) ManifestFile() string {
	return filepath.Join(s.cfg.Output.Directory, s.name+".yaml")
}

// Run drives the tick loop until one full record/playback cycle has
// completed or the tick budget is spent, then persists the output WAV
// and the manifest.
func (s *Session) Run(ctx context.Context) error {
	s.startTime = time.Now()
	s.log.Info("session started",
		"session", s.name,
		"source", s.sourceFile,
		"sample_rate", s.cfg.Audio.SampleRate,
		"fps", s.cfg.Video.FPS)

	var ticker *time.Ticker
	if s.cfg.Session.Realtime {
		ticker = time.NewTicker(time.Second / time.Duration(s.cfg.Video.FPS))
		defer ticker.Stop()
	}

	cycled := false
	for s.ticksRun < s.maxTicks {
		select {
		case <-ctx.Done():
			s.log.Info("session interrupted", "session", s.name, "ticks", s.ticksRun)
			return s.finish(ctx.Err())
		default:
		}
		if ticker != nil {
			<-ticker.C
		}

		s.core.Tick()
		s.ticksRun++

		recorded, played := s.core.Progress()
		s.peakRecorded = max(s.peakRecorded, recorded)
		s.peakPlayed = max(s.peakPlayed, played)

		switch s.core.Status() {
		case core.StateFinishedPlayback:
			cycled = true
		case core.StateIdle:
			if cycled {
				return s.finish(nil)
			}
		case core.StateError:
			s.log.Error("session entered error state", "session", s.name, "ticks", s.ticksRun)
			return s.finish(nil)
		}
	}

	s.log.Warn("session hit tick budget", "session", s.name, "max_ticks", s.maxTicks)
	return s.finish(nil)
}

// Status returns the core state and current session info.
func (s *Session) Status() (core.State, *Info) {
	recorded, played := s.core.Progress()
	return s.core.Status(), &Info{
		Name:            s.name,
		SourceFile:      s.sourceFile,
		StartTime:       s.startTime,
		OutputFile:      s.OutputFile(),
		SampleRate:      s.cfg.Audio.SampleRate,
		TicksRun:        s.ticksRun,
		SamplesRecorded: recorded,
		SamplesPlayed:   played,
	}
}

// AVInfo exposes the core's timing and geometry.
func (s *Session) AVInfo() core.AVInfo { return s.core.AVInfo() }

// Region exposes the core's video region.
func (s *Session) Region() core.Region { return s.core.Region() }

func (s *Session) finish(runErr error) error {
	defer s.core.Close()

	if err := s.sink.WriteFile(s.OutputFile()); err != nil {
		return fmt.Errorf("writing session output: %w", err)
	}

	manifest := Manifest{
		Name:            s.name,
		SourceFile:      s.sourceFile,
		SampleRate:      s.cfg.Audio.SampleRate,
		FPS:             s.cfg.Video.FPS,
		TicksRun:        s.ticksRun,
		SamplesRecorded: s.peakRecorded,
		SamplesPlayed:   s.peakPlayed,
		FinalState:      s.core.Status().String(),
		OutputFile:      s.OutputFile(),
		CreatedAt:       s.startTime.Format(time.RFC3339),
	}

	data, err := yaml.Marshal(&manifest)
	if err != nil {
		return fmt.Errorf("marshaling manifest: %w", err)
	}
	if err := os.WriteFile(s.ManifestFile(), data, 0o644); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}

	s.log.Info("session finished",
		"session", s.name,
		"ticks", s.ticksRun,
		"state", s.core.Status().String(),
		"output", s.OutputFile())

	return runErr
}

// cleanFileName keeps letters, numbers, hyphens and underscores and
// turns spaces into underscores.
func cleanFileName(name string) string {
	var result strings.Builder
	for _, r := range name {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == ' ' || r == '-' || r == '_' {
			result.WriteRune(r)
		}
	}
	return strings.ReplaceAll(strings.TrimSpace(result.String()), " ", "_")
}
