// Package core implements the recorder/player plugin core: a five-state
// machine driven once per host frame, recording mono microphone input
// into a fixed buffer while the record button is held, playing it back
// in stereo afterwards, and rendering a progress visualization.
package core

import (
	"fmt"
	"log/slog"
)

const (
	// ScreenWidth and ScreenHeight are the fixed frame dimensions.
	ScreenWidth  = 320
	ScreenHeight = 240

	// RecordingSeconds is the capacity of the recording buffer.
	RecordingSeconds = 5

	// DefaultFPS is the tick rate the core advertises to the host.
	DefaultFPS = 60

	// MessageFrames is how long advisory messages stay on screen.
	MessageFrames = 5 * DefaultFPS
)

// silence is one stereo frame of silence. Submitting it keeps the host
// audio pipeline flushed while nothing is playing.
var silence = []int16{0, 0}

// Options configures a Core.
type Options struct {
	// SampleRate is the capture and playback rate in Hz.
	SampleRate int

	// FPS is the host tick rate. Zero means DefaultFPS.
	FPS int
}

// Core holds the whole session: buffers, counters, state and the open
// microphone handle. It is not safe for concurrent use; the host drives
// it from a single goroutine.
type Core struct {
	host Host
	log  *slog.Logger

	sampleRate      int
	fps             int
	samplesPerFrame int

	state State
	frame []uint32

	// recording holds mono capture samples, playback holds the same
	// audio duplicated into interleaved stereo.
	recording []int16
	playback  []int16

	// recorded and played are sample counts into the two buffers.
	recorded int
	played   int

	mic Microphone
}

// New allocates a core in the idle state with zeroed buffers.
func New(host Host, opts Options, logger *slog.Logger) *Core {
	if logger == nil {
		logger = slog.Default()
	}
	fps := opts.FPS
	if fps <= 0 {
		fps = DefaultFPS
	}

	recLen := opts.SampleRate * RecordingSeconds
	return &Core{
		host:            host,
		log:             logger,
		sampleRate:      opts.SampleRate,
		fps:             fps,
		samplesPerFrame: opts.SampleRate / fps,
		state:           StateIdle,
		frame:           make([]uint32, ScreenWidth*ScreenHeight),
		recording:       make([]int16, recLen),
		playback:        make([]int16, recLen*2),
	}
}

// Load negotiates the pixel format and acquires the microphone. A host
// that cannot display XRGB8888 frames is fatal; a missing microphone is
// only advisory, the core stays idle until reset with one available.
func (c *Core) Load() error {
	if !c.host.SetPixelFormat(PixelFormatXRGB8888) {
		c.log.Info("XRGB8888 is not supported by the host")
		return ErrUnsupportedPixelFormat
	}

	mic, err := c.host.OpenMicrophone(c.sampleRate)
	if err != nil {
		c.log.Warn("failed to open microphone", "error", err)
		c.host.ShowMessage("Failed to get microphone (is one plugged in?)", MessageFrames)
		return nil
	}

	c.mic = mic
	c.host.ShowMessage("Press and hold the record button to record, release to play back.", MessageFrames)
	return nil
}

// Tick runs one frame: poll input, dispatch on the current state, then
// render the progress visualization.
func (c *Core) Tick() {
	c.host.PollInput()
	held := c.host.RecordHeld()

	switch c.state {
	case StateIdle:
		c.host.WriteAudio(silence)
		if c.mic != nil && held {
			c.recorded = 0
			c.played = 0
			clear(c.recording)
			clear(c.playback)
			if c.mic.SetActive(true) {
				c.setState(StateRecording, "record button held")
			} else {
				c.setState(StateError, "failed to enable microphone")
			}
		}

	case StateError:
		// Terminal until an external Reset. Counters are kept at zero so
		// the visualization shows empty bars.
		c.recorded = 0
		c.played = 0
		c.host.WriteAudio(silence)

	case StateRecording:
		c.tickRecording(held)

	case StatePlayback:
		c.tickPlayback()

	case StateFinishedPlayback:
		c.recorded = 0
		c.played = 0
		c.host.WriteAudio(silence)
		c.setState(StateIdle, "ready for more audio input")
	}

	c.render()
}

func (c *Core) tickRecording(held bool) {
	left := len(c.recording) - c.recorded
	want := min(left, c.samplesPerFrame)

	n, err := c.mic.Read(c.recording[c.recorded : c.recorded+want])
	if err != nil {
		c.mic.SetActive(false)
		c.log.Warn("microphone read failed", "error", err)
		c.setState(StateError, "error reading microphone")
		return
	}

	c.recorded += n

	if !held || c.recorded >= len(c.recording) {
		// Duplicate the mono recording into both output channels. The
		// mic stays off for the whole playback phase.
		clear(c.playback)
		for i := 0; i < c.recorded; i++ {
			c.playback[i*2] = c.recording[i]
			c.playback[i*2+1] = c.recording[i]
		}
		c.played = 0
		c.mic.SetActive(false)
		c.setState(StatePlayback, "mic buffer is full or button was released")
	}

	// Flushes host buffers even though nothing is playing yet.
	c.host.WriteAudio(silence)
}

func (c *Core) tickPlayback() {
	limit := min(c.recorded*2, len(c.playback))
	remaining := limit - c.played
	// Submitting too much at once would block the tick loop while the
	// host drains it.
	chunk := min(remaining, c.samplesPerFrame*2)

	consumed := c.host.WriteAudio(c.playback[c.played : c.played+chunk])
	c.played += consumed

	if c.played >= limit {
		c.setState(StateFinishedPlayback, "finished playing audio data")
	}
}

// Reset returns the core to its initial state: buffers and counters
// zeroed, microphone closed and released. This is the only way out of
// the error state.
func (c *Core) Reset() {
	c.recorded = 0
	c.played = 0
	c.state = StateIdle
	clear(c.frame)
	clear(c.recording)
	clear(c.playback)

	if c.mic != nil {
		c.mic.Close()
		c.mic = nil
	}
}

// Close releases the microphone handle.
func (c *Core) Close() error {
	if c.mic == nil {
		return nil
	}
	err := c.mic.Close()
	c.mic = nil
	if err != nil {
		return fmt.Errorf("closing microphone: %w", err)
	}
	return nil
}

// Status returns the current lifecycle state.
func (c *Core) Status() State {
	return c.state
}

// Progress returns the recorded and played sample counts.
func (c *Core) Progress() (recorded, played int) {
	return c.recorded, c.played
}

// Capacity returns the recording and playback buffer capacities in
// samples.
func (c *Core) Capacity() (recording, playback int) {
	return len(c.recording), len(c.playback)
}

func (c *Core) setState(s State, reason string) {
	c.state = s
	c.log.Debug("state transition", "state", s.String(), "reason", reason)
}
