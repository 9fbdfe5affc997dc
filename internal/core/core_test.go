package core

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

// mockMic serves a fixed set of mono samples and can be told to fail.
type mockMic struct {
	samples     []int16
	pos         int
	readErr     error
	enableFails bool
	active      bool
	closed      bool
}

func (m *mockMic) Read(dst []int16) (int, error) {
	if m.readErr != nil {
		return 0, m.readErr
	}
	n := min(len(dst), len(m.samples)-m.pos)
	copy(dst, m.samples[m.pos:m.pos+n])
	m.pos += n
	return n, nil
}

func (m *mockMic) SetActive(active bool) bool {
	if active && m.enableFails {
		return false
	}
	m.active = active
	return true
}

func (m *mockMic) Close() error {
	m.closed = true
	return nil
}

// mockHost scripts the record button by tick number and records all
// audio and video output.
type mockHost struct {
	mic        *mockMic
	micErr     error
	rejectPix  bool
	holdFrom   int
	holdUntil  int
	tick       int
	consumeCap int

	audioCalls [][]int16
	frames     int
	lastFrame  []uint32
	messages   []string
}

func (h *mockHost) OpenMicrophone(sampleRate int) (Microphone, error) {
	if h.micErr != nil {
		return nil, h.micErr
	}
	return h.mic, nil
}

func (h *mockHost) SetPixelFormat(format PixelFormat) bool {
	return !h.rejectPix && format == PixelFormatXRGB8888
}

func (h *mockHost) ShowMessage(text string, frames int) {
	h.messages = append(h.messages, text)
}

func (h *mockHost) PollInput() { h.tick++ }

func (h *mockHost) RecordHeld() bool {
	return h.tick >= h.holdFrom && h.tick <= h.holdUntil
}

func (h *mockHost) WriteAudio(samples []int16) int {
	n := len(samples)
	if h.consumeCap > 0 && n > h.consumeCap {
		n = h.consumeCap
	}
	h.audioCalls = append(h.audioCalls, append([]int16(nil), samples[:n]...))
	return n
}

func (h *mockHost) RefreshVideo(pix []uint32, width, height, stride int) {
	h.lastFrame = append(h.lastFrame[:0], pix...)
	h.frames++
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ramp builds n samples with a recognizable pattern.
func ramp(n int) []int16 {
	s := make([]int16, n)
	for i := range s {
		s[i] = int16(i%4096 - 2048)
	}
	return s
}

// playbackAudio concatenates every non-silence audio submission.
func playbackAudio(h *mockHost) []int16 {
	var out []int16
	for _, call := range h.audioCalls {
		if len(call) == 2 && call[0] == 0 && call[1] == 0 {
			continue
		}
		out = append(out, call...)
	}
	return out
}

func TestFullRecordPlaybackCycle(t *testing.T) {
	src := ramp(250)
	h := &mockHost{mic: &mockMic{samples: src}, holdFrom: 1, holdUntil: 3}
	c := New(h, Options{SampleRate: 6000, FPS: 60}, testLogger())
	require.NoError(t, c.Load())

	// Tick 1: button goes down, core starts recording.
	c.Tick()
	require.Equal(t, StateRecording, c.Status())
	require.True(t, h.mic.active)

	// Ticks 2 and 3 record a frame's worth (100 samples) each.
	c.Tick()
	c.Tick()
	recorded, _ := c.Progress()
	require.Equal(t, 200, recorded)

	// Tick 4: button released, remaining 50 samples are read and the
	// core flips to playback with the mic disabled.
	c.Tick()
	require.Equal(t, StatePlayback, c.Status())
	recorded, played := c.Progress()
	require.Equal(t, 250, recorded)
	require.Equal(t, 0, played)
	require.False(t, h.mic.active)

	// Playback drains 200 samples per tick: 200, 200, 100.
	for i := 0; i < 3; i++ {
		require.Equal(t, StatePlayback, c.Status())
		c.Tick()
	}
	require.Equal(t, StateFinishedPlayback, c.Status())
	_, played = c.Progress()
	require.Equal(t, 500, played)

	// One more tick returns to idle with counters cleared.
	c.Tick()
	require.Equal(t, StateIdle, c.Status())
	recorded, played = c.Progress()
	require.Zero(t, recorded)
	require.Zero(t, played)

	// The host received the mono recording duplicated per channel.
	got := playbackAudio(h)
	require.Len(t, got, 500)
	for i, v := range src {
		require.Equal(t, v, got[i*2], "left channel sample %d", i)
		require.Equal(t, v, got[i*2+1], "right channel sample %d", i)
	}
}

func TestRecordingStopsWhenBufferFull(t *testing.T) {
	// Capacity is 120*5 = 600 samples, 2 per tick; the button is held
	// far longer than the buffer lasts.
	h := &mockHost{mic: &mockMic{samples: ramp(10_000)}, holdFrom: 1, holdUntil: 100_000}
	c := New(h, Options{SampleRate: 120, FPS: 60}, testLogger())
	require.NoError(t, c.Load())

	recCap, _ := c.Capacity()
	for i := 0; i < 1000 && c.Status() != StatePlayback; i++ {
		c.Tick()
		recorded, _ := c.Progress()
		require.LessOrEqual(t, recorded, recCap)
	}

	require.Equal(t, StatePlayback, c.Status())
	recorded, _ := c.Progress()
	require.Equal(t, recCap, recorded)
}

func TestMicReadFailureEntersError(t *testing.T) {
	mic := &mockMic{readErr: errors.New("device gone")}
	h := &mockHost{mic: mic, holdFrom: 1, holdUntil: 100}
	c := New(h, Options{SampleRate: 6000, FPS: 60}, testLogger())
	require.NoError(t, c.Load())

	c.Tick() // idle -> recording
	c.Tick() // read fails
	require.Equal(t, StateError, c.Status())
	require.False(t, mic.active)

	// Error is terminal and keeps counters at zero every tick.
	for i := 0; i < 5; i++ {
		c.Tick()
		require.Equal(t, StateError, c.Status())
		recorded, played := c.Progress()
		require.Zero(t, recorded)
		require.Zero(t, played)
	}
}

func TestMicEnableFailureEntersError(t *testing.T) {
	h := &mockHost{mic: &mockMic{samples: ramp(100), enableFails: true}, holdFrom: 1, holdUntil: 100}
	c := New(h, Options{SampleRate: 6000, FPS: 60}, testLogger())
	require.NoError(t, c.Load())

	c.Tick()
	require.Equal(t, StateError, c.Status())
}

func TestResetLeavesErrorState(t *testing.T) {
	mic := &mockMic{readErr: errors.New("device gone")}
	h := &mockHost{mic: mic, holdFrom: 1, holdUntil: 100}
	c := New(h, Options{SampleRate: 6000, FPS: 60}, testLogger())
	require.NoError(t, c.Load())

	c.Tick()
	c.Tick()
	require.Equal(t, StateError, c.Status())

	c.Reset()
	require.Equal(t, StateIdle, c.Status())
	require.True(t, mic.closed)

	// Without a microphone the core stays idle even with the button
	// held.
	c.Tick()
	require.Equal(t, StateIdle, c.Status())
}

func TestPartialSinkConsumptionConverges(t *testing.T) {
	h := &mockHost{mic: &mockMic{samples: ramp(100)}, holdFrom: 1, holdUntil: 1, consumeCap: 30}
	c := New(h, Options{SampleRate: 6000, FPS: 60}, testLogger())
	require.NoError(t, c.Load())

	c.Tick() // idle -> recording
	c.Tick() // reads 100, button already up -> playback
	require.Equal(t, StatePlayback, c.Status())

	// 200 playback samples at 30 per tick must converge well within the
	// tick bound.
	for i := 0; i < 20 && c.Status() == StatePlayback; i++ {
		c.Tick()
	}
	require.Equal(t, StateFinishedPlayback, c.Status())
	_, played := c.Progress()
	require.Equal(t, 200, played)
}

func TestEmptyRecordingStillPlaysBack(t *testing.T) {
	// Mic has no samples at all and the button is released right away:
	// the cycle still runs Recording -> Playback -> Finished -> Idle.
	h := &mockHost{mic: &mockMic{}, holdFrom: 1, holdUntil: 1}
	c := New(h, Options{SampleRate: 6000, FPS: 60}, testLogger())
	require.NoError(t, c.Load())

	c.Tick()
	require.Equal(t, StateRecording, c.Status())
	c.Tick()
	require.Equal(t, StatePlayback, c.Status())
	c.Tick()
	require.Equal(t, StateFinishedPlayback, c.Status())
	c.Tick()
	require.Equal(t, StateIdle, c.Status())
}

func TestLoadRejectedPixelFormat(t *testing.T) {
	h := &mockHost{mic: &mockMic{}, rejectPix: true}
	c := New(h, Options{SampleRate: 44100}, testLogger())
	require.ErrorIs(t, c.Load(), ErrUnsupportedPixelFormat)
}

func TestLoadWithoutMicrophone(t *testing.T) {
	h := &mockHost{micErr: errors.New("no capture device"), holdFrom: 1, holdUntil: 100}
	c := New(h, Options{SampleRate: 44100}, testLogger())
	require.NoError(t, c.Load())
	require.NotEmpty(t, h.messages)

	c.Tick()
	require.Equal(t, StateIdle, c.Status())
}

func TestSerializeUnsupported(t *testing.T) {
	h := &mockHost{mic: &mockMic{}}
	c := New(h, Options{SampleRate: 44100}, testLogger())

	size := c.SerializeSize()
	require.Positive(t, size)
	require.Equal(t, size, c.SerializeSize())

	require.ErrorIs(t, c.Serialize(make([]byte, size)), ErrSerializeUnsupported)
	require.ErrorIs(t, c.Unserialize(make([]byte, size)), ErrSerializeUnsupported)
}

func TestRegionReportsNTSC(t *testing.T) {
	h := &mockHost{mic: &mockMic{}}
	c := New(h, Options{SampleRate: 44100}, testLogger())

	require.Equal(t, RegionNTSC, c.Region())
	require.Equal(t, "NTSC", c.Region().String())
	require.Equal(t, "PAL", RegionPAL.String())
}

func TestIdleFlushesSilence(t *testing.T) {
	h := &mockHost{mic: &mockMic{}}
	c := New(h, Options{SampleRate: 44100}, testLogger())
	require.NoError(t, c.Load())

	c.Tick()
	require.Len(t, h.audioCalls, 1)
	require.Equal(t, []int16{0, 0}, h.audioCalls[0])
	require.Equal(t, 1, h.frames)
}
