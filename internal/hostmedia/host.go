package hostmedia

import (
	"log/slog"

	"github.com/audiolibrelab/micloop/internal/core"
)

// Host bundles the file-backed adapters into the core's callback
// surface.
type Host struct {
	mic   *FileMicrophone
	sink  *WavSink
	video *FrameRecorder
	input *ScriptedInput
	log   *slog.Logger
}

// NewHost wires the adapters together. mic may be nil to model a host
// without a capture device.
func NewHost(mic *FileMicrophone, sink *WavSink, video *FrameRecorder, input *ScriptedInput, logger *slog.Logger) *Host {
	if logger == nil {
		logger = slog.Default()
	}
	return &Host{
		mic:   mic,
		sink:  sink,
		video: video,
		input: input,
		log:   logger,
	}
}

// Sink exposes the audio sink for output persistence.
func (h *Host) Sink() *WavSink { return h.sink }

// Video exposes the frame recorder for previews.
func (h *Host) Video() *FrameRecorder { return h.video }

func (h *Host) OpenMicrophone(sampleRate int) (core.Microphone, error) {
	if h.mic == nil {
		return nil, ErrNoMicrophone
	}
	return h.mic, nil
}

func (h *Host) SetPixelFormat(format core.PixelFormat) bool {
	return format == core.PixelFormatXRGB8888
}

func (h *Host) ShowMessage(text string, frames int) {
	h.log.Info("host message", "text", text, "frames", frames)
}

func (h *Host) PollInput() { h.input.Poll() }

func (h *Host) RecordHeld() bool { return h.input.Held() }

func (h *Host) WriteAudio(samples []int16) int { return h.sink.Consume(samples) }

func (h *Host) RefreshVideo(pix []uint32, width, height, stride int) {
	h.video.Refresh(pix, width, height, stride)
}
