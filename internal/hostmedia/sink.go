package hostmedia

import (
	"errors"
	"fmt"
	"os"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// WavSink collects the stereo samples the core submits for output and
// can persist them as a 16-bit stereo WAV file.
type WavSink struct {
	sampleRate int
	chunk      int
	samples    []int16
}

// NewWavSink creates a sink at the given rate. chunk caps how many
// samples a single Consume call accepts, modelling a host that takes
// less than it is offered; zero means unlimited.
func NewWavSink(sampleRate, chunk int) *WavSink {
	return &WavSink{
		sampleRate: sampleRate,
		chunk:      chunk,
	}
}

// Consume accepts interleaved stereo samples and reports how many were
// taken.
func (s *WavSink) Consume(p []int16) int {
	n := len(p)
	if s.chunk > 0 && n > s.chunk {
		n = s.chunk
	}
	s.samples = append(s.samples, p[:n]...)
	return n
}

// Samples returns everything consumed so far.
func (s *WavSink) Samples() []int16 { return s.samples }

// WriteFile writes the collected audio as a stereo 16-bit PCM WAV.
func (s *WavSink) WriteFile(path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()

	enc := wav.NewEncoder(f, s.sampleRate, 16, 2, 1)

	data := make([]int, len(s.samples))
	for i, v := range s.samples {
		data[i] = int(v)
	}
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: 2, SampleRate: s.sampleRate},
		Data:           data,
		SourceBitDepth: 16,
	}

	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("writing PCM data: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("finalizing WAV: %w", err)
	}
	return nil
}
