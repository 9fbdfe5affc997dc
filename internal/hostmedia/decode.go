package hostmedia

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/wav"
	gomp3 "github.com/hajimehoshi/go-mp3"
	"github.com/jfreymuth/oggvorbis"
)

// DecodeFile loads an audio file as mono int16 samples. Multi-channel
// input is mixed down by averaging. The file's rate must match
// captureRate exactly; resampling is out of scope.
func DecodeFile(path string, captureRate int) ([]int16, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening input file: %w", err)
	}
	defer f.Close()

	var (
		samples []int16
		rate    int
	)

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".wav":
		samples, rate, err = decodeWAV(f)
	case ".mp3":
		samples, rate, err = decodeMP3(f)
	case ".ogg", ".oga":
		samples, rate, err = decodeOGG(f)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}

	if rate != captureRate {
		return nil, fmt.Errorf("%w: file is %d Hz, session captures at %d Hz",
			ErrSampleRateMismatch, rate, captureRate)
	}

	return samples, nil
}

func decodeWAV(f *os.File) ([]int16, int, error) {
	d := wav.NewDecoder(f)
	if !d.IsValidFile() {
		return nil, 0, fmt.Errorf("not a valid WAV file")
	}
	if d.BitDepth != 16 {
		return nil, 0, fmt.Errorf("%w: got %d-bit", ErrOnlyPCM16Supported, d.BitDepth)
	}

	buf, err := d.FullPCMBuffer()
	if err != nil {
		return nil, 0, fmt.Errorf("reading PCM data: %w", err)
	}

	channels := buf.Format.NumChannels
	frames := len(buf.Data) / channels
	mono := make([]int16, frames)
	for i := 0; i < frames; i++ {
		sum := 0
		for c := 0; c < channels; c++ {
			sum += buf.Data[i*channels+c]
		}
		mono[i] = int16(sum / channels)
	}

	return mono, buf.Format.SampleRate, nil
}

func decodeMP3(f *os.File) ([]int16, int, error) {
	dec, err := gomp3.NewDecoder(f)
	if err != nil {
		return nil, 0, fmt.Errorf("%w", err)
	}

	// go-mp3 emits 16-bit little-endian stereo PCM.
	data, err := io.ReadAll(dec)
	if err != nil {
		return nil, 0, fmt.Errorf("reading MP3 stream: %w", err)
	}

	frames := len(data) / 4
	mono := make([]int16, frames)
	for i := 0; i < frames; i++ {
		left := int16(uint16(data[i*4]) | uint16(data[i*4+1])<<8)
		right := int16(uint16(data[i*4+2]) | uint16(data[i*4+3])<<8)
		mono[i] = int16((int(left) + int(right)) / 2)
	}

	return mono, dec.SampleRate(), nil
}

func decodeOGG(f *os.File) ([]int16, int, error) {
	r, err := oggvorbis.NewReader(f)
	if err != nil {
		return nil, 0, fmt.Errorf("%w", err)
	}

	channels := r.Channels()
	var mono []int16
	buf := make([]float32, 4096*channels)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			frames := n / channels
			for i := 0; i < frames; i++ {
				sum := float32(0)
				for c := 0; c < channels; c++ {
					sum += buf[i*channels+c]
				}
				mono = append(mono, floatToPCM16(sum/float32(channels)))
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, 0, fmt.Errorf("reading vorbis stream: %w", err)
		}
	}

	return mono, r.SampleRate(), nil
}

func floatToPCM16(v float32) int16 {
	switch {
	case v > 1:
		v = 1
	case v < -1:
		v = -1
	}
	return int16(v * 32767)
}
