package hostmedia

import (
	"encoding/binary"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// FrameRecorder implements the core's video callback. It keeps the
// latest frame for polling, optionally dumps every Nth frame as a PNG
// and fans frames out to live subscribers (the preview websocket).
type FrameRecorder struct {
	mu     sync.Mutex
	latest []uint32
	width  int
	height int
	count  int

	dumpEvery int
	dir       string
	prefix    string

	subs map[chan []byte]struct{}
}

// NewFrameRecorder creates a recorder. dumpEvery of zero disables PNG
// dumping; otherwise every Nth frame lands in dir as prefix-NNNN.png.
func NewFrameRecorder(dumpEvery int, dir, prefix string) *FrameRecorder {
	return &FrameRecorder{
		dumpEvery: dumpEvery,
		dir:       dir,
		prefix:    prefix,
		subs:      make(map[chan []byte]struct{}),
	}
}

// Refresh receives a rendered XRGB8888 frame from the core.
func (r *FrameRecorder) Refresh(pix []uint32, width, height, stride int) {
	r.mu.Lock()
	r.latest = append(r.latest[:0], pix...)
	r.width = width
	r.height = height
	frameIndex := r.count
	r.count++

	var wire []byte
	if len(r.subs) > 0 {
		wire = make([]byte, len(pix)*4)
		for i, p := range pix {
			binary.LittleEndian.PutUint32(wire[i*4:], p)
		}
	}
	for ch := range r.subs {
		select {
		case ch <- wire:
		default:
			// A slow subscriber drops frames rather than stalling the
			// tick loop.
		}
	}
	r.mu.Unlock()

	if r.dumpEvery > 0 && frameIndex%r.dumpEvery == 0 {
		if err := r.dumpPNG(pix, width, height, frameIndex); err != nil {
			slog.Warn("failed to dump frame", "frame", frameIndex, "error", err)
		}
	}
}

func (r *FrameRecorder) dumpPNG(pix []uint32, width, height, frameIndex int) (err error) {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			p := pix[y*width+x]
			img.SetRGBA(x, y, color.RGBA{
				R: uint8(p >> 16),
				G: uint8(p >> 8),
				B: uint8(p),
				A: 0xff,
			})
		}
	}

	path := filepath.Join(r.dir, fmt.Sprintf("%s-%04d.png", r.prefix, frameIndex))
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating frame file: %w", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("encoding frame: %w", err)
	}
	return nil
}

// Latest returns a copy of the most recent frame and its dimensions.
func (r *FrameRecorder) Latest() ([]uint32, int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]uint32(nil), r.latest...), r.width, r.height
}

// Frames reports how many frames have been received.
func (r *FrameRecorder) Frames() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}

// Subscribe registers a live frame channel. Frames are little-endian
// XRGB8888 byte slices.
func (r *FrameRecorder) Subscribe() chan []byte {
	ch := make(chan []byte, 4)
	r.mu.Lock()
	r.subs[ch] = struct{}{}
	r.mu.Unlock()
	return ch
}

// Unsubscribe removes and closes a frame channel.
func (r *FrameRecorder) Unsubscribe(ch chan []byte) {
	r.mu.Lock()
	if _, ok := r.subs[ch]; ok {
		delete(r.subs, ch)
		close(ch)
	}
	r.mu.Unlock()
}
