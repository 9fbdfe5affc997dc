package core

// PixelFormat identifies the pixel layout of frames handed to the host.
type PixelFormat int

const (
	// PixelFormatXRGB8888 is the only format the core renders: one
	// uint32 per pixel, 0x00RRGGBB, top byte unused.
	PixelFormatXRGB8888 PixelFormat = iota
)

// Microphone is an open capture device handle owned by the host.
type Microphone interface {
	// Read fills dst with mono int16 samples and returns how many were
	// written. A non-nil error means the device failed; the core treats
	// that as fatal for the current session.
	Read(dst []int16) (int, error)

	// SetActive enables or disables capture. It reports whether the
	// request took effect.
	SetActive(active bool) bool

	// Close releases the device.
	Close() error
}

// Host is the callback surface the embedding runtime provides to the
// core. All methods are invoked synchronously from the tick loop.
type Host interface {
	// OpenMicrophone acquires a capture device at the given rate.
	OpenMicrophone(sampleRate int) (Microphone, error)

	// SetPixelFormat asks the host to accept the given frame format and
	// reports whether it is supported.
	SetPixelFormat(format PixelFormat) bool

	// ShowMessage displays an advisory message for roughly the given
	// number of frames.
	ShowMessage(text string, frames int)

	// PollInput refreshes input state for the current tick.
	PollInput()

	// RecordHeld reports whether the record button is currently held.
	RecordHeld() bool

	// WriteAudio submits interleaved stereo int16 samples for output and
	// returns how many samples the host actually consumed.
	WriteAudio(samples []int16) int

	// RefreshVideo hands the host a rendered frame. The stride is in
	// bytes per row.
	RefreshVideo(pix []uint32, width, height, stride int)
}
