package hostmedia

import (
	"encoding/binary"
	"fmt"

	"github.com/smallnest/ringbuffer"
)

// FileMicrophone implements core.Microphone on top of a byte ring
// buffer preloaded with decoded mono samples. Reads drain the buffer
// without blocking; a drained microphone yields zero samples, like a
// live device with no new frames yet.
type FileMicrophone struct {
	rb      *ringbuffer.RingBuffer
	scratch []byte

	active bool
	closed bool

	delivered   int
	failAfter   int
	enableFails bool
}

// MicOption tweaks failure injection on a FileMicrophone.
type MicOption func(*FileMicrophone)

// WithReadFailureAfter makes Read fail once the given number of samples
// has been delivered.
func WithReadFailureAfter(samples int) MicOption {
	return func(m *FileMicrophone) { m.failAfter = samples }
}

// WithEnableFailure makes SetActive(true) report failure.
func WithEnableFailure() MicOption {
	return func(m *FileMicrophone) { m.enableFails = true }
}

// NewFileMicrophone queues the given mono samples for capture.
func NewFileMicrophone(samples []int16, opts ...MicOption) (*FileMicrophone, error) {
	size := max(len(samples)*2, 2)
	rb := ringbuffer.New(size)

	buf := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(buf[i*2:], uint16(s))
	}
	if n, err := rb.Write(buf); err != nil {
		return nil, fmt.Errorf("queueing microphone samples: %w", err)
	} else if n != len(buf) {
		return nil, fmt.Errorf("queueing microphone samples: short write (%d of %d bytes)", n, len(buf))
	}

	m := &FileMicrophone{
		rb:        rb,
		failAfter: -1,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Read fills dst with queued samples and reports how many were
// written. Reads on an inactive microphone yield zero samples.
func (m *FileMicrophone) Read(dst []int16) (int, error) {
	if m.closed {
		return 0, ErrMicrophoneClosed
	}
	if !m.active {
		return 0, nil
	}
	if m.failAfter >= 0 && m.delivered >= m.failAfter {
		return 0, ErrCaptureFailed
	}

	n := min(len(dst), m.rb.Length()/2)
	if m.failAfter >= 0 {
		n = min(n, m.failAfter-m.delivered)
	}
	if n == 0 {
		return 0, nil
	}

	if cap(m.scratch) < n*2 {
		m.scratch = make([]byte, n*2)
	}
	m.scratch = m.scratch[:n*2]
	if _, err := m.rb.Read(m.scratch); err != nil {
		return 0, err
	}

	for i := 0; i < n; i++ {
		dst[i] = int16(binary.LittleEndian.Uint16(m.scratch[i*2:]))
	}
	m.delivered += n
	return n, nil
}

// SetActive flips capture on or off.
func (m *FileMicrophone) SetActive(active bool) bool {
	if active && m.enableFails {
		return false
	}
	m.active = active
	return true
}

// Active reports whether capture is currently enabled.
func (m *FileMicrophone) Active() bool { return m.active }

// Queued reports how many samples are still waiting to be captured.
func (m *FileMicrophone) Queued() int { return m.rb.Length() / 2 }

// Close releases the microphone; further reads fail.
func (m *FileMicrophone) Close() error {
	m.closed = true
	m.active = false
	return nil
}
