package hostmedia

import "errors"

var (
	// ErrNoMicrophone is returned when the host has no capture source.
	ErrNoMicrophone = errors.New("no microphone source configured")

	// ErrMicrophoneClosed is returned by reads on a closed microphone.
	ErrMicrophoneClosed = errors.New("microphone is closed")

	// ErrCaptureFailed is the injected device failure.
	ErrCaptureFailed = errors.New("capture device failure")

	// ErrUnsupportedFormat is returned for input files with an unknown
	// extension.
	ErrUnsupportedFormat = errors.New("unsupported input format")

	// ErrOnlyPCM16Supported is returned for WAV files that are not
	// 16-bit PCM.
	ErrOnlyPCM16Supported = errors.New("only 16-bit PCM WAV is supported")

	// ErrSampleRateMismatch is returned when an input file's rate does
	// not match the session capture rate. There is no resampling.
	ErrSampleRateMismatch = errors.New("input sample rate does not match capture rate")
)
