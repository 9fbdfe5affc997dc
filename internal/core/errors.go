package core

import "errors"

var (
	// ErrUnsupportedPixelFormat is returned by Load when the host
	// rejects XRGB8888 frames.
	ErrUnsupportedPixelFormat = errors.New("host does not support XRGB8888 frames")

	// ErrSerializeUnsupported is returned by Serialize and Unserialize;
	// save states are not implemented.
	ErrSerializeUnsupported = errors.New("save states are not supported")
)
