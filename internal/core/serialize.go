package core

// SerializeSize reports how many bytes a save state would need: the
// frame buffer, both audio buffers, the state and the two counters.
func (c *Core) SerializeSize() int {
	const wordSize = 8
	return len(c.frame)*4 +
		len(c.recording)*2 +
		len(c.playback)*2 +
		3*wordSize
}

// Serialize is not implemented; it always reports unsupported.
func (c *Core) Serialize(dst []byte) error {
	return ErrSerializeUnsupported
}

// Unserialize is not implemented; it always reports unsupported.
func (c *Core) Unserialize(src []byte) error {
	return ErrSerializeUnsupported
}
