// Package hostmedia implements the core's host callback surface
// without audio hardware: microphone input is fed from decoded audio
// files, playback is collected into a WAV file, rendered frames can be
// dumped as PNGs or streamed to subscribers, and the record button is
// driven by a deterministic tick script.
package hostmedia
