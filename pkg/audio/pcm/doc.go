// Package pcm provides types and utilities for working with PCM (Pulse Code Modulation) audio data.
//
// The package defines the 16-bit mono formats used across the module and a
// Buffer type holding normalized float samples for analysis.
//
// Key types:
//   - Format: Represents audio format (sample rate, channels, bit depth)
//   - Buffer: Immutable mono float32 samples tagged with a Format
//
// Example usage:
//
//	// Wrap 16-bit little-endian bytes captured from a microphone
//	buf := pcm.L16Mono16K.BufferFromBytes(data)
//
//	// Samples needed for 7 seconds of audio
//	n := pcm.L16Mono16K.SamplesInDuration(7 * time.Second)
package pcm
