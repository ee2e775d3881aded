// SPDX-License-Identifier: EPL-2.0

package mixer

// Sink is the audio output driven by the mixer.
type Sink interface {
	// WriteFrames blocks until the interleaved stereo samples in frames are
	// accepted and returns the number of frames (sample pairs) accepted.
	WriteFrames(frames []int16) (int, error)
}
