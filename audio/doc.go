// SPDX-License-Identifier: EPL-2.0

// Package audio provides the float32 sample pipeline used to bring decoded
// sounds into the mixer's output format.
//
// # Source Interface
//
// Every decoder and processing stage implements Source:
//
//	type Source interface {
//	    SampleRate() int
//	    Channels() int
//	    ReadSamples(dst []float32) (int, error)
//	    BufSize() int
//	    Close() error
//	}
//
// Samples are interleaved and normalized to [-1.0, 1.0]. ReadSamples may
// return n > 0 together with io.EOF; a call returning 0 and io.EOF means the
// stream is finished.
//
// # Stages
//
// StereoMixer widens or narrows any layout to two channels. Resampler
// changes the sample rate with Catmull-Rom interpolation. PCM16 converts
// the result to signed 16-bit samples. NewStereoPCM16 chains the three:
//
//	pcm := audio.NewStereoPCM16(src, 44100)
//	buf := make([]int16, 1024)
//	n, err := pcm.Read16(buf)
//
// # Format Registry
//
// Registry maps file extensions to decoders so callers can pick a decoder
// from a path:
//
//	registry := audio.NewRegistry()
//	registry.Register("wav", wav.Decoder{})
//	registry.Register("aiff", aiff.Decoder{})
//	dec, err := registry.Lookup("sounds/0001.aiff")
//
// Lookup fails with an error matching ErrUnknownFormat when nothing is
// registered for the extension.
package audio
