// SPDX-License-Identifier: EPL-2.0

// Package aiff decodes uncompressed AIFF files into audio.Source using
// github.com/go-audio/aiff.
//
// Samples of 8, 16, 24 and 32 bits are normalized to [-1.0, 1.0]. Channel
// count and sample rate are reported as stored; use audio.NewStereoPCM16 to
// bring the stream to the mixer's output format:
//
//	f, _ := os.Open("sounds/0003.aiff")
//	src, err := aiff.Decoder{}.Decode(f)
//	if errors.Is(err, aiff.ErrNotAiffFile) {
//	    // not AIFF
//	}
//	pcm := audio.NewStereoPCM16(src, 44100)
//
// AIFF-C compressed data is not supported.
package aiff
