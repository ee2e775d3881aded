// SPDX-License-Identifier: EPL-2.0

// Package wav parses and writes RIFF/WAVE PCM containers.
//
// # Header Parsing
//
// Parse validates the "RIFF" <size> "WAVE" preamble and scans the chunks
// that follow. Exactly one "fmt " chunk (format tag 1, linear PCM) must
// precede the "data" chunk; every other chunk is skipped by its declared
// length. The result is an Info with the channel count, sample rate, bit
// depth and the byte range of the PCM data:
//
//	f, _ := os.Open("track1.wav")
//	info, err := wav.Parse(f)
//	if err != nil {
//	    // errors.Is(err, wav.ErrNotPCM), wav.ErrTruncatedHeader, ...
//	}
//	pcm := info.Section(f) // io.SectionReader over the samples
//
// ParseBytes does the same for containers baked into the binary, and
// Info.Region slices the PCM bytes out of such a blob.
//
// # Decoding
//
// Decoder and NewSource expose 8-bit (unsigned) and 16-bit (signed) PCM as
// an audio.Source of float32 samples in [-1, 1]:
//
//	src, err := wav.Decoder{}.Decode(f)
//	buf := make([]float32, 4096)
//	n, err := src.ReadSamples(buf)
//
// # Writing
//
// WriteWAV16 writes interleaved 16-bit samples with a canonical 44-byte
// header; Header returns that header on its own.
//
//	samples := []int16{100, -100, 200, -200}
//	file, _ := os.Create("output.wav")
//	err := wav.WriteWAV16(file, 44100, 2, samples)
package wav
