// SPDX-License-Identifier: EPL-2.0

package aiff

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/go-audio/aiff"
	goaudio "github.com/go-audio/audio"

	"github.com/ik5/audmix/audio"
)

const maxChannels = 8

// aiffReader is the part of aiff.Decoder used by source.
type aiffReader interface {
	Format() *goaudio.Format
	PCMBuffer(buf *goaudio.IntBuffer) (int, error)
}

type source struct {
	dec        aiffReader
	sampleRate int
	channels   int
	bitDepth   int
	scale      float32
	intBuf     *goaudio.IntBuffer
	done       bool
}

func newSource(dec aiffReader, bitDepth int) (*source, error) {
	scale, ok := fullScale(bitDepth)
	if !ok {
		return nil, fmt.Errorf("%w (got %d)", ErrUnsupportedBitDepth, bitDepth)
	}

	format := dec.Format()
	if format == nil || format.SampleRate <= 0 || format.NumChannels <= 0 || format.NumChannels > maxChannels {
		return nil, ErrUnsupportedAiffLayout
	}

	return &source{
		dec:        dec,
		sampleRate: format.SampleRate,
		channels:   format.NumChannels,
		bitDepth:   bitDepth,
		scale:      scale,
		intBuf:     &goaudio.IntBuffer{Format: format, SourceBitDepth: bitDepth},
	}, nil
}

// fullScale is the magnitude of the most negative sample at bitDepth.
func fullScale(bitDepth int) (float32, bool) {
	switch bitDepth {
	case 8, 16, 24, 32:
		return float32(uint64(1) << (bitDepth - 1)), true
	}
	return 0, false
}

func (s *source) SampleRate() int { return s.sampleRate }
func (s *source) Channels() int   { return s.channels }
func (s *source) Close() error    { return nil }

// BitDepth is the stored sample size in bits.
func (s *source) BitDepth() int { return s.bitDepth }

func (s *source) BufSize() int {
	if c := cap(s.intBuf.Data); c > 0 {
		return c
	}
	return 4096
}

func (s *source) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}
	if s.done {
		return 0, io.EOF
	}

	if cap(s.intBuf.Data) < len(dst) {
		s.intBuf.Data = make([]int, len(dst))
	}
	s.intBuf.Data = s.intBuf.Data[:len(dst)]

	n, err := s.dec.PCMBuffer(s.intBuf)
	for i := range n {
		dst[i] = float32(s.intBuf.Data[i]) / s.scale
	}

	switch {
	case errors.Is(err, io.EOF):
		s.done = true
		return n, io.EOF
	case err != nil:
		return n, fmt.Errorf("reading AIFF samples: %w", err)
	case n < len(dst):
		// The decoder reports a short read instead of io.EOF at the end of
		// the sound data.
		s.done = true
		return n, io.EOF
	}
	return n, nil
}

// Decoder decodes uncompressed AIFF streams.
type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	rs, ok := r.(io.ReadSeeker)
	if !ok {
		// go-audio needs to seek between chunks.
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("reading aiff data: %w", err)
		}
		rs = bytes.NewReader(data)
	}

	dec := aiff.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, ErrNotAiffFile
	}
	dec.ReadInfo()

	return newSource(dec, int(dec.BitDepth))
}
