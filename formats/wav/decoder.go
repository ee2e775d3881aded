// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/ik5/audmix/audio"
)

type wavSource struct {
	r          io.Reader
	sampleRate int
	channels   int
	bps        int // bytes per sample, 1 or 2
	buf        []byte
}

// NewSource returns an audio.Source reading raw PCM described by info from
// r. r must be positioned at the first PCM byte; it is read until EOF, so
// callers bound it to the data chunk (see Info.Section and Info.Region).
func NewSource(r io.Reader, info *Info) (audio.Source, error) {
	if err := info.Validate(); err != nil {
		return nil, err
	}

	return &wavSource{
		r:          r,
		sampleRate: info.SampleRate,
		channels:   info.Channels,
		bps:        info.BitsPerSample / 8,
		buf:        make([]byte, 4096),
	}, nil
}

func (s *wavSource) SampleRate() int { return s.sampleRate }
func (s *wavSource) Channels() int   { return s.channels }
func (s *wavSource) BufSize() int    { return len(s.buf) / s.bps }
func (s *wavSource) Close() error    { return nil }

func (s *wavSource) ReadSamples(dst []float32) (int, error) {
	need := len(dst) * s.bps
	if len(s.buf) < need {
		s.buf = make([]byte, need)
	}

	n, err := io.ReadFull(s.r, s.buf[:need])
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return 0, fmt.Errorf("%w", err)
	}

	samples := n / s.bps
	if s.bps == 1 {
		for i := range samples {
			dst[i] = float32(int(s.buf[i])-128) / 128.0
		}
	} else {
		for i := range samples {
			v := int16(binary.LittleEndian.Uint16(s.buf[2*i:]))
			dst[i] = float32(v) / 32768.0
		}
	}

	if err != nil {
		if samples == 0 {
			return 0, io.EOF
		}
		return samples, io.EOF
	}
	return samples, nil
}

// Decoder decodes 8-bit or 16-bit PCM WAV streams. It is the audio.Decoder
// for WAV, meant to be registered with an audio.Registry by callers that
// want float samples from any supported format. Callers that need the raw
// PCM region use Parse and Info.Section instead.
type Decoder struct{}

// Decode parses the header from r and returns a Source over the data chunk.
func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	info, err := Parse(r)
	if err != nil {
		return nil, err
	}

	return NewSource(io.LimitReader(r, info.DataSize), info)
}
