// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"time"
)

const (
	riffHeaderSize  = 12
	chunkHeaderSize = 8
	fmtBodySize     = 16

	formatPCM = 1

	// MaxChannels bounds the interleaved channel count a container may
	// declare.
	MaxChannels = 8
)

// Info describes a parsed WAV container: the PCM format and the byte range
// of the raw samples inside the container.
type Info struct {
	SampleRate    int
	Channels      int
	BitsPerSample int

	// DataOffset is the byte offset of the first PCM byte from the start of
	// the container. DataSize is the length declared by the data chunk.
	DataOffset int64
	DataSize   int64
}

// BlockAlign is the size in bytes of one frame (one sample per channel).
func (i *Info) BlockAlign() int {
	return i.Channels * (i.BitsPerSample / 8)
}

// Frames returns the number of whole frames in the data chunk.
func (i *Info) Frames() int64 {
	ba := int64(i.BlockAlign())
	if ba == 0 {
		return 0
	}
	return i.DataSize / ba
}

// Duration is the playback length of the data chunk at SampleRate.
func (i *Info) Duration() time.Duration {
	if i.SampleRate <= 0 {
		return 0
	}
	return time.Duration(i.Frames()) * time.Second / time.Duration(i.SampleRate)
}

// Validate reports whether the format can be decoded by this package.
func (i *Info) Validate() error {
	switch {
	case i.Channels <= 0 || i.Channels > MaxChannels:
		return fmt.Errorf("%w (got %d)", ErrUnsupportedChannels, i.Channels)
	case i.SampleRate <= 0:
		return ErrInvalidSampleRate
	case i.BitsPerSample != 8 && i.BitsPerSample != 16:
		return fmt.Errorf("%w (got %d)", ErrUnsupportedBitDepth, i.BitsPerSample)
	}
	return nil
}

// Region returns the PCM bytes of an in-memory container described by i,
// clamped to the bytes actually present.
func (i *Info) Region(data []byte) []byte {
	start := min(i.DataOffset, int64(len(data)))
	end := min(i.DataOffset+i.DataSize, int64(len(data)))
	return data[start:end]
}

// Section returns a reader over the PCM bytes of a container stored in r.
func (i *Info) Section(r io.ReaderAt) *io.SectionReader {
	return io.NewSectionReader(r, i.DataOffset, i.DataSize)
}

func (i *Info) String() string {
	return fmt.Sprintf("%dHz %dch %dbit %d bytes", i.SampleRate, i.Channels, i.BitsPerSample, i.DataSize)
}

// Parse reads a RIFF/WAVE header from r. Chunks other than "fmt " and
// "data" are skipped by their declared length. Parsing stops at the start
// of the data chunk, so on success r is positioned at the first PCM byte.
func Parse(r io.Reader) (*Info, error) {
	var hdr [riffHeaderSize]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, truncated(err)
	}

	if !bytes.Equal(hdr[0:4], []byte("RIFF")) || !bytes.Equal(hdr[8:12], []byte("WAVE")) {
		return nil, ErrNotWavFile
	}

	info := &Info{}
	offset := int64(riffHeaderSize)
	foundFmt := false

	for {
		var ch [chunkHeaderSize]byte
		_, err := io.ReadFull(r, ch[:])
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, truncated(err)
		}
		offset += chunkHeaderSize

		id := string(ch[0:4])
		size := int64(binary.LittleEndian.Uint32(ch[4:8]))

		switch id {
		case "fmt ":
			if foundFmt {
				return nil, ErrDuplicateFmtChunk
			}
			if size < fmtBodySize {
				return nil, ErrTruncatedHeader
			}

			var body [fmtBodySize]byte
			if _, err := io.ReadFull(r, body[:]); err != nil {
				return nil, truncated(err)
			}

			tag := binary.LittleEndian.Uint16(body[0:2])
			if tag != formatPCM {
				return nil, fmt.Errorf("%w (format tag %d)", ErrNotPCM, tag)
			}

			info.Channels = int(binary.LittleEndian.Uint16(body[2:4]))
			info.SampleRate = int(binary.LittleEndian.Uint32(body[4:8]))
			info.BitsPerSample = int(binary.LittleEndian.Uint16(body[14:16]))
			foundFmt = true

			if err := skip(r, size-fmtBodySize); err != nil {
				return nil, err
			}

		case "data":
			if !foundFmt {
				return nil, ErrMissingFmtChunk
			}
			info.DataOffset = offset
			info.DataSize = size
			return info, nil

		default:
			if err := skip(r, size); err != nil {
				return nil, err
			}
		}

		offset += size
	}

	if !foundFmt {
		return nil, ErrMissingFmtChunk
	}
	return nil, ErrMissingDataChunk
}

// ParseBytes parses the header of an in-memory WAV container.
func ParseBytes(data []byte) (*Info, error) {
	return Parse(bytes.NewReader(data))
}

func skip(r io.Reader, n int64) error {
	if n <= 0 {
		return nil
	}
	if _, err := io.CopyN(io.Discard, r, n); err != nil {
		return truncated(err)
	}
	return nil
}

func truncated(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return ErrTruncatedHeader
	}
	return fmt.Errorf("reading WAV header: %w", err)
}
