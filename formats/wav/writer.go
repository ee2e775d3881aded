// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Header builds a canonical 44-byte PCM WAV header for dataSize bytes of
// samples.
func Header(sampleRate, channels, bitsPerSample int, dataSize uint32) []byte {
	blockAlign := uint16(channels * bitsPerSample / 8)
	byteRate := uint32(sampleRate) * uint32(blockAlign)

	header := make([]byte, 44)

	copy(header[0:4], "RIFF")
	binary.LittleEndian.PutUint32(header[4:8], 36+dataSize)
	copy(header[8:12], "WAVE")

	copy(header[12:16], "fmt ")
	binary.LittleEndian.PutUint32(header[16:20], fmtBodySize)
	binary.LittleEndian.PutUint16(header[20:22], formatPCM)
	binary.LittleEndian.PutUint16(header[22:24], uint16(channels))
	binary.LittleEndian.PutUint32(header[24:28], uint32(sampleRate))
	binary.LittleEndian.PutUint32(header[28:32], byteRate)
	binary.LittleEndian.PutUint16(header[32:34], blockAlign)
	binary.LittleEndian.PutUint16(header[34:36], uint16(bitsPerSample))

	copy(header[36:40], "data")
	binary.LittleEndian.PutUint32(header[40:44], dataSize)

	return header
}

// WriteWAV16 writes interleaved 16-bit PCM samples as a WAV container.
func WriteWAV16(w io.Writer, sampleRate, channels int, samples []int16) error {
	if channels <= 0 || channels > MaxChannels {
		return ErrUnsupportedChannels
	}

	if _, err := w.Write(Header(sampleRate, channels, 16, uint32(len(samples)*2))); err != nil {
		return fmt.Errorf("%w", err)
	}

	const chunkSize = 8192
	if len(samples) == 0 {
		return nil
	}

	buf := make([]byte, min(len(samples), chunkSize)*2)
	for i := 0; i < len(samples); i += chunkSize {
		chunk := samples[i:min(i+chunkSize, len(samples))]
		out := buf[:len(chunk)*2]
		for j, s := range chunk {
			binary.LittleEndian.PutUint16(out[j*2:], uint16(s))
		}
		if _, err := w.Write(out); err != nil {
			return fmt.Errorf("%w", err)
		}
	}

	return nil
}

// WriteWAV8 writes interleaved unsigned 8-bit PCM samples as a WAV
// container.
func WriteWAV8(w io.Writer, sampleRate, channels int, samples []byte) error {
	if channels <= 0 || channels > MaxChannels {
		return ErrUnsupportedChannels
	}

	if _, err := w.Write(Header(sampleRate, channels, 8, uint32(len(samples)))); err != nil {
		return fmt.Errorf("%w", err)
	}
	if _, err := w.Write(samples); err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}
