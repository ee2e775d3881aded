// SPDX-License-Identifier: EPL-2.0

package wav

import "errors"

var (
	// ErrNotWavFile indicates the input does not start with RIFF....WAVE.
	ErrNotWavFile = errors.New("not a WAV file")

	// ErrTruncatedHeader indicates the input ended inside the header.
	ErrTruncatedHeader = errors.New("truncated WAV header")

	// ErrNotPCM indicates a fmt chunk whose format tag is not linear PCM (1).
	ErrNotPCM = errors.New("WAV audio format is not linear PCM")

	// ErrMissingFmtChunk indicates the data chunk was reached without a fmt chunk.
	ErrMissingFmtChunk = errors.New("WAV fmt chunk missing")

	// ErrMissingDataChunk indicates the input ended without a data chunk.
	ErrMissingDataChunk = errors.New("WAV data chunk missing")

	// ErrDuplicateFmtChunk indicates more than one fmt chunk before data.
	ErrDuplicateFmtChunk = errors.New("WAV has more than one fmt chunk")

	// ErrUnsupportedBitDepth indicates PCM that is neither 8 nor 16 bit.
	ErrUnsupportedBitDepth = errors.New("only 8-bit and 16-bit PCM supported")

	// ErrUnsupportedChannels indicates a channel count of zero or above
	// MaxChannels.
	ErrUnsupportedChannels = errors.New("WAV channel count must be 1 to 8")

	// ErrInvalidSampleRate indicates a zero sample rate.
	ErrInvalidSampleRate = errors.New("WAV sample rate must be positive")
)
