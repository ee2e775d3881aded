// SPDX-License-Identifier: EPL-2.0

package sink

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/ik5/audmix/mixer"
)

// WAVFile records the mixed stream into a 16-bit stereo WAV file. The
// header sizes are patched in on Close.
type WAVFile struct {
	f      *os.File
	enc    *wav.Encoder
	buf    *audio.IntBuffer
	frames int64
	closed bool
}

func NewWAVFile(path string) (*WAVFile, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", path, err)
	}

	return &WAVFile{
		f:   f,
		enc: wav.NewEncoder(f, mixer.SampleRate, 16, mixer.Channels, 1),
		buf: &audio.IntBuffer{
			Format:         &audio.Format{NumChannels: mixer.Channels, SampleRate: mixer.SampleRate},
			SourceBitDepth: 16,
		},
	}, nil
}

func (w *WAVFile) WriteFrames(frames []int16) (int, error) {
	if w.closed {
		return 0, ErrClosed
	}

	data := w.buf.Data[:0]
	for _, s := range frames {
		data = append(data, int(s))
	}
	w.buf.Data = data

	if err := w.enc.Write(w.buf); err != nil {
		return 0, fmt.Errorf("writing %s: %w", w.f.Name(), err)
	}

	n := len(frames) / mixer.Channels
	w.frames += int64(n)
	return n, nil
}

// Frames is the number of frames recorded so far.
func (w *WAVFile) Frames() int64 { return w.frames }

// Close finalizes the header and closes the file.
func (w *WAVFile) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	var errs []error
	if w.frames == 0 {
		// The encoder only writes its header on the first buffer.
		w.buf.Data = w.buf.Data[:0]
		errs = append(errs, w.enc.Write(w.buf))
	}
	errs = append(errs, w.enc.Close(), w.f.Close())
	return errors.Join(errs...)
}
