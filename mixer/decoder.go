// SPDX-License-Identifier: EPL-2.0

package mixer

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/ik5/audmix/audio"
	"github.com/ik5/audmix/formats/wav"
	"github.com/ik5/audmix/utils"
)

// frameReader produces output-format bytes: 44.1kHz interleaved stereo
// signed 16-bit little endian.
type frameReader interface {
	// readFrames fills as much of dst as the input allows. len(dst) is a
	// multiple of BytesPerFrame and so is n. io.EOF may come with n > 0.
	readFrames(dst []byte) (n int, err error)
}

// pcmStream is an opened origin. rewind restarts it at the first frame of
// the PCM region.
type pcmStream struct {
	format *Format
	frames frameReader
	rewind func() (frameReader, error)
	close  func() error
}

func openStream(o Origin, decoders *audio.Registry) (*pcmStream, error) {
	switch o.Kind {
	case MemoryOrigin:
		info, err := wav.ParseBytes(o.Data)
		if err != nil {
			return nil, classify(err)
		}
		st, err := wavStream(bytes.NewReader(o.Data), info, func() error { return nil })
		if err != nil {
			return nil, classify(err)
		}
		return st, nil

	case FileOrigin:
		f, err := os.Open(o.Path)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrIO, err)
		}

		var st *pcmStream
		if dec, lerr := decoders.Lookup(o.Path); lerr == nil {
			st, err = decodedStream(f, dec)
		} else {
			var info *wav.Info
			info, err = wav.Parse(f)
			if err == nil {
				st, err = wavStream(f, info, f.Close)
			}
		}
		if err != nil {
			f.Close()
			return nil, classify(err)
		}
		return st, nil
	}

	return nil, ErrInvalidOrigin
}

// wavStream serves the PCM region of a WAV container. 44.1kHz input is
// converted frame by frame (byte-exact for 16-bit stereo); other rates go
// through the float resampling pipeline.
func wavStream(ra io.ReaderAt, info *wav.Info, closeFn func() error) (*pcmStream, error) {
	if err := info.Validate(); err != nil {
		return nil, err
	}

	section := info.Section(ra)
	build := func() (frameReader, error) {
		if _, err := section.Seek(0, io.SeekStart); err != nil {
			return nil, err
		}
		if info.SampleRate == SampleRate {
			return newRawReader(section, info.Channels, info.BitsPerSample/8), nil
		}

		src, err := wav.NewSource(section, info)
		if err != nil {
			return nil, err
		}
		return newPCM16Reader(audio.NewStereoPCM16(src, SampleRate)), nil
	}

	frames, err := build()
	if err != nil {
		return nil, err
	}

	return &pcmStream{
		format: formatFromWAV(info),
		frames: frames,
		rewind: build,
		close:  closeFn,
	}, nil
}

// decodedStream serves a file through a registered decoder. Rewinding
// decodes the file again from its start.
func decodedStream(f *os.File, dec audio.Decoder) (*pcmStream, error) {
	var first audio.Source
	build := func() (frameReader, error) {
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			return nil, err
		}
		src, err := dec.Decode(f)
		if err != nil {
			return nil, err
		}
		first = src
		return newPCM16Reader(audio.NewStereoPCM16(src, SampleRate)), nil
	}

	frames, err := build()
	if err != nil {
		return nil, err
	}

	format := &Format{SampleRate: first.SampleRate(), Channels: first.Channels()}
	if bd, ok := first.(interface{ BitDepth() int }); ok {
		format.BitsPerSample = bd.BitDepth()
	}

	return &pcmStream{
		format: format,
		frames: frames,
		rewind: build,
		close:  f.Close,
	}, nil
}

// classify wraps a decoder setup error as ErrIO for storage failures and
// ErrFormat for everything else.
func classify(err error) error {
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	return fmt.Errorf("%w: %w", ErrFormat, err)
}

type rawReader struct {
	r        io.Reader
	channels int
	width    int // bytes per input sample, 1 or 2
	in       []byte
}

func newRawReader(r io.Reader, channels, width int) *rawReader {
	return &rawReader{r: r, channels: channels, width: width}
}

func (r *rawReader) readFrames(dst []byte) (int, error) {
	frames := len(dst) / BytesPerFrame

	if r.channels == Channels && r.width == 2 {
		n, err := io.ReadFull(r.r, dst[:frames*BytesPerFrame])
		return n - n%BytesPerFrame, endOfInput(err)
	}

	inFrame := r.channels * r.width
	need := frames * inFrame
	if cap(r.in) < need {
		r.in = make([]byte, need)
	}

	n, err := io.ReadFull(r.r, r.in[:need])
	got := n / inFrame

	for f := range got {
		frame := r.in[f*inFrame : (f+1)*inFrame]
		left := r.sample(frame, 0)
		right := left
		if r.channels > 1 {
			right = r.sample(frame, 1)
		}
		binary.LittleEndian.PutUint16(dst[f*BytesPerFrame:], uint16(left))
		binary.LittleEndian.PutUint16(dst[f*BytesPerFrame+2:], uint16(right))
	}

	return got * BytesPerFrame, endOfInput(err)
}

func (r *rawReader) sample(frame []byte, ch int) int16 {
	if r.width == 1 {
		return utils.U8ToS16(frame[ch])
	}
	return int16(binary.LittleEndian.Uint16(frame[2*ch:]))
}

type pcm16Reader struct {
	pcm *audio.PCM16
	buf []int16
}

func newPCM16Reader(pcm *audio.PCM16) *pcm16Reader {
	return &pcm16Reader{pcm: pcm}
}

func (r *pcm16Reader) readFrames(dst []byte) (int, error) {
	want := len(dst) / 2
	if cap(r.buf) < want {
		r.buf = make([]int16, want)
	}
	buf := r.buf[:want]

	n := 0
	var err error
	for n < want && err == nil {
		var k int
		k, err = r.pcm.Read16(buf[n:])
		n += k
	}
	n -= n % Channels

	for i, s := range buf[:n] {
		binary.LittleEndian.PutUint16(dst[2*i:], uint16(s))
	}

	return n * 2, err
}

func endOfInput(err error) error {
	if errors.Is(err, io.ErrUnexpectedEOF) {
		return io.EOF
	}
	return err
}

// decode is the decoder worker of one source. It runs until the input is
// exhausted without loop, a stop is requested, or a read fails.
func (t *Table) decode(s *source) {
	defer t.wg.Done()
	defer close(s.done)

	eof, err := t.stream(s)
	t.finish(s, eof, err)
}

func (t *Table) stream(s *source) (bool, error) {
	st, err := openStream(s.origin, t.decoders)
	if err != nil {
		return false, err
	}
	defer func() {
		if err := st.close(); err != nil {
			t.log.Debugf("Source %d: close %v: %v", s.handle, s.origin, err)
		}
	}()

	t.mu.Lock()
	s.format = st.format
	t.mu.Unlock()
	t.log.Debugf("Source %d: streaming %v (%v)", s.handle, s.origin, st.format)

	frames := st.frames
	produced := false
	for {
		select {
		case <-s.quit:
			return false, nil
		default:
		}

		buf := s.ch.buffer()
		n, err := frames.readFrames(buf)
		if n > 0 {
			produced = true
			if !s.ch.send(buf[:n], s.quit) {
				return false, nil
			}
		}

		switch {
		case err == nil:
			continue
		case !errors.Is(err, io.EOF):
			return false, fmt.Errorf("%w: %w", ErrIO, err)
		case !s.loop || !produced:
			// A looping source with an empty region would spin forever.
			return true, nil
		}

		frames, err = st.rewind()
		if err != nil {
			return false, fmt.Errorf("%w: rewinding: %w", ErrIO, err)
		}
		produced = false
	}
}

// finish records how the decoder ended. Failures and stops end in Stopped;
// a natural end only raises eof so the mixer can drain the channel first.
func (t *Table) finish(s *source, eof bool, err error) {
	t.mu.Lock()
	s.eof = s.eof || eof
	stopped := s.stopRequested
	if err != nil {
		s.err = err
	}
	if err != nil || stopped {
		s.state = Stopped
	}
	t.mu.Unlock()

	switch {
	case err != nil:
		t.log.Errorf("Source %d: %v: %v", s.handle, s.origin, err)
	case stopped:
		t.log.Debugf("Source %d: decoder stopped", s.handle)
	default:
		t.log.Debugf("Source %d: end of input", s.handle)
	}
}
