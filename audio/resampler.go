// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
	"io"

	"github.com/ik5/audmix/utils"
)

// Resampler streams from src to a target sample rate using cubic
// interpolation. It works on interleaved samples and preserves the channel
// count. When downsampling, a one-pole low-pass filter is applied to the
// source frames before interpolation.
type Resampler struct {
	src      Source
	dstRate  int
	channels int
	step     float64 // source frames per output frame

	// hist holds frames t-1, t0, t+1, t+2; output is taken at t0+pos.
	hist  [4][]float32
	pos   float64
	valid int // real (non padded) frames among hist[1:]
	ready bool

	block    []float32
	blockPos int
	blockLen int
	srcEOF   bool

	filter    []float32
	filterSet bool
	alpha     float32
}

func NewResampler(src Source, dstRate int) *Resampler {
	channels := src.Channels()
	r := &Resampler{
		src:      src,
		dstRate:  dstRate,
		channels: channels,
		step:     float64(src.SampleRate()) / float64(dstRate),
		block:    make([]float32, max(channels, 1)*1024),
	}

	for i := range r.hist {
		r.hist[i] = make([]float32, channels)
	}

	if r.step > 1 {
		r.filter = make([]float32, channels)
		r.alpha = 0.5
	}

	return r
}

func (r *Resampler) SampleRate() int { return r.dstRate }
func (r *Resampler) Channels() int   { return r.channels }
func (r *Resampler) BufSize() int    { return r.src.BufSize() }

func (r *Resampler) Close() error {
	if err := r.src.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}

// nextFrame copies the next source frame into dst. It reports false once
// the source is exhausted.
func (r *Resampler) nextFrame(dst []float32) (bool, error) {
	for r.blockPos >= r.blockLen {
		if r.srcEOF {
			return false, nil
		}

		n, err := r.src.ReadSamples(r.block)
		r.blockPos = 0
		r.blockLen = n - n%r.channels

		if errors.Is(err, io.EOF) {
			r.srcEOF = true
		} else if err != nil {
			return false, fmt.Errorf("%w", err)
		}
	}

	copy(dst, r.block[r.blockPos:r.blockPos+r.channels])
	r.blockPos += r.channels

	if r.filter != nil {
		if !r.filterSet {
			// Start the filter settled on the first frame.
			copy(r.filter, dst)
			r.filterSet = true
		}
		for c := range dst {
			dst[c] = r.alpha*dst[c] + (1-r.alpha)*r.filter[c]
			r.filter[c] = dst[c]
		}
	}

	return true, nil
}

func (r *Resampler) prime() error {
	r.ready = true

	ok, err := r.nextFrame(r.hist[1])
	if err != nil || !ok {
		return err
	}
	copy(r.hist[0], r.hist[1])
	r.valid = 1

	for i := 2; i < 4; i++ {
		ok, err := r.nextFrame(r.hist[i])
		if err != nil {
			return err
		}
		if !ok {
			copy(r.hist[i], r.hist[i-1])
			continue
		}
		r.valid++
	}

	return nil
}

func (r *Resampler) advance() error {
	r.hist[0], r.hist[1], r.hist[2], r.hist[3] = r.hist[1], r.hist[2], r.hist[3], r.hist[0]
	r.valid--

	ok, err := r.nextFrame(r.hist[3])
	if err != nil {
		return err
	}
	if ok {
		r.valid++
	} else {
		copy(r.hist[3], r.hist[2])
	}
	return nil
}

// ReadSamples produces samples at the target rate. len(dst) must be a
// multiple of the channel count.
func (r *Resampler) ReadSamples(dst []float32) (int, error) {
	if r.channels <= 0 {
		return 0, ErrNoChannels
	}
	if len(dst)%r.channels != 0 {
		return 0, ErrInvalidDstSize
	}

	if !r.ready {
		if err := r.prime(); err != nil {
			return 0, err
		}
	}

	frames := len(dst) / r.channels
	written := 0

	for written < frames {
		for r.pos >= 1 {
			r.pos--
			if err := r.advance(); err != nil {
				return written * r.channels, err
			}
		}

		if r.valid <= 0 {
			return written * r.channels, io.EOF
		}

		x := float32(r.pos)
		out := dst[written*r.channels : (written+1)*r.channels]
		for c := range out {
			out[c] = utils.CubicInterpolate(r.hist[0][c], r.hist[1][c], r.hist[2][c], r.hist[3][c], x)
		}

		written++
		r.pos += r.step
	}

	return written * r.channels, nil
}
