// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"github.com/ik5/audmix/utils"
)

// PCM16 adapts a Source to interleaved signed 16-bit samples.
type PCM16 struct {
	src Source
	tmp []float32
}

func NewPCM16(src Source) *PCM16 {
	return &PCM16{src: src}
}

// NewStereoPCM16 builds the pipeline src -> StereoMixer -> Resampler (only
// when the rates differ) -> PCM16, yielding stereo samples at rate.
func NewStereoPCM16(src Source, rate int) *PCM16 {
	var s Source = NewStereoMixer(src)
	if src.SampleRate() != rate {
		s = NewResampler(s, rate)
	}
	return NewPCM16(s)
}

func (p *PCM16) SampleRate() int { return p.src.SampleRate() }
func (p *PCM16) Channels() int   { return p.src.Channels() }
func (p *PCM16) Close() error    { return p.src.Close() }

// Read16 fills dst and returns the number of int16 values written. Errors
// follow Source.ReadSamples, so io.EOF may arrive together with n > 0.
func (p *PCM16) Read16(dst []int16) (int, error) {
	if cap(p.tmp) < len(dst) {
		p.tmp = make([]float32, len(dst))
	}
	tmp := p.tmp[:len(dst)]

	n, err := p.src.ReadSamples(tmp)
	for i := range n {
		dst[i] = utils.Float32ToInt16(tmp[i])
	}
	return n, err
}
