// SPDX-License-Identifier: EPL-2.0

package audio

import "fmt"

// StereoMixer presents any Source as two interleaved channels. Mono input
// is copied to both sides, stereo passes through untouched and wider
// layouts keep their first two channels.
type StereoMixer struct {
	src Source
	tmp []float32
}

func NewStereoMixer(src Source) *StereoMixer {
	return &StereoMixer{
		src: src,
		tmp: make([]float32, 4096),
	}
}

func (m *StereoMixer) SampleRate() int { return m.src.SampleRate() }
func (m *StereoMixer) Channels() int   { return 2 }
func (m *StereoMixer) BufSize() int    { return m.src.BufSize() }

func (m *StereoMixer) Close() error {
	if err := m.src.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}

func (m *StereoMixer) ReadSamples(dst []float32) (int, error) {
	if len(dst)%2 != 0 {
		return 0, ErrInvalidDstSize
	}
	if len(dst) == 0 {
		return 0, nil
	}

	channels := m.src.Channels()
	switch {
	case channels <= 0:
		return 0, ErrNoChannels
	case channels == 2:
		return m.src.ReadSamples(dst)
	}

	frames := len(dst) / 2
	need := frames * channels
	if cap(m.tmp) < need {
		m.tmp = make([]float32, need)
	}
	tmp := m.tmp[:need]

	n, err := m.src.ReadSamples(tmp)
	got := n / channels

	if channels == 1 {
		for f := range got {
			dst[2*f] = tmp[f]
			dst[2*f+1] = tmp[f]
		}
	} else {
		for f := range got {
			base := f * channels
			dst[2*f] = tmp[base]
			dst[2*f+1] = tmp[base+1]
		}
	}

	return got * 2, err
}
