// SPDX-License-Identifier: EPL-2.0

package sounds

import (
	"bytes"
	"math"

	"github.com/ik5/audmix/formats/wav"
)

const (
	// ToneRate is the sample rate of generated tones.
	ToneRate = 22050

	toneAmplitude = 100 // of 127, unsigned 8-bit
	fadeFrames    = ToneRate / 200
)

// Tone returns a mono unsigned 8-bit WAV container holding a sine at freq
// Hz for the given number of seconds. The first and last 5ms are faded.
func Tone(freq float64, seconds int) []byte {
	frames := ToneRate * seconds
	pcm := make([]byte, frames)

	for i := range pcm {
		env := 1.0
		if edge := min(i, frames-1-i); edge < fadeFrames {
			env = float64(edge) / fadeFrames
		}
		v := env * toneAmplitude * math.Sin(2*math.Pi*freq*float64(i)/ToneRate)
		pcm[i] = byte(128 + int(math.Round(v)))
	}

	buf := bytes.NewBuffer(make([]byte, 0, 44+frames))
	wav.WriteWAV8(buf, ToneRate, 1, pcm)
	return buf.Bytes()
}
