// SPDX-License-Identifier: EPL-2.0

package utils

import "math"

// GainUnity is the gain factor that leaves a sample unchanged. Gains are the
// product of two 0..100 percentages.
const GainUnity = 100 * 100

// SaturatingAdd16 adds two samples, clamping to the int16 range instead of
// wrapping.
func SaturatingAdd16(a, b int16) int16 {
	s := int32(a) + int32(b)
	switch {
	case s > math.MaxInt16:
		return math.MaxInt16
	case s < math.MinInt16:
		return math.MinInt16
	}
	return int16(s)
}

// ApplyGain scales s by gain/GainUnity, truncating toward zero. gain is
// expected in 0..GainUnity.
func ApplyGain(s int16, gain int32) int16 {
	return int16(int32(s) * gain / GainUnity)
}

// U8ToS16 widens an unsigned 8-bit sample (128 is silence) to signed 16-bit.
func U8ToS16(b byte) int16 {
	return int16(int(b)-128) << 8
}
