// SPDX-License-Identifier: EPL-2.0

package utils

import "math"

// Float32ToInt16 maps a normalized sample to 16-bit PCM. The scale is 32768
// so that a sample produced by dividing an int16 by 32768 converts back to
// the same value; out of range input saturates.
func Float32ToInt16(x float32) int16 {
	v := x * 32768
	switch {
	case v != v: // NaN
		return 0
	case v >= math.MaxInt16:
		return math.MaxInt16
	case v <= math.MinInt16:
		return math.MinInt16
	}
	return int16(v)
}
