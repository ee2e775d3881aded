// SPDX-License-Identifier: EPL-2.0

// Package sink provides the outputs a mixer can write periods to: the
// audio device through oto, a WAV file recorder, a discarding sink and a
// wall-clock pacer for outputs that never block.
//
// Every sink takes interleaved 44.1kHz stereo int16 frames, the format
// produced by the mixer package.
package sink
