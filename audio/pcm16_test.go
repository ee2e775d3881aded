// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"io"
	"math"
	"testing"
)

func readAll16(t *testing.T, p *PCM16, bufLen int) []int16 {
	t.Helper()

	var out []int16
	buf := make([]int16, bufLen)
	for {
		n, err := p.Read16(buf)
		out = append(out, buf[:n]...)
		if errors.Is(err, io.EOF) {
			return out
		}
		if err != nil {
			t.Fatalf("Read16() error = %v", err)
		}
	}
}

func TestPCM16_Conversion(t *testing.T) {
	t.Parallel()

	values := []float32{0, 0.5, -0.5, 1, -1, 1.5}
	src := newMockSource(44100, 1, len(values), func(f, _ int) float32 { return values[f] })

	got := readAll16(t, NewPCM16(src), 4)
	want := []int16{0, 16384, -16384, math.MaxInt16, math.MinInt16, math.MaxInt16}
	if len(got) != len(want) {
		t.Fatalf("got %d samples, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sample %d = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestNewStereoPCM16(t *testing.T) {
	t.Parallel()

	t.Run("same rate mono is duplicated exactly", func(t *testing.T) {
		t.Parallel()

		src := newMockSource(44100, 1, 100, func(f, _ int) float32 { return float32(f*100) / 32768 })
		p := NewStereoPCM16(src, 44100)
		if p.Channels() != 2 || p.SampleRate() != 44100 {
			t.Fatalf("format = %d ch %d Hz", p.Channels(), p.SampleRate())
		}

		got := readAll16(t, p, 32)
		if len(got) != 200 {
			t.Fatalf("got %d samples, want 200", len(got))
		}
		for f := range 100 {
			if got[2*f] != int16(f*100) || got[2*f+1] != int16(f*100) {
				t.Fatalf("frame %d = (%d, %d), want %d", f, got[2*f], got[2*f+1], f*100)
			}
		}
	})

	t.Run("other rates are resampled", func(t *testing.T) {
		t.Parallel()

		p := NewStereoPCM16(newConstantSource(22050, 1, 22050, 0.25), 44100)
		if p.SampleRate() != 44100 {
			t.Fatalf("SampleRate() = %d, want 44100", p.SampleRate())
		}

		got := readAll16(t, p, 1024)
		if frames := len(got) / 2; frames < 44090 || frames > 44100 {
			t.Errorf("got %d frames, want about 44100", frames)
		}
		for i, v := range got {
			if v < 8191 || v > 8192 {
				t.Fatalf("sample %d = %d, want 8192", i, v)
			}
		}
	})
}
