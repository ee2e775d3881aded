// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"io"
	"math"
	"testing"
)

func TestResampler_Metadata(t *testing.T) {
	t.Parallel()

	r := NewResampler(newConstantSource(22050, 2, 10, 0), 44100)
	if r.SampleRate() != 44100 {
		t.Errorf("SampleRate() = %d, want 44100", r.SampleRate())
	}
	if r.Channels() != 2 {
		t.Errorf("Channels() = %d, want 2", r.Channels())
	}
}

func TestResampler_SameRateIsIdentity(t *testing.T) {
	t.Parallel()

	src := newRampSource(44100, 2, 500)
	got, err := drain(NewResampler(src, 44100), 64)
	if err != nil {
		t.Fatalf("drain() error = %v", err)
	}

	if len(got) != 1000 {
		t.Fatalf("got %d samples, want 1000", len(got))
	}
	for f := range 500 {
		for ch := range 2 {
			want := float32(f)*0.001 + float32(ch)*0.1
			if got[2*f+ch] != want {
				t.Fatalf("frame %d ch %d = %v, want %v", f, ch, got[2*f+ch], want)
			}
		}
	}
}

func TestResampler_OutputLength(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		srcRate  int
		dstRate  int
		frames   int
		channels int
	}{
		{"22050 to 44100", 22050, 44100, 22050, 1},
		{"8000 to 44100", 8000, 44100, 8000, 2},
		{"48000 to 44100", 48000, 44100, 48000, 2},
		{"96000 to 44100", 96000, 44100, 9600, 1},
		{"11025 to 44100", 11025, 44100, 1102, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			src := newSineSource(tt.srcRate, tt.channels, tt.frames, 440)
			got, err := drain(NewResampler(src, tt.dstRate), 1024*tt.channels)
			if err != nil {
				t.Fatalf("drain() error = %v", err)
			}

			frames := len(got) / tt.channels
			want := float64(tt.frames) * float64(tt.dstRate) / float64(tt.srcRate)
			if math.Abs(float64(frames)-want) > float64(tt.dstRate)/float64(tt.srcRate)+2 {
				t.Errorf("got %d frames, want about %.0f", frames, want)
			}
		})
	}
}

func TestResampler_ConstantSignalPreserved(t *testing.T) {
	t.Parallel()

	for _, rate := range []int{8000, 22050, 48000} {
		got, err := drain(NewResampler(newConstantSource(rate, 2, 2000, 0.5), 44100), 512)
		if err != nil {
			t.Fatalf("drain() error = %v", err)
		}
		for i, v := range got {
			if math.Abs(float64(v-0.5)) > 1e-5 {
				t.Fatalf("rate %d: sample %d = %v, want 0.5", rate, i, v)
			}
		}
	}
}

func TestResampler_StereoChannelsIndependent(t *testing.T) {
	t.Parallel()

	src := newMockSource(22050, 2, 1000, func(_, ch int) float32 {
		if ch == 0 {
			return 0.25
		}
		return -0.75
	})

	got, err := drain(NewResampler(src, 44100), 256)
	if err != nil {
		t.Fatalf("drain() error = %v", err)
	}
	for f := 0; f < len(got)/2; f++ {
		if math.Abs(float64(got[2*f]-0.25)) > 1e-5 || math.Abs(float64(got[2*f+1]+0.75)) > 1e-5 {
			t.Fatalf("frame %d = (%v, %v), channels leaked", f, got[2*f], got[2*f+1])
		}
	}
}

func TestResampler_EOF(t *testing.T) {
	t.Parallel()

	r := NewResampler(newConstantSource(22050, 1, 0, 0), 44100)
	if n, err := r.ReadSamples(make([]float32, 16)); n != 0 || !errors.Is(err, io.EOF) {
		t.Errorf("empty source ReadSamples() = %d, %v, want 0, EOF", n, err)
	}

	r = NewResampler(newConstantSource(22050, 1, 1, 0.5), 44100)
	got, err := drain(r, 16)
	if err != nil || len(got) == 0 {
		t.Fatalf("single frame source = %v, %v", got, err)
	}
	if n, err := r.ReadSamples(make([]float32, 16)); n != 0 || !errors.Is(err, io.EOF) {
		t.Errorf("ReadSamples() after EOF = %d, %v", n, err)
	}
}

func TestResampler_Errors(t *testing.T) {
	t.Parallel()

	r := NewResampler(newConstantSource(22050, 2, 10, 0), 44100)
	if _, err := r.ReadSamples(make([]float32, 3)); !errors.Is(err, ErrInvalidDstSize) {
		t.Errorf("odd dst error = %v, want ErrInvalidDstSize", err)
	}

	failing := newConstantSource(22050, 1, 100000, 0)
	failing.failAt = 5000
	if _, err := drain(NewResampler(failing, 44100), 1024); !errors.Is(err, errMockRead) {
		t.Errorf("source error = %v, want errMockRead", err)
	}
}

func TestResampler_SmallBuffers(t *testing.T) {
	t.Parallel()

	big, err := drain(NewResampler(newSineSource(22050, 1, 3000, 300), 44100), 4096)
	if err != nil {
		t.Fatal(err)
	}
	small, err := drain(NewResampler(newSineSource(22050, 1, 3000, 300), 44100), 1)
	if err != nil {
		t.Fatal(err)
	}

	if len(big) != len(small) {
		t.Fatalf("buffer size changed output length: %d vs %d", len(big), len(small))
	}
	for i := range big {
		if big[i] != small[i] {
			t.Fatalf("sample %d differs: %v vs %v", i, big[i], small[i])
		}
	}
}

func TestResampler_Close(t *testing.T) {
	t.Parallel()

	src := newConstantSource(8000, 1, 10, 0)
	if err := NewResampler(src, 44100).Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if !src.closed {
		t.Error("Close() did not close the source")
	}
}

func TestResampler_SteadyStateAllocs(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping allocation test in short mode")
	}

	r := NewResampler(newSineSource(22050, 2, math.MaxInt32, 440), 44100)
	buf := make([]float32, 1024)
	_, _ = r.ReadSamples(buf)

	allocs := testing.AllocsPerRun(100, func() {
		_, _ = r.ReadSamples(buf)
	})
	if allocs > 0 {
		t.Errorf("ReadSamples allocated %v times per call, want 0", allocs)
	}
}

func BenchmarkResampler_Upsample(b *testing.B) {
	buf := make([]float32, 4096)

	b.ReportAllocs()
	b.ResetTimer()
	for range b.N {
		r := NewResampler(newSineSource(22050, 2, 22050, 440), 44100)
		for {
			if _, err := r.ReadSamples(buf); err != nil {
				break
			}
		}
	}
}

func BenchmarkResampler_Downsample(b *testing.B) {
	buf := make([]float32, 4096)

	b.ReportAllocs()
	b.ResetTimer()
	for range b.N {
		r := NewResampler(newSineSource(48000, 2, 48000, 440), 44100)
		for {
			if _, err := r.ReadSamples(buf); err != nil {
				break
			}
		}
	}
}
