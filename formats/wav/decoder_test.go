// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"bytes"
	"errors"
	"io"
	"math"
	"testing"
)

func readAll(t *testing.T, r interface {
	ReadSamples([]float32) (int, error)
}) []float32 {
	t.Helper()

	var out []float32
	buf := make([]float32, 3)
	for {
		n, err := r.ReadSamples(buf)
		out = append(out, buf[:n]...)
		if errors.Is(err, io.EOF) {
			return out
		}
		if err != nil {
			t.Fatalf("ReadSamples() error = %v", err)
		}
	}
}

func TestDecoder_16Bit(t *testing.T) {
	t.Parallel()

	samples := []int16{0, 16384, -16384, math.MaxInt16, math.MinInt16}
	buf := new(bytes.Buffer)
	if err := WriteWAV16(buf, 8000, 1, samples); err != nil {
		t.Fatalf("WriteWAV16() error = %v", err)
	}

	src, err := Decoder{}.Decode(buf)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	if src.SampleRate() != 8000 || src.Channels() != 1 {
		t.Errorf("format = %dHz %dch, want 8000Hz 1ch", src.SampleRate(), src.Channels())
	}

	got := readAll(t, src)
	if len(got) != len(samples) {
		t.Fatalf("read %d samples, want %d", len(got), len(samples))
	}
	for i, s := range samples {
		want := float32(s) / 32768.0
		if got[i] != want {
			t.Errorf("sample %d = %v, want %v", i, got[i], want)
		}
	}
}

func TestDecoder_8Bit(t *testing.T) {
	t.Parallel()

	pcm := []byte{128, 255, 0, 192}
	data := append(Header(22050, 1, 8, uint32(len(pcm))), pcm...)

	src, err := Decoder{}.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	want := []float32{0, 127.0 / 128.0, -1, 0.5}
	got := readAll(t, src)
	if len(got) != len(want) {
		t.Fatalf("read %d samples, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sample %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestDecoder_StopsAtDataChunkEnd(t *testing.T) {
	t.Parallel()

	buf := new(bytes.Buffer)
	WriteWAV16(buf, 8000, 2, []int16{1, 2, 3, 4})
	buf.WriteString("LIST\x04\x00\x00\x00junk")

	src, err := Decoder{}.Decode(buf)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	if got := readAll(t, src); len(got) != 4 {
		t.Errorf("read %d samples, want 4 (trailing chunk must be ignored)", len(got))
	}
}

func TestDecoder_RejectsUnsupported(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"not wav", []byte("this is not a wav file at all"), ErrNotWavFile},
		{"24 bit", Header(48000, 2, 24, 0), ErrUnsupportedBitDepth},
		{"zero channels", Header(48000, 0, 16, 0), ErrUnsupportedChannels},
		{"65535 channels", Header(44100, 65535, 16, 0), ErrUnsupportedChannels},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Decoder{}.Decode(bytes.NewReader(tt.data))
			if !errors.Is(err, tt.want) {
				t.Errorf("Decode() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestNewSource_Section(t *testing.T) {
	t.Parallel()

	buf := new(bytes.Buffer)
	WriteWAV16(buf, 44100, 2, []int16{100, -100, 200, -200})
	data := buf.Bytes()

	info, err := ParseBytes(data)
	if err != nil {
		t.Fatalf("ParseBytes() error = %v", err)
	}

	src, err := NewSource(info.Section(bytes.NewReader(data)), info)
	if err != nil {
		t.Fatalf("NewSource() error = %v", err)
	}

	got := readAll(t, src)
	if len(got) != 4 || got[0] != 100.0/32768.0 || got[3] != -200.0/32768.0 {
		t.Errorf("samples = %v", got)
	}
}

func BenchmarkDecoder_ReadSamples(b *testing.B) {
	samples := make([]int16, 44100)
	for i := range samples {
		samples[i] = int16(i)
	}
	buf := new(bytes.Buffer)
	WriteWAV16(buf, 44100, 1, samples)
	data := buf.Bytes()
	dst := make([]float32, 1024)

	b.ReportAllocs()
	b.ResetTimer()
	for range b.N {
		src, _ := Decoder{}.Decode(bytes.NewReader(data))
		for {
			if _, err := src.ReadSamples(dst); err != nil {
				break
			}
		}
	}
}
