// SPDX-License-Identifier: EPL-2.0

//go:build !headless

package sink

import (
	"encoding/binary"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/ik5/audmix/mixer"
)

// Device plays frames on the default audio output. WriteFrames blocks
// until the device has room, which paces the mixer at the hardware rate.
// WriteFrames must not be called concurrently; Close may be called from
// any goroutine.
type Device struct {
	ctx    *oto.Context
	player *oto.Player
	pw     *io.PipeWriter
	buf    []byte
	closed atomic.Bool
}

// NewDevice opens the audio output at 44.1kHz stereo signed 16-bit. buffer
// is the device-side latency; zero lets oto pick.
func NewDevice(buffer time.Duration) (*Device, error) {
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   mixer.SampleRate,
		ChannelCount: mixer.Channels,
		Format:       oto.FormatSignedInt16LE,
		BufferSize:   buffer,
	})
	if err != nil {
		return nil, fmt.Errorf("opening audio device: %w", err)
	}
	<-ready

	pr, pw := io.Pipe()
	player := ctx.NewPlayer(pr)
	player.Play()

	return &Device{ctx: ctx, player: player, pw: pw}, nil
}

func (d *Device) WriteFrames(frames []int16) (int, error) {
	if d.closed.Load() {
		return 0, ErrClosed
	}
	if err := d.player.Err(); err != nil {
		return 0, fmt.Errorf("audio device: %w", err)
	}

	d.buf = encodeLE(d.buf, frames)
	n, err := d.pw.Write(d.buf)
	return n / mixer.BytesPerFrame, err
}

// Close stops playback and unblocks a pending write. Frames still queued
// in the device are dropped.
func (d *Device) Close() error {
	if d.closed.Swap(true) {
		return nil
	}

	d.pw.CloseWithError(ErrClosed)
	return d.player.Close()
}

// encodeLE converts frames to little-endian bytes, reusing buf.
func encodeLE(buf []byte, frames []int16) []byte {
	buf = buf[:0]
	for _, s := range frames {
		buf = binary.LittleEndian.AppendUint16(buf, uint16(s))
	}
	return buf
}
