// SPDX-License-Identifier: EPL-2.0

package mixer

import (
	"fmt"
	"time"

	"github.com/decred/slog"
)

// Output format of every mixer pass: interleaved signed 16-bit stereo.
const (
	SampleRate    = 44100
	Channels      = 2
	BytesPerFrame = Channels * 2
)

// Config tunes a Table and its Mixer.
type Config struct {
	// Capacity is the number of source slots.
	Capacity int

	// PeriodFrames is the number of output frames produced per mixer pass.
	PeriodFrames int

	// ChunkFrames is the size of one decoder push into a source channel.
	ChunkFrames int

	// ChannelBytes bounds the PCM buffered between a decoder and the mixer.
	// It is rounded down to whole chunks, with a minimum of one.
	ChannelBytes int

	// IdleDelay is how long Run sleeps after a pass with no playing source.
	IdleDelay time.Duration

	// MasterVolume is the initial master volume, 0..100.
	MasterVolume int

	Log slog.Logger

	// OnFinished is called by the mixer, outside the table lock, whenever a
	// slot is reclaimed.
	OnFinished func(FinishedEvent)
}

// DefaultConfig returns the settings used by the daemon: four slots and
// 512-frame (about 11.6ms) periods.
func DefaultConfig() Config {
	return Config{
		Capacity:     4,
		PeriodFrames: 512,
		ChunkFrames:  512,
		ChannelBytes: 16384,
		IdleDelay:    10 * time.Millisecond,
		MasterVolume: 100,
	}
}

func (c *Config) Validate() error {
	switch {
	case c.Capacity <= 0:
		return fmt.Errorf("%w: capacity must be positive, got %d", ErrInvalidConfig, c.Capacity)
	case c.PeriodFrames <= 0:
		return fmt.Errorf("%w: period frames must be positive, got %d", ErrInvalidConfig, c.PeriodFrames)
	case c.ChunkFrames <= 0:
		return fmt.Errorf("%w: chunk frames must be positive, got %d", ErrInvalidConfig, c.ChunkFrames)
	case c.ChannelBytes < 0:
		return fmt.Errorf("%w: channel bytes must not be negative, got %d", ErrInvalidConfig, c.ChannelBytes)
	case c.IdleDelay < 0:
		return fmt.Errorf("%w: idle delay must not be negative, got %v", ErrInvalidConfig, c.IdleDelay)
	}
	return nil
}

// Period is the playback duration of one mixer pass.
func (c *Config) Period() time.Duration {
	return time.Duration(c.PeriodFrames) * time.Second / SampleRate
}

func (c *Config) chunkBytes() int { return c.ChunkFrames * BytesPerFrame }

func (c *Config) channelChunks() int {
	return max(c.ChannelBytes/c.chunkBytes(), 1)
}

func (c *Config) logger() slog.Logger {
	if c.Log == nil {
		return slog.Disabled
	}
	return c.Log
}

func clampVolume(v int) int {
	return min(max(v, 0), 100)
}
