// SPDX-License-Identifier: EPL-2.0

package sink

import (
	"io"
	"time"

	"github.com/ik5/audmix/mixer"
)

// maxLag is how far behind the wall clock a Paced sink may fall before it
// stops trying to catch up.
const maxLag = 200 * time.Millisecond

// Paced blocks each write until the wall clock reaches the playback time
// of the frames written so far, so a sink that never blocks still runs the
// mixer at 44.1kHz. Deadlines accumulate from the first write and do not
// drift with scheduling jitter.
type Paced struct {
	next mixer.Sink

	start  time.Time
	frames int64

	now   func() time.Time
	sleep func(time.Duration)
}

func NewPaced(next mixer.Sink) *Paced {
	return &Paced{next: next, now: time.Now, sleep: time.Sleep}
}

func (p *Paced) WriteFrames(frames []int16) (int, error) {
	n, err := p.next.WriteFrames(frames)
	if err != nil {
		return n, err
	}

	now := p.now()
	if p.start.IsZero() {
		p.start = now
	}
	p.frames += int64(len(frames) / mixer.Channels)

	deadline := p.start.Add(framesDuration(p.frames))
	switch wait := deadline.Sub(now); {
	case wait > 0:
		p.sleep(wait)
	case -wait > maxLag:
		// Fell too far behind; restart the clock here.
		p.start, p.frames = now, 0
	}

	return n, nil
}

// Close closes the wrapped sink when it has a Close method.
func (p *Paced) Close() error {
	if c, ok := p.next.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func framesDuration(frames int64) time.Duration {
	return time.Duration(frames) * time.Second / mixer.SampleRate
}
