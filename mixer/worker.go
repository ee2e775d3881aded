// SPDX-License-Identifier: EPL-2.0

package mixer

import (
	"context"
	"encoding/binary"
	"sync/atomic"
	"time"

	"github.com/decred/slog"

	"github.com/ik5/audmix/utils"
)

// Stats are cumulative mixer counters.
type Stats struct {
	Passes     uint64
	Underruns  uint64 // Playing sources that had no data for a pass
	SinkErrors uint64
}

type mixEntry struct {
	s    *source
	gain int32
	eof  bool
}

// Mixer combines the Playing sources of a Table into one stereo stream and
// writes it to a Sink once per period. Pass and Run must not be called
// concurrently.
type Mixer struct {
	table      *Table
	sink       Sink
	log        slog.Logger
	idleDelay  time.Duration
	onFinished func(FinishedEvent)

	acc      []int16
	raw      []byte
	active   []mixEntry
	drained  []*source
	finished []FinishedEvent

	failStreak int
	passes     atomic.Uint64
	underruns  atomic.Uint64
	sinkErrors atomic.Uint64
}

func NewMixer(t *Table, sink Sink) *Mixer {
	frames := t.cfg.PeriodFrames
	return &Mixer{
		table:      t,
		sink:       sink,
		log:        t.log,
		idleDelay:  t.cfg.IdleDelay,
		onFinished: t.cfg.OnFinished,
		acc:        make([]int16, frames*Channels),
		raw:        make([]byte, frames*BytesPerFrame),
		active:     make([]mixEntry, 0, len(t.slots)),
		drained:    make([]*source, 0, len(t.slots)),
	}
}

// Pass runs one mixer period: reclaim finished slots, mix every Playing
// source that has a format, and write the period to the sink. It returns
// the number of Playing sources seen.
func (m *Mixer) Pass() int {
	clear(m.acc)
	m.active = m.active[:0]
	m.drained = m.drained[:0]
	m.finished = m.finished[:0]

	playing := m.scan()

	for _, e := range m.active {
		n := e.s.ch.tryReceive(m.raw)
		if n == 0 {
			if e.eof {
				m.drained = append(m.drained, e.s)
			} else {
				m.underruns.Add(1)
			}
			continue
		}

		for i := range n / 2 {
			v := int16(binary.LittleEndian.Uint16(m.raw[2*i:]))
			m.acc[i] = utils.SaturatingAdd16(m.acc[i], utils.ApplyGain(v, e.gain))
		}
	}

	if len(m.drained) > 0 {
		m.table.mu.Lock()
		for _, s := range m.drained {
			if s.state == Playing {
				s.state = Stopped
			}
		}
		m.table.mu.Unlock()
	}

	m.write()
	m.passes.Add(1)

	for _, ev := range m.finished {
		m.log.Debugf("Reclaimed source %d", ev.Handle)
	}
	if m.onFinished != nil {
		for _, ev := range m.finished {
			m.onFinished(ev)
		}
	}

	return playing
}

// scan walks the slots under the table lock and must not log. It reclaims
// Stopped slots whose decoder has returned, settles Stopping slots whose
// decoder already exited, and collects the sources to mix.
func (m *Mixer) scan() int {
	t := m.table
	t.mu.Lock()
	defer t.mu.Unlock()

	playing := 0
	for i, s := range t.slots {
		if s == nil {
			continue
		}

		switch s.state {
		case Stopped:
			if s.workerDone() {
				t.slots[i] = nil
				m.finished = append(m.finished, s.finishedEvent())
			}

		case Stopping:
			if s.workerDone() {
				s.state = Stopped
			}

		case Playing:
			playing++
			if s.format != nil {
				m.active = append(m.active, mixEntry{
					s:    s,
					gain: int32(s.volume * t.master),
					eof:  s.eof,
				})
			}
		}
	}
	return playing
}

func (m *Mixer) write() {
	_, err := m.sink.WriteFrames(m.acc)
	if err != nil {
		m.sinkErrors.Add(1)
		if m.failStreak == 0 {
			m.log.Warnf("Sink write failed: %v", err)
		}
		m.failStreak++
		return
	}

	if m.failStreak > 0 {
		m.log.Infof("Sink recovered after %d failed writes", m.failStreak)
		m.failStreak = 0
	}
}

// Run calls Pass until ctx is done. After a pass with nothing playing it
// waits IdleDelay before the next one.
func (m *Mixer) Run(ctx context.Context) error {
	m.log.Infof("Mixer running: %d Hz, %d frames per period", SampleRate, len(m.acc)/Channels)

	idle := time.NewTimer(m.idleDelay)
	defer idle.Stop()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		if m.Pass() > 0 || m.idleDelay <= 0 {
			continue
		}

		idle.Reset(m.idleDelay)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-idle.C:
		}
	}
}

func (m *Mixer) Stats() Stats {
	return Stats{
		Passes:     m.passes.Load(),
		Underruns:  m.underruns.Load(),
		SinkErrors: m.sinkErrors.Load(),
	}
}
