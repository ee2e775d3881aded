// SPDX-License-Identifier: EPL-2.0

package mixer

import (
	"sync"
	"testing"
	"time"

	"github.com/ik5/audmix/internal/audiotest"
)

const testTimeout = 5 * time.Second

type finishedLog struct {
	mu     sync.Mutex
	events []FinishedEvent
}

func (l *finishedLog) record(ev FinishedEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.events = append(l.events, ev)
}

func (l *finishedLog) all() []FinishedEvent {
	l.mu.Lock()
	defer l.mu.Unlock()

	return append([]FinishedEvent(nil), l.events...)
}

type rig struct {
	table    *Table
	mixer    *Mixer
	sink     *audiotest.RecordingSink
	finished *finishedLog
}

// newRig builds a table and mixer over a recording sink. The table is
// closed when the test ends.
func newRig(t *testing.T, tweak func(*Config)) *rig {
	t.Helper()

	r := &rig{sink: audiotest.NewRecordingSink(), finished: &finishedLog{}}

	cfg := DefaultConfig()
	cfg.IdleDelay = 0
	cfg.OnFinished = r.finished.record
	if tweak != nil {
		tweak(&cfg)
	}

	table, err := NewTable(cfg)
	if err != nil {
		t.Fatalf("NewTable() error = %v", err)
	}
	r.table = table
	r.mixer = NewMixer(table, r.sink)

	t.Cleanup(func() { table.Close() })
	return r
}

// passUntil runs mixer passes until cond holds.
func (r *rig) passUntil(t *testing.T, cond func() bool) {
	t.Helper()

	deadline := time.Now().Add(testTimeout)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not reached before timeout")
		}
		r.mixer.Pass()
		time.Sleep(100 * time.Microsecond)
	}
}

// waitFor polls cond without running the mixer.
func waitFor(t *testing.T, cond func() bool) {
	t.Helper()

	deadline := time.Now().Add(testTimeout)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not reached before timeout")
		}
		time.Sleep(100 * time.Microsecond)
	}
}

func (r *rig) gone(h Handle) func() bool {
	return func() bool {
		_, err := r.table.GetInfo(h)
		return err != nil
	}
}

func (r *rig) source(t *testing.T, h Handle) *source {
	t.Helper()

	r.table.mu.Lock()
	defer r.table.mu.Unlock()

	s, err := r.table.lookup(h)
	if err != nil {
		t.Fatalf("lookup(%d) error = %v", h, err)
	}
	return s
}

// drainChannel reads the source's channel until the decoder reported end
// of input and nothing is left, or until want bytes were collected when
// want is positive.
func (r *rig) drainChannel(t *testing.T, h Handle, want int) []byte {
	t.Helper()

	s := r.source(t, h)
	buf := make([]byte, 4096)
	var out []byte

	deadline := time.Now().Add(testTimeout)
	for want <= 0 || len(out) < want {
		if time.Now().After(deadline) {
			t.Fatalf("drained %d bytes before timeout", len(out))
		}

		n := s.ch.tryReceive(buf)
		out = append(out, buf[:n]...)
		if n > 0 {
			continue
		}

		r.table.mu.Lock()
		done := s.eof || s.err != nil
		r.table.mu.Unlock()
		if done && want <= 0 {
			if n := s.ch.tryReceive(buf); n > 0 {
				out = append(out, buf[:n]...)
				continue
			}
			return out
		}
		time.Sleep(100 * time.Microsecond)
	}
	return out
}
