// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"slices"
	"sync"
)

// RecordingSink stores every period written to it. It satisfies
// mixer.Sink.
type RecordingSink struct {
	mu      sync.Mutex
	periods [][]int16
	err     error
	onWrite func(n int)
}

func NewRecordingSink() *RecordingSink {
	return &RecordingSink{}
}

// FailWith makes later writes return err. A nil err restores success.
func (s *RecordingSink) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.err = err
}

// OnWrite registers fn to run after each successful write with the total
// number of writes so far.
func (s *RecordingSink) OnWrite(fn func(n int)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.onWrite = fn
}

func (s *RecordingSink) WriteFrames(frames []int16) (int, error) {
	s.mu.Lock()
	if s.err != nil {
		err := s.err
		s.mu.Unlock()
		return 0, err
	}
	s.periods = append(s.periods, slices.Clone(frames))
	n, fn := len(s.periods), s.onWrite
	s.mu.Unlock()

	if fn != nil {
		fn(n)
	}
	return len(frames) / 2, nil
}

// Writes is the number of successful writes.
func (s *RecordingSink) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.periods)
}

// Last returns the most recent period, or nil.
func (s *RecordingSink) Last() []int16 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.periods) == 0 {
		return nil
	}
	return s.periods[len(s.periods)-1]
}

// Periods returns every recorded period in write order.
func (s *RecordingSink) Periods() [][]int16 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Clone(s.periods)
}

// Samples concatenates every recorded period.
func (s *RecordingSink) Samples() []int16 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Concat(s.periods...)
}
