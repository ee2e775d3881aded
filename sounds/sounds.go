// SPDX-License-Identifier: EPL-2.0

package sounds

import (
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/ik5/audmix/formats/wav"
)

// Sound is one embedded WAV container.
type Sound struct {
	ID   uint16
	Name string
	Data []byte
}

func (s Sound) String() string {
	return fmt.Sprintf("%05d %s (%d bytes)", s.ID, s.Name, len(s.Data))
}

// Bank maps sound IDs to embedded containers. It is read-only after
// construction and safe for concurrent use.
type Bank struct {
	sounds map[uint16]Sound
}

// NewBank checks that every sound has a parseable WAV header and a unique
// ID.
func NewBank(sounds ...Sound) (*Bank, error) {
	b := &Bank{sounds: make(map[uint16]Sound, len(sounds))}
	for _, s := range sounds {
		if _, dup := b.sounds[s.ID]; dup {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateID, s.ID)
		}
		if _, err := wav.ParseBytes(s.Data); err != nil {
			return nil, fmt.Errorf("sound %d (%s): %w", s.ID, s.Name, err)
		}
		b.sounds[s.ID] = s
	}
	return b, nil
}

func (b *Bank) Lookup(id uint16) (Sound, bool) {
	s, ok := b.sounds[id]
	return s, ok
}

// List returns every sound ordered by ID.
func (b *Bank) List() []Sound {
	ids := slices.Sorted(maps.Keys(b.sounds))
	out := make([]Sound, len(ids))
	for i, id := range ids {
		out[i] = b.sounds[id]
	}
	return out
}

func (b *Bank) Len() int { return len(b.sounds) }

// Default is the built-in bank of test tones, generated on first use.
var Default = sync.OnceValue(func() *Bank {
	b, err := NewBank(
		Sound{ID: 10000, Name: "test_tone_440hz_1s", Data: Tone(440, 1)},
		Sound{ID: 10001, Name: "test_tone_880hz_2s", Data: Tone(880, 2)},
		Sound{ID: 10002, Name: "test_tone_220hz_5s", Data: Tone(220, 5)},
	)
	if err != nil {
		panic(err)
	}
	return b
})
