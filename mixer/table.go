// SPDX-License-Identifier: EPL-2.0

package mixer

import (
	"errors"
	"slices"
	"sync"

	"github.com/decred/slog"

	"github.com/ik5/audmix/audio"
	"github.com/ik5/audmix/formats/aiff"
)

// Table is the fixed-capacity set of playback sources plus the master
// volume. It is the only state shared between the control API, the decoder
// workers and the mixer. All methods are safe for concurrent use and none
// of them block on I/O.
type Table struct {
	cfg      Config
	log      slog.Logger
	decoders *audio.Registry

	mu     sync.Mutex
	slots  []*source // nil slot is Idle
	master int
	closed bool

	wg sync.WaitGroup
}

func NewTable(cfg Config) (*Table, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	decoders := audio.NewRegistry()
	decoders.Register("aiff", aiff.Decoder{})
	decoders.Register("aif", aiff.Decoder{})

	return &Table{
		cfg:      cfg,
		log:      cfg.logger(),
		decoders: decoders,
		slots:    make([]*source, cfg.Capacity),
		master:   clampVolume(cfg.MasterVolume),
	}, nil
}

// Capacity is the number of slots.
func (t *Table) Capacity() int { return len(t.slots) }

// CreateSource starts playing the WAV or AIFF file at path. With interrupt
// set, every other source is stopped first.
func (t *Table) CreateSource(path string, volume int, loop, interrupt bool) (Handle, error) {
	return t.Create(File(path), volume, loop, interrupt)
}

// CreateSourceFromMemory starts playing an in-memory WAV container. data
// must stay unmodified while the source is alive.
func (t *Table) CreateSourceFromMemory(data []byte, volume int, loop, interrupt bool) (Handle, error) {
	return t.Create(Memory(data), volume, loop, interrupt)
}

// Create allocates a slot for origin, marks it Playing and spawns its
// decoder. It never waits for a slot to free up.
func (t *Table) Create(origin Origin, volume int, loop, interrupt bool) (Handle, error) {
	return t.CreateTagged(origin, Tag{}, volume, loop, interrupt)
}

// CreateTagged is Create with tag attached before the decoder starts, so
// the tag is visible even if the source finishes right away.
func (t *Table) CreateTagged(origin Origin, tag Tag, volume int, loop, interrupt bool) (Handle, error) {
	if !origin.valid() {
		return InvalidHandle, ErrInvalidOrigin
	}

	s, err := t.allocate(origin, tag, volume, loop, interrupt)
	if err != nil {
		if errors.Is(err, ErrTableFull) {
			t.log.Warnf("No free source slots (capacity %d)", len(t.slots))
		}
		return InvalidHandle, err
	}

	t.log.Infof("Created source %d: %v vol=%d%% loop=%v", s.handle, origin, s.volume, loop)
	return s.handle, nil
}

// allocate claims a slot and spawns the decoder. Logging is left to the
// caller so nothing writes while t.mu is held.
func (t *Table) allocate(origin Origin, tag Tag, volume int, loop, interrupt bool) (*source, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return nil, ErrClosed
	}

	if interrupt {
		t.stopAllLocked()
	}

	slot := slices.Index(t.slots, nil)
	if slot < 0 {
		return nil, ErrTableFull
	}

	s := &source{
		handle: Handle(slot),
		state:  Playing,
		origin: origin,
		volume: clampVolume(volume),
		loop:   loop,
		tag:    tag,
		ch:     newByteChannel(t.cfg.channelChunks(), t.cfg.chunkBytes()),
		quit:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	t.slots[slot] = s

	t.wg.Add(1)
	go t.decode(s)

	return s, nil
}

// lookup returns the source bound to h. Caller holds t.mu.
func (t *Table) lookup(h Handle) (*source, error) {
	if h < 0 || int(h) >= len(t.slots) || t.slots[h] == nil {
		return nil, ErrNotFound
	}
	return t.slots[h], nil
}

// Stop requests a Playing or Paused source to stop. Stopping an already
// stopping source is a no-op.
func (t *Table) Stop(h Handle) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	s, err := t.lookup(h)
	if err != nil {
		return err
	}
	s.requestStop()
	return nil
}

func (t *Table) StopAll() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stopAllLocked()
}

func (t *Table) stopAllLocked() {
	for _, s := range t.slots {
		if s != nil {
			s.requestStop()
		}
	}
}

// Pause moves a Playing source to Paused. Other states are left alone.
func (t *Table) Pause(h Handle) error {
	return t.transition(h, Playing, Paused)
}

// Resume moves a Paused source back to Playing. Other states are left
// alone.
func (t *Table) Resume(h Handle) error {
	return t.transition(h, Paused, Playing)
}

func (t *Table) transition(h Handle, from, to State) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	s, err := t.lookup(h)
	if err != nil {
		return err
	}
	if s.state == from {
		s.state = to
	}
	return nil
}

// SetVolume clamps v to 0..100 and applies it from the next mixer pass.
func (t *Table) SetVolume(h Handle, v int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	s, err := t.lookup(h)
	if err != nil {
		return err
	}
	s.volume = clampVolume(v)
	return nil
}

func (t *Table) SetMasterVolume(v int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.master = clampVolume(v)
}

func (t *Table) MasterVolume() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.master
}

// ActiveCount is the number of Playing sources.
func (t *Table) ActiveCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	n := 0
	for _, s := range t.slots {
		if s != nil && s.state == Playing {
			n++
		}
	}
	return n
}

func (t *Table) IsPlaying(h Handle) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	s, err := t.lookup(h)
	return err == nil && s.state == Playing
}

func (t *Table) GetInfo(h Handle) (Info, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	s, err := t.lookup(h)
	if err != nil {
		return Info{}, err
	}
	return s.info(), nil
}

// Snapshot returns the info of every occupied slot in handle order.
func (t *Table) Snapshot() []Info {
	t.mu.Lock()
	defer t.mu.Unlock()

	var out []Info
	for _, s := range t.slots {
		if s != nil {
			out = append(out, s.info())
		}
	}
	return out
}

// SetTag attaches bus correlation data to a source.
func (t *Table) SetTag(h Handle, tag Tag) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	s, err := t.lookup(h)
	if err != nil {
		return err
	}
	s.tag = tag
	return nil
}

// HandleByQueueID returns the lowest handle tagged with id that has not
// finished yet.
func (t *Table) HandleByQueueID(id uint8) (Handle, error) {
	if id == 0 {
		return InvalidHandle, ErrNotFound
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	for _, s := range t.slots {
		if s != nil && s.tag.QueueID == id && s.state != Stopped {
			return s.handle, nil
		}
	}
	return InvalidHandle, ErrNotFound
}

// StopByQueueID stops every source tagged with id and reports how many
// were affected.
func (t *Table) StopByQueueID(id uint8) int {
	if id == 0 {
		return 0
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	n := 0
	for _, s := range t.slots {
		if s != nil && s.tag.QueueID == id && (s.state == Playing || s.state == Paused) {
			s.requestStop()
			n++
		}
	}
	return n
}

// Close stops every source and waits for all decoders to exit. Later
// create calls fail with ErrClosed. Slots are still reclaimed by the mixer.
func (t *Table) Close() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return ErrClosed
	}
	t.closed = true
	t.stopAllLocked()
	t.mu.Unlock()

	t.wg.Wait()
	return nil
}
