// SPDX-License-Identifier: EPL-2.0

package mixer

import (
	"fmt"
	"time"

	"github.com/ik5/audmix/formats/wav"
)

// Handle identifies a slot in the source table.
type Handle int

const InvalidHandle Handle = -1

type State int

const (
	Idle State = iota
	Playing
	Paused
	Stopping
	Stopped
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	case Stopping:
		return "stopping"
	case Stopped:
		return "stopped"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

type OriginKind int

const (
	FileOrigin OriginKind = iota + 1
	MemoryOrigin
)

// Origin says where a source reads its container from. Exactly one of Path
// and Data is meaningful, selected by Kind.
type Origin struct {
	Kind OriginKind
	Path string
	Data []byte
}

func File(path string) Origin   { return Origin{Kind: FileOrigin, Path: path} }
func Memory(data []byte) Origin { return Origin{Kind: MemoryOrigin, Data: data} }

func (o Origin) IsFile() bool   { return o.Kind == FileOrigin }
func (o Origin) IsMemory() bool { return o.Kind == MemoryOrigin }

func (o Origin) valid() bool {
	return (o.IsFile() && o.Path != "") || (o.IsMemory() && len(o.Data) > 0)
}

func (o Origin) String() string {
	switch o.Kind {
	case FileOrigin:
		return o.Path
	case MemoryOrigin:
		return fmt.Sprintf("memory(%d bytes)", len(o.Data))
	}
	return "none"
}

// Format is the stream layout a decoder found in the container. DataOffset
// and DataSize are zero for containers other than WAV.
type Format struct {
	SampleRate    int
	Channels      int
	BitsPerSample int
	DataOffset    int64
	DataSize      int64
}

func formatFromWAV(info *wav.Info) *Format {
	return &Format{
		SampleRate:    info.SampleRate,
		Channels:      info.Channels,
		BitsPerSample: info.BitsPerSample,
		DataOffset:    info.DataOffset,
		DataSize:      info.DataSize,
	}
}

// Duration is the playback length of the PCM region, or zero when unknown.
func (f *Format) Duration() time.Duration {
	frameBytes := int64(f.Channels * f.BitsPerSample / 8)
	if frameBytes <= 0 || f.SampleRate <= 0 {
		return 0
	}
	return time.Duration(f.DataSize/frameBytes) * time.Second / time.Duration(f.SampleRate)
}

func (f *Format) String() string {
	return fmt.Sprintf("%dHz %dch %dbit", f.SampleRate, f.Channels, f.BitsPerSample)
}

// Tag correlates a source with the bus request that created it. A zero
// QueueID means untagged.
type Tag struct {
	QueueID    uint8
	SoundIndex uint16
}

// Info is a snapshot of one source.
type Info struct {
	Handle Handle
	State  State
	Origin Origin
	Volume int
	Loop   bool
	// Format is nil until the decoder has parsed the header.
	Format *Format
	EOF    bool
	Tag    Tag
	Err    error
}

type FinishReason int

const (
	// Completed means the input ran out and the source did not loop.
	Completed FinishReason = iota
	// StoppedByRequest covers stop, stop-all, interrupt and shutdown.
	StoppedByRequest
	// Failed means the decoder could not open, parse or read the input.
	Failed
)

func (r FinishReason) String() string {
	switch r {
	case Completed:
		return "completed"
	case StoppedByRequest:
		return "stopped"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("FinishReason(%d)", int(r))
}

// FinishedEvent reports a slot reclaimed by the mixer.
type FinishedEvent struct {
	Handle Handle
	Origin Origin
	Tag    Tag
	Reason FinishReason
	Err    error
}

// source is the record bound to an occupied slot. Fields other than ch,
// quit and done are guarded by the table mutex.
type source struct {
	handle Handle
	state  State
	origin Origin
	volume int
	loop   bool
	tag    Tag
	format *Format
	eof    bool
	err    error

	stopRequested bool

	ch   *byteChannel
	quit chan struct{} // closed once, when a stop is requested
	done chan struct{} // closed when the decoder goroutine returns
}

// requestStop moves a Playing or Paused source to Stopping and wakes its
// decoder. Caller holds the table lock.
func (s *source) requestStop() {
	if s.state != Playing && s.state != Paused {
		return
	}
	s.state = Stopping
	if !s.stopRequested {
		s.stopRequested = true
		close(s.quit)
	}
}

func (s *source) workerDone() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

func (s *source) info() Info {
	return Info{
		Handle: s.handle,
		State:  s.state,
		Origin: s.origin,
		Volume: s.volume,
		Loop:   s.loop,
		Format: s.format,
		EOF:    s.eof,
		Tag:    s.tag,
		Err:    s.err,
	}
}

func (s *source) finishedEvent() FinishedEvent {
	reason := Completed
	switch {
	case s.err != nil:
		reason = Failed
	case s.stopRequested:
		reason = StoppedByRequest
	}
	return FinishedEvent{
		Handle: s.handle,
		Origin: s.origin,
		Tag:    s.tag,
		Reason: reason,
		Err:    s.err,
	}
}
