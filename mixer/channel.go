// SPDX-License-Identifier: EPL-2.0

package mixer

// byteChannel is the bounded PCM queue between one decoder (producer) and
// the mixer (consumer). send blocks while the queue is full; tryReceive
// never blocks. Consumed chunks are handed back to the producer through
// free so steady-state playback does not allocate.
type byteChannel struct {
	chunks    chan []byte
	free      chan []byte
	chunkSize int

	// consumer side
	cur []byte
	off int
}

func newByteChannel(chunks, chunkSize int) *byteChannel {
	return &byteChannel{
		chunks:    make(chan []byte, chunks),
		free:      make(chan []byte, chunks+1),
		chunkSize: chunkSize,
	}
}

// buffer returns an empty chunk for the producer to fill.
func (c *byteChannel) buffer() []byte {
	select {
	case b := <-c.free:
		return b[:c.chunkSize]
	default:
		return make([]byte, c.chunkSize)
	}
}

// send queues b, blocking while the channel is full. It reports false when
// quit is closed before b could be queued.
func (c *byteChannel) send(b []byte, quit <-chan struct{}) bool {
	select {
	case c.chunks <- b:
		return true
	case <-quit:
		return false
	}
}

// tryReceive copies up to len(dst) queued bytes into dst and returns how
// many were copied. Zero means the channel is empty.
func (c *byteChannel) tryReceive(dst []byte) int {
	n := 0
	for n < len(dst) {
		if c.off >= len(c.cur) {
			if c.cur != nil {
				c.recycle(c.cur)
				c.cur = nil
			}

			select {
			case b := <-c.chunks:
				c.cur, c.off = b, 0
			default:
				return n
			}
		}

		k := copy(dst[n:], c.cur[c.off:])
		c.off += k
		n += k
	}
	return n
}

func (c *byteChannel) recycle(b []byte) {
	select {
	case c.free <- b[:cap(b)]:
	default:
	}
}
