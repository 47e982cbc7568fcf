// ABOUTME: Slot ring bridging the push-style mixing loop to pull-style device callbacks
// ABOUTME: Fixed set of equal-size byte slots cycling between producer and consumer
package output

import (
	"sync"
	"sync/atomic"
	"time"
)

// SlotRing hands whole buffers from one producer (the mixing loop) to one
// consumer (a device callback or io.Reader). Once Wait returns the producer
// owns exactly one slot until it calls Commit. The consumer never blocks: it
// reads silence when no slot is filled.
type SlotRing struct {
	slots   [][]byte
	free    chan int
	filled  chan int
	silence byte

	// producer side, touched only by the mixing loop
	current int

	// consumer side
	mu        sync.Mutex
	reading   int // slot being drained, -1 if none
	readPos   int
	underruns atomic.Int64

	closeOnce sync.Once
	closed    chan struct{}
}

// NewSlotRing creates a ring of depth slots of size bytes. Depth is at
// least two so the consumer can drain one slot while the producer fills
// another.
func NewSlotRing(depth, size int, silence byte) *SlotRing {
	if depth < 2 {
		depth = 2
	}

	r := &SlotRing{
		slots:   make([][]byte, depth),
		free:    make(chan int, depth),
		filled:  make(chan int, depth),
		silence: silence,
		current: -1,
		reading: -1,
		closed:  make(chan struct{}),
	}
	for i := range r.slots {
		r.slots[i] = make([]byte, size)
		r.free <- i
	}
	return r
}

// Wait blocks until the producer owns a free slot
func (r *SlotRing) Wait() error {
	if r.current >= 0 {
		return nil
	}
	select {
	case idx := <-r.free:
		r.current = idx
		return nil
	case <-r.closed:
		return ErrRingClosed
	}
}

// Buffer returns the producer's slot, or nil if Wait has not handed one out
func (r *SlotRing) Buffer() []byte {
	if r.current < 0 {
		return nil
	}
	return r.slots[r.current]
}

// Commit queues the producer's slot for the consumer
func (r *SlotRing) Commit() error {
	if r.current < 0 {
		return nil
	}
	select {
	case r.filled <- r.current:
		r.current = -1
		return nil
	case <-r.closed:
		return ErrRingClosed
	}
}

// Read implements io.Reader for the consumer. It always fills p, using
// silence where no committed audio is available.
func (r *SlotRing) Read(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	written := 0
	for written < len(p) {
		if r.reading < 0 {
			select {
			case idx := <-r.filled:
				r.reading = idx
				r.readPos = 0
			default:
				// Underrun: pad with silence
				for i := written; i < len(p); i++ {
					p[i] = r.silence
				}
				r.underruns.Add(1)
				return len(p), nil
			}
		}

		slot := r.slots[r.reading]
		n := copy(p[written:], slot[r.readPos:])
		written += n
		r.readPos += n

		if r.readPos >= len(slot) {
			r.free <- r.reading
			r.reading = -1
		}
	}

	return written, nil
}

// Pending returns the number of committed slots not yet fully read
func (r *SlotRing) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := len(r.filled)
	if r.reading >= 0 {
		n++
	}
	return n
}

// Underruns returns how many reads found no committed audio
func (r *SlotRing) Underruns() int64 {
	return r.underruns.Load()
}

// Drain waits until every committed slot has been read or timeout expires
func (r *SlotRing) Drain(timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for r.Pending() > 0 {
		if time.Now().After(deadline) {
			return false
		}
		select {
		case <-r.closed:
			return false
		case <-time.After(time.Millisecond):
		}
	}
	return true
}

// Close wakes a blocked producer. Reads keep returning silence.
func (r *SlotRing) Close() {
	r.closeOnce.Do(func() {
		close(r.closed)
	})
}
