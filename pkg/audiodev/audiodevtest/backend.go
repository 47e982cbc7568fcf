// ABOUTME: Scriptable in-memory audio driver for tests
// ABOUTME: Records every buffer handed to Play and can inject open and runtime failures
package audiodevtest

import (
	"sync"
	"time"

	"github.com/SDL-mirror/SDL-sub002/pkg/audio"
	"github.com/SDL-mirror/SDL-sub002/pkg/audio/output"
)

// Backend is a fake driver. Configure the exported fields before Open.
type Backend struct {
	// Adjust rewrites the spec during Open, standing in for hardware limits
	Adjust func(spec *audio.Spec)

	OpenErr       error
	ThreadInitErr error
	State         output.OpenState

	// FailPlayAt makes the Nth call to Play (1-based) return PlayErr
	FailPlayAt int
	PlayErr    error

	// NoBuffer makes Buffer return nil, forcing the fallback buffer
	NoBuffer bool

	// Period is how long Wait blocks, default one millisecond
	Period time.Duration

	mu       sync.Mutex
	buf      []byte
	played   [][]byte
	waits    int
	plays    int
	opens    int
	closes   int
	drains   int
	releases int
	signal   chan struct{}
}

// New creates a fake driver that opens whatever it is asked for
func New() *Backend {
	return &Backend{signal: make(chan struct{}, 1)}
}

// Bootstrap returns a registry entry that always hands out b
func Bootstrap(b *Backend) output.Bootstrap {
	return output.Bootstrap{
		Name:        "fake",
		Description: "in-memory test driver",
		Available:   func() bool { return true },
		Create:      func(int) (output.Backend, error) { return b, nil },
	}
}

// Registry returns a registry holding only b
func Registry(b *Backend) *output.Registry {
	return output.NewRegistry(Bootstrap(b))
}

func (b *Backend) Open(spec *audio.Spec) (output.OpenState, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.opens++
	if b.OpenErr != nil {
		return output.NotOpened, b.OpenErr
	}
	if b.Adjust != nil {
		b.Adjust(spec)
	}
	audio.CalculateSpec(spec)
	b.buf = make([]byte, spec.Size)

	if b.State == output.NotOpened {
		return output.FreshlyOpened, nil
	}
	return b.State, nil
}

func (b *Backend) ThreadInit() error {
	return b.ThreadInitErr
}

func (b *Backend) Wait() error {
	b.mu.Lock()
	b.waits++
	period := b.Period
	b.mu.Unlock()

	if period <= 0 {
		period = time.Millisecond
	}
	time.Sleep(period)
	return nil
}

func (b *Backend) Buffer() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.NoBuffer {
		return nil
	}
	return b.buf
}

func (b *Backend) Play() error {
	b.mu.Lock()
	b.plays++
	if b.FailPlayAt > 0 && b.plays == b.FailPlayAt {
		b.mu.Unlock()
		return b.PlayErr
	}
	b.played = append(b.played, append([]byte(nil), b.buf...))
	b.mu.Unlock()

	select {
	case b.signal <- struct{}{}:
	default:
	}
	return nil
}

func (b *Backend) WaitDone() {
	b.mu.Lock()
	b.drains++
	b.mu.Unlock()
}

func (b *Backend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.buf != nil {
		b.closes++
		b.buf = nil
	}
	return nil
}

func (b *Backend) Release() {
	b.mu.Lock()
	b.releases++
	b.mu.Unlock()
}

// Releases returns how many times Release ran
func (b *Backend) Releases() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.releases
}

// Played returns copies of every buffer passed to Play
func (b *Backend) Played() [][]byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([][]byte(nil), b.played...)
}

// Counts returns how many times Wait, Play, Open, Close (of an open
// device) and WaitDone ran
func (b *Backend) Counts() (waits, plays, opens, closes, drains int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.waits, b.plays, b.opens, b.closes, b.drains
}

// WaitForPlays blocks until at least n buffers were played or timeout
// expires
func (b *Backend) WaitForPlays(n int, timeout time.Duration) bool {
	deadline := time.After(timeout)
	for {
		b.mu.Lock()
		got := len(b.played)
		b.mu.Unlock()
		if got >= n {
			return true
		}
		select {
		case <-b.signal:
		case <-deadline:
			return false
		case <-time.After(time.Millisecond):
		}
	}
}
