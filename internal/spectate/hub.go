// Package spectate streams read-only game snapshots to spectators over
// HTTP and websockets. Games never see spectators: the game loop publishes
// a copy of its state after each step and the hub fans it out.
package spectate

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/kamstrup/intmap"
)

// DefaultBuffer is the number of frames queued per subscriber before new
// frames are dropped for it.
const DefaultBuffer = 16

// Frame is one published state, tagged with the game it came from.
type Frame struct {
	Source string          `json:"source"`
	State  json.RawMessage `json:"state"`
}

// Hub fans published frames out to subscribers. A subscriber that falls
// behind loses frames instead of slowing the publisher down.
type Hub struct {
	mu     sync.Mutex
	nextID uint64
	subs   *intmap.Map[uint64, chan []byte]
	latest map[string][]byte
	buffer int
	closed bool

	dropped atomic.Uint64
}

// NewHub creates a hub with the given per-subscriber buffer.
// A non-positive buffer uses DefaultBuffer.
func NewHub(buffer int) *Hub {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	return &Hub{
		subs:   intmap.New[uint64, chan []byte](8),
		latest: make(map[string][]byte),
		buffer: buffer,
	}
}

// Publish encodes v once and queues it for every subscriber.
// The frame also becomes the latest state of source.
func (h *Hub) Publish(source string, v any) error {
	state, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("spectate: cannot encode state: %w", err)
	}
	frame, err := json.Marshal(Frame{Source: source, State: state})
	if err != nil {
		return fmt.Errorf("spectate: cannot encode frame: %w", err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil
	}

	h.latest[source] = frame
	h.subs.ForEach(func(_ uint64, ch chan []byte) bool {
		select {
		case ch <- frame:
		default:
			h.dropped.Add(1)
		}
		return true
	})
	return nil
}

// Retire forgets the latest frame of source, e.g. when its session ends.
func (h *Hub) Retire(source string) {
	h.mu.Lock()
	delete(h.latest, source)
	h.mu.Unlock()
}

// Subscribe registers a new subscriber. The channel first receives the
// latest frame of every live source and is closed by Unsubscribe or Close.
func (h *Hub) Subscribe() (uint64, <-chan []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan []byte, h.buffer)
	if h.closed {
		close(ch)
		return 0, ch
	}

	for _, source := range h.sourcesLocked() {
		select {
		case ch <- h.latest[source]:
		default:
			h.dropped.Add(1)
		}
	}

	h.nextID++
	id := h.nextID
	h.subs.Put(id, ch)
	return id, ch
}

// Unsubscribe removes a subscriber and closes its channel.
// Unknown ids are ignored.
func (h *Hub) Unsubscribe(id uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if ch, ok := h.subs.Get(id); ok {
		h.subs.Del(id)
		close(ch)
	}
}

// Close disconnects every subscriber. Later publishes are discarded.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true

	var ids []uint64
	h.subs.ForEach(func(id uint64, ch chan []byte) bool {
		close(ch)
		ids = append(ids, id)
		return true
	})
	for _, id := range ids {
		h.subs.Del(id)
	}
}

// Latest returns the most recent frame of source.
func (h *Hub) Latest(source string) ([]byte, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	frame, ok := h.latest[source]
	return frame, ok
}

// Snapshot returns the latest frame of every source, ordered by source.
func (h *Hub) Snapshot() [][]byte {
	h.mu.Lock()
	defer h.mu.Unlock()

	sources := h.sourcesLocked()
	frames := make([][]byte, 0, len(sources))
	for _, s := range sources {
		frames = append(frames, h.latest[s])
	}
	return frames
}

// Sources returns the sources that have published, sorted.
func (h *Hub) Sources() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.sourcesLocked()
}

func (h *Hub) sourcesLocked() []string {
	sources := make([]string, 0, len(h.latest))
	for s := range h.latest {
		sources = append(sources, s)
	}
	sort.Strings(sources)
	return sources
}

// Subscribers returns the number of connected subscribers.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.subs.Len()
}

// Dropped returns how many frames were discarded for slow subscribers.
func (h *Hub) Dropped() uint64 {
	return h.dropped.Load()
}
