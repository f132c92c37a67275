package spectate

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type board struct {
	Tick  int      `json:"tick"`
	Board []string `json:"board"`
}

func decode(t *testing.T, raw []byte) (Frame, board) {
	t.Helper()
	var f Frame
	require.NoError(t, json.Unmarshal(raw, &f))
	var b board
	require.NoError(t, json.Unmarshal(f.State, &b))
	return f, b
}

func TestPublishFansOut(t *testing.T) {
	h := NewHub(4)
	_, a := h.Subscribe()
	_, b := h.Subscribe()

	require.NoError(t, h.Publish("ann", board{Tick: 1, Board: []string{"..#"}}))

	for _, ch := range []<-chan []byte{a, b} {
		f, st := decode(t, <-ch)
		assert.Equal(t, "ann", f.Source)
		assert.Equal(t, 1, st.Tick)
		assert.Equal(t, []string{"..#"}, st.Board)
	}
	assert.Equal(t, 2, h.Subscribers())
}

func TestSlowSubscriberDropsFrames(t *testing.T) {
	h := NewHub(1)
	_, ch := h.Subscribe()

	for i := range 3 {
		require.NoError(t, h.Publish("ann", board{Tick: i}))
	}

	_, st := decode(t, <-ch)
	assert.Equal(t, 0, st.Tick, "the queued frame is kept")
	assert.Len(t, ch, 0)
	assert.Equal(t, uint64(2), h.Dropped())

	latest, ok := h.Latest("ann")
	require.True(t, ok)
	_, st = decode(t, latest)
	assert.Equal(t, 2, st.Tick, "latest always tracks the newest frame")
}

func TestSubscribeReplaysLatest(t *testing.T) {
	h := NewHub(4)
	require.NoError(t, h.Publish("bob", board{Tick: 7}))
	require.NoError(t, h.Publish("ann", board{Tick: 3}))

	_, ch := h.Subscribe()
	require.Len(t, ch, 2)

	first, _ := decode(t, <-ch)
	second, _ := decode(t, <-ch)
	assert.Equal(t, "ann", first.Source)
	assert.Equal(t, "bob", second.Source)
	assert.Equal(t, []string{"ann", "bob"}, h.Sources())
}

func TestRetireForgetsSource(t *testing.T) {
	h := NewHub(4)
	require.NoError(t, h.Publish("ann", board{Tick: 1}))

	h.Retire("ann")

	_, ok := h.Latest("ann")
	assert.False(t, ok)
	assert.Empty(t, h.Snapshot())
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	h := NewHub(4)
	id, ch := h.Subscribe()

	h.Unsubscribe(id)
	h.Unsubscribe(id)

	_, open := <-ch
	assert.False(t, open)
	assert.Zero(t, h.Subscribers())
}

func TestCloseDisconnectsEveryone(t *testing.T) {
	h := NewHub(4)
	id, a := h.Subscribe()
	_, b := h.Subscribe()

	h.Close()

	for _, ch := range []<-chan []byte{a, b} {
		_, open := <-ch
		assert.False(t, open)
	}
	assert.Zero(t, h.Subscribers())
	h.Unsubscribe(id)

	require.NoError(t, h.Publish("ann", board{}))
	_, late := h.Subscribe()
	_, open := <-late
	assert.False(t, open, "subscribing to a closed hub yields a closed channel")
}

func TestPublishRejectsUnencodable(t *testing.T) {
	h := NewHub(1)
	err := h.Publish("ann", make(chan int))
	assert.Error(t, err)
	assert.Empty(t, h.Sources())
}
