package rmp

import (
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInboundQueue_FIFOOrder(t *testing.T) {
	t.Parallel()
	q := newInboundQueue()

	for _, b := range []byte("abc") {
		q.push(inboundEntry{payload: []byte{b}})
	}

	for _, want := range []byte("abc") {
		entry, err := q.popFront()
		require.NoError(t, err)
		assert.Equal(t, []byte{want}, entry.payload)
	}
}

func TestInboundQueue_PopBlocksUntilPush(t *testing.T) {
	t.Parallel()
	q := newInboundQueue()

	done := make(chan inboundEntry, 1)
	go func() {
		entry, err := q.popFront()
		require.NoError(t, err)
		done <- entry
	}()

	select {
	case <-done:
		t.Fatal("popFront returned before any push")
	case <-time.After(50 * time.Millisecond):
	}

	peer := &net.UDPAddr{Port: 1}
	q.push(inboundEntry{payload: []byte("x"), peer: peer})

	select {
	case entry := <-done:
		assert.Equal(t, []byte("x"), entry.payload)
		assert.Equal(t, peer, entry.peer)
	case <-time.After(time.Second):
		t.Fatal("popFront did not return after push")
	}
}

func TestInboundQueue_CloseWakesBlockedPop(t *testing.T) {
	t.Parallel()
	q := newInboundQueue()

	errCh := make(chan error, 1)
	go func() {
		_, err := q.popFront()
		errCh <- err
	}()

	time.Sleep(20 * time.Millisecond)
	q.close()

	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, ErrClosed)
	case <-time.After(time.Second):
		t.Fatal("popFront did not wake on close")
	}
}

func TestInboundQueue_PushAfterCloseIsDiscarded(t *testing.T) {
	t.Parallel()
	q := newInboundQueue()
	q.close()
	q.push(inboundEntry{payload: []byte("x")})
	assert.Equal(t, 0, q.len())
}

func TestInboundQueue_ConcurrentPushPop(t *testing.T) {
	t.Parallel()
	q := newInboundQueue()

	const n = 500
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < n; i++ {
			q.push(inboundEntry{payload: []byte{byte(i)}})
		}
	}()

	received := 0
	for received < n {
		_, err := q.popFront()
		require.NoError(t, err)
		received++
	}
	wg.Wait()
}
