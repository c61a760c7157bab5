package tracker

import (
	"context"
	"encoding/binary"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTracker is a minimal UDP server that answers every datagram it
// receives with whatever handle returns (nothing when handle returns
// nil), for exercising Connection against real sockets without a real
// tracker.
func fakeTracker(t *testing.T, handle func(req []byte) []byte) string {
	t.Helper()
	conn, err := net.ListenUDP("udp4", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	go func() {
		buf := make([]byte, 1024)
		for {
			n, addr, err := conn.ReadFromUDP(buf)
			if err != nil {
				return
			}
			resp := handle(buf[:n])
			if resp != nil {
				conn.WriteToUDP(resp, addr)
			}
		}
	}()
	return conn.LocalAddr().String()
}

func TestConnectionConnectAndAnnounce(t *testing.T) {
	addr := fakeTracker(t, func(req []byte) []byte {
		action := Action(binary.BigEndian.Uint32(req[8:]))
		txID := binary.BigEndian.Uint32(req[12:])
		switch action {
		case ActionConnect:
			resp := make([]byte, 16)
			binary.BigEndian.PutUint32(resp, uint32(ActionConnect))
			binary.BigEndian.PutUint32(resp[4:], txID)
			binary.BigEndian.PutUint64(resp[8:], 0xDEADBEEF)
			return resp
		case ActionAnnounce:
			resp := make([]byte, 20)
			binary.BigEndian.PutUint32(resp, uint32(ActionAnnounce))
			binary.BigEndian.PutUint32(resp[4:], txID)
			binary.BigEndian.PutUint32(resp[8:], 1800)
			binary.BigEndian.PutUint32(resp[12:], 0)
			binary.BigEndian.PutUint32(resp[16:], 1)
			return resp
		}
		return nil
	})

	cfg := DefaultConfig()
	conn, err := Bind(addr, cfg)
	require.NoError(t, err)
	defer conn.Close()

	ctx := context.Background()
	require.NoError(t, conn.Connect(ctx))

	result, err := conn.Announce(ctx, AnnounceParams{Event: EventStarted})
	require.NoError(t, err)
	assert.EqualValues(t, 1800, result.Interval)
	assert.EqualValues(t, 1, result.Seeders)
}

func TestConnectionConnectRejectsMismatchedTransactionID(t *testing.T) {
	addr := fakeTracker(t, func(req []byte) []byte {
		resp := make([]byte, 16)
		binary.BigEndian.PutUint32(resp, uint32(ActionConnect))
		binary.BigEndian.PutUint32(resp[4:], 0) // never matches a real random tx id
		return resp
	})

	cfg := DefaultConfig()
	conn, err := Bind(addr, cfg)
	require.NoError(t, err)
	defer conn.Close()

	err = conn.Connect(context.Background())
	assert.ErrorIs(t, err, ErrIncorrectTransactionID)
	assert.False(t, conn.connected)
}

func TestConnectionConnectTimesOutWithoutDeadlock(t *testing.T) {
	// No handler response at all: the tracker is silent.
	addr := fakeTracker(t, func(req []byte) []byte { return nil })

	cfg := DefaultConfig()
	cfg.ReceiveTimeout = 50 * time.Millisecond
	conn, err := Bind(addr, cfg)
	require.NoError(t, err)
	defer conn.Close()

	done := make(chan error, 1)
	go func() { done <- conn.Connect(context.Background()) }()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, ErrTimeout)
	case <-time.After(2 * time.Second):
		t.Fatal("Connect did not return within the test's outer bound; it deadlocked")
	}
}

func TestAnnounceBeforeConnectFails(t *testing.T) {
	addr := fakeTracker(t, func(req []byte) []byte { return nil })
	cfg := DefaultConfig()
	conn, err := Bind(addr, cfg)
	require.NoError(t, err)
	defer conn.Close()

	_, err = conn.Announce(context.Background(), AnnounceParams{})
	assert.Error(t, err)
}
