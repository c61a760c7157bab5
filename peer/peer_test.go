package peer_test

import (
	"context"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pekkala/gotor/messaging"
	"github.com/pekkala/gotor/peer"
)

// fakePeer runs a one-shot TCP listener that completes exactly one
// handshake exchange using remoteID, for exercising peer.Connect
// without a real BitTorrent peer.
func fakePeer(t *testing.T, infoHash, remoteID [20]byte) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()

		buf := make([]byte, messaging.HandshakeSize)
		n := 0
		for n < len(buf) {
			m, err := conn.Read(buf[n:])
			n += m
			if err != nil {
				return
			}
		}
		conn.Write(messaging.GenerateHandshake(infoHash, remoteID))
	}()

	return ln.Addr().String()
}

func TestConnectCompletesHandshake(t *testing.T) {
	infoHash := [20]byte{1, 2, 3}
	localID := [20]byte{4, 5, 6}
	remoteID := [20]byte{7, 8, 9}

	addr := fakePeer(t, infoHash, remoteID)

	p, err := peer.Connect(context.Background(), addr, infoHash, localID)
	require.NoError(t, err)
	defer p.Close()

	assert.Equal(t, remoteID, p.PeerID)
}

func TestConnectRejectsMismatchedInfoHash(t *testing.T) {
	infoHash := [20]byte{1, 2, 3}
	remoteID := [20]byte{7, 8, 9}
	addr := fakePeer(t, infoHash, remoteID)

	_, err := peer.Connect(context.Background(), addr, [20]byte{9, 9, 9}, [20]byte{})
	assert.Error(t, err)
}
