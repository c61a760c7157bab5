// Package peer establishes a BitTorrent peer-wire connection: it
// dials a peer, exchanges handshakes, and verifies the remote side
// is serving the torrent we asked for. It stops there; the message
// stream that drives an actual download is a later piece of work.
package peer

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/pekkala/gotor/messaging"
)

// DialTimeout bounds how long Connect waits to establish the TCP
// connection and to read the peer's handshake back.
const DialTimeout = 5 * time.Second

// Peer is a TCP connection to a remote peer, past the handshake.
type Peer struct {
	conn   net.Conn
	PeerID [20]byte
}

// Connect dials addr, sends a handshake for infoHash and localID, and
// validates the peer's handshake in response. The returned Peer is
// ready for the message stream; Connect does not read or write
// anything beyond the handshake.
func Connect(ctx context.Context, addr string, infoHash, localID [20]byte) (*Peer, error) {
	dialer := net.Dialer{Timeout: DialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("peer: dialing %s: %w", addr, err)
	}

	handshake := messaging.GenerateHandshake(infoHash, localID)
	conn.SetDeadline(time.Now().Add(DialTimeout))
	if _, err := conn.Write(handshake); err != nil {
		conn.Close()
		return nil, fmt.Errorf("peer: sending handshake to %s: %w", addr, err)
	}

	received := make([]byte, messaging.HandshakeSize)
	if _, err := readFull(conn, received); err != nil {
		conn.Close()
		return nil, fmt.Errorf("peer: reading handshake from %s: %w", addr, err)
	}
	conn.SetDeadline(time.Time{})

	peerID, err := messaging.ValidateHandshake(received, infoHash)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("peer: %s: %w", addr, err)
	}

	return &Peer{conn: conn, PeerID: peerID}, nil
}

// readFull reads exactly len(buf) bytes or returns the first error.
func readFull(conn net.Conn, buf []byte) (int, error) {
	read := 0
	for read < len(buf) {
		n, err := conn.Read(buf[read:])
		read += n
		if err != nil {
			return read, err
		}
	}
	return read, nil
}

// Close closes the underlying connection.
func (p *Peer) Close() error {
	return p.conn.Close()
}

// Run would drive the piece-exchange message stream once a peer is
// connected. Left unimplemented: choking, interest, and piece
// request/response handling are a later piece of work.
func (p *Peer) Run(ctx context.Context) error {
	<-ctx.Done()
	return ctx.Err()
}
