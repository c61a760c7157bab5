// Package tracker implements a BEP-15 UDP tracker client: a
// three-state connection (unbound -> bound -> connected, then
// announce/scrape) over a single UDP socket, with transaction-id
// correlation and bounded receive timeouts.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"
)

// Connection wraps one UDP socket bound to a tracker endpoint. It is
// NOT safe for concurrent use: request and response are strictly
// sequential, because transaction-id matching is the only
// correlation mechanism and the underlying socket is a single
// demultiplex point. Multiple Connections to different trackers may
// run concurrently; each owns its socket exclusively.
type Connection struct {
	conn         *net.UDPConn
	localPort    int
	cfg          Config
	peerID       [20]byte
	connectionID uint64
	connected    bool
}

// Bind resolves trackerAddr (host:port) and binds a local UDP socket
// on the first available port in cfg's configured range, trying ports
// in ascending order. It fails with ErrPortsExhausted if none bind.
func Bind(trackerAddr string, cfg Config) (*Connection, error) {
	raddr, err := net.ResolveUDPAddr("udp4", trackerAddr)
	if err != nil {
		return nil, fmt.Errorf("tracker: resolving %q: %w", trackerAddr, err)
	}

	var conn *net.UDPConn
	var port int
	for p := cfg.PortRangeStart; p <= cfg.PortRangeEnd; p++ {
		laddr := &net.UDPAddr{Port: p}
		c, dialErr := net.DialUDP("udp4", laddr, raddr)
		if dialErr != nil {
			continue
		}
		conn = c
		port = p
		break
	}
	if conn == nil {
		return nil, ErrPortsExhausted
	}

	peerID, err := NewPeerID(cfg.PeerIDPrefix)
	if err != nil {
		conn.Close()
		return nil, err
	}

	return &Connection{
		conn:      conn,
		localPort: port,
		cfg:       cfg,
		peerID:    peerID,
	}, nil
}

// LocalPort returns the port the Connection actually bound.
func (c *Connection) LocalPort() int {
	return c.localPort
}

// PeerID returns this Connection's 20-byte peer id.
func (c *Connection) PeerID() [20]byte {
	return c.peerID
}

// Close releases the underlying socket.
func (c *Connection) Close() error {
	return c.conn.Close()
}

// roundTrip writes req, then reads one datagram within the
// Connection's receive timeout (or ctx's deadline, whichever is
// sooner), honoring ctx cancellation.
func (c *Connection) roundTrip(ctx context.Context, req []byte) ([]byte, error) {
	deadline := deadlineFor(ctx, c.cfg.ReceiveTimeout)
	if err := c.conn.SetDeadline(deadline); err != nil {
		return nil, err
	}
	defer c.conn.SetDeadline(noDeadline)

	// Cancelling ctx interrupts a pending read by moving the read
	// deadline to now.
	stop := context.AfterFunc(ctx, func() { c.conn.SetReadDeadline(time.Now()) })
	defer stop()

	if _, err := c.conn.Write(req); err != nil {
		return nil, err
	}

	buf := make([]byte, recvBufSize)
	n, err := c.conn.Read(buf)
	if err != nil {
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil, ctx.Err()
			}
			return nil, ErrTimeout
		}
		return nil, err
	}
	if n == recvBufSize {
		// A datagram that fills the buffer exactly was likely larger
		// and silently truncated by the kernel; nothing past this
		// point could be parsed reliably.
		return nil, fmt.Errorf("tracker: response filled the %d-byte receive buffer and may be truncated", recvBufSize)
	}
	return buf[:n], nil
}

// Connect performs the CONNECT handshake, caching the tracker-issued
// connection id for subsequent Announce/Scrape calls.
func (c *Connection) Connect(ctx context.Context) error {
	txID, err := newTransactionID()
	if err != nil {
		return err
	}
	resp, err := c.roundTrip(ctx, buildConnectRequest(txID))
	if err != nil {
		return err
	}
	connID, err := parseConnectResponse(resp, txID)
	if err != nil {
		return err
	}
	c.connectionID = connID
	c.connected = true
	return nil
}

// AnnounceParams configures one Announce call. Downloaded/Left/Uploaded
// describe session byte counters; Event should be EventStarted for a
// session's first announce.
type AnnounceParams struct {
	InfoHash   [20]byte
	Downloaded int64
	Left       int64
	Uploaded   int64
	Event      Event
}

// Announce reports status to the tracker and returns the peer list.
// Connect must have succeeded first.
func (c *Connection) Announce(ctx context.Context, p AnnounceParams) (*AnnounceResult, error) {
	if !c.connected {
		return nil, fmt.Errorf("tracker: Announce called before Connect")
	}
	txID, err := newTransactionID()
	if err != nil {
		return nil, err
	}
	key, err := newKey()
	if err != nil {
		return nil, err
	}
	req := buildAnnounceRequest(announceRequestParams{
		ConnectionID:  c.connectionID,
		TransactionID: txID,
		InfoHash:      p.InfoHash,
		PeerID:        c.peerID,
		Downloaded:    p.Downloaded,
		Left:          p.Left,
		Uploaded:      p.Uploaded,
		Event:         p.Event,
		Key:           key,
		NumWant:       c.numWant(),
		Port:          uint16(c.localPort),
	})
	resp, err := c.roundTrip(ctx, req)
	if err != nil {
		return nil, err
	}
	return parseAnnounceResponse(resp, txID)
}

// Scrape requests seeder/leecher/completed counts for the given
// info-hashes. Connect must have succeeded first.
func (c *Connection) Scrape(ctx context.Context, infoHashes [][20]byte) ([]ScrapeResult, error) {
	if !c.connected {
		return nil, fmt.Errorf("tracker: Scrape called before Connect")
	}
	if len(infoHashes) == 0 {
		return nil, nil
	}
	txID, err := newTransactionID()
	if err != nil {
		return nil, err
	}
	req := buildScrapeRequest(c.connectionID, txID, infoHashes)
	resp, err := c.roundTrip(ctx, req)
	if err != nil {
		return nil, err
	}
	return parseScrapeResponse(resp, txID, len(infoHashes))
}

func (c *Connection) numWant() int32 {
	if c.cfg.NumWant != 0 {
		return c.cfg.NumWant
	}
	return DefaultNumWant
}
