package tracker

import "time"

// Port range BEP-3 recommends BitTorrent clients bind within.
const (
	PortRangeStart = 6881
	PortRangeEnd   = 6889
)

// ReceiveTimeout bounds every CONNECT/ANNOUNCE/SCRAPE response wait.
const ReceiveTimeout = 2 * time.Second

// recvBufSize is the fixed receive buffer; BEP-15 datagrams larger
// than this are truncated and treated as protocol errors, which is
// why NumWant defaults conservatively to 30 rather than "all".
const recvBufSize = 1024

// DefaultNumWant keeps an announce response within one datagram.
const DefaultNumWant = 30

// DefaultPeerIDPrefix is this client's Azureus-style identification
// prefix, padded with random bytes to 20 total by NewPeerID.
const DefaultPeerIDPrefix = "-GT0200-"

// Config carries the tunables a Connection needs that are not
// per-request: the bindable port range, response timeout, default
// peer-list size, and peer-id prefix. Built from a YAML config file by
// cmd/gotor; library code always has an explicit Config rather than
// reaching for global state.
type Config struct {
	PortRangeStart int
	PortRangeEnd   int
	ReceiveTimeout time.Duration
	NumWant        int32
	PeerIDPrefix   string
}

// DefaultConfig returns BEP-15's recommended tunables.
func DefaultConfig() Config {
	return Config{
		PortRangeStart: PortRangeStart,
		PortRangeEnd:   PortRangeEnd,
		ReceiveTimeout: ReceiveTimeout,
		NumWant:        DefaultNumWant,
		PeerIDPrefix:   DefaultPeerIDPrefix,
	}
}
