package tracker

import (
	"encoding/binary"
	"fmt"
	"net"
)

// magicConstant is the fixed protocol id every CONNECT request opens
// with (BEP-15).
const magicConstant uint64 = 0x41727101980

// Action identifies the kind of UDP tracker request/response.
type Action int32

const (
	ActionConnect  Action = 0
	ActionAnnounce Action = 1
	ActionScrape   Action = 2
	ActionError    Action = 3
)

// Event is the BEP-15 announce event enumeration. The first announce
// of a session uses EventStarted.
type Event int32

const (
	EventNone      Event = 0
	EventCompleted Event = 1
	EventStarted   Event = 2
	EventStopped   Event = 3
)

// Peer is an announced IPv4 endpoint.
type Peer struct {
	IP   net.IP
	Port uint16
}

func (p Peer) String() string {
	return net.JoinHostPort(p.IP.String(), fmt.Sprintf("%d", p.Port))
}

// peerSize is the wire size of one Peer entry: 4-byte IPv4 + 2-byte port.
const peerSize = 6

// AnnounceResult is the parsed response to an announce.
type AnnounceResult struct {
	Interval int32
	Leechers int32
	Seeders  int32
	Peers    []Peer
}

// ScrapeResult is the parsed per-torrent response to a scrape.
type ScrapeResult struct {
	Seeders   int32
	Completed int32
	Leechers  int32
}

// connectRequestSize and connectResponseSize are the fixed frame
// sizes for BEP-15's CONNECT exchange.
const (
	connectRequestSize  = 16
	connectResponseSize = 16
	announceRequestSize = 98
)

func buildConnectRequest(transactionID int32) []byte {
	req := make([]byte, connectRequestSize)
	binary.BigEndian.PutUint64(req, magicConstant)
	binary.BigEndian.PutUint32(req[8:], uint32(ActionConnect))
	binary.BigEndian.PutUint32(req[12:], uint32(transactionID))
	return req
}

// parseConnectResponse validates a CONNECT response against the
// transaction id the request was sent with and extracts the
// connection id.
func parseConnectResponse(buf []byte, transactionID int32) (uint64, error) {
	if len(buf) < connectResponseSize {
		if serr, ok := asServerError(buf, transactionID); ok {
			return 0, serr
		}
		return 0, fmt.Errorf("tracker: connect response too short: %d bytes", len(buf))
	}
	action := Action(binary.BigEndian.Uint32(buf))
	gotTxID := int32(binary.BigEndian.Uint32(buf[4:]))
	if gotTxID != transactionID {
		return 0, ErrIncorrectTransactionID
	}
	if action != ActionConnect {
		if action == ActionError {
			return 0, &ServerError{Message: string(buf[8:])}
		}
		return 0, ErrIncorrectAction
	}
	return binary.BigEndian.Uint64(buf[8:]), nil
}

// announceRequestParams bundles everything the 98-byte ANNOUNCE
// request needs beyond the connection id and transaction id.
type announceRequestParams struct {
	ConnectionID  uint64
	TransactionID int32
	InfoHash      [20]byte
	PeerID        [20]byte
	Downloaded    int64
	Left          int64
	Uploaded      int64
	Event         Event
	Key           uint32
	NumWant       int32
	Port          uint16
}

func buildAnnounceRequest(p announceRequestParams) []byte {
	req := make([]byte, announceRequestSize)
	binary.BigEndian.PutUint64(req, p.ConnectionID)
	binary.BigEndian.PutUint32(req[8:], uint32(ActionAnnounce))
	binary.BigEndian.PutUint32(req[12:], uint32(p.TransactionID))
	copy(req[16:], p.InfoHash[:])
	copy(req[36:], p.PeerID[:])
	binary.BigEndian.PutUint64(req[56:], uint64(p.Downloaded))
	binary.BigEndian.PutUint64(req[64:], uint64(p.Left))
	binary.BigEndian.PutUint64(req[72:], uint64(p.Uploaded))
	binary.BigEndian.PutUint32(req[80:], uint32(p.Event))
	binary.BigEndian.PutUint32(req[84:], 0) // IP: 0 means "use source address"
	binary.BigEndian.PutUint32(req[88:], p.Key)
	binary.BigEndian.PutUint32(req[92:], uint32(p.NumWant))
	binary.BigEndian.PutUint16(req[96:], p.Port)
	return req
}

func parseAnnounceResponse(buf []byte, transactionID int32) (*AnnounceResult, error) {
	if len(buf) < 20 {
		if serr, ok := asServerError(buf, transactionID); ok {
			return nil, serr
		}
		return nil, fmt.Errorf("tracker: announce response too short: %d bytes", len(buf))
	}
	action := Action(binary.BigEndian.Uint32(buf))
	gotTxID := int32(binary.BigEndian.Uint32(buf[4:]))
	if gotTxID != transactionID {
		return nil, ErrIncorrectTransactionID
	}
	if action != ActionAnnounce {
		if action == ActionError {
			return nil, &ServerError{Message: string(buf[8:])}
		}
		return nil, ErrIncorrectAction
	}

	result := &AnnounceResult{
		Interval: int32(binary.BigEndian.Uint32(buf[8:])),
		Leechers: int32(binary.BigEndian.Uint32(buf[12:])),
		Seeders:  int32(binary.BigEndian.Uint32(buf[16:])),
	}

	rest := buf[20:]
	for i := 0; i+peerSize <= len(rest); i += peerSize {
		ip := net.IP(append([]byte(nil), rest[i:i+4]...))
		port := binary.BigEndian.Uint16(rest[i+4 : i+6])
		result.Peers = append(result.Peers, Peer{IP: ip, Port: port})
	}
	return result, nil
}

func buildScrapeRequest(connectionID uint64, transactionID int32, infoHashes [][20]byte) []byte {
	req := make([]byte, 16+20*len(infoHashes))
	binary.BigEndian.PutUint64(req, connectionID)
	binary.BigEndian.PutUint32(req[8:], uint32(ActionScrape))
	binary.BigEndian.PutUint32(req[12:], uint32(transactionID))
	for i, h := range infoHashes {
		copy(req[16+i*20:], h[:])
	}
	return req
}

func parseScrapeResponse(buf []byte, transactionID int32, want int) ([]ScrapeResult, error) {
	if len(buf) < 8 {
		if serr, ok := asServerError(buf, transactionID); ok {
			return nil, serr
		}
		return nil, fmt.Errorf("tracker: scrape response too short: %d bytes", len(buf))
	}
	action := Action(binary.BigEndian.Uint32(buf))
	gotTxID := int32(binary.BigEndian.Uint32(buf[4:]))
	if gotTxID != transactionID {
		return nil, ErrIncorrectTransactionID
	}
	if action != ActionScrape {
		if action == ActionError {
			return nil, &ServerError{Message: string(buf[8:])}
		}
		return nil, ErrIncorrectAction
	}
	rest := buf[8:]
	results := make([]ScrapeResult, 0, want)
	for i := 0; i+12 <= len(rest) && len(results) < want; i += 12 {
		results = append(results, ScrapeResult{
			Seeders:   int32(binary.BigEndian.Uint32(rest[i:])),
			Completed: int32(binary.BigEndian.Uint32(rest[i+4:])),
			Leechers:  int32(binary.BigEndian.Uint32(rest[i+8:])),
		})
	}
	return results, nil
}

// asServerError recognizes an ERROR-action datagram even when it is
// shorter than the success frame it was mistaken for.
func asServerError(buf []byte, transactionID int32) (*ServerError, bool) {
	if len(buf) < 8 {
		return nil, false
	}
	if Action(binary.BigEndian.Uint32(buf)) != ActionError {
		return nil, false
	}
	if int32(binary.BigEndian.Uint32(buf[4:])) != transactionID {
		return nil, false
	}
	return &ServerError{Message: string(buf[8:])}, true
}
