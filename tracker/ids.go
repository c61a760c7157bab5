package tracker

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
)

// newTransactionID returns a fresh uniformly random 32-bit signed
// nonce. crypto/rand is used rather than math/rand because a
// transaction id is a value an untrusted tracker observes and echoes
// back; the client's only correlation guarantee rests on it being
// unguessable to third parties sharing the network.
func newTransactionID() (int32, error) {
	var b [4]byte
	if _, err := rand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("tracker: generating transaction id: %w", err)
	}
	return int32(binary.BigEndian.Uint32(b[:])), nil
}

// newKey returns a fresh uniformly random unsigned 32-bit announce key.
func newKey() (uint32, error) {
	var b [4]byte
	if _, err := rand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("tracker: generating announce key: %w", err)
	}
	return binary.BigEndian.Uint32(b[:]), nil
}

// NewPeerID builds a 20-byte peer id: prefix, followed by random
// bytes padding out to exactly 20. If prefix is already 20 bytes or
// longer it is truncated.
func NewPeerID(prefix string) ([20]byte, error) {
	var id [20]byte
	n := copy(id[:], prefix)
	if _, err := rand.Read(id[n:]); err != nil {
		return id, fmt.Errorf("tracker: generating peer id: %w", err)
	}
	return id, nil
}
