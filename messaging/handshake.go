// Package messaging builds and parses the BitTorrent peer-wire
// handshake. It does not implement the message stream that follows a
// handshake (choke/interested/piece messages and the rest of BEP-3):
// that belongs to a later piece of work, and peer.Connect stops right
// after the handshake is verified.
package messaging

import (
	"bytes"
	"fmt"
)

// Protocol is the protocol name sent in every handshake.
const Protocol string = "BitTorrent protocol"

// HandshakeSize is the fixed length of a handshake message.
const HandshakeSize = 1 + len(Protocol) + 8 + 20 + 20

// GenerateHandshake generates the handshake message for infoHash and
// the local peer id.
func GenerateHandshake(infoHash, id [20]byte) []byte {
	protocolLen := len(Protocol)
	res := make([]byte, HandshakeSize)
	// format is:
	// length of the protocol
	res[0] = byte(protocolLen)
	// protocol
	copy(res[1:], Protocol)
	// 8 bytes for implemented extensions; left blank
	// 20 bytes for the info hash
	copy(res[1+protocolLen+8:], infoHash[:])
	// 20 bytes for the peer id
	copy(res[1+protocolLen+8+20:], id[:])
	return res
}

// ValidateHandshake checks that received is a well-formed handshake
// for infoHash, returning the remote peer's id.
func ValidateHandshake(received []byte, infoHash [20]byte) (peerID [20]byte, err error) {
	if len(received) != HandshakeSize {
		return peerID, fmt.Errorf("messaging: handshake has length %d, want %d", len(received), HandshakeSize)
	}

	startLen := 1 + len(Protocol)
	if !bytes.Equal(received[:startLen], append([]byte{byte(len(Protocol))}, Protocol...)) {
		return peerID, fmt.Errorf("messaging: handshake uses an unrecognised protocol")
	}

	var gotHash [20]byte
	copy(gotHash[:], received[startLen+8:startLen+28])
	if gotHash != infoHash {
		return peerID, fmt.Errorf("messaging: handshake info hash %x does not match expected %x", gotHash, infoHash)
	}

	copy(peerID[:], received[startLen+28:startLen+48])
	return peerID, nil
}
