// Package magnet parses BEP-9 magnet links into the same info-hash
// and tracker-address shape the metainfo and tracker packages expect,
// so a client can bootstrap from either a .torrent file or a magnet
// link through the same Announce/Scrape call.
package magnet

import (
	"encoding/base32"
	"encoding/hex"
	"fmt"
	"net/url"
	"strings"
)

// Magnet is a parsed magnet link (BEP-9, with the BEP-19 web-seed and
// BEP-9 peer-address extensions).
type Magnet struct {
	Hash          [20]byte // xt: exact topic (info hash)
	Name          string   // dn: display name
	TrackerAddrs  []string // tr: tracker URLs
	PeerAddresses []string // x.pe: peer addresses
	WebSeeds      []string // ws: web seeds
	ExactSource   string   // xs: exact source (URL to .torrent)
}

// Parse parses a magnet URI into a Magnet.
func Parse(uri string) (*Magnet, error) {
	if !strings.HasPrefix(uri, "magnet:?") {
		return nil, fmt.Errorf("magnet: invalid link: must start with 'magnet:?'")
	}

	link, err := url.Parse(uri)
	if err != nil {
		return nil, fmt.Errorf("magnet: parsing url: %w", err)
	}

	query := link.Query()

	hash, err := parseInfoHash(query)
	if err != nil {
		return nil, err
	}

	name := ""
	if dn, ok := query["dn"]; ok && len(dn) > 0 {
		name = dn[0]
	}

	var trackers []string
	if tr, ok := query["tr"]; ok {
		trackers = tr
	}

	var peerAddresses []string
	if pe, ok := query["x.pe"]; ok {
		peerAddresses = pe
	}

	var webSeeds []string
	if ws, ok := query["ws"]; ok {
		webSeeds = ws
	}

	exactSource := ""
	if xs, ok := query["xs"]; ok && len(xs) > 0 {
		exactSource = xs[0]
	}

	return &Magnet{
		Hash:          hash,
		Name:          name,
		TrackerAddrs:  trackers,
		PeerAddresses: peerAddresses,
		WebSeeds:      webSeeds,
		ExactSource:   exactSource,
	}, nil
}

// parseInfoHash extracts the 20-byte info hash from the magnet query.
func parseInfoHash(query url.Values) ([20]byte, error) {
	var hash [20]byte

	xts, ok := query["xt"]
	if !ok || len(xts) == 0 {
		return hash, fmt.Errorf("magnet: missing 'xt' parameter")
	}
	xt := xts[0]

	var encHash string
	switch {
	case strings.HasPrefix(xt, "urn:btih:"):
		encHash = strings.TrimPrefix(xt, "urn:btih:")
	case strings.HasPrefix(xt, "urn:btmh:"):
		return hash, fmt.Errorf("magnet: multihash (urn:btmh) is not supported")
	default:
		return hash, fmt.Errorf("magnet: unsupported xt format: %s", xt)
	}

	switch len(encHash) {
	case 40:
		decoded, err := hex.DecodeString(encHash)
		if err != nil {
			return hash, fmt.Errorf("magnet: invalid hex hash: %w", err)
		}
		copy(hash[:], decoded)
	case 32:
		decoded, err := base32.StdEncoding.DecodeString(strings.ToUpper(encHash))
		if err != nil {
			return hash, fmt.Errorf("magnet: invalid base32 hash: %w", err)
		}
		copy(hash[:], decoded)
	default:
		return hash, fmt.Errorf("magnet: invalid hash length %d (expected 32 or 40)", len(encHash))
	}

	return hash, nil
}

// HasTrackers reports whether the magnet link named any trackers.
func (m *Magnet) HasTrackers() bool {
	return len(m.TrackerAddrs) > 0
}

// InfoHashHex returns the info hash as a lowercase hex string.
func (m *Magnet) InfoHashHex() string {
	return hex.EncodeToString(m.Hash[:])
}

// DisplayName returns Name, or a truncated hash if Name is empty.
func (m *Magnet) DisplayName() string {
	if m.Name != "" {
		return m.Name
	}
	return m.InfoHashHex()[:16] + "..."
}
