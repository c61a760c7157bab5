package metainfo

import (
	"crypto/sha1"

	"github.com/pekkala/gotor/bencode"
)

// Hash re-encodes InfoDict canonically and returns the SHA-1 of that
// encoding: the torrent's info-hash. Re-marshaling the parsed struct,
// rather than hashing whatever bytes happened to arrive on the wire,
// means any non-canonical input (unsorted keys, non-minimal integers)
// is normalized before hashing instead of silently producing the
// wrong identity.
func (i InfoDict) Hash() ([20]byte, error) {
	b, err := bencode.Marshal(i)
	if err != nil {
		return [20]byte{}, err
	}
	return sha1.Sum(b), nil
}
