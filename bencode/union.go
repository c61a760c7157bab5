package bencode

// Marshaler is implemented by types that encode themselves to a
// bencoded byte string directly, bypassing struct reflection. The
// returned bytes must themselves be a complete, well-formed bencoded
// value (not a fragment).
type Marshaler interface {
	MarshalBencode() ([]byte, error)
}

// Unmarshaler is implemented by types that decode themselves from a
// complete bencoded value. data is exactly the bytes of one value
// (integer, byte string, list, or dictionary); Unmarshal never passes
// a partial value or trailing bytes. This mirrors the convention
// anacrolix/torrent/bencode uses for its own Marshaler/Unmarshaler
// pair.
type Unmarshaler interface {
	UnmarshalBencode(data []byte) error
}

// Union is implemented by externally-tagged enum-like types: a unit
// variant (no payload), or a variant carrying exactly one payload
// value (itself a record, list, or scalar). MarshalVariant returns
// the wire name of the active variant and its payload, or a nil
// payload for a unit variant. UnmarshalVariant receives the decoded
// variant name and a decoder positioned at the payload (or at "no
// payload" for a unit variant, signalled by a nil *Decoder).
type Union interface {
	MarshalVariant() (name string, payload any)
	UnmarshalVariant(name string, dec *Decoder) error
}
