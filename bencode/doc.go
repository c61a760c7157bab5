// Package bencode implements the BitTorrent bencoding format: a
// generic, reflection-driven codec between Go struct/slice/map values
// and the four-shape bencoded byte format (integers, byte strings,
// lists, dictionaries), in the manner of encoding/json.
//
// Marshal always produces canonical output: dictionary keys sorted
// ascending by raw byte value and integers in minimal ASCII form.
// Unmarshal is lenient about duplicate or unsorted keys on the way in
// (last key wins) but never produces non-canonical output on the way
// back out.
package bencode
