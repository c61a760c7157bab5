// Package metainfo describes the public `.torrent` schema: MetaInfo,
// InfoDict, and FileInfo, expressed as bencode-tagged structs so the
// bencode package can (de)serialize them without any type-specific
// code. Field names and omissions follow BEP-3's conventional renames
// (piece_length -> "piece length", created_by -> "created by",
// creation_date -> "creation date").
package metainfo

import (
	"fmt"
	"path/filepath"

	"github.com/pekkala/gotor/bencode"
)

// FileInfo describes one file within a multi-file torrent.
type FileInfo struct {
	Length int64    `bencode:"length"`
	MD5Sum string   `bencode:"md5sum,omitempty"`
	Path   []string `bencode:"path"`
}

// JoinedPath returns Path joined with the OS path separator.
func (f FileInfo) JoinedPath() string {
	return filepath.Join(f.Path...)
}

// InfoDict is the torrent's metadata record. Its canonical bencoding,
// hashed with SHA-1, is the torrent's info-hash; see Hash.
type InfoDict struct {
	Files       []FileInfo `bencode:"files,omitempty"`
	Length      int64      `bencode:"length,omitempty"`
	MD5Sum      string     `bencode:"md5sum,omitempty"`
	Name        string     `bencode:"name"`
	PieceLength int64      `bencode:"piece length"`
	Pieces      []byte     `bencode:"pieces"`
	Private     bool       `bencode:"private,omitempty"`
}

// Multi reports whether this is a multi-file torrent.
func (i InfoDict) Multi() bool {
	return len(i.Files) > 0
}

// TotalLength returns the sum of all file lengths, whether declared
// via the single-file Length key or the multi-file Files list.
func (i InfoDict) TotalLength() int64 {
	if !i.Multi() {
		return i.Length
	}
	var total int64
	for _, f := range i.Files {
		total += f.Length
	}
	return total
}

// PieceHashes splits the concatenated SHA-1 piece hashes into
// individual 20-byte values.
func (i InfoDict) PieceHashes() ([][20]byte, error) {
	if len(i.Pieces)%20 != 0 {
		return nil, fmt.Errorf("metainfo: pieces has length %d, not a multiple of 20", len(i.Pieces))
	}
	hashes := make([][20]byte, len(i.Pieces)/20)
	for idx := range hashes {
		copy(hashes[idx][:], i.Pieces[idx*20:(idx+1)*20])
	}
	return hashes, nil
}

// Validate checks the invariants the bencode schema itself cannot
// express: exactly one of Length/Files, a non-empty Name, a positive
// PieceLength, and pieces evenly divisible into 20-byte hashes.
func (i InfoDict) Validate() error {
	if i.Name == "" {
		return fmt.Errorf("metainfo: info dictionary missing name")
	}
	if i.PieceLength <= 0 {
		return fmt.Errorf("metainfo: info dictionary has non-positive piece length %d", i.PieceLength)
	}
	if i.Length > 0 && i.Multi() {
		return fmt.Errorf("metainfo: info dictionary declares both length and files")
	}
	if i.Length == 0 && !i.Multi() {
		return fmt.Errorf("metainfo: info dictionary missing both length and files")
	}
	if _, err := i.PieceHashes(); err != nil {
		return err
	}
	return nil
}

// MetaInfo is the top-level `.torrent` record.
type MetaInfo struct {
	Announce     string     `bencode:"announce"`
	AnnounceList [][]string `bencode:"announce-list,omitempty"`
	Comment      string     `bencode:"comment,omitempty"`
	CreatedBy    string     `bencode:"created by,omitempty"`
	CreationDate int64      `bencode:"creation date,omitempty"`
	Encoding     string     `bencode:"encoding,omitempty"`
	Info         InfoDict   `bencode:"info"`
}

// AnnounceURLs flattens Announce and AnnounceList (BEP-12) into a
// single deduplicated tier-ordered list, Announce always first.
func (m MetaInfo) AnnounceURLs() []string {
	urls := make([]string, 0, 1+len(m.AnnounceList))
	seen := make(map[string]bool)
	add := func(u string) {
		if u == "" || seen[u] {
			return
		}
		seen[u] = true
		urls = append(urls, u)
	}
	add(m.Announce)
	for _, tier := range m.AnnounceList {
		for _, u := range tier {
			add(u)
		}
	}
	return urls
}

// Parse decodes raw `.torrent` bytes into a MetaInfo and validates
// the embedded info dictionary.
func Parse(data []byte) (*MetaInfo, error) {
	var m MetaInfo
	if err := bencode.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("metainfo: %w", err)
	}
	if err := m.Info.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}
