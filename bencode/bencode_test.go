package bencode_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pekkala/gotor/bencode"
)

func TestDecodeStruct(t *testing.T) {
	type value struct {
		Int uint32   `bencode:"int"`
		Seq []string `bencode:"seq"`
	}

	var v value
	err := bencode.Unmarshal([]byte("d3:inti1e3:seql1:a1:bee"), &v)
	require.NoError(t, err)
	assert.Equal(t, value{Int: 1, Seq: []string{"a", "b"}}, v)
}

func TestEncodeStructFieldOrderDoesNotMatterKeysAreSorted(t *testing.T) {
	type value struct {
		Seq []string `bencode:"seq"`
		Int int      `bencode:"int"`
	}

	b, err := bencode.Marshal(value{Int: 1, Seq: []string{"20", "40"}})
	require.NoError(t, err)
	assert.Equal(t, "d3:inti1e3:seql2:202:40ee", string(b))
}

func TestEncodeMapSortsKeys(t *testing.T) {
	m := map[string]int{"my_key": 20, "other_key": 1000, "abc": 501}
	b, err := bencode.Marshal(m)
	require.NoError(t, err)
	assert.Equal(t, "d3:abci501e6:my_keyi20e9:other_keyi1000ee", string(b))
}

func TestRoundTrip(t *testing.T) {
	type inner struct {
		Name string `bencode:"name"`
	}
	type value struct {
		ID       int64    `bencode:"id"`
		Tags     []string `bencode:"tags"`
		Inner    inner    `bencode:"inner"`
		Optional *int     `bencode:"optional,omitempty"`
	}

	one := 1
	v := value{ID: 42, Tags: []string{"a", "b"}, Inner: inner{Name: "x"}, Optional: &one}

	b, err := bencode.Marshal(v)
	require.NoError(t, err)

	var decoded value
	require.NoError(t, bencode.Unmarshal(b, &decoded))
	assert.Equal(t, v, decoded)

	// canonical idempotence: re-marshaling the decoded value reproduces
	// the same bytes.
	b2, err := bencode.Marshal(decoded)
	require.NoError(t, err)
	assert.Equal(t, b, b2)
}

func TestOptionalOmission(t *testing.T) {
	type value struct {
		A *int `bencode:"a,omitempty"`
		B *int `bencode:"b,omitempty"`
	}
	one := 1
	b, err := bencode.Marshal(value{A: &one, B: nil})
	require.NoError(t, err)
	assert.Equal(t, "d1:ai1ee", string(b))
}

func TestTrailingCharactersRejected(t *testing.T) {
	var v int
	err := bencode.Unmarshal([]byte("i1ee"), &v)
	require.Error(t, err)
	assert.ErrorIs(t, err, bencode.ErrTrailingCharacters)
}

func TestIntegerOverflow(t *testing.T) {
	var v uint8
	err := bencode.Unmarshal([]byte("i9999999999999999999e"), &v)
	require.Error(t, err)
}

func TestSyntaxErrors(t *testing.T) {
	cases := map[string]struct {
		data []byte
		v    any
	}{
		"bad lookahead":          {[]byte("x"), new(int)},
		"missing int terminator": {[]byte("i1"), new(int)},
		"negative zero":          {[]byte("i-0e"), new(int)},
		"leading zero":           {[]byte("i01e"), new(int)},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			err := bencode.Unmarshal(tc.data, tc.v)
			assert.Error(t, err)
		})
	}
}

func TestDictionaryKeyMustBeByteString(t *testing.T) {
	var v map[string]int
	err := bencode.Unmarshal([]byte("di1ei2ee"), &v)
	require.Error(t, err)
	assert.ErrorIs(t, err, bencode.ErrExpectedString)
}

func TestByteStringTooShortIsEof(t *testing.T) {
	var v string
	err := bencode.Unmarshal([]byte("5:ab"), &v)
	require.Error(t, err)
	assert.ErrorIs(t, err, bencode.ErrEof)
}

func TestUnknownKeysAreSkipped(t *testing.T) {
	type value struct {
		Known string `bencode:"known"`
	}
	var v value
	err := bencode.Unmarshal([]byte("d7:unknowni1e5:known3:yese"), &v)
	require.NoError(t, err)
	assert.Equal(t, "yes", v.Known)
}

func TestDuplicateKeysLastWins(t *testing.T) {
	type value struct {
		X int `bencode:"x"`
	}
	var v value
	err := bencode.Unmarshal([]byte("d1:xi1e1:xi2ee"), &v)
	require.NoError(t, err)
	assert.Equal(t, 2, v.X)
}

func TestFixedByteArray(t *testing.T) {
	type value struct {
		Hash [4]byte `bencode:"hash"`
	}
	v := value{Hash: [4]byte{1, 2, 3, 4}}
	b, err := bencode.Marshal(v)
	require.NoError(t, err)

	var decoded value
	require.NoError(t, bencode.Unmarshal(b, &decoded))
	assert.Equal(t, v, decoded)
}
