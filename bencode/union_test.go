package bencode_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pekkala/gotor/bencode"
)

// eStruct is the payload of E's "Struct" variant.
type eStruct struct {
	A int `bencode:"a"`
}

// e is a hand-written externally-tagged enum: Unit (no payload),
// Newtype(int), Tuple(int, int), Struct{A int}.
type e struct {
	variant string
	newtype int
	tuple   [2]int
	strct   eStruct
}

func (v *e) MarshalVariant() (string, any) {
	switch v.variant {
	case "Unit":
		return "Unit", nil
	case "Newtype":
		return "Newtype", v.newtype
	case "Tuple":
		return "Tuple", v.tuple
	case "Struct":
		return "Struct", v.strct
	default:
		panic(fmt.Sprintf("unknown variant %q", v.variant))
	}
}

func (v *e) UnmarshalVariant(name string, dec *bencode.Decoder) error {
	v.variant = name
	switch name {
	case "Unit":
		return nil
	case "Newtype":
		return dec.Decode(&v.newtype)
	case "Tuple":
		return dec.Decode(&v.tuple)
	case "Struct":
		return dec.Decode(&v.strct)
	default:
		return fmt.Errorf("unknown variant %q", name)
	}
}

func TestUnionUnitVariant(t *testing.T) {
	b, err := bencode.Marshal(&e{variant: "Unit"})
	require.NoError(t, err)
	assert.Equal(t, "4:Unit", string(b))

	var decoded e
	require.NoError(t, bencode.Unmarshal(b, &decoded))
	assert.Equal(t, "Unit", decoded.variant)
}

func TestUnionNewtypeVariant(t *testing.T) {
	b, err := bencode.Marshal(&e{variant: "Newtype", newtype: 1})
	require.NoError(t, err)
	assert.Equal(t, "d7:Newtypei1ee", string(b))

	var decoded e
	require.NoError(t, bencode.Unmarshal(b, &decoded))
	assert.Equal(t, 1, decoded.newtype)
}

func TestUnionTupleVariant(t *testing.T) {
	b, err := bencode.Marshal(&e{variant: "Tuple", tuple: [2]int{1, 2}})
	require.NoError(t, err)
	assert.Equal(t, "d5:Tupleli1ei2eee", string(b))

	var decoded e
	require.NoError(t, bencode.Unmarshal(b, &decoded))
	assert.Equal(t, [2]int{1, 2}, decoded.tuple)
}

func TestUnionStructVariant(t *testing.T) {
	b, err := bencode.Marshal(&e{variant: "Struct", strct: eStruct{A: 1}})
	require.NoError(t, err)
	assert.Equal(t, "d6:Structd1:ai1eee", string(b))

	var decoded e
	require.NoError(t, bencode.Unmarshal(b, &decoded))
	assert.Equal(t, eStruct{A: 1}, decoded.strct)
}
