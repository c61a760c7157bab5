package bencode

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
)

var (
	marshalerType = reflect.TypeOf((*Marshaler)(nil)).Elem()
	unionType     = reflect.TypeOf((*Union)(nil)).Elem()
)

// Marshal produces the canonical bencoding of v: within every
// dictionary, entries come out sorted ascending by raw key bytes, and
// integers are emitted in minimal ASCII form. See bencode.Unmarshal
// for the inverse, fieldsOf for the `bencode:"name,omitempty"` struct
// tag rules, and the Marshaler and Union interfaces for custom
// encodings.
func Marshal(v any) ([]byte, error) {
	return encodeValue(reflect.ValueOf(v))
}

func encodeValue(v reflect.Value) ([]byte, error) {
	if !v.IsValid() {
		return nil, fmt.Errorf("bencode: cannot marshal a nil interface value")
	}

	if v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil, fmt.Errorf("bencode: cannot marshal a nil %s", v.Kind())
		}
	}

	if v.Type().Implements(marshalerType) {
		return v.Interface().(Marshaler).MarshalBencode()
	}
	if v.CanAddr() && reflect.PtrTo(v.Type()).Implements(marshalerType) {
		return v.Addr().Interface().(Marshaler).MarshalBencode()
	}

	if v.Type().Implements(unionType) {
		return encodeUnion(v.Interface().(Union))
	}
	if v.CanAddr() && reflect.PtrTo(v.Type()).Implements(unionType) {
		return encodeUnion(v.Addr().Interface().(Union))
	}

	switch v.Kind() {
	case reflect.Ptr:
		return encodeValue(v.Elem())
	case reflect.Interface:
		return encodeValue(v.Elem())
	case reflect.Bool:
		if v.Bool() {
			return []byte("i1e"), nil
		}
		return []byte("i0e"), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return []byte("i" + strconv.FormatInt(v.Int(), 10) + "e"), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return []byte("i" + strconv.FormatUint(v.Uint(), 10) + "e"), nil
	case reflect.String:
		return encodeByteString([]byte(v.String())), nil
	case reflect.Float32, reflect.Float64:
		return nil, fmt.Errorf("bencode: floating point values are not supported")
	case reflect.Slice:
		if v.Type().Elem().Kind() == reflect.Uint8 {
			return encodeByteString(v.Bytes()), nil
		}
		return encodeSeq(v)
	case reflect.Array:
		if v.Type().Elem().Kind() == reflect.Uint8 {
			b := make([]byte, v.Len())
			reflect.Copy(reflect.ValueOf(b), v)
			return encodeByteString(b), nil
		}
		return encodeSeq(v)
	case reflect.Map:
		return encodeMap(v)
	case reflect.Struct:
		return encodeStruct(v)
	default:
		return nil, fmt.Errorf("bencode: unsupported kind %s", v.Kind())
	}
}

func encodeByteString(b []byte) []byte {
	out := make([]byte, 0, len(b)+12)
	out = append(out, strconv.Itoa(len(b))...)
	out = append(out, ':')
	out = append(out, b...)
	return out
}

func encodeSeq(v reflect.Value) ([]byte, error) {
	out := []byte{'l'}
	for i := 0; i < v.Len(); i++ {
		b, err := encodeValue(v.Index(i))
		if err != nil {
			return nil, err
		}
		out = append(out, b...)
	}
	out = append(out, 'e')
	return out, nil
}

type kvPair struct {
	key   string
	value []byte
}

// sortAndEmit sorts pairs by raw key bytes (Go string comparison is
// already an unsigned byte-wise lexicographic order, which is exactly
// the wire contract) and writes a complete dictionary.
func sortAndEmit(pairs []kvPair) []byte {
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].key < pairs[j].key })
	out := []byte{'d'}
	for _, p := range pairs {
		out = append(out, encodeByteString([]byte(p.key))...)
		out = append(out, p.value...)
	}
	out = append(out, 'e')
	return out
}

func encodeMap(v reflect.Value) ([]byte, error) {
	if v.Type().Key().Kind() != reflect.String {
		return nil, fmt.Errorf("bencode: map key must be string, got %s", v.Type().Key())
	}
	pairs := make([]kvPair, 0, v.Len())
	iter := v.MapRange()
	for iter.Next() {
		b, err := encodeValue(iter.Value())
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, kvPair{key: iter.Key().String(), value: b})
	}
	return sortAndEmit(pairs), nil
}

func encodeStruct(v reflect.Value) ([]byte, error) {
	fields := fieldsOf(v.Type())
	pairs := make([]kvPair, 0, len(fields))
	for _, f := range fields {
		fv := v.Field(f.index)
		if f.omitEmpty && isEmptyValue(fv) {
			continue
		}
		if fv.Kind() == reflect.Ptr && fv.IsNil() {
			if f.omitEmpty {
				continue
			}
			return nil, fmt.Errorf("bencode: field %q is a nil pointer without omitempty", f.name)
		}
		b, err := encodeValue(fv)
		if err != nil {
			return nil, fmt.Errorf("bencode: field %q: %w", f.name, err)
		}
		pairs = append(pairs, kvPair{key: f.name, value: b})
	}
	return sortAndEmit(pairs), nil
}

// encodeUnion implements the externally-tagged variant encoding: a
// unit variant is a bare byte string naming the variant; any other
// variant is a single-entry dictionary mapping the variant name to
// its payload.
func encodeUnion(u Union) ([]byte, error) {
	name, payload := u.MarshalVariant()
	if payload == nil {
		return encodeByteString([]byte(name)), nil
	}
	payloadBytes, err := encodeValue(reflect.ValueOf(payload))
	if err != nil {
		return nil, fmt.Errorf("bencode: variant %q: %w", name, err)
	}
	return sortAndEmit([]kvPair{{key: name, value: payloadBytes}}), nil
}
