package bencode

import (
	"reflect"
	"strings"
)

// fieldInfo describes how one exported struct field maps onto a
// dictionary entry.
type fieldInfo struct {
	name      string
	index     int
	omitEmpty bool
}

// fieldsOf returns the encode/decode plan for a struct type, reading
// the `bencode:"name,omitempty"` tag the way encoding/json reads its
// own tag. A field with no tag falls back to its Go name verbatim.
// Fields tagged "-" are skipped entirely. Unexported fields are
// always skipped.
func fieldsOf(t reflect.Type) []fieldInfo {
	fields := make([]fieldInfo, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if sf.PkgPath != "" {
			continue // unexported
		}
		tag := sf.Tag.Get("bencode")
		if tag == "-" {
			continue
		}
		name := sf.Name
		omitEmpty := false
		if tag != "" {
			parts := strings.Split(tag, ",")
			if parts[0] != "" {
				name = parts[0]
			}
			for _, opt := range parts[1:] {
				if opt == "omitempty" {
					omitEmpty = true
				}
			}
		}
		fields = append(fields, fieldInfo{name: name, index: i, omitEmpty: omitEmpty})
	}
	return fields
}

// isEmptyValue mirrors encoding/json's notion of "empty" for the
// purposes of omitempty: nil pointers/interfaces, zero-length
// slices/maps/strings, and the numeric zero value.
func isEmptyValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Ptr, reflect.Interface:
		return v.IsNil()
	case reflect.Slice, reflect.Map, reflect.String:
		return v.Len() == 0
	case reflect.Array:
		return v.Len() == 0
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint() == 0
	case reflect.Bool:
		return !v.Bool()
	default:
		return false
	}
}
