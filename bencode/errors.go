package bencode

import "fmt"

// DecodeError describes why a bencoded stream could not be parsed into
// the requested shape. It wraps an underlying error where one is
// available (integer overflow, a malformed length prefix) so callers
// can still use errors.As / errors.Is against both the sentinel and
// the cause.
type DecodeError struct {
	Kind ErrorKind
	// Pos is the byte offset at which the error was detected. Only
	// the sentinel values below carry -1.
	Pos int
	Err error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		if e.Pos >= 0 {
			return fmt.Sprintf("bencode: %s at offset %d: %s", e.Kind, e.Pos, e.Err)
		}
		return fmt.Sprintf("bencode: %s: %s", e.Kind, e.Err)
	}
	if e.Pos >= 0 {
		return fmt.Sprintf("bencode: %s at offset %d", e.Kind, e.Pos)
	}
	return fmt.Sprintf("bencode: %s", e.Kind)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Is reports whether target is a *DecodeError of the same Kind, so
// that errors.Is(err, bencode.ErrSyntax) works regardless of the
// offset or wrapped cause carried by err.
func (e *DecodeError) Is(target error) bool {
	other, ok := target.(*DecodeError)
	return ok && other.Err == nil && other.Pos == -1 && other.Kind == e.Kind
}

// ErrorKind enumerates the distinguishable decode failure modes.
type ErrorKind int

const (
	KindEof ErrorKind = iota
	KindSyntax
	KindTrailingCharacters
	KindExpectedInteger
	KindExpectedIntegerEnd
	KindExpectedByteString
	KindExpectedChar
	KindExpectedString
	KindExpectedList
	KindExpectedMap
	KindExpectedMapEnd
	KindExpectedArrayEnd
	KindExpectedEnum
	KindExpectedSequence
)

func (k ErrorKind) String() string {
	switch k {
	case KindEof:
		return "unexpected end of input"
	case KindSyntax:
		return "syntax error"
	case KindTrailingCharacters:
		return "trailing characters after value"
	case KindExpectedInteger:
		return "expected an integer"
	case KindExpectedIntegerEnd:
		return "expected 'e' terminating an integer"
	case KindExpectedByteString:
		return "expected a byte string"
	case KindExpectedChar:
		return "expected a single-character byte string"
	case KindExpectedString:
		return "expected a UTF-8 string"
	case KindExpectedList:
		return "expected a list"
	case KindExpectedMap:
		return "expected a dictionary"
	case KindExpectedMapEnd:
		return "expected 'e' terminating a dictionary"
	case KindExpectedArrayEnd:
		return "expected 'e' terminating a list"
	case KindExpectedEnum:
		return "expected a tagged-union variant"
	case KindExpectedSequence:
		return "expected a sequence"
	default:
		return "unknown bencode error"
	}
}

func newErr(kind ErrorKind, pos int, cause error) *DecodeError {
	return &DecodeError{Kind: kind, Pos: pos, Err: cause}
}

// Sentinel errors for use with errors.Is. Each carries Pos == -1 and
// Err == nil so DecodeError.Is matches purely on Kind.
var (
	ErrEof                 = &DecodeError{Kind: KindEof, Pos: -1}
	ErrSyntax              = &DecodeError{Kind: KindSyntax, Pos: -1}
	ErrTrailingCharacters  = &DecodeError{Kind: KindTrailingCharacters, Pos: -1}
	ErrExpectedInteger     = &DecodeError{Kind: KindExpectedInteger, Pos: -1}
	ErrExpectedIntegerEnd  = &DecodeError{Kind: KindExpectedIntegerEnd, Pos: -1}
	ErrExpectedByteString  = &DecodeError{Kind: KindExpectedByteString, Pos: -1}
	ErrExpectedChar        = &DecodeError{Kind: KindExpectedChar, Pos: -1}
	ErrExpectedString      = &DecodeError{Kind: KindExpectedString, Pos: -1}
	ErrExpectedList        = &DecodeError{Kind: KindExpectedList, Pos: -1}
	ErrExpectedMap         = &DecodeError{Kind: KindExpectedMap, Pos: -1}
	ErrExpectedMapEnd      = &DecodeError{Kind: KindExpectedMapEnd, Pos: -1}
	ErrExpectedArrayEnd    = &DecodeError{Kind: KindExpectedArrayEnd, Pos: -1}
	ErrExpectedEnum        = &DecodeError{Kind: KindExpectedEnum, Pos: -1}
	ErrExpectedSequence    = &DecodeError{Kind: KindExpectedSequence, Pos: -1}
)
