package core

import "fmt"

// MaxIdentifierLength is the longest accepted variable or label name.
const MaxIdentifierLength = 10

const identifierBase = 37

// Identifier is a validated variable or label name. It is stored as a base-37
// number so that names compare case-insensitively and can key maps directly.
type Identifier uint64

// NewIdentifier validates raw and encodes it.
func NewIdentifier(raw string) (Identifier, error) {
	if len(raw) == 0 || len(raw) > MaxIdentifierLength {
		return 0, fmt.Errorf("%w: %q must have 1 to %d characters",
			ErrInvalidIdentifier, raw, MaxIdentifierLength)
	}

	var key uint64
	for i := 0; i < len(raw); i++ {
		code, ok := identifierCode(raw[i])
		if !ok {
			return 0, fmt.Errorf("%w: %q contains %q",
				ErrInvalidIdentifier, raw, raw[i])
		}

		key = key*identifierBase + code
	}

	return Identifier(key), nil
}

// MustIdentifier is like NewIdentifier but panics on invalid names.
func MustIdentifier(raw string) Identifier {
	id, err := NewIdentifier(raw)
	if err != nil {
		panic(err)
	}

	return id
}

// Key returns the encoded value.
func (id Identifier) Key() uint64 {
	return uint64(id)
}

// String decodes the identifier into its lower-case spelling.
func (id Identifier) String() string {
	if id == 0 {
		return ""
	}

	var buf [MaxIdentifierLength]byte
	n := len(buf)
	for key := uint64(id); key > 0; key /= identifierBase {
		n--
		buf[n] = identifierChar(key % identifierBase)
	}

	return string(buf[n:])
}

// identifierCode maps a character to [1, 37). Codes start at 1 so that "a"
// and "aa" never share a key.
func identifierCode(c byte) (uint64, bool) {
	switch {
	case 'a' <= c && c <= 'z':
		return uint64(c-'a') + 1, true
	case 'A' <= c && c <= 'Z':
		return uint64(c-'A') + 1, true
	case '0' <= c && c <= '9':
		return uint64(c-'0') + 27, true
	default:
		return 0, false
	}
}

func identifierChar(code uint64) byte {
	if code >= 27 {
		return byte('0' + code - 27)
	}

	return byte('a' + code - 1)
}
