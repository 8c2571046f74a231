package codec

import (
	"encoding/base64"
	"errors"
	"fmt"
)

// Alphabet is the 64-symbol table used on the wire. Index i is the symbol for value i.
const Alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789+/"

// Symbol codec errors.
var (
	ErrInvalidSize           = errors.New("invalid size (form 4n+1)")
	ErrUnauthorizedCharacter = errors.New("unauthorized character")
	ErrInvalidSegmentSize    = errors.New("segment size invalid (less than 2 characters)")
)

// UnauthorizedCharacterError reports the first character outside Alphabet.
type UnauthorizedCharacterError struct {
	Char rune
}

func (e *UnauthorizedCharacterError) Error() string {
	return fmt.Sprintf("character unauthorized '%c'", e.Char)
}

// Is lets errors.Is match ErrUnauthorizedCharacter.
func (e *UnauthorizedCharacterError) Is(target error) bool {
	return target == ErrUnauthorizedCharacter
}

var symbols = base64.NewEncoding(Alphabet).WithPadding(base64.NoPadding)

var symbolValues = func() [256]int8 {
	var t [256]int8
	for i := range t {
		t[i] = -1
	}
	for i := 0; i < len(Alphabet); i++ {
		t[Alphabet[i]] = int8(i)
	}
	return t
}()

// Encode turns b into symbol text. Every full 3-byte chunk yields 4 symbols, a trailing
// 2-byte chunk 3 symbols and a trailing single byte 2 symbols. No padding is emitted.
func Encode(b []byte) string {
	return symbols.EncodeToString(b)
}

// Decode is the inverse of Encode.
func Decode(s string) ([]byte, error) {
	if len(s)%4 == 1 {
		return nil, ErrInvalidSize
	}
	for _, c := range s {
		if c > 0xFF || symbolValues[c] < 0 {
			return nil, &UnauthorizedCharacterError{Char: c}
		}
	}

	out, err := symbols.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSegmentSize, err)
	}
	return out, nil
}
