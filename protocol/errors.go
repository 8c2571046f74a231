package protocol

import (
	"errors"
	"fmt"
)

// Category groups errors by the layer that produced them.
type Category int

const (
	Transport Category = iota
	Protocol
	Codec
	Game
)

func (c Category) String() string {
	switch c {
	case Transport:
		return "transport"
	case Protocol:
		return "protocol"
	case Codec:
		return "codec"
	case Game:
		return "game"
	default:
		return fmt.Sprintf("category(%d)", int(c))
	}
}

// Protocol errors.
var (
	ErrFrameTooLarge      = errors.New("frame exceeds maximum size")
	ErrInvalidUTF8        = errors.New("frame is not valid utf-8")
	ErrUnknownMessage     = errors.New("unknown message variant")
	ErrAmbiguousMessage   = errors.New("message carries more than one variant")
	ErrUnexpectedMessage  = errors.New("unexpected message")
	ErrInvalidDirection   = errors.New("invalid direction")
	ErrNotSubscribed      = errors.New("player is not subscribed")
	ErrAlreadySubscribed  = errors.New("connection already has a player")
	ErrNoPendingChallenge = errors.New("no pending challenge")
)

// Error attaches a category and the failing operation to a cause.
type Error struct {
	Category Category
	Op       string
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s error: %s: %v", e.Category, e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Wrap returns nil when err is nil, err itself when it already is an *Error,
// and a new *Error otherwise.
func Wrap(c Category, op string, err error) error {
	if err == nil {
		return nil
	}
	var pe *Error
	if errors.As(err, &pe) {
		return err
	}
	return &Error{Category: c, Op: op, Err: err}
}

// CategoryOf reports the category of err, defaulting to Protocol.
func CategoryOf(err error) Category {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Category
	}
	return Protocol
}
