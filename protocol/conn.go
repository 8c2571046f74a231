package protocol

import (
	"bufio"
	"encoding/json"
	"errors"
	"net"
	"sync"
	"time"
)

// Conn exchanges framed JSON messages over a stream connection.
// Send is safe for concurrent use; receives must come from one goroutine.
type Conn struct {
	conn net.Conn
	r    *bufio.Reader

	writeMu sync.Mutex
}

func NewConn(c net.Conn) *Conn {
	return &Conn{conn: c, r: bufio.NewReader(c)}
}

// Dial connects to a server at addr.
func Dial(addr string, timeout time.Duration) (*Conn, error) {
	c, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		return nil, Wrap(Transport, "dial", err)
	}
	return NewConn(c), nil
}

// Send encodes v as JSON and writes it as one frame.
func (c *Conn) Send(v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return Wrap(Codec, "encode message", err)
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if err := WriteFrame(c.conn, payload); err != nil {
		if errors.Is(err, ErrFrameTooLarge) {
			return Wrap(Protocol, "send", err)
		}
		return Wrap(Transport, "send", err)
	}
	return nil
}

func (c *Conn) receive(v any) error {
	payload, err := ReadFrame(c.r)
	if err != nil {
		if errors.Is(err, ErrFrameTooLarge) || errors.Is(err, ErrInvalidUTF8) {
			return Wrap(Protocol, "receive", err)
		}
		return Wrap(Transport, "receive", err)
	}
	if err := json.Unmarshal(payload, v); err != nil {
		if errors.Is(err, ErrUnknownMessage) {
			return Wrap(Protocol, "decode message", err)
		}
		return Wrap(Codec, "decode message", err)
	}
	return nil
}

// ReceiveClient reads and validates the next client message.
func (c *Conn) ReceiveClient() (ClientMessage, error) {
	var m ClientMessage
	if err := c.receive(&m); err != nil {
		return m, err
	}
	if err := m.Validate(); err != nil {
		return m, Wrap(Protocol, "validate client message", err)
	}
	return m, nil
}

// ReceiveServer reads and validates the next server message.
func (c *Conn) ReceiveServer() (ServerMessage, error) {
	var m ServerMessage
	if err := c.receive(&m); err != nil {
		return m, err
	}
	if err := m.Validate(); err != nil {
		return m, Wrap(Protocol, "validate server message", err)
	}
	return m, nil
}

func (c *Conn) RemoteAddr() net.Addr {
	return c.conn.RemoteAddr()
}

func (c *Conn) Close() error {
	return c.conn.Close()
}
