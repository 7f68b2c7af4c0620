package uacp

import (
	"bufio"
	"fmt"
	"io"
	"net"
)

// Conn wraps a net.Conn to send and receive uACP frames, each prefixed
// implicitly by its own payload_len field (the wire format is
// self-delimiting, so no outer framing is needed). It backs the
// DistributedSwarmEngine's point-to-point exchange between agent profiles.
type Conn struct {
	conn net.Conn
	r    *bufio.Reader
}

// NewConn wraps an established connection.
func NewConn(c net.Conn) *Conn {
	return &Conn{conn: c, r: bufio.NewReader(c)}
}

// Send encodes and writes a single message.
func (c *Conn) Send(m Message) error {
	enc, err := Encode(m)
	if err != nil {
		return err
	}
	_, err = c.conn.Write(enc)
	return err
}

// Receive reads exactly one frame from the underlying connection, parsing
// the fixed header first to learn the total frame length, then reading the
// remainder.
func (c *Conn) Receive() (Message, error) {
	// Fixed prefix before the variable-length sender: verb(1) + message_id(4)
	// + timestamp_ms(8) + sender_len(2).
	const fixedPrefixLen = 1 + 4 + 8 + 2
	header := make([]byte, fixedPrefixLen)
	if _, err := io.ReadFull(c.r, header); err != nil {
		return Message{}, fmt.Errorf("uacp: read header: %w", err)
	}

	senderLen := int(header[13])<<8 | int(header[14])
	rest := make([]byte, senderLen+4)
	if _, err := io.ReadFull(c.r, rest); err != nil {
		return Message{}, fmt.Errorf("uacp: read sender+payload_len: %w", err)
	}

	payloadLen := int(rest[senderLen])<<24 | int(rest[senderLen+1])<<16 |
		int(rest[senderLen+2])<<8 | int(rest[senderLen+3])
	payload := make([]byte, payloadLen)
	if payloadLen > 0 {
		if _, err := io.ReadFull(c.r, payload); err != nil {
			return Message{}, fmt.Errorf("uacp: read payload: %w", err)
		}
	}

	full := append(append(header, rest...), payload...)
	m, _, err := Decode(full)
	return m, err
}

// Close closes the underlying connection.
func (c *Conn) Close() error {
	return c.conn.Close()
}
