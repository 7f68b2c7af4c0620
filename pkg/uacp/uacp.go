// Package uacp implements the micro-agent communication protocol: a compact
// binary frame format used for inter-agent messages, plus a minimal
// net.Conn-based transport for exchanging frames point-to-point.
package uacp

import (
	"encoding/binary"
	"errors"
	"fmt"
	"unicode/utf8"
)

// Verb is the single-byte message-type discriminator.
type Verb byte

const (
	VerbPing    Verb = 0x01
	VerbTell    Verb = 0x02
	VerbAsk     Verb = 0x03
	VerbObserve Verb = 0x04
)

func (v Verb) String() string {
	switch v {
	case VerbPing:
		return "PING"
	case VerbTell:
		return "TELL"
	case VerbAsk:
		return "ASK"
	case VerbObserve:
		return "OBSERVE"
	default:
		return fmt.Sprintf("UNKNOWN(0x%02x)", byte(v))
	}
}

// MinHeaderLen is the minimum number of bytes in a valid frame: verb(1) +
// message_id(4) + timestamp_ms(8) + sender_len(2) + payload_len(4).
const MinHeaderLen = 1 + 4 + 8 + 2 + 4

var (
	ErrUnknownVerb     = errors.New("uacp: unknown verb byte")
	ErrTruncatedFrame  = errors.New("uacp: truncated frame")
	ErrInvalidSender   = errors.New("uacp: sender is not valid UTF-8")
	ErrLengthOverrun   = errors.New("uacp: length field exceeds remaining buffer")
)

// Message is a single decoded uACP frame.
type Message struct {
	Verb        Verb
	MessageID   uint32
	TimestampMs uint64
	Sender      string
	Payload     []byte
}

func isValidVerb(v Verb) bool {
	switch v {
	case VerbPing, VerbTell, VerbAsk, VerbObserve:
		return true
	default:
		return false
	}
}

// Encode renders m as a single big-endian frame:
// [1B verb][4B message_id][8B timestamp_ms][2B sender_len][sender][4B payload_len][payload].
func Encode(m Message) ([]byte, error) {
	if !isValidVerb(m.Verb) {
		return nil, fmt.Errorf("%w: 0x%02x", ErrUnknownVerb, byte(m.Verb))
	}
	if !utf8.ValidString(m.Sender) {
		return nil, ErrInvalidSender
	}
	senderBytes := []byte(m.Sender)

	buf := make([]byte, 0, MinHeaderLen+len(senderBytes)+len(m.Payload))
	buf = append(buf, byte(m.Verb))

	var idBuf [4]byte
	binary.BigEndian.PutUint32(idBuf[:], m.MessageID)
	buf = append(buf, idBuf[:]...)

	var tsBuf [8]byte
	binary.BigEndian.PutUint64(tsBuf[:], m.TimestampMs)
	buf = append(buf, tsBuf[:]...)

	var senderLenBuf [2]byte
	binary.BigEndian.PutUint16(senderLenBuf[:], uint16(len(senderBytes)))
	buf = append(buf, senderLenBuf[:]...)
	buf = append(buf, senderBytes...)

	var payloadLenBuf [4]byte
	binary.BigEndian.PutUint32(payloadLenBuf[:], uint32(len(m.Payload)))
	buf = append(buf, payloadLenBuf[:]...)
	buf = append(buf, m.Payload...)

	return buf, nil
}

// Decode parses a single frame from the front of b, returning the message
// and the number of bytes consumed.
func Decode(b []byte) (Message, int, error) {
	if len(b) < MinHeaderLen {
		return Message{}, 0, ErrTruncatedFrame
	}

	verb := Verb(b[0])
	if !isValidVerb(verb) {
		return Message{}, 0, fmt.Errorf("%w: 0x%02x", ErrUnknownVerb, b[0])
	}

	offset := 1
	messageID := binary.BigEndian.Uint32(b[offset : offset+4])
	offset += 4
	timestampMs := binary.BigEndian.Uint64(b[offset : offset+8])
	offset += 8
	senderLen := int(binary.BigEndian.Uint16(b[offset : offset+2]))
	offset += 2

	if offset+senderLen > len(b) {
		return Message{}, 0, ErrLengthOverrun
	}
	senderBytes := b[offset : offset+senderLen]
	if !utf8.Valid(senderBytes) {
		return Message{}, 0, ErrInvalidSender
	}
	sender := string(senderBytes)
	offset += senderLen

	if offset+4 > len(b) {
		return Message{}, 0, ErrTruncatedFrame
	}
	payloadLen := int(binary.BigEndian.Uint32(b[offset : offset+4]))
	offset += 4

	if offset+payloadLen > len(b) {
		return Message{}, 0, ErrLengthOverrun
	}
	var payload []byte
	if payloadLen > 0 {
		payload = make([]byte, payloadLen)
		copy(payload, b[offset:offset+payloadLen])
	}
	offset += payloadLen

	return Message{
		Verb:        verb,
		MessageID:   messageID,
		TimestampMs: timestampMs,
		Sender:      sender,
		Payload:     payload,
	}, offset, nil
}

// EncodeBatch concatenates the encodings of ms with no separator; decoders
// re-split batches using the length prefixes embedded in each frame.
func EncodeBatch(ms []Message) ([]byte, error) {
	var out []byte
	for i, m := range ms {
		enc, err := Encode(m)
		if err != nil {
			return nil, fmt.Errorf("uacp: encode message %d: %w", i, err)
		}
		out = append(out, enc...)
	}
	return out, nil
}

// DecodeBatch decodes every frame in b in sequence until the buffer is
// exhausted.
func DecodeBatch(b []byte) ([]Message, error) {
	var out []Message
	for len(b) > 0 {
		m, n, err := Decode(b)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
		b = b[n:]
	}
	return out, nil
}
