package uacp

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	msgs := []Message{
		{Verb: VerbPing, MessageID: 1, TimestampMs: 1_700_000_000_000, Sender: "node-1", Payload: nil},
		{Verb: VerbTell, MessageID: 2, TimestampMs: 1_700_000_000_001, Sender: "node-2", Payload: []byte("hello")},
		{Verb: VerbAsk, MessageID: 3, TimestampMs: 1_700_000_000_002, Sender: "", Payload: []byte{0, 1, 2}},
		{Verb: VerbObserve, MessageID: 4, TimestampMs: 1_700_000_000_003, Sender: "观察者", Payload: []byte("state")},
	}
	for _, m := range msgs {
		enc, err := Encode(m)
		require.NoError(t, err)
		dec, n, err := Decode(enc)
		require.NoError(t, err)
		assert.Equal(t, len(enc), n)
		assert.Equal(t, m.Verb, dec.Verb)
		assert.Equal(t, m.MessageID, dec.MessageID)
		assert.Equal(t, m.TimestampMs, dec.TimestampMs)
		assert.Equal(t, m.Sender, dec.Sender)
		assert.Equal(t, m.Payload, dec.Payload)
	}
}

func TestEncodeBatchDecodeBatchRoundTrip(t *testing.T) {
	msgs := []Message{
		{Verb: VerbPing, MessageID: 1, TimestampMs: 1, Sender: "a", Payload: []byte("x")},
		{Verb: VerbTell, MessageID: 2, TimestampMs: 2, Sender: "bb", Payload: nil},
		{Verb: VerbObserve, MessageID: 3, TimestampMs: 3, Sender: "", Payload: []byte("zzz")},
	}
	enc, err := EncodeBatch(msgs)
	require.NoError(t, err)
	dec, err := DecodeBatch(enc)
	require.NoError(t, err)
	assert.Equal(t, msgs, dec)
}

func TestDecodeRejectsUnknownVerb(t *testing.T) {
	frame := make([]byte, MinHeaderLen)
	frame[0] = 0xFF
	_, _, err := Decode(frame)
	assert.ErrorIs(t, err, ErrUnknownVerb)
}

func TestDecodeRejectsTruncatedFrame(t *testing.T) {
	_, _, err := Decode([]byte{byte(VerbPing), 0, 0})
	assert.ErrorIs(t, err, ErrTruncatedFrame)
}

func TestDecodeRejectsLengthOverrun(t *testing.T) {
	m := Message{Verb: VerbTell, MessageID: 1, TimestampMs: 1, Sender: "n", Payload: []byte("payload")}
	enc, err := Encode(m)
	require.NoError(t, err)
	truncated := enc[:len(enc)-3]
	_, _, err = Decode(truncated)
	assert.Error(t, err)
}

// Scenario 5 (spec §8, literal): Encode UacpMessage{verb=PING, id=42,
// sender="node-1", timestamp=1_700_000_000_000, payload=b""}: first 13 hex
// bytes are 010000002a followed by 8 bytes of big-endian timestamp, then
// 0006 6e6f64652d31 00000000.
func TestScenarioFiveLiteralEncoding(t *testing.T) {
	m := Message{
		Verb:        VerbPing,
		MessageID:   42,
		TimestampMs: 1_700_000_000_000,
		Sender:      "node-1",
		Payload:     []byte{},
	}
	enc, err := Encode(m)
	require.NoError(t, err)
	h := hex.EncodeToString(enc)

	assert.Equal(t, "010000002a", h[:10])
	assert.Equal(t, "0006", h[26:30])
	assert.Equal(t, hex.EncodeToString([]byte("node-1")), h[30:42])
	assert.Equal(t, "00000000", h[42:50])
}
