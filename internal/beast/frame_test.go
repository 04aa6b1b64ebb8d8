package beast

import (
	"bytes"
	"encoding/hex"
	"testing"
)

// buildFrame assembles one escaped Beast frame for tests.
func buildFrame(frameType byte, mlat []byte, signal byte, payload []byte) []byte {
	out := []byte{escapeByte, frameType}
	for _, b := range append(append(append([]byte{}, mlat...), signal), payload...) {
		out = append(out, b)
		if b == escapeByte {
			out = append(out, escapeByte)
		}
	}
	return out
}

var (
	testMlat    = []byte{0x00, 0x01, 0x02, 0x03, 0x04, 0x05}
	testPayload = mustHex("8D4840D6202CC371C32CE0576098")
)

func mustHex(s string) []byte {
	b, err := hex.DecodeString(s)
	if err != nil {
		panic(err)
	}
	return b
}

func TestDeframer_SingleFrame(t *testing.T) {
	var d Deframer
	stream := buildFrame(TypeModeLong, testMlat, 0x40, testPayload)

	msgs := d.Feed(stream)
	if len(msgs) != 1 {
		t.Fatalf("Expected 1 message, got %d", len(msgs))
	}
	msg := msgs[0]
	if msg.Type != TypeModeLong {
		t.Errorf("Type = %c, want 3", msg.Type)
	}
	if msg.Timestamp != 0x000102030405 {
		t.Errorf("Timestamp = %012x, want 000102030405", msg.Timestamp)
	}
	if msg.Signal != 0x40 {
		t.Errorf("Signal = %02x, want 40", msg.Signal)
	}
	if !bytes.Equal(msg.Payload, testPayload) {
		t.Errorf("Payload = %x, want %x", msg.Payload, testPayload)
	}
}

func TestDeframer_EscapedBytes(t *testing.T) {
	// A payload containing 0x1a must survive the doubling on the wire.
	payload := make([]byte, 14)
	copy(payload, testPayload)
	payload[0] = 0x1a
	payload[7] = 0x1a

	var d Deframer
	msgs := d.Feed(buildFrame(TypeModeLong, testMlat, 0x1a, payload))
	if len(msgs) != 1 {
		t.Fatalf("Expected 1 message, got %d", len(msgs))
	}
	if msgs[0].Signal != 0x1a {
		t.Errorf("Signal = %02x, want 1a", msgs[0].Signal)
	}
	if !bytes.Equal(msgs[0].Payload, payload) {
		t.Errorf("Payload = %x, want %x", msgs[0].Payload, payload)
	}
}

func TestDeframer_ChunkedInput(t *testing.T) {
	stream := append(
		buildFrame(TypeModeLong, testMlat, 0x40, testPayload),
		buildFrame(TypeModeShort, testMlat, 0x30, testPayload[:7])...)

	// Feed the stream one byte at a time.
	var d Deframer
	var msgs []Message
	for _, b := range stream {
		msgs = append(msgs, d.Feed([]byte{b})...)
	}
	if len(msgs) != 2 {
		t.Fatalf("Expected 2 messages, got %d", len(msgs))
	}
	if msgs[0].Type != TypeModeLong || len(msgs[0].Payload) != 14 {
		t.Errorf("First message = type %c with %d bytes", msgs[0].Type, len(msgs[0].Payload))
	}
	if msgs[1].Type != TypeModeShort || len(msgs[1].Payload) != 7 {
		t.Errorf("Second message = type %c with %d bytes", msgs[1].Type, len(msgs[1].Payload))
	}
}

func TestDeframer_GarbagePrefix(t *testing.T) {
	var d Deframer
	stream := append([]byte{0x00, 0xff, 0x42}, buildFrame(TypeModeLong, testMlat, 0x40, testPayload)...)

	msgs := d.Feed(stream)
	if len(msgs) != 1 {
		t.Fatalf("Garbage before the first escape should be skipped, got %d messages", len(msgs))
	}
}

func TestDeframer_TruncatedFrameResync(t *testing.T) {
	// A frame cut short by the next frame's escape is dropped.
	full := buildFrame(TypeModeLong, testMlat, 0x40, testPayload)
	truncated := full[:10]

	var d Deframer
	msgs := d.Feed(append(append([]byte{}, truncated...), full...))
	if len(msgs) != 1 {
		t.Fatalf("Expected only the complete frame, got %d messages", len(msgs))
	}
	if !bytes.Equal(msgs[0].Payload, testPayload) {
		t.Errorf("Payload = %x, want %x", msgs[0].Payload, testPayload)
	}
}

func TestDeframer_ModeAC(t *testing.T) {
	var d Deframer
	msgs := d.Feed(buildFrame(TypeModeAC, testMlat, 0x40, []byte{0x12, 0x34}))
	if len(msgs) != 1 {
		t.Fatalf("Expected 1 message, got %d", len(msgs))
	}
	if msgs[0].Type != TypeModeAC || len(msgs[0].Payload) != 2 {
		t.Errorf("Message = type %c with %d bytes", msgs[0].Type, len(msgs[0].Payload))
	}
}
