// Package beast implements the Mode-S Beast binary protocol: a byte-stream
// deframer plus a reconnecting TCP source that yields timestamped frames.
package beast

import (
	"bytes"
	"encoding/binary"
)

const escapeByte = 0x1a

// Frame types on the wire, as the type byte following the escape.
const (
	TypeModeAC    = '1' // 2-byte Mode A/C
	TypeModeShort = '2' // 7-byte Mode S short
	TypeModeLong  = '3' // 14-byte Mode S long
)

// Message is one deframed Beast message.
type Message struct {
	Type      byte
	Timestamp uint64 // 48-bit 12 MHz MLAT counter
	Signal    byte
	Payload   []byte
}

func payloadLen(frameType byte) int {
	switch frameType {
	case TypeModeAC:
		return 2
	case TypeModeShort:
		return 7
	case TypeModeLong:
		return 14
	default:
		return 0
	}
}

// Deframer incrementally splits a Beast byte stream into messages. Feed may
// be called with arbitrary chunk boundaries; partial frames are buffered
// until completed.
type Deframer struct {
	buf []byte
}

// Feed appends raw stream bytes and returns any complete messages. Payload
// bytes are unescaped copies and safe to retain.
func (d *Deframer) Feed(p []byte) []Message {
	d.buf = append(d.buf, p...)

	var out []Message
	for {
		start := bytes.IndexByte(d.buf, escapeByte)
		if start < 0 {
			d.buf = d.buf[:0]
			return out
		}
		d.buf = d.buf[start:]
		if len(d.buf) < 2 {
			return out
		}

		frameType := d.buf[1]
		plen := payloadLen(frameType)
		if plen == 0 {
			// Not a frame start; resync past the escape.
			d.buf = d.buf[1:]
			continue
		}

		body, consumed, state := unescape(d.buf[2:], 6+1+plen)
		switch state {
		case needMore:
			return out
		case truncated:
			// A new escape interrupted the frame body; drop the partial
			// frame and resync at the interrupting escape.
			d.buf = d.buf[2+consumed:]
			continue
		}

		var ts [8]byte
		copy(ts[2:], body[:6])
		out = append(out, Message{
			Type:      frameType,
			Timestamp: binary.BigEndian.Uint64(ts[:]),
			Signal:    body[6],
			Payload:   body[7:],
		})
		d.buf = d.buf[2+consumed:]
	}
}

type unescapeState int

const (
	complete unescapeState = iota
	needMore
	truncated
)

// unescape collects n body bytes from p, undoing 0x1a doubling. It reports
// how many input bytes it consumed and whether the body completed, needs
// more input, or was cut short by an unescaped 0x1a (a new frame start).
func unescape(p []byte, n int) (body []byte, consumed int, state unescapeState) {
	body = make([]byte, 0, n)
	i := 0
	for len(body) < n {
		if i >= len(p) {
			return nil, 0, needMore
		}
		b := p[i]
		if b != escapeByte {
			body = append(body, b)
			i++
			continue
		}
		if i+1 >= len(p) {
			return nil, 0, needMore
		}
		if p[i+1] == escapeByte {
			body = append(body, escapeByte)
			i += 2
			continue
		}
		return nil, i, truncated
	}
	return body, i, complete
}
