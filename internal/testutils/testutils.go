// Package testutils builds synthetic Mode-S frames for tests. Frames are
// sealed with a valid CRC24 parity field so they pass pipeline validation:
// directly for DF 11/17/18, XORed with the transponder address for the
// address-overlaid surveillance and Comm-B formats.
package testutils

import (
	"context"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/Bingham-Research-Center/flightdata/internal/modes"
	"github.com/Bingham-Research-Center/flightdata/internal/types"
)

func setBit(data []byte, i int) {
	data[i/8] |= 1 << (7 - uint(i%8))
}

func icaoValue(icao string) uint32 {
	b, err := hex.DecodeString(icao)
	if err != nil || len(b) != 3 {
		panic(fmt.Sprintf("bad test icao %q", icao))
	}
	return uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2])
}

// seal writes the trailing 24-bit AP field so the frame decodes back to the
// given address: xor=0 leaves a zero checksum residual, xor=address makes
// the overlaid formats recover the address as parity XOR AP.
func seal(data []byte, xor uint32) string {
	p, err := modes.Parity(hex.EncodeToString(data))
	if err != nil {
		panic(err)
	}
	ap := p ^ xor
	n := len(data)
	data[n-3] = byte(ap >> 16)
	data[n-2] = byte(ap >> 8)
	data[n-1] = byte(ap)
	return hex.EncodeToString(data)
}

// DF17Frame builds an extended squitter with the given 56-bit ME field,
// passed as 14 hex characters.
func DF17Frame(icao, meHex string) string {
	me, err := hex.DecodeString(meHex)
	if err != nil || len(me) != 7 {
		panic(fmt.Sprintf("bad test ME field %q", meHex))
	}
	data := make([]byte, 14)
	data[0] = 17<<3 | 5 // CA 5
	addr := icaoValue(icao)
	data[1] = byte(addr >> 16)
	data[2] = byte(addr >> 8)
	data[3] = byte(addr)
	copy(data[4:11], me)
	return seal(data, 0)
}

// DF11Frame builds an all-call reply with the given capability.
func DF11Frame(icao string, ca int) string {
	data := make([]byte, 14)
	data[0] = 11<<3 | byte(ca&7)
	addr := icaoValue(icao)
	data[1] = byte(addr >> 16)
	data[2] = byte(addr >> 8)
	data[3] = byte(addr)
	return seal(data, 0)
}

// DF4Frame builds a surveillance altitude reply carrying altFt in the
// 25 ft encoding. altFt must be a multiple of 25.
func DF4Frame(icao string, altFt int) string {
	data := make([]byte, 14)
	data[0] = 4 << 3
	n := (altFt + 1000) / 25
	// AC field bits 19-31: high 6 bits, M, one mid bit, Q, low 4 bits.
	for k := 0; k < 6; k++ {
		if n>>(10-k)&1 == 1 {
			setBit(data, 19+k)
		}
	}
	if n>>4&1 == 1 {
		setBit(data, 26)
	}
	setBit(data, 27) // Q
	for k := 0; k < 4; k++ {
		if n>>(3-k)&1 == 1 {
			setBit(data, 28+k)
		}
	}
	return seal(data, icaoValue(icao))
}

// squawk digit bit positions, most significant bit of each digit first.
var squawkBits = [12]int{
	24, 22, 20, // A
	30, 28, 26, // B
	23, 21, 19, // C
	31, 29, 27, // D
}

// DF5Frame builds a surveillance identity reply carrying a four-digit
// squawk code.
func DF5Frame(icao, squawk string) string {
	if len(squawk) != 4 {
		panic(fmt.Sprintf("bad test squawk %q", squawk))
	}
	data := make([]byte, 14)
	data[0] = 5 << 3
	for i, pos := range squawkBits {
		digit := int(squawk[i/3] - '0')
		if digit>>(2-i%3)&1 == 1 {
			setBit(data, pos)
		}
	}
	return seal(data, icaoValue(icao))
}

// CommBFrame builds a DF20 or DF21 reply with the given 56-bit MB field,
// passed as 14 hex characters.
func CommBFrame(df int, icao, mbHex string) string {
	if df != 20 && df != 21 {
		panic(fmt.Sprintf("bad test Comm-B DF %d", df))
	}
	mb, err := hex.DecodeString(mbHex)
	if err != nil || len(mb) != 7 {
		panic(fmt.Sprintf("bad test MB field %q", mbHex))
	}
	data := make([]byte, 14)
	data[0] = byte(df << 3)
	copy(data[4:11], mb)
	return seal(data, icaoValue(icao))
}

// MockFrame wraps a hex frame the way the Beast source delivers it.
func MockFrame(msg string) types.Frame {
	return types.Frame{
		Raw:       msg,
		Timestamp: time.Now().UTC(),
		Source:    "test-source",
	}
}

// MockFrameAt is MockFrame with an explicit capture timestamp.
func MockFrameAt(msg string, ts time.Time) types.Frame {
	return types.Frame{
		Raw:       msg,
		Timestamp: ts,
		Source:    "test-source",
	}
}

// WaitForCondition waits for a condition to be true with timeout
func WaitForCondition(condition func() bool, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("timeout waiting for condition")
		case <-ticker.C:
			if condition() {
				return nil
			}
		}
	}
}
