// Package modes implements the bit-level Mode-S decode functions used by the
// pipeline: checksum and parity, downlink format and transponder address
// extraction, the surveillance altitude/identity codes, and the ADS-B and
// Comm-B field decoders in the adsb/cpr/commb files.
//
// All functions take the frame as a 28-character hex string (14 bytes). They
// return ErrNotApplicable when the frame does not carry the requested field,
// which callers treat as "no data", not as a failure.
package modes

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// ErrNotApplicable reports that a frame does not carry the requested field
// (wrong downlink format, wrong typecode, or a cleared status bit).
var ErrNotApplicable = errors.New("modes: field not applicable")

// FrameHexLen is the hex length of a long (112 bit) Mode-S frame.
const FrameHexLen = 28

// checksumTable holds the Mode-S CRC24 remainders, one entry per message bit.
// The last 24 entries are zero so the parity field itself never contributes.
var checksumTable = [112]uint32{
	0x3935ea, 0x1c9af5, 0xf1b77e, 0x78dbbf, 0xc397db, 0x9e31e9, 0xb0e2f0, 0x587178,
	0x2c38bc, 0x161c5e, 0x0b0e2f, 0xfa7d13, 0x82c48d, 0xbe9842, 0x5f4c21, 0xd05c14,
	0x682e0a, 0x341705, 0xe5f186, 0x72f8c3, 0xc68665, 0x9cb936, 0x4e5c9b, 0xd8d449,
	0x939020, 0x49c810, 0x24e408, 0x127204, 0x093902, 0x049c81, 0xfdb444, 0x7eda22,
	0x3f6d11, 0xe04c8c, 0x702646, 0x381323, 0xe3f395, 0x8e03ce, 0x4701e7, 0xdc7af7,
	0x91c77f, 0xb719bb, 0xa476d9, 0xadc168, 0x56e0b4, 0x2b705a, 0x15b82d, 0xf52612,
	0x7a9309, 0xc2b380, 0x6159c0, 0x30ace0, 0x185670, 0x0c2b38, 0x06159c, 0x030ace,
	0x018567, 0xff38b7, 0x80665f, 0xbfc92b, 0xa01e91, 0xaff54c, 0x57faa6, 0x2bfd53,
	0xea04ad, 0x8af852, 0x457c29, 0xdd4410, 0x6ea208, 0x375104, 0x1ba882, 0x0dd441,
	0xf91024, 0x7c8812, 0x3e4409, 0xe0d800, 0x706c00, 0x383600, 0x1c1b00, 0x0e0d80,
	0x0706c0, 0x038360, 0x01c1b0, 0x00e0d8, 0x00706c, 0x003836, 0x001c1b, 0xfff409,
	0x000000, 0x000000, 0x000000, 0x000000, 0x000000, 0x000000, 0x000000, 0x000000,
	0x000000, 0x000000, 0x000000, 0x000000, 0x000000, 0x000000, 0x000000, 0x000000,
	0x000000, 0x000000, 0x000000, 0x000000, 0x000000, 0x000000, 0x000000, 0x000000,
}

func frameBytes(msg string) ([]byte, error) {
	msg = strings.ToLower(strings.TrimSpace(msg))
	data, err := hex.DecodeString(msg)
	if err != nil {
		return nil, fmt.Errorf("modes: bad hex frame: %w", err)
	}
	if len(data) != 7 && len(data) != 14 {
		return nil, fmt.Errorf("modes: frame must be 7 or 14 bytes, got %d", len(data))
	}
	return data, nil
}

// bit returns message bit i (0-based from the first transmitted bit).
func bit(data []byte, i int) int {
	if data[i/8]&(1<<(7-uint(i%8))) != 0 {
		return 1
	}
	return 0
}

// field returns n message bits starting at bit i as an unsigned integer.
func field(data []byte, i, n int) int {
	v := 0
	for k := 0; k < n; k++ {
		v = v<<1 | bit(data, i+k)
	}
	return v
}

// twos interprets an n-bit field as a two's-complement signed integer.
func twos(v, n int) int {
	if v >= 1<<(n-1) {
		v -= 1 << n
	}
	return v
}

// parity computes the expected CRC24 parity over the message data bits.
func parity(data []byte) uint32 {
	bits := len(data) * 8
	offset := 112 - bits
	var crc uint32
	for j := 0; j < bits; j++ {
		if bit(data, j) == 1 {
			crc ^= checksumTable[j+offset]
		}
	}
	return crc
}

// apField returns the trailing 24-bit address/parity field.
func apField(data []byte) uint32 {
	n := len(data)
	return uint32(data[n-3])<<16 | uint32(data[n-2])<<8 | uint32(data[n-1])
}

// Parity returns the expected CRC24 parity of a frame's data bits. Synthetic
// test frames are assembled with it (AP = parity XOR address).
func Parity(msg string) (uint32, error) {
	data, err := frameBytes(msg)
	if err != nil {
		return 0, err
	}
	return parity(data), nil
}

// DF returns the downlink format of a frame (0-24).
func DF(msg string) (int, error) {
	data, err := frameBytes(msg)
	if err != nil {
		return 0, err
	}
	df := int(data[0] >> 3)
	if df > 24 {
		df = 24
	}
	return df, nil
}

// ChecksumResidual returns the CRC24 remainder of a frame. For downlink
// formats whose parity field is overlaid with the transponder address
// (DF 0/4/5/16/20/21/24) the remainder cannot be verified without knowing the
// address, so the residual is reported as zero and the address is recovered
// by ICAO instead.
func ChecksumResidual(msg string) (uint32, error) {
	data, err := frameBytes(msg)
	if err != nil {
		return 0, err
	}
	switch int(data[0] >> 3) {
	case 0, 4, 5, 16, 20, 21, 24:
		return 0, nil
	}
	return parity(data) ^ apField(data), nil
}

// ICAO extracts the 24-bit transponder address as lowercase hex. For DF
// 11/17/18 the address is carried in bytes 1-3; for the address-overlaid
// formats it is recovered as parity XOR AP. Other formats have no resolvable
// address and return an empty string.
func ICAO(msg string) (string, error) {
	data, err := frameBytes(msg)
	if err != nil {
		return "", err
	}
	switch int(data[0] >> 3) {
	case 11, 17, 18:
		return fmt.Sprintf("%02x%02x%02x", data[1], data[2], data[3]), nil
	case 0, 4, 5, 16, 20, 21:
		addr := parity(data) ^ apField(data)
		return fmt.Sprintf("%06x", addr&0xffffff), nil
	}
	return "", ErrNotApplicable
}

// Capability returns the CA field of a DF11 all-call reply.
func Capability(msg string) (int, error) {
	data, err := frameBytes(msg)
	if err != nil {
		return 0, err
	}
	if int(data[0]>>3) != 11 {
		return 0, ErrNotApplicable
	}
	return int(data[0] & 7), nil
}

// AltCode decodes the 13-bit altitude code of DF 0/4/16/20 replies into feet.
// Only the 25 ft (Q=1) encoding is supported; the Gillham-coded and metric
// variants report ErrNotApplicable.
func AltCode(msg string) (float64, error) {
	data, err := frameBytes(msg)
	if err != nil {
		return 0, err
	}
	switch int(data[0] >> 3) {
	case 0, 4, 16, 20:
	default:
		return 0, ErrNotApplicable
	}
	// Altitude code occupies message bits 19-31. M is bit 25, Q is bit 27.
	if bit(data, 25) == 1 || bit(data, 27) == 0 {
		return 0, ErrNotApplicable
	}
	n := field(data, 19, 6)<<5 | bit(data, 26)<<4 | field(data, 28, 4)
	return float64(n*25 - 1000), nil
}

var squawkBitOrder = [12]int{
	// A4 A2 A1, B4 B2 B1, C4 C2 C1, D4 D2 D1 as message bit offsets
	// within the 13-bit identity field starting at message bit 19:
	// C1 A1 C2 A2 C4 A4 _ B1 D1 B2 D2 B4 D4
	24, 22, 20, // A
	30, 28, 26, // B
	23, 21, 19, // C
	31, 29, 27, // D
}

// IDCode decodes the 13-bit identity code of DF 5/21 replies into the
// four-digit squawk string.
func IDCode(msg string) (string, error) {
	data, err := frameBytes(msg)
	if err != nil {
		return "", err
	}
	switch int(data[0] >> 3) {
	case 5, 21:
	default:
		return "", ErrNotApplicable
	}
	digits := [4]int{}
	for i, pos := range squawkBitOrder {
		digits[i/3] = digits[i/3]<<1 | bit(data, pos)
	}
	return fmt.Sprintf("%d%d%d%d", digits[0], digits[1], digits[2], digits[3]), nil
}
