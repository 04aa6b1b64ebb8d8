package testutils

import (
	"testing"

	"github.com/Bingham-Research-Center/flightdata/internal/modes"
)

func TestDF17Frame(t *testing.T) {
	msg := DF17Frame("4840d6", "202cc371c32ce0")

	if len(msg) != modes.FrameHexLen {
		t.Fatalf("Frame length = %d, want %d", len(msg), modes.FrameHexLen)
	}
	res, err := modes.ChecksumResidual(msg)
	if err != nil {
		t.Fatalf("ChecksumResidual() error: %v", err)
	}
	if res != 0 {
		t.Errorf("Synthetic DF17 frame has residual %06x, want 0", res)
	}
	df, _ := modes.DF(msg)
	if df != 17 {
		t.Errorf("DF = %d, want 17", df)
	}
	icao, _ := modes.ICAO(msg)
	if icao != "4840d6" {
		t.Errorf("ICAO = %q, want 4840d6", icao)
	}
	cs, err := modes.Callsign(msg)
	if err != nil {
		t.Fatalf("Callsign() error: %v", err)
	}
	if cs != "KLM1023_" {
		t.Errorf("Callsign = %q, want KLM1023_", cs)
	}
}

func TestDF4Frame(t *testing.T) {
	msg := DF4Frame("a1b2c3", 36000)

	df, _ := modes.DF(msg)
	if df != 4 {
		t.Errorf("DF = %d, want 4", df)
	}
	icao, err := modes.ICAO(msg)
	if err != nil {
		t.Fatalf("ICAO() error: %v", err)
	}
	if icao != "a1b2c3" {
		t.Errorf("Recovered ICAO = %q, want a1b2c3", icao)
	}
	alt, err := modes.AltCode(msg)
	if err != nil {
		t.Fatalf("AltCode() error: %v", err)
	}
	if alt != 36000 {
		t.Errorf("AltCode = %v, want 36000", alt)
	}
}

func TestDF5Frame(t *testing.T) {
	tests := []string{"0000", "1200", "7421", "7777"}
	for _, squawk := range tests {
		msg := DF5Frame("a1b2c3", squawk)

		icao, err := modes.ICAO(msg)
		if err != nil {
			t.Fatalf("ICAO() error: %v", err)
		}
		if icao != "a1b2c3" {
			t.Errorf("Recovered ICAO = %q, want a1b2c3", icao)
		}
		got, err := modes.IDCode(msg)
		if err != nil {
			t.Fatalf("IDCode() error: %v", err)
		}
		if got != squawk {
			t.Errorf("IDCode = %q, want %q", got, squawk)
		}
	}
}

func TestDF11Frame(t *testing.T) {
	msg := DF11Frame("a1b2c3", 5)

	res, err := modes.ChecksumResidual(msg)
	if err != nil {
		t.Fatalf("ChecksumResidual() error: %v", err)
	}
	if res != 0 {
		t.Errorf("Synthetic DF11 frame has residual %06x, want 0", res)
	}
	ca, err := modes.Capability(msg)
	if err != nil {
		t.Fatalf("Capability() error: %v", err)
	}
	if ca != 5 {
		t.Errorf("Capability = %d, want 5", ca)
	}
}

func TestCommBFrame(t *testing.T) {
	// Wrap a known track and turn report payload in a fresh DF20 frame.
	mb := "81951536e024d4"
	msg := CommBFrame(20, "a1b2c3", mb)

	df, _ := modes.DF(msg)
	if df != 20 {
		t.Errorf("DF = %d, want 20", df)
	}
	icao, err := modes.ICAO(msg)
	if err != nil {
		t.Fatalf("ICAO() error: %v", err)
	}
	if icao != "a1b2c3" {
		t.Errorf("Recovered ICAO = %q, want a1b2c3", icao)
	}
	roll, err := modes.Roll50(msg)
	if err != nil {
		t.Fatalf("Roll50() error: %v", err)
	}
	if roll < 2.0 || roll > 2.2 {
		t.Errorf("Roll50 = %v, want 2.1", roll)
	}
}
