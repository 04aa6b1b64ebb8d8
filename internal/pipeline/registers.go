package pipeline

import (
	"github.com/Bingham-Research-Center/flightdata/internal/modes"
)

// commbRegister describes one supported Comm-B register: the plausibility
// probe that decides whether the MB payload looks like this register, and the
// field decoders that apply when it does.
type commbRegister struct {
	code   string
	probe  func(msg string) (bool, error)
	fields []fieldDecoder
}

// commbRegisters is the closed set of registers the decoder understands.
// Probes run on every DF20/21 message and their verdicts are recorded as
// is{code} flags; a register's field battery runs only when its probe fires.
var commbRegisters = []commbRegister{
	{code: "10", probe: modes.IsBDS10, fields: []fieldDecoder{
		{"ovc10", scalarI(modes.OVC10)},
	}},
	{code: "17", probe: modes.IsBDS17, fields: []fieldDecoder{
		{"cap17", decodeCap17},
	}},
	{code: "20", probe: modes.IsBDS20, fields: []fieldDecoder{
		{"cs20", scalarS(modes.CS20)},
	}},
	{code: "30", probe: modes.IsBDS30},
	{code: "40", probe: modes.IsBDS40, fields: []fieldDecoder{
		{"selalt40_mcp", scalarF(modes.SelAlt40MCP)},
		{"selalt40_fms", scalarF(modes.SelAlt40FMS)},
		{"p40_baro", scalarF(modes.P40Baro)},
	}},
	{code: "44", probe: modes.IsBDS44, fields: []fieldDecoder{
		{"wind44", decodeWind44},
		{"temp44", scalarF(modes.Temp44)},
		{"p44", scalarF(modes.P44)},
		{"hum44", scalarF(modes.Hum44)},
	}},
	{code: "45", probe: modes.IsBDS45, fields: []fieldDecoder{
		{"turb45", scalarI(modes.Turb45)},
		{"ws45", scalarI(modes.WS45)},
		{"mb45", scalarI(modes.MB45)},
		{"ic45", scalarI(modes.IC45)},
		{"wv45", scalarI(modes.WV45)},
		{"temp45", scalarF(modes.Temp45)},
		{"p45", scalarF(modes.P45)},
		{"rh45", scalarF(modes.RH45)},
	}},
	{code: "50", probe: modes.IsBDS50, fields: []fieldDecoder{
		{"roll50", scalarF(modes.Roll50)},
		{"trk50", scalarF(modes.Trk50)},
		{"gs50", scalarF(modes.GS50)},
		{"rtrk50", scalarF(modes.RTrk50)},
		{"tas50", scalarF(modes.TAS50)},
	}},
	{code: "60", probe: modes.IsBDS60, fields: []fieldDecoder{
		{"hdg60", scalarF(modes.Hdg60)},
		{"ias60", scalarF(modes.IAS60)},
		{"mach60", scalarF(modes.Mach60)},
		{"vr60_baro", scalarF(modes.VR60Baro)},
		{"vr60_ins", scalarF(modes.VR60Ins)},
	}},
}

func decodeCap17(msg string) (any, error) {
	caps, err := modes.Cap17(msg)
	if err != nil {
		return nil, err
	}
	if len(caps) == 0 {
		return nil, nil
	}
	out := make([]any, len(caps))
	for i, c := range caps {
		out[i] = c
	}
	return out, nil
}

func decodeWind44(msg string) (any, error) {
	speed, dir, err := modes.Wind44(msg)
	if err != nil {
		return nil, err
	}
	return []any{speed, dir}, nil
}
