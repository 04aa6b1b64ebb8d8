// Package pipeline turns a stream of raw Mode S frames into decoded,
// per-message records. It validates and classifies each frame, dispatches it
// to the extended-squitter or Comm-B decoder batteries, resolves positions by
// pairing even/odd CPR messages, and accumulates the results for later
// flattening into datasets.
package pipeline

import (
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"golang.org/x/crypto/blake2b"

	"github.com/Bingham-Research-Center/flightdata/internal/dataset"
	"github.com/Bingham-Research-Center/flightdata/internal/modes"
	"github.com/Bingham-Research-Center/flightdata/internal/stats"
	"github.com/Bingham-Research-Center/flightdata/internal/types"
)

// Options configures a Pipeline.
type Options struct {
	// RefLat/RefLon is the receiver location, used for surface position
	// decoding and as a fallback for unpaired airborne positions. Both nil
	// disables reference-based decoding.
	RefLat *float64
	RefLon *float64

	// Stats receives counter increments. A fresh collector is created when
	// nil.
	Stats *stats.Collector

	// OnRecord, when set, is called synchronously with every accumulated
	// record. The callback must not retain the map.
	OnRecord func(rec types.Record)
}

// Pipeline decodes frames and accumulates records. Process is safe for
// concurrent use, though frames of one aircraft should arrive in order for
// position pairing to behave sensibly.
type Pipeline struct {
	refLat *float64
	refLon *float64
	stats  *stats.Collector
	cache  *positionCache

	onRecord func(types.Record)

	mu      sync.Mutex
	records []types.Record
}

func New(opts Options) *Pipeline {
	st := opts.Stats
	if st == nil {
		st = stats.New()
	}
	return &Pipeline{
		refLat:   opts.RefLat,
		refLon:   opts.RefLon,
		stats:    st,
		cache:    newPositionCache(),
		onRecord: opts.OnRecord,
	}
}

// Stats returns the pipeline's counter collector.
func (p *Pipeline) Stats() *stats.Collector { return p.stats }

// Process decodes a single frame. Frames that fail validation are counted
// and dropped; everything else yields exactly one record.
func (p *Pipeline) Process(frame types.Frame) {
	msg := frame.Hex()
	if len(msg) != modes.FrameHexLen {
		p.stats.Inc("len_fail")
		return
	}
	residual, err := modes.ChecksumResidual(msg)
	if err != nil {
		p.stats.Inc("len_fail")
		return
	}
	if residual != 0 {
		p.stats.Inc("crc_fail")
		return
	}

	df, err := modes.DF(msg)
	if err != nil {
		return
	}
	icao, err := modes.ICAO(msg)
	if err != nil || icao == "" {
		return
	}
	p.stats.Inc(fmt.Sprintf("df%d", df))

	rec := types.Record{
		"timestamp":    float64(frame.Timestamp.UnixNano()) / 1e9,
		"datetime_utc": frame.Timestamp.UTC(),
		"msg":          msg,
		"msg_hash":     msgHash(msg),
		"df":           df,
		"icao":         icao,
	}

	switch df {
	case 17, 18:
		p.decodeExtendedSquitter(rec, msg, frame.Timestamp, icao)
	case 20, 21:
		p.decodeCommB(rec, msg)
		if df == 21 {
			if squawk, err := modes.IDCode(msg); err == nil {
				rec["squawk"] = squawk
			}
		}
	case 4:
		if alt, err := modes.AltCode(msg); err == nil {
			rec["altitude"] = alt
		}
	case 5:
		if squawk, err := modes.IDCode(msg); err == nil {
			rec["squawk"] = squawk
		}
	case 11:
		if ca, err := modes.Capability(msg); err == nil {
			rec["capability"] = ca
		}
	}

	if p.onRecord != nil {
		p.onRecord(rec)
	}

	p.mu.Lock()
	p.records = append(p.records, rec)
	p.mu.Unlock()
}

func (p *Pipeline) decodeExtendedSquitter(rec types.Record, msg string, ts time.Time, icao string) {
	tc, err := modes.Typecode(msg)
	if err != nil {
		return
	}
	rec["typecode"] = tc
	p.stats.Inc(fmt.Sprintf("tc%d", tc))

	applyFields(rec, adsbFields, msg)

	if modes.IsPositionTC(tc) {
		p.resolvePosition(rec, msg, ts, icao, tc)
	}
}

func (p *Pipeline) decodeCommB(rec types.Record, msg string) {
	code, unique, err := modes.InferBDS(msg, true)
	if err == nil && code != "" {
		rec["bds"] = code
		if unique {
			p.stats.Inc("bds" + code)
		}
	}

	for _, reg := range commbRegisters {
		active, err := reg.probe(msg)
		if err != nil {
			continue
		}
		rec["is"+reg.code] = active
		if active && len(reg.fields) > 0 {
			applyFields(rec, reg.fields, msg)
		}
	}
}

// resolvePosition stores the message in the pairing cache and, when a usable
// even/odd pair exists, decodes a global position. Surface typecodes need the
// receiver reference. Without a fresh pair no position is emitted; the
// single-message reference decode is only a fallback for pairs the global
// decode cannot resolve.
func (p *Pipeline) resolvePosition(rec types.Record, msg string, ts time.Time, icao string, tc int) {
	oe, err := modes.OEFlag(msg)
	if err != nil {
		return
	}
	p.cache.observe(icao, oe, msg, ts)

	even, odd, ok := p.cache.pair(icao)
	if !ok {
		return
	}
	tEven := float64(even.ts.UnixNano()) / 1e9
	tOdd := float64(odd.ts.UnixNano()) / 1e9

	var lat, lon float64
	var ptype string
	surface := tc >= 5 && tc <= 8
	if surface {
		if p.refLat == nil || p.refLon == nil {
			return
		}
		lat, lon, err = modes.SurfacePosition(even.msg, odd.msg, tEven, tOdd, *p.refLat, *p.refLon)
		ptype = "surface"
	} else {
		lat, lon, err = modes.AirbornePosition(even.msg, odd.msg, tEven, tOdd)
		ptype = "airborne"
	}
	if err != nil {
		// Pair decoding failed (zone straddle or inconsistent encodings):
		// fall back to single-message reference decoding when a receiver
		// location is configured.
		if p.refLat == nil || p.refLon == nil {
			return
		}
		lat, lon, err = modes.PositionWithRef(msg, *p.refLat, *p.refLon)
		if err != nil {
			return
		}
		ptype = "with_ref"
	}
	rec["latitude"] = lat
	rec["longitude"] = lon
	rec["position_type"] = ptype
}

// Records returns a snapshot of the accumulated records.
func (p *Pipeline) Records() []types.Record {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]types.Record, len(p.records))
	copy(out, p.records)
	return out
}

// AircraftSeen returns the number of distinct aircraft with cached position
// messages.
func (p *Pipeline) AircraftSeen() int { return p.cache.size() }

// Finalize flattens, sorts, quantizes and partitions the accumulated records
// into the core and derived datasets.
func (p *Pipeline) Finalize() (core, derived *dataset.Dataset) {
	ds := dataset.Flatten(p.Records())
	ds.Sort()
	ds.Quantize()
	return ds.Partition()
}

// msgHash returns the 8-byte BLAKE2 digest of the frame hex, used as a
// compact per-message identity across datasets.
func msgHash(msg string) string {
	h, err := blake2b.New(8, nil)
	if err != nil {
		panic(err)
	}
	h.Write([]byte(msg))
	return hex.EncodeToString(h.Sum(nil))
}
