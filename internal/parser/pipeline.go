package parser

import (
	"math"
	"slices"

	"github.com/beetlebugorg/geotable/internal/coltype"
	"github.com/beetlebugorg/geotable/internal/geo"
	"github.com/beetlebugorg/geotable/internal/logging"
	"github.com/beetlebugorg/geotable/internal/ogr"
)

// pipeline holds the record handling shared by the ASCII and binary
// readers: column routing, value rules, filters and the two record
// buffers used for duplicate and gap checks.
type pipeline struct {
	cfg   Config
	types *coltype.System
	sel   *coltype.Selection
	meta  *ogr.Parser
	log   *logging.Logger
	once  *logging.Once

	// curr is filled by the next record; prev holds the last accepted
	// one. They trade places on every accepted record.
	curr, prev []float64
	havePrev   bool
	bound      bool

	// gaps is cfg.Gaps with distance rules made geographic once the
	// type of the x column is known.
	gaps         GapPolicy
	gapsResolved bool

	rowNo int
	pos   int
	stats Stats
}

func newPipeline(cfg Config, component string) *pipeline {
	log := cfg.logger().WithComponent(component)
	types := cfg.types()
	return &pipeline{
		cfg:   cfg,
		types: types,
		sel:   types.Selection(coltype.In),
		log:   log,
		once:  logging.NewOnce(log),
	}
}

func (p *pipeline) Types() *coltype.System { return p.types }

func (p *pipeline) Stats() Stats { return p.stats }

func (p *pipeline) Metadata() *ogr.Header {
	if p.meta == nil {
		return nil
	}
	return p.meta.Header()
}

func (p *pipeline) startSegment(text string, has bool) Event {
	p.havePrev = false
	p.bound = false
	p.stats.Segments++
	return Event{Status: StatusSegmentHeader, Header: text, HasHeader: has, Line: p.pos}
}

// rowSelected advances the data row counter and applies row ranges.
func (p *pipeline) rowSelected() bool {
	n := p.rowNo
	p.rowNo++
	if len(p.cfg.Rows) == 0 {
		return true
	}
	in := slices.ContainsFunc(p.cfg.Rows, func(r RowRange) bool { return r.Contains(n) })
	return in != p.cfg.InvertRows
}

// logicalWidth is the number of values a record of n physical columns
// produces.
func (p *pipeline) logicalWidth(n int) int {
	if p.sel != nil {
		return p.sel.Len()
	}
	return n
}

// required reports whether a parse failure in physical column k
// invalidates the record.
func (p *pipeline) required(k int) bool {
	if p.sel == nil {
		return slices.Contains(p.cfg.Required, k)
	}
	for _, c := range p.sel.Logical(k) {
		if slices.Contains(p.cfg.Required, c) {
			return true
		}
	}
	return false
}

func (p *pipeline) reportBad(args ...any) {
	p.stats.Bad++
	p.once.Report("bad record skipped", args...)
}

// route writes the logical values of phys into the current buffer.
func (p *pipeline) route(phys []float64) []float64 {
	n := p.logicalWidth(len(phys))
	if cap(p.curr) < n {
		p.curr = make([]float64, n, max(n, 8))
	}
	out := p.curr[:n]
	if p.sel != nil {
		p.sel.Route(phys, out)
	} else {
		copy(out, phys)
	}
	return out
}

// adjust applies the per-value rules: periodic longitude unwrapping and
// the missing-value proxy.
func (p *pipeline) adjust(out []float64) {
	for c, v := range out {
		if !math.IsNaN(v) && p.types.Type(coltype.In, c) == coltype.Lon {
			if r := p.cfg.Region; r != nil {
				v = geo.AdjustPeriodic(v, r.West, r.East)
			} else if p.cfg.LonRange != geo.RangeNone {
				v = geo.AdjustLon(p.cfg.LonRange, v)
			}
		}
		if mv := p.cfg.MissingValue; mv != nil && v == *mv {
			v = math.NaN()
		}
		out[c] = v
	}
}

func (p *pipeline) valuesSelected(out []float64) bool {
	for _, vr := range p.cfg.ValueRanges {
		if vr.Column >= len(out) {
			return false
		}
		v := out[vr.Column]
		if math.IsNaN(v) {
			return false
		}
		in := v >= vr.Min && v <= vr.Max
		if in == vr.Invert {
			return false
		}
	}
	return true
}

// resolveGaps fixes the gap rules at the first record, when the x
// column's type has been declared or inferred. A longitude x column
// measures distances across the dateline.
func (p *pipeline) resolveGaps() {
	p.gapsResolved = true
	p.gaps = GapPolicy{Rules: slices.Clone(p.cfg.Gaps.Rules), MatchAll: p.cfg.Gaps.MatchAll}
	if t := p.types.Type(coltype.In, 0); t != coltype.Lon && t != coltype.Geo {
		return
	}
	for i := range p.gaps.Rules {
		p.gaps.Rules[i].Geographic = true
	}
}

// convertAttribute applies the transform of logical column col to an
// attribute value injected into it.
func (p *pipeline) convertAttribute(col int, v float64) float64 {
	if col >= p.sel.Len() {
		return v
	}
	return p.sel.Column(col).Apply(v)
}

// complete runs the record-level rules on out and returns the event to
// hand to the caller. The second result is false when the record is
// dropped.
func (p *pipeline) complete(out []float64, text string, status Status) (Event, bool) {
	p.adjust(out)
	if !p.valuesSelected(out) {
		p.stats.Filtered++
		return Event{}, false
	}
	if p.cfg.SwapXY && len(out) >= 2 {
		out[0], out[1] = out[1], out[0]
	}

	var feature *ogr.Feature
	if p.meta != nil {
		if !p.bound {
			if f, ok := p.meta.Bind(); ok {
				feature = &f
			}
			p.bound = true
		}
		var convert func(int, float64) float64
		if p.sel != nil {
			convert = p.convertAttribute
		}
		out, text = p.meta.Inject(out, text, convert)
	}

	if p.cfg.SkipDuplicates && p.havePrev && len(out) >= 2 && len(p.prev) >= 2 &&
		out[0] == p.prev[0] && out[1] == p.prev[1] {
		p.stats.Duplicates++
		p.curr = out[:cap(out)]
		return Event{}, false
	}
	if !p.gapsResolved {
		p.resolveGaps()
	}
	if status == StatusData && p.havePrev && p.gaps.Detect(p.prev, out) {
		status = StatusGap
		p.stats.Segments++
	}

	old := p.prev
	p.prev = out
	p.curr = old[:cap(old)]
	p.havePrev = true
	p.stats.Records++
	return Event{
		Status:  status,
		Record:  Record{Values: out, Text: text},
		Feature: feature,
		Line:    p.pos,
	}, true
}

// summarize logs the repeated-anomaly counts at the end of a table.
func (p *pipeline) summarize() {
	p.once.Summarize("repeated table anomaly")
	if p.meta != nil {
		p.meta.Finish()
	}
	p.log.Debug("table read",
		"records", p.stats.Records,
		"bad", p.stats.Bad,
		"filtered", p.stats.Filtered,
		"duplicates", p.stats.Duplicates,
		"mismatches", p.stats.Mismatches,
		"segments", p.stats.Segments)
}
