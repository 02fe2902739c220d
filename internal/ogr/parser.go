package ogr

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/beetlebugorg/geotable/internal/logging"
)

// State is the dialect state of the table being read.
type State int

const (
	// Unknown: no @VGMT tag seen yet.
	Unknown State = iota
	// Confirmed: the table declared itself with @VGMT.
	Confirmed
	// NotPresent: the table is plain text. Sticky for the table.
	NotPresent
)

func (s State) String() string {
	switch s {
	case Confirmed:
		return "confirmed"
	case NotPresent:
		return "not-present"
	default:
		return "unknown"
	}
}

// Event reports what a comment line meant to the parser.
type Event int

const (
	// EventNone: the line is not dialect metadata.
	EventNone Event = iota
	// EventHeader: table-level tags were decoded.
	EventHeader
	// EventFeatureData: the header section ended.
	EventFeatureData
	// EventFeature: per-feature tags were decoded.
	EventFeature
	// EventDemoted: a malformed tag demoted the table to NotPresent.
	EventDemoted
)

func (e Event) String() string {
	switch e {
	case EventHeader:
		return "header"
	case EventFeatureData:
		return "feature-data"
	case EventFeature:
		return "feature"
	case EventDemoted:
		return "demoted"
	default:
		return "none"
	}
}

// Consumed reports whether the line was metadata and should not be
// passed on as a table header.
func (e Event) Consumed() bool {
	return e != EventNone && e != EventDemoted
}

const featureDataMarker = "# FEATURE_DATA"

// Association copies the attribute called Name into numeric output
// column Column, or into the trailing text when Column < 0.
type Association struct {
	Name   string
	Column int
}

// ParseAssociations parses "[col=]name,..." where col is a column number
// or T for trailing text. A bare name goes to the text.
func ParseAssociations(spec string) ([]Association, error) {
	var out []Association
	for _, item := range strings.Split(spec, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		a := Association{Column: -1}
		col, name, ok := strings.Cut(item, "=")
		if !ok {
			name = col
		} else if col != "T" {
			n, err := strconv.Atoi(col)
			if err != nil || n < 0 {
				return nil, fmt.Errorf("bad attribute column %q in %q", col, item)
			}
			a.Column = n
		}
		if name == "" {
			return nil, fmt.Errorf("missing attribute name in %q", item)
		}
		a.Name = name
		out = append(out, a)
	}
	return out, nil
}

// Parser is the per-table metadata state machine. Comment lines are fed
// to Parse in order; data records consult Bind and Inject.
type Parser struct {
	state    State
	dataMode bool
	header   Header
	names    bool
	types    bool

	pending    Feature
	hasPending bool
	active     Feature

	assoc []Association
	ids   []int

	demoted *ErrDemoted
	log     *logging.Logger
	once    *logging.Once
}

// NewParser returns a parser in the Unknown state.
func NewParser(assoc []Association, log *logging.Logger) *Parser {
	log = logging.OrNoop(log).WithComponent("ogr")
	return &Parser{
		assoc: assoc,
		log:   log,
		once:  logging.NewOnce(log),
	}
}

// State returns the current dialect state.
func (p *Parser) State() State { return p.state }

// DataMode reports whether FEATURE_DATA has been seen.
func (p *Parser) DataMode() bool { return p.dataMode }

// Demotion returns why the table was demoted, or nil.
func (p *Parser) Demotion() error {
	if p.demoted == nil {
		return nil
	}
	return p.demoted
}

// Header returns the table metadata when the dialect is confirmed.
func (p *Parser) Header() *Header {
	if p.state != Confirmed {
		return nil
	}
	return &p.header
}

// Parse examines one input line and returns the new state and what the
// line meant. Lines not starting with '#' are never metadata.
func (p *Parser) Parse(line string) (State, Event) {
	if p.state == NotPresent || !strings.HasPrefix(line, "#") {
		return p.state, EventNone
	}
	if p.dataMode {
		return p.parseFeature(line)
	}
	return p.parseHeader(line)
}

func (p *Parser) parseHeader(line string) (State, Event) {
	if p.state == Confirmed && strings.HasPrefix(line, featureDataMarker) {
		return p.beginData()
	}
	at := strings.IndexByte(line, '@')
	if at < 0 {
		return p.state, EventNone
	}
	rest := line[at:]
	if p.state == Unknown && strings.HasPrefix(rest, "@VGMT") {
		p.state = Confirmed
		p.header.Version = truncateAtSpace(strings.TrimPrefix(rest, "@VGMT"))
		next := strings.IndexByte(rest[1:], '@')
		if next < 0 {
			return p.state, EventHeader
		}
		rest = rest[next+1:]
	}
	if p.state != Confirmed {
		return p.state, EventNone
	}

	for _, tag := range splitTags(" " + rest) {
		if tag == "" {
			continue
		}
		code, payload := tag[0], strings.TrimLeft(tag[1:], " \t")
		if err := p.headerTag(code, tag[1:], payload); err != nil {
			return p.demote(err)
		}
	}
	return p.state, EventHeader
}

func (p *Parser) headerTag(code byte, raw, payload string) *ErrDemoted {
	switch code {
	case 'G':
		g, ok := parseGeometry(payload)
		if !ok {
			return &ErrDemoted{Tag: "G", Reason: fmt.Sprintf("unrecognized geometry %q", payload)}
		}
		if p.header.Geometry != GeometryNone && p.header.Geometry != g {
			return &ErrDemoted{Tag: "G", Reason: fmt.Sprintf("geometry %s conflicts with %s", g, p.header.Geometry)}
		}
		p.header.Geometry = g

	case 'N':
		if p.header.Geometry == GeometryNone {
			return &ErrDemoted{Tag: "N", Reason: "attribute names given but no geometry set"}
		}
		if p.names {
			return &ErrDemoted{Tag: "N", Reason: "attribute names declared more than once"}
		}
		var names []string
		for _, n := range SplitQuoted(truncateAtSpace(payload), '|') {
			names = append(names, Unquote(n))
		}
		if p.types && len(names) != len(p.header.Types) {
			return &ErrDemoted{Tag: "N", Reason: fmt.Sprintf("%d names for %d types", len(names), len(p.header.Types))}
		}
		p.header.Names = names
		p.names = true

	case 'T':
		if p.header.Geometry == GeometryNone {
			return &ErrDemoted{Tag: "T", Reason: "attribute types given but no geometry set"}
		}
		if p.types {
			return &ErrDemoted{Tag: "T", Reason: "attribute types declared more than once"}
		}
		var types []FieldType
		for _, t := range SplitQuoted(truncateAtSpace(payload), '|') {
			ft := ParseFieldType(Unquote(t))
			if ft == TypeUnknown {
				p.once.Report("unknown attribute type, using string", "type", t)
				ft = String
			}
			types = append(types, ft)
		}
		if p.names && len(types) != len(p.header.Names) {
			return &ErrDemoted{Tag: "T", Reason: fmt.Sprintf("%d types for %d names", len(types), len(p.header.Names))}
		}
		p.header.Types = types
		p.types = true

	case 'J':
		if raw == "" {
			return &ErrDemoted{Tag: "J", Reason: "missing projection flavor"}
		}
		k := strings.IndexByte(projFlavors, raw[0])
		if k < 0 {
			return &ErrDemoted{Tag: "J", Reason: fmt.Sprintf("unknown projection flavor %q", raw[0])}
		}
		p.header.Proj[k] = raw[1:]

	case 'R':
		if p.header.Region != "" {
			return &ErrDemoted{Tag: "R", Reason: "region can only appear once"}
		}
		p.header.Region = payload

	default:
		return &ErrDemoted{Tag: string(code), Reason: "tag not allowed before FEATURE_DATA"}
	}
	return nil
}

func (p *Parser) beginData() (State, Event) {
	if len(p.assoc) > 0 && p.header.Geometry == GeometryNone {
		return p.demote(&ErrDemoted{Tag: "a", Reason: "attribute columns requested but no geometry declared"})
	}
	p.header.normalize()
	p.dataMode = true
	p.ids = make([]int, len(p.assoc))
	for k, a := range p.assoc {
		p.ids[k] = p.header.Index(a.Name)
		if p.ids[k] < 0 {
			p.once.Report("requested attribute not declared", "name", a.Name)
		}
	}
	return p.state, EventFeatureData
}

func (p *Parser) parseFeature(line string) (State, Event) {
	at := strings.IndexByte(line, '@')
	if at < 0 {
		return p.state, EventNone
	}
	for _, tag := range splitTags(line[at-1:]) {
		if tag == "" {
			continue
		}
		switch tag[0] {
		case 'D':
			if p.header.Geometry == GeometryNone {
				return p.demote(&ErrDemoted{Tag: "D", Reason: "attribute values given but no geometry set"})
			}
			p.pending.Values = p.decodeValues(strings.TrimLeft(tag[1:], " \t"))
		case 'P', 'H':
			if !p.header.Geometry.IsPolygon() {
				return p.demote(&ErrDemoted{Tag: tag[:1], Reason: "only valid for polygons"})
			}
			p.pending.PolMode = Perimeter
			if tag[0] == 'H' {
				p.pending.PolMode = Hole
			}
		default:
			return p.demote(&ErrDemoted{Tag: tag[:1], Reason: "tag not allowed after FEATURE_DATA"})
		}
		p.hasPending = true
	}
	return p.state, EventFeature
}

// decodeValues splits an @D payload and converts each value by its
// declared type, so that the result always has NumFields entries.
func (p *Parser) decodeValues(payload string) []Value {
	n := p.header.NumFields()
	if n == 0 {
		p.once.Report("attribute values given but no fields declared")
		return nil
	}
	raw := SplitQuoted(payload, '|')
	switch {
	case len(raw) == n-1:
		p.log.Debug("last attribute value missing, set to empty", "declared", n)
	case len(raw) < n:
		p.once.Report("attribute values missing, set to empty", "declared", n, "given", len(raw))
	case len(raw) > n:
		p.once.Report("extra attribute values ignored", "declared", n, "given", len(raw))
		raw = raw[:n]
	}
	vals := make([]Value, n)
	for i := range vals {
		text := ""
		if i < len(raw) {
			text = Unquote(strings.TrimSpace(raw[i]))
		}
		vals[i] = NewValue(p.header.Types[i], text)
	}
	return vals
}

func (p *Parser) demote(err *ErrDemoted) (State, Event) {
	p.log.Error(err.Error())
	p.state = NotPresent
	p.demoted = err
	p.dataMode = false
	return p.state, EventDemoted
}

// Bind makes the feature tags collected since the last call the active
// feature and returns a copy of it. Tables call it when a segment gets
// its first record. The second result is false when the table carries
// no dialect metadata.
func (p *Parser) Bind() (Feature, bool) {
	if p.state != Confirmed || !p.dataMode {
		return Feature{}, false
	}
	if p.hasPending {
		if p.pending.Values == nil {
			// A bare @P/@H keeps the previous feature's values.
			p.pending.Values = p.active.Values
		}
		p.active = p.pending
		p.pending = Feature{}
		p.hasPending = false
	}
	return p.active.Clone(), true
}

// Inject copies associated attribute values of the active feature into
// rec (growing it with NaN as needed) and appends text-valued ones to
// text. When convert is non-nil it is applied to every numeric value
// before it is stored in its column. It returns the updated record and
// text.
func (p *Parser) Inject(rec []float64, text string, convert func(col int, v float64) float64) ([]float64, string) {
	if p.state != Confirmed || !p.dataMode {
		return rec, text
	}
	for k, a := range p.assoc {
		id := p.ids[k]
		if id < 0 || id >= len(p.active.Values) {
			continue
		}
		v := p.active.Values[id]
		if a.Column < 0 {
			if text != "" {
				text += " "
			}
			text += v.Text
			continue
		}
		for len(rec) <= a.Column {
			rec = append(rec, math.NaN())
		}
		n := v.Number
		if convert != nil {
			n = convert(a.Column, n)
		}
		rec[a.Column] = n
	}
	return rec, text
}

// Finish logs a summary of repeated anomalies for the table.
func (p *Parser) Finish() {
	p.once.Summarize("repeated metadata anomaly")
}
