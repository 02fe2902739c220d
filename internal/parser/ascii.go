package parser

import (
	"bufio"
	"errors"
	"io"
	"math"
	"strings"

	"github.com/beetlebugorg/geotable/internal/codec"
	"github.com/beetlebugorg/geotable/internal/coltype"
	"github.com/beetlebugorg/geotable/internal/ogr"
	"github.com/beetlebugorg/geotable/internal/scan"
)

type span struct{ start, end int }

// ASCIIReader reads delimited text tables.
type ASCIIReader struct {
	*pipeline
	rd   *bufio.Reader
	seps [256]bool

	line  int
	width int // physical numeric columns; -1 until the first data record
	kind  Kind
	done  bool

	spans  []span
	phys   []float64
	failed []int
}

// NewASCIIReader wraps r. The caller validates cfg (NewReader does).
func NewASCIIReader(r io.Reader, cfg Config) *ASCIIReader {
	p := newPipeline(cfg, "ascii")
	p.meta = ogr.NewParser(cfg.Associations, p.log)
	a := &ASCIIReader{
		pipeline: p,
		rd:       bufio.NewReaderSize(r, 64*1024),
		width:    -1,
	}
	for i := 0; i < len(cfg.Separators); i++ {
		a.seps[cfg.Separators[i]] = true
	}
	return a
}

// Kind returns the record shape learned from the first data record.
func (r *ASCIIReader) Kind() Kind { return r.kind }

// Width returns the logical numeric width, or 0 before the first record.
func (r *ASCIIReader) Width() int {
	if r.width < 0 {
		return 0
	}
	return r.logicalWidth(r.width)
}

// Next returns the next event of the table.
func (r *ASCIIReader) Next() (Event, error) {
	if r.done {
		return Event{Status: StatusEOF, Line: r.line}, nil
	}
	for {
		raw, err := r.readLine()
		if errors.Is(err, io.EOF) {
			r.done = true
			r.summarize()
			return Event{Status: StatusEOF, Line: r.line}, nil
		}
		if err != nil {
			return Event{}, &ErrRead{Table: r.cfg.Name, Line: r.line + 1, Err: err}
		}
		r.line++
		r.pos = r.line

		if r.line <= r.cfg.HeaderLines {
			return Event{Status: StatusTableHeader, Header: raw, HasHeader: true, Line: r.line}, nil
		}
		line := strings.TrimLeft(raw, " \t")
		if line == "" {
			if r.cfg.BlankIsSegment {
				return r.startSegment("", false), nil
			}
			continue
		}
		if _, ev := r.meta.Parse(line); ev.Consumed() {
			continue
		}
		switch line[0] {
		case r.cfg.HeaderMarker:
			return Event{Status: StatusTableHeader, Header: raw, HasHeader: true, Line: r.line}, nil
		case r.cfg.SegmentMarker:
			return r.startSegment(strings.TrimSpace(line[1:]), true), nil
		}
		if ev, ok := r.record(line); ok {
			return ev, nil
		}
	}
}

func (r *ASCIIReader) readLine() (string, error) {
	s, err := r.rd.ReadString('\n')
	if err == io.EOF && s != "" {
		err = nil
	}
	if err != nil {
		return "", err
	}
	return strings.TrimRight(s, "\r\n"), nil
}

// split records the field spans of line. Runs of separators count as one.
func (r *ASCIIReader) split(line string) {
	r.spans = r.spans[:0]
	start := -1
	for i := 0; i < len(line); i++ {
		if r.seps[line[i]] {
			if start >= 0 {
				r.spans = append(r.spans, span{start, i})
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		r.spans = append(r.spans, span{start, len(line)})
	}
}

func (r *ASCIIReader) token(line string, k int) string {
	sp := r.spans[k]
	return line[sp.start:sp.end]
}

// learn measures the leading numeric run of line. On the first data
// record it also infers the types of unlocked columns and fixes the
// table's kind and width.
func (r *ASCIIReader) learn(line string) {
	first := r.width < 0
	n := 0
	for k := range r.spans {
		if r.sel != nil && k <= r.sel.MaxPhysical() && !r.sel.Consumes(k) {
			n++
			continue
		}
		tok := r.token(line, k)
		if scan.IsNaN(tok) {
			n++
			continue
		}
		t := r.types.PhysicalType(coltype.In, k)
		var got coltype.Type
		var ok bool
		if t == coltype.Unknown {
			_, got, ok = scan.Infer(tok)
		} else {
			_, got, ok = scan.Token(tok, t)
		}
		if !ok {
			break
		}
		if first && t == coltype.Unknown {
			r.inferType(k, got)
		}
		n++
	}
	r.width = n
	switch {
	case n == 0:
		r.kind = KindText
	case n == len(r.spans):
		r.kind = KindNumeric
	default:
		r.kind = KindMixed
	}
	if first {
		r.log.Debug("table format learned", "kind", r.kind, "width", r.Width())
	}
}

func (r *ASCIIReader) inferType(k int, t coltype.Type) {
	if r.sel == nil {
		r.types.Set(coltype.In, k, t)
		return
	}
	for _, c := range r.sel.Logical(k) {
		if r.sel.Column(c).Type == coltype.Unknown {
			r.types.Set(coltype.In, c, t)
		}
	}
}

func (r *ASCIIReader) scanField(k int, tok string) (float64, bool) {
	if scan.IsNaN(tok) {
		return math.NaN(), true
	}
	var v float64
	var ok bool
	if t := r.types.PhysicalType(coltype.In, k); t == coltype.Unknown {
		v, _, ok = scan.Infer(tok)
	} else {
		v, _, ok = scan.Token(tok, t)
	}
	if !ok {
		return math.NaN(), false
	}
	return v, true
}

// record converts one data line. The second result is false when the
// line was consumed without producing an event.
func (r *ASCIIReader) record(line string) (Event, bool) {
	if !r.rowSelected() {
		r.stats.Filtered++
		return Event{}, false
	}
	r.split(line)
	if r.width < 0 || r.cfg.VariableWidth {
		r.learn(line)
	}
	n := r.width

	r.phys = r.phys[:0]
	r.failed = r.failed[:0]
	for k := 0; k < n; k++ {
		if k >= len(r.spans) || (r.sel != nil && !r.sel.Consumes(k)) {
			r.phys = append(r.phys, math.NaN())
			continue
		}
		v, ok := r.scanField(k, r.token(line, k))
		if !ok {
			r.failed = append(r.failed, k)
		}
		r.phys = append(r.phys, v)
	}
	if r.sel != nil {
		// Selected columns past the numeric run still have to be scanned.
		for k := n; k <= r.sel.MaxPhysical(); k++ {
			v := math.NaN()
			if k < len(r.spans) && r.sel.Consumes(k) {
				var ok bool
				if v, ok = r.scanField(k, r.token(line, k)); !ok {
					r.failed = append(r.failed, k)
				}
			}
			r.phys = append(r.phys, v)
		}
	}

	for _, k := range r.failed {
		if r.required(k) && !r.cfg.NaNRecords {
			tok := ""
			if k < len(r.spans) {
				tok = r.token(line, k)
			}
			r.reportBad("line", r.line, "column", k, "token", tok)
			return Event{}, false
		}
	}

	if r.cfg.NaNIsSegment && n > 0 && len(r.failed) == 0 && codec.AllNaN(r.phys[:n]) {
		return r.startSegment("", false), true
	}

	var text string
	from := n
	if r.sel != nil {
		from = max(from, r.sel.MaxPhysical()+1)
	}
	if r.kind != KindNumeric && len(r.spans) > from {
		text = strings.TrimRight(line[r.spans[from].start:], " \t")
		text = r.word(text)
	}

	status := StatusData
	if !r.cfg.VariableWidth && (len(r.spans) < n || (r.kind == KindNumeric && len(r.spans) > n)) {
		status = StatusMismatch
		r.stats.Mismatches++
		r.once.Report("column count mismatch", "line", r.line, "expected", n, "found", len(r.spans))
	}
	return r.complete(r.route(r.phys), text, status)
}

// word applies the trailing-word selection to text.
func (r *ASCIIReader) word(text string) string {
	if r.cfg.TrailingWord < 0 {
		return text
	}
	words := strings.Fields(text)
	if r.cfg.TrailingWord >= len(words) {
		return ""
	}
	return words[r.cfg.TrailingWord]
}
