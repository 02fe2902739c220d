package parser

import (
	"bytes"
	"math"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beetlebugorg/geotable/internal/codec"
	"github.com/beetlebugorg/geotable/internal/coltype"
	"github.com/beetlebugorg/geotable/internal/geo"
	"github.com/beetlebugorg/geotable/internal/ogr"
)

func readEvents(t *testing.T, input string, cfg Config) ([]Event, Reader) {
	t.Helper()
	r, err := NewReader(strings.NewReader(input), cfg)
	require.NoError(t, err)
	var events []Event
	require.NoError(t, ReadAll(r, func(ev Event) error {
		ev.Record.Values = slices.Clone(ev.Record.Values)
		events = append(events, ev)
		return nil
	}))
	return events, r
}

func statuses(events []Event) []Status {
	out := make([]Status, len(events))
	for i, ev := range events {
		out[i] = ev.Status
	}
	return out
}

func records(events []Event) [][]float64 {
	var out [][]float64
	for _, ev := range events {
		if ev.Status.HasRecord() {
			out = append(out, ev.Record.Values)
		}
	}
	return out
}

func TestNumericTable(t *testing.T) {
	events, r := readEvents(t, "1.0 2.0 3.0\n4.0 5.0 6.0\n", DefaultConfig())

	assert.Equal(t, []Status{StatusData, StatusData}, statuses(events))
	assert.Equal(t, [][]float64{{1, 2, 3}, {4, 5, 6}}, records(events))
	assert.Equal(t, KindNumeric, r.Kind())
	assert.Equal(t, 3, r.Width())
	for c := 0; c < 3; c++ {
		assert.Equal(t, coltype.Float, r.Types().Type(coltype.In, c))
	}
	assert.Equal(t, 2, r.Stats().Records)
}

func TestMixedTable(t *testing.T) {
	events, r := readEvents(t, "1.0 2.0 foo bar\n", DefaultConfig())

	require.Len(t, events, 1)
	assert.Equal(t, KindMixed, r.Kind())
	assert.Equal(t, 2, r.Width())
	assert.Equal(t, []float64{1, 2}, events[0].Record.Values)
	assert.Equal(t, "foo bar", events[0].Record.Text)
}

func TestTextTable(t *testing.T) {
	events, r := readEvents(t, "hello world\nsecond line\n", DefaultConfig())

	require.Len(t, events, 2)
	assert.Equal(t, KindText, r.Kind())
	assert.Empty(t, events[0].Record.Values)
	assert.Equal(t, "hello world", events[0].Record.Text)
}

func TestHeadersAndSegments(t *testing.T) {
	input := "# title\n> first segment \n1 2\n3 4\n>\n5 6\n"
	events, r := readEvents(t, input, DefaultConfig())

	assert.Equal(t, []Status{
		StatusTableHeader, StatusSegmentHeader, StatusData, StatusData, StatusSegmentHeader, StatusData,
	}, statuses(events))
	assert.Equal(t, "# title", events[0].Header)
	assert.Equal(t, "first segment", events[1].Header)
	assert.True(t, events[1].HasHeader)
	assert.Equal(t, "", events[4].Header)
	assert.True(t, events[4].HasHeader)
	assert.Equal(t, 2, r.Stats().Segments)
}

func TestBlankLines(t *testing.T) {
	input := "1 2\n\n3 4\n"

	events, _ := readEvents(t, input, DefaultConfig())
	assert.Equal(t, []Status{StatusData, StatusData}, statuses(events))

	cfg := DefaultConfig()
	cfg.BlankIsSegment = true
	events, _ = readEvents(t, input, cfg)
	assert.Equal(t, []Status{StatusData, StatusSegmentHeader, StatusData}, statuses(events))
	assert.False(t, events[1].HasHeader)
}

func TestHeaderLines(t *testing.T) {
	cfg := DefaultConfig()
	cfg.HeaderLines = 1
	events, _ := readEvents(t, "lon lat\n1 2\n", cfg)

	assert.Equal(t, []Status{StatusTableHeader, StatusData}, statuses(events))
	assert.Equal(t, "lon lat", events[0].Header)
}

func TestBadRecordsAreSkipped(t *testing.T) {
	events, r := readEvents(t, "1 2\nfoo 3\nNaN 5\n6 7\n", DefaultConfig())

	recs := records(events)
	require.Len(t, recs, 3)
	assert.True(t, math.IsNaN(recs[1][0]), "literal NaN parses")
	assert.Equal(t, []float64{6, 7}, recs[2])
	assert.Equal(t, 1, r.Stats().Bad)
}

func TestBadRecordsKept(t *testing.T) {
	cfg := DefaultConfig()
	cfg.NaNRecords = true
	events, r := readEvents(t, "1 2\nfoo 3\n", cfg)

	recs := records(events)
	require.Len(t, recs, 2)
	assert.True(t, math.IsNaN(recs[1][0]))
	assert.Zero(t, r.Stats().Bad)
}

func TestColumnMismatch(t *testing.T) {
	events, r := readEvents(t, "1 2 3\n4 5\n6 7 8\n", DefaultConfig())

	assert.Equal(t, []Status{StatusData, StatusMismatch, StatusData}, statuses(events))
	assert.Equal(t, 4.0, events[1].Record.Values[0])
	assert.True(t, math.IsNaN(events[1].Record.Values[2]))
	assert.Equal(t, 1, r.Stats().Mismatches)
}

func TestVariableWidth(t *testing.T) {
	cfg := DefaultConfig()
	cfg.VariableWidth = true
	events, r := readEvents(t, "1 2 3\n4 5\n", cfg)

	assert.Equal(t, []Status{StatusData, StatusData}, statuses(events))
	assert.Equal(t, []float64{4, 5}, events[1].Record.Values)
	assert.Zero(t, r.Stats().Mismatches)
}

func TestSkipDuplicates(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SkipDuplicates = true
	events, r := readEvents(t, "1 2 9\n1 2 8\n3 4 7\n", cfg)

	assert.Equal(t, [][]float64{{1, 2, 9}, {3, 4, 7}}, records(events))
	assert.Equal(t, 1, r.Stats().Duplicates)
}

func TestGapDetection(t *testing.T) {
	cfg := DefaultConfig()
	gaps, err := ParseGapPolicy("x5")
	require.NoError(t, err)
	cfg.Gaps = gaps

	events, _ := readEvents(t, "0 0\n1 0\n10 0\n11 0\n", cfg)
	assert.Equal(t, []Status{StatusData, StatusData, StatusGap, StatusData}, statuses(events))
	assert.Equal(t, []float64{10, 0}, events[2].Record.Values)
}

func TestGapDistanceUsesInferredLongitude(t *testing.T) {
	gaps, err := ParseGapPolicy("d5")
	require.NoError(t, err)

	cfg := DefaultConfig()
	cfg.Gaps = gaps
	events, r := readEvents(t, "179E 0N\n179W 0N\n", cfg)
	assert.Equal(t, coltype.Lon, r.Types().Type(coltype.In, 0))
	assert.Equal(t, []Status{StatusData, StatusData}, statuses(events), "dateline crossing is 2 degrees")

	cfg = DefaultConfig()
	cfg.Gaps = gaps
	events, _ = readEvents(t, "179 0\n-179 0\n", cfg)
	assert.Equal(t, []Status{StatusData, StatusGap}, statuses(events))
}

func TestGeographicTokens(t *testing.T) {
	events, r := readEvents(t, "10W 20N\n30E 15S\n", DefaultConfig())

	assert.Equal(t, [][]float64{{-10, 20}, {30, -15}}, records(events))
	assert.Equal(t, coltype.Lon, r.Types().Type(coltype.In, 0))
	assert.Equal(t, coltype.Lat, r.Types().Type(coltype.In, 1))
}

func TestLongitudeRange(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Types = coltype.NewSystem()
	cfg.Types.SetGeographic(coltype.In)
	cfg.LonRange = geo.Range0To360

	events, _ := readEvents(t, "-10 5\n", cfg)
	assert.Equal(t, [][]float64{{350, 5}}, records(events))
}

func TestPeriodicRegion(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Types = coltype.NewSystem()
	cfg.Types.SetGeographic(coltype.In)
	cfg.Region = &Region{West: 170, East: 190}

	events, _ := readEvents(t, "-175 5\n175 6\n", cfg)
	assert.Equal(t, [][]float64{{185, 5}, {175, 6}}, records(events))
}

func TestLockedTypesSurviveInference(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Types = coltype.NewSystem()
	require.NoError(t, cfg.Types.ParseFlags(coltype.In, "0x"))

	_, r := readEvents(t, "10W 20N\n", cfg)
	assert.Equal(t, coltype.Lon, r.Types().Type(coltype.In, 0))
	assert.Equal(t, coltype.Unknown, cfg.Types.Type(coltype.In, 1), "session types do not leak back")
}

func TestMissingValue(t *testing.T) {
	cfg := DefaultConfig()
	mv := -9999.0
	cfg.MissingValue = &mv
	events, _ := readEvents(t, "1 2 -9999\n", cfg)

	recs := records(events)
	require.Len(t, recs, 1)
	assert.True(t, math.IsNaN(recs[0][2]))
}

func TestRowRanges(t *testing.T) {
	input := "1 1\n2 2\n3 3\n"

	cfg := DefaultConfig()
	cfg.Rows = []RowRange{{First: 1, Last: 1}}
	events, _ := readEvents(t, input, cfg)
	assert.Equal(t, [][]float64{{2, 2}}, records(events))

	cfg.InvertRows = true
	events, r := readEvents(t, input, cfg)
	assert.Equal(t, [][]float64{{1, 1}, {3, 3}}, records(events))
	assert.Equal(t, 1, r.Stats().Filtered)
}

func TestValueRanges(t *testing.T) {
	input := "1 1\n2 5\n3 9\n"

	cfg := DefaultConfig()
	cfg.ValueRanges = []ValueRange{{Column: 1, Min: 2, Max: 6}}
	events, _ := readEvents(t, input, cfg)
	assert.Equal(t, [][]float64{{2, 5}}, records(events))

	cfg.ValueRanges[0].Invert = true
	events, _ = readEvents(t, input, cfg)
	assert.Equal(t, [][]float64{{1, 1}, {3, 9}}, records(events))
}

func TestTrailingWord(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TrailingWord = 1
	events, _ := readEvents(t, "1 2 foo bar baz\n1 2 only\n", cfg)

	require.Len(t, events, 2)
	assert.Equal(t, "bar", events[0].Record.Text)
	assert.Equal(t, "", events[1].Record.Text)
}

func TestSwapXY(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SwapXY = true
	events, _ := readEvents(t, "1 2 3\n", cfg)
	assert.Equal(t, [][]float64{{2, 1, 3}}, records(events))
}

func TestInputSelection(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Types = coltype.NewSystem()
	sel, err := coltype.ParseSelection("2,0s10")
	require.NoError(t, err)
	cfg.Types.Select(coltype.In, sel)

	events, r := readEvents(t, "1 2 3\n4 5 6\n", cfg)
	assert.Equal(t, [][]float64{{3, 10}, {6, 40}}, records(events))
	assert.Equal(t, 2, r.Width())
}

func TestInputSelectionSkipsUnselectedText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		kind  Kind
		text  []string
	}{
		{"text between selected columns", "1 foo 3\n4 bar 6\n", KindNumeric, []string{"", ""}},
		{"text after selected columns", "1 foo 3 buoy\n4 bar 6 wreck\n", KindMixed, []string{"buoy", "wreck"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Types = coltype.NewSystem()
			sel, err := coltype.ParseSelection("0,2")
			require.NoError(t, err)
			cfg.Types.Select(coltype.In, sel)

			events, r := readEvents(t, tt.input, cfg)
			require.Len(t, events, 2)
			assert.Equal(t, [][]float64{{1, 3}, {4, 6}}, records(events))
			assert.Equal(t, tt.kind, r.Kind())
			for i, ev := range events {
				assert.Equal(t, StatusData, ev.Status)
				assert.Equal(t, tt.text[i], ev.Record.Text)
			}
		})
	}
}

func TestNaNLineBreaksSegment(t *testing.T) {
	cfg := DefaultConfig()
	cfg.NaNIsSegment = true
	events, _ := readEvents(t, "1 2\nNaN NaN\n3 4\n", cfg)
	assert.Equal(t, []Status{StatusData, StatusSegmentHeader, StatusData}, statuses(events))
}

func TestEmbeddedMetadata(t *testing.T) {
	input := strings.Join([]string{
		"# @VGMT1.0 @GPOLYGON @Nname|depth @Tstring|double",
		"# FEATURE_DATA",
		">",
		`# @P @D"reef"|12.5`,
		"1 2",
		"3 4",
		">",
		`# @D"shoal"|3`,
		"5 6",
	}, "\n") + "\n"

	cfg := DefaultConfig()
	assoc, err := ogr.ParseAssociations("2=depth,T=name")
	require.NoError(t, err)
	cfg.Associations = assoc

	events, r := readEvents(t, input, cfg)
	assert.Equal(t, []Status{
		StatusSegmentHeader, StatusData, StatusData, StatusSegmentHeader, StatusData,
	}, statuses(events))

	require.NotNil(t, events[1].Feature)
	assert.Equal(t, "reef", events[1].Feature.Values[0].Text)
	assert.Nil(t, events[2].Feature)
	assert.Equal(t, []float64{1, 2, 12.5}, events[1].Record.Values)
	assert.Equal(t, "reef", events[1].Record.Text)
	assert.Equal(t, []float64{5, 6, 3}, events[4].Record.Values)
	assert.Equal(t, "shoal", events[4].Record.Text)

	h := r.Metadata()
	require.NotNil(t, h)
	assert.Equal(t, ogr.Polygon, h.Geometry)
}

func TestAttributesUseColumnTransform(t *testing.T) {
	input := strings.Join([]string{
		"# @VGMT1.0 @GPOINT @Na @Tdouble",
		"# FEATURE_DATA",
		">",
		"# @D2",
		"0 0",
	}, "\n") + "\n"

	cfg := DefaultConfig()
	cfg.Types = coltype.NewSystem()
	sel, err := coltype.ParseSelection("0,1,2s10")
	require.NoError(t, err)
	cfg.Types.Select(coltype.In, sel)
	assoc, err := ogr.ParseAssociations("2=a")
	require.NoError(t, err)
	cfg.Associations = assoc

	events, _ := readEvents(t, input, cfg)
	assert.Equal(t, [][]float64{{0, 0, 20}}, records(events))
}

func TestRecordBufferValidUntilNextCall(t *testing.T) {
	r, err := NewReader(strings.NewReader("1 2\n3 4\n5 6\n"), DefaultConfig())
	require.NoError(t, err)

	first, err := r.Next()
	require.NoError(t, err)
	second, err := r.Next()
	require.NoError(t, err)

	assert.Equal(t, []float64{1, 2}, first.Record.Values)
	assert.Equal(t, []float64{3, 4}, second.Record.Values)
}

func TestEOFIsSticky(t *testing.T) {
	r, err := NewReader(strings.NewReader("1 2"), DefaultConfig())
	require.NoError(t, err)
	ev, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, StatusData, ev.Status)
	for i := 0; i < 2; i++ {
		ev, err = r.Next()
		require.NoError(t, err)
		assert.Equal(t, StatusEOF, ev.Status)
	}
}

func encodeRecords(t *testing.T, spec string, swap bool, recs ...[]float64) []byte {
	t.Helper()
	f, err := codec.ParseFormat(spec, swap)
	require.NoError(t, err)
	var buf bytes.Buffer
	rec := make([]byte, f.Size())
	for _, vals := range recs {
		f.Encode(vals, rec)
		buf.Write(rec)
	}
	return buf.Bytes()
}

func TestBinaryTable(t *testing.T) {
	nan := math.NaN()
	data := encodeRecords(t, "2f", true,
		[]float64{1.5, 2.5},
		[]float64{nan, nan},
		[]float64{3, 4},
	)
	data = append(data, 0x01, 0x02, 0x03)

	cfg := DefaultConfig()
	cfg.Binary = "2f"
	cfg.Swap = true
	events, r := readEvents(t, string(data), cfg)

	assert.Equal(t, []Status{StatusData, StatusSegmentHeader, StatusData}, statuses(events))
	assert.Equal(t, [][]float64{{1.5, 2.5}, {3, 4}}, records(events))
	assert.Equal(t, KindNumeric, r.Kind())
	assert.Equal(t, 2, r.Width())
}

func TestBinaryRequiredNaN(t *testing.T) {
	nan := math.NaN()
	data := encodeRecords(t, "3d", false,
		[]float64{nan, 1, 2},
		[]float64{0, 1, nan},
	)
	cfg := DefaultConfig()
	cfg.Binary = "3d"
	events, r := readEvents(t, string(data), cfg)

	recs := records(events)
	require.Len(t, recs, 1)
	assert.Equal(t, 0.0, recs[0][0])
	assert.Equal(t, 1, r.Stats().Bad)
}

func TestBinaryHeaderBytes(t *testing.T) {
	data := append([]byte("HDR!"), encodeRecords(t, "2i", false, []float64{7, 8})...)
	cfg := DefaultConfig()
	cfg.Binary = "2i"
	cfg.HeaderBytes = 4
	events, _ := readEvents(t, string(data), cfg)
	assert.Equal(t, [][]float64{{7, 8}}, records(events))
}

func TestBinaryBadFormat(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Binary = "3q"
	_, err := NewReader(strings.NewReader(""), cfg)
	assert.Error(t, err)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no separators", func(c *Config) { c.Separators = "" }},
		{"same markers", func(c *Config) { c.HeaderMarker = '>' }},
		{"negative header lines", func(c *Config) { c.HeaderLines = -1 }},
		{"reversed region", func(c *Config) { c.Region = &Region{West: 10, East: 0} }},
		{"region too wide", func(c *Config) { c.Region = &Region{West: -190, East: 190} }},
		{"empty row range", func(c *Config) { c.Rows = []RowRange{{First: 5, Last: 2}} }},
		{"reversed value range", func(c *Config) { c.ValueRanges = []ValueRange{{Column: 0, Min: 2, Max: 1}} }},
		{"bad gap", func(c *Config) { c.Gaps = GapPolicy{Rules: []GapRule{{Column: -2}}} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	cfg := DefaultConfig()
	assert.NoError(t, cfg.Validate())
}

func BenchmarkASCIIReader(b *testing.B) {
	var sb strings.Builder
	sb.WriteString("# soundings\n")
	for i := range 10000 {
		if i%1000 == 0 {
			sb.WriteString("> line\n")
		}
		sb.WriteString("-71.0512 42.3561 12.75 buoy\n")
	}
	input := sb.String()

	b.SetBytes(int64(len(input)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r, err := NewReader(strings.NewReader(input), DefaultConfig())
		if err != nil {
			b.Fatal(err)
		}
		if err := ReadAll(r, func(Event) error { return nil }); err != nil {
			b.Fatal(err)
		}
	}
}
