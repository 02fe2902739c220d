package geotable

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/beetlebugorg/geotable/internal/coltype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readString(t *testing.T, input string, opts ReadOptions) *Table {
	t.Helper()
	tbl, err := ReadTable(strings.NewReader(input), opts)
	require.NoError(t, err)
	return tbl
}

func TestReadTableSegments(t *testing.T) {
	input := "# survey 12\n> leg one\n1 10\n2 20\n> leg two\n-3 5\n"
	tbl := readString(t, input, DefaultReadOptions())

	assert.Equal(t, []string{"# survey 12"}, tbl.Headers)
	require.Equal(t, 2, tbl.NumSegments())
	assert.Equal(t, 2, tbl.NumColumns())
	assert.Equal(t, 3, tbl.NumRecords())

	first := tbl.Segments[0]
	assert.Equal(t, "leg one", first.Header)
	assert.True(t, first.HasHeader)
	assert.Equal(t, [][]float64{{1, 2}, {10, 20}}, first.Columns)
	assert.Equal(t, []float64{1, 10}, first.Min)
	assert.Equal(t, []float64{2, 20}, first.Max)

	assert.Equal(t, []float64{-3, 5}, tbl.Min)
	assert.Equal(t, []float64{2, 20}, tbl.Max)
	assert.Equal(t, coltype.Float, tbl.Types.Type(coltype.In, 0))
}

func TestReadTableWithoutSegmentHeaders(t *testing.T) {
	tbl := readString(t, "1 2\n3 4\n", DefaultReadOptions())

	require.Equal(t, 1, tbl.NumSegments())
	assert.False(t, tbl.Segments[0].HasHeader)
	assert.Equal(t, 2, tbl.Segments[0].NumRows())
}

func TestReadTableText(t *testing.T) {
	tbl := readString(t, "1 2 buoy A\n3 4 wreck\n", DefaultReadOptions())

	require.True(t, tbl.HasText())
	assert.Equal(t, 2, tbl.NumColumns())
	assert.Equal(t, []string{"buoy A", "wreck"}, tbl.Segments[0].Text)
}

func TestReadTableEmpty(t *testing.T) {
	_, err := ReadTable(strings.NewReader("# only a header\n"), DefaultReadOptions())
	assert.True(t, errors.Is(err, ErrNoSegments))

	opts := DefaultReadOptions()
	opts.AllowEmpty = true
	tbl := readString(t, "# only a header\n", opts)
	assert.Equal(t, 0, tbl.NumRecords())
	assert.Equal(t, []string{"# only a header"}, tbl.Headers)
}

func TestReadTableEmptySegments(t *testing.T) {
	input := "> a\n> b\n1 2\n"

	tbl := readString(t, input, DefaultReadOptions())
	require.Equal(t, 1, tbl.NumSegments())
	assert.Equal(t, "b", tbl.Segments[0].Header)

	opts := DefaultReadOptions()
	opts.KeepEmpty = true
	tbl = readString(t, input, opts)
	require.Equal(t, 2, tbl.NumSegments())
	assert.Equal(t, 0, tbl.Segments[0].NumRows())
}

func TestReadTableDateline(t *testing.T) {
	opts := DefaultReadOptions()
	opts.Columns = "g"
	tbl := readString(t, "179 10\n-179 11\n", opts)

	assert.Equal(t, coltype.Lon, tbl.Types.Type(coltype.In, 0))
	assert.Equal(t, 179.0, tbl.Min[0])
	assert.Equal(t, 181.0, tbl.Max[0])
	assert.Equal(t, 10.0, tbl.Min[1])
}

func TestReadTableLonRange(t *testing.T) {
	opts := DefaultReadOptions()
	opts.Columns = "g"
	opts.LonRange = LonRange0To360
	tbl := readString(t, "-10 5\n-20 6\n", opts)

	assert.Equal(t, []float64{350, 340}, tbl.Segments[0].Columns[0])
	assert.Equal(t, LonRange0To360, tbl.LonRange)
}

func TestReadTableGaps(t *testing.T) {
	opts := DefaultReadOptions()
	opts.Gaps = []string{"x5"}
	tbl := readString(t, "0 0\n1 0\n10 0\n11 0\n", opts)

	require.Equal(t, 2, tbl.NumSegments())
	assert.Equal(t, []float64{10, 11}, tbl.Segments[1].Columns[0])
	assert.False(t, tbl.Segments[1].HasHeader)
}

func TestReadTablePolygonMetadata(t *testing.T) {
	input := strings.Join([]string{
		"# @VGMT1.0 @GPOLYGON @Nname|depth @Tstring|double",
		"# FEATURE_DATA",
		">",
		`# @P @D"reef"|12.5`,
		"0 0",
		"1 0",
		"1 1",
		">",
		`# @H @D"lagoon"|3`,
		"0.2 0.2",
		"0.4 0.2",
		"0.4 0.4",
		"0.2 0.2",
	}, "\n") + "\n"

	tbl := readString(t, input, DefaultReadOptions())

	require.NotNil(t, tbl.Metadata)
	assert.Equal(t, Polygon, tbl.Metadata.Geometry)
	assert.Equal(t, []string{"name", "depth"}, tbl.Metadata.Names)
	require.Equal(t, 2, tbl.NumSegments())

	reef := tbl.Segments[0]
	assert.Equal(t, 4, reef.NumRows(), "open ring is closed")
	assert.Equal(t, []float64{0, 0}, reef.Row(3, nil))
	require.Len(t, reef.Attributes, 2)
	assert.Equal(t, "reef", reef.Attributes[0].Text)
	assert.Equal(t, 12.5, reef.Attributes[1].Number)
	assert.False(t, reef.Hole)

	lagoon := tbl.Segments[1]
	assert.Equal(t, 4, lagoon.NumRows(), "closed ring is left alone")
	assert.True(t, lagoon.Hole)
	assert.Equal(t, "lagoon", lagoon.Attributes[0].Text)
}

func TestReadTableAttributeColumns(t *testing.T) {
	input := strings.Join([]string{
		"# @VGMT1.0 @GLINESTRING @Nname|depth @Tstring|double",
		"# FEATURE_DATA",
		">",
		`# @D"channel"|7`,
		"1 2",
		"3 4",
	}, "\n") + "\n"

	opts := DefaultReadOptions()
	opts.Attributes = "2=depth,T=name"
	tbl := readString(t, input, opts)

	require.Equal(t, 3, tbl.NumColumns())
	seg := tbl.Segments[0]
	assert.Equal(t, []float64{7, 7}, seg.Columns[2])
	assert.Equal(t, []string{"channel", "channel"}, seg.Text)
}

func TestReadTableOptionErrors(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*ReadOptions)
		option string
	}{
		{"column types", func(o *ReadOptions) { o.Columns = "0q" }, "column types"},
		{"selection", func(o *ReadOptions) { o.Select = "x,y" }, "column selection"},
		{"gap rule", func(o *ReadOptions) { o.Gaps = []string{"q5"} }, "gap rule"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultReadOptions()
			tt.modify(&opts)
			_, err := ReadTable(strings.NewReader("1 2\n"), opts)
			var optErr *ErrOption
			require.ErrorAs(t, err, &optErr)
			assert.Equal(t, tt.option, optErr.Option)
		})
	}
}

func TestReadTableLogsBadRecords(t *testing.T) {
	var buf bytes.Buffer
	opts := DefaultReadOptions()
	opts.Name = "track"
	opts.Logger = slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tbl := readString(t, "1 2\nfoo bar\n3 4\n", opts)
	assert.Equal(t, 2, tbl.NumRecords())
	assert.Contains(t, buf.String(), "table=track")
}

func TestReadTableBinary(t *testing.T) {
	var buf bytes.Buffer
	src := NewTable(2, false)
	src.AppendRow([]float64{1, 2}, "")
	src.AppendRow([]float64{3, 4}, "")

	wopts := DefaultWriteOptions()
	wopts.Binary = "2d"
	require.NoError(t, WriteTable(&buf, src, wopts))

	ropts := DefaultReadOptions()
	ropts.Binary = "2d"
	tbl, err := ReadTable(&buf, ropts)
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{1, 3}, {2, 4}}, tbl.Segments[0].Columns)
}

func TestReadTableHugeLongitude(t *testing.T) {
	opts := DefaultReadOptions()
	opts.Columns = "g"
	opts.LonRange = LonRange0To360
	tbl := readString(t, "1e20 10\n-1e17 20\n", opts)

	require.Equal(t, 2, tbl.NumRecords())
	for _, lon := range tbl.Segments[0].Columns[0] {
		assert.GreaterOrEqual(t, lon, 0.0)
		assert.LessOrEqual(t, lon, 360.0)
	}
}
