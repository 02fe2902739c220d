package ogr

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/beetlebugorg/geotable/internal/scan"
)

// WriteHeader writes the table-level tags of h, ending with the
// FEATURE_DATA marker.
func WriteHeader(w io.Writer, h *Header) error {
	bw := bufio.NewWriter(w)
	version := h.Version
	if version == "" {
		version = "1.0"
	}
	fmt.Fprintf(bw, "# @VGMT%s @G%s\n", version, h.Geometry)
	if h.Region != "" {
		fmt.Fprintf(bw, "# @R%s\n", h.Region)
	}
	for k, proj := range h.Proj {
		if proj != "" {
			fmt.Fprintf(bw, "# @J%c%s\n", projFlavors[k], proj)
		}
	}
	if n := h.NumFields(); n > 0 {
		names := make([]string, n)
		types := make([]string, n)
		for i := 0; i < n; i++ {
			if i < len(h.Names) {
				names[i] = quote(h.Names[i])
			}
			t := String
			if i < len(h.Types) {
				t = h.Types[i]
			}
			types[i] = t.String()
		}
		fmt.Fprintf(bw, "# @N%s\n", strings.Join(names, "|"))
		fmt.Fprintf(bw, "# @T%s\n", strings.Join(types, "|"))
	}
	bw.WriteString(featureDataMarker + "\n")
	return bw.Flush()
}

// WriteFeature writes the per-feature tags of f: the polygon role for
// polygon geometries and the @D values when fields are declared.
func WriteFeature(w io.Writer, h *Header, f Feature) error {
	bw := bufio.NewWriter(w)
	if h.Geometry.IsPolygon() {
		role := byte('P')
		if f.PolMode == Hole {
			role = 'H'
		}
		fmt.Fprintf(bw, "# @%c\n", role)
	}
	if n := h.NumFields(); n > 0 {
		vals := make([]string, n)
		for i := range vals {
			if i < len(f.Values) {
				vals[i] = quote(FormatValue(f.Values[i]))
			}
		}
		fmt.Fprintf(bw, "# @D%s\n", strings.Join(vals, "|"))
	}
	return bw.Flush()
}

// FormatValue renders v for an @D tag according to its type.
func FormatValue(v Value) string {
	if math.IsNaN(v.Number) {
		return v.Text
	}
	switch v.Type {
	case Double, Float:
		return strconv.FormatFloat(v.Number, 'g', -1, 64)
	case Integer, Char, Logical:
		return strconv.FormatInt(int64(math.Round(v.Number)), 10)
	case DateTime:
		return scan.FormatAbsTime(v.Number)
	default:
		return v.Text
	}
}
