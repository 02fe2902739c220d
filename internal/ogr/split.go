package ogr

import "strings"

// protectedMask marks every byte of s that lies inside a double-quoted
// span. Quote characters themselves are not protected.
func protectedMask(s string) []bool {
	mask := make([]bool, len(s))
	in := false
	for i := 0; i < len(s); i++ {
		if s[i] == '"' {
			in = !in
			continue
		}
		mask[i] = in
	}
	return mask
}

// SplitQuoted splits s at every sep byte outside double quotes. The
// quote scan runs first and the split second, so s is never modified
// and no sentinel byte is needed.
func SplitQuoted(s string, sep byte) []string {
	mask := protectedMask(s)
	var parts []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == sep && !mask[i] {
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	return append(parts, s[start:])
}

// truncateAtSpace cuts s at the first space outside double quotes.
func truncateAtSpace(s string) string {
	mask := protectedMask(s)
	for i := 0; i < len(s); i++ {
		if s[i] == ' ' && !mask[i] {
			return s[:i]
		}
	}
	return s
}

// Unquote strips one pair of surrounding double quotes.
func Unquote(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}

// quote wraps v in double quotes when it holds a separator, a space or
// a tag marker.
func quote(v string) string {
	if strings.ContainsAny(v, "| \t@") && !strings.Contains(v, `"`) {
		return `"` + v + `"`
	}
	return v
}

// splitTags returns the tags of a comment line: each tag starts at an
// '@' outside quotes and runs to the next one. The leading '@' is
// dropped and trailing blanks are trimmed.
func splitTags(s string) []string {
	parts := SplitQuoted(s, '@')
	tags := make([]string, 0, len(parts)-1)
	for _, p := range parts[1:] {
		tags = append(tags, strings.TrimRight(p, " \t\r\n"))
	}
	return tags
}
