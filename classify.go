package osuparse

import (
	"strconv"
	"strings"
)

// lineScanner walks the input one logical line at a time, skipping blank
// lines and // comments. Line endings (LF or CRLF) and a UTF-8 BOM on the
// first line are tolerated.
type lineScanner struct {
	lines []string
	pos   int
}

func newLineScanner(text string) *lineScanner {
	text = strings.TrimPrefix(text, "\ufeff")
	return &lineScanner{lines: strings.Split(text, "\n")}
}

// next returns the 1-based number and trimmed text of the next significant
// line, or ok=false at end of input.
func (s *lineScanner) next() (num int, line string, ok bool) {
	for s.pos < len(s.lines) {
		num = s.pos + 1
		line = strings.TrimSpace(strings.TrimSuffix(s.lines[s.pos], "\r"))
		s.pos++
		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}
		return num, line, true
	}
	return 0, "", false
}

const versionPrefix = "osu file format v"

// parseVersionHeader extracts N from an "osu file format vN" line. Leading
// junk before the prefix is tolerated, as some real files carry it.
func parseVersionHeader(line string) (int, bool) {
	i := strings.Index(line, versionPrefix)
	if i < 0 {
		return 0, false
	}
	v, err := strconv.Atoi(strings.TrimSpace(line[i+len(versionPrefix):]))
	if err != nil {
		return 0, false
	}
	return v, true
}

// sectionName returns the name inside a [Name] header line.
func sectionName(line string) (string, bool) {
	if len(line) < 2 || line[0] != '[' || line[len(line)-1] != ']' {
		return "", false
	}
	name := line[1 : len(line)-1]
	if strings.ContainsAny(name, "[]") {
		return "", false
	}
	return name, true
}

// splitKeyValue splits "Key: Value" on the first colon. Both halves are
// trimmed; ok is false when the line has no colon at all.
func splitKeyValue(line string) (key, value string, ok bool) {
	i := strings.Index(line, ":")
	if i < 0 {
		return strings.TrimSpace(line), "", false
	}
	return strings.TrimSpace(line[:i]), strings.TrimSpace(line[i+1:]), true
}

// splitRecord splits a comma-separated record. Commas inside double quotes
// (quoted filenames in event lines) do not separate fields.
func splitRecord(line string) []string {
	var out []string
	var cur strings.Builder
	inQ := false
	for i := 0; i < len(line); i++ {
		switch c := line[i]; c {
		case '"':
			inQ = !inQ
		case ',':
			if inQ {
				cur.WriteByte(c)
			} else {
				out = append(out, strings.TrimSpace(cur.String()))
				cur.Reset()
			}
		default:
			cur.WriteByte(c)
		}
	}
	out = append(out, strings.TrimSpace(cur.String()))
	return out
}

// known key-value style sections; records elsewhere stay comma-separated.
func isKeyValueSection(name string) bool {
	switch name {
	case "General", "Editor", "Metadata", "Difficulty":
		return true
	}
	return false
}

func isKnownSection(name string) bool {
	switch name {
	case "General", "Editor", "Metadata", "Difficulty",
		"Events", "TimingPoints", "Colours", "HitObjects":
		return true
	}
	return false
}
