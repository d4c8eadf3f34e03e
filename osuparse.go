// Package osuparse decodes the .osu beatmap text format into a typed tree.
//
// Parse is a pure transformation: text in, Beatmap plus diagnostics out, or
// a fatal *ParseError. It does no I/O and keeps no state between calls, so
// concurrent parses need no coordination.
package osuparse

import (
	"cmp"
	"fmt"
	"math"
	"slices"
)

// Parse decodes the full text of a .osu file.
//
// Malformed fields and records degrade to documented defaults and surface as
// diagnostics; the error is non-nil only when the input has no recognizable
// format-version header or a [TimingPoints]/[HitObjects] record is truncated
// below its required leading fields.
func Parse(text string) (*Beatmap, []Diagnostic, error) {
	sc := newLineScanner(text)

	num, line, ok := sc.next()
	if !ok {
		return nil, nil, &ParseError{Reason: "empty input, missing format version header"}
	}
	version, ok := parseVersionHeader(line)
	if !ok {
		return nil, nil, &ParseError{Line: num, Reason: fmt.Sprintf("invalid format version header %q", line)}
	}

	bm := newBeatmap(version)
	st := &decodeState{}

	section := ""
	known := false
	seenKeys := make(map[string]map[string]bool)
	colourKeys := make(map[string]bool)
	preambleReported := false

	for {
		num, line, ok = sc.next()
		if !ok {
			break
		}
		st.line = num

		if name, isHeader := sectionName(line); isHeader {
			section = name
			st.section = name
			known = isKnownSection(name)
			if !known {
				st.report(DiagUnrecognizedSection, "", line)
				bucket(bm, name)
			}
			continue
		}

		if section == "" {
			// Content before any header. The format has no meaning for it,
			// so keep it verbatim under the empty section name.
			if !preambleReported {
				st.report(DiagUnrecognizedSection, "", line)
				preambleReported = true
			}
			bucket(bm, "")
			bm.UnknownSections[""] = append(bm.UnknownSections[""], line)
			continue
		}
		if !known {
			bm.UnknownSections[section] = append(bm.UnknownSections[section], line)
			continue
		}

		if isKeyValueSection(section) {
			key, value, _ := splitKeyValue(line)
			seen := seenKeys[section]
			if seen == nil {
				seen = make(map[string]bool)
				seenKeys[section] = seen
			}
			if seen[key] {
				st.report(DiagDuplicateKey, key, value)
				continue
			}
			seen[key] = true
			switch section {
			case "General":
				st.generalKey(&bm.General, key, value)
			case "Editor":
				st.editorKey(&bm.Editor, key, value)
			case "Metadata":
				st.metadataKey(&bm.Metadata, key, value)
			case "Difficulty":
				st.difficultyKey(&bm.Difficulty, key, value)
			}
			continue
		}

		switch section {
		case "Events":
			bm.Events = append(bm.Events, st.decodeEvent(line))
		case "TimingPoints":
			tp, err := st.decodeTimingPoint(line)
			if err != nil {
				return nil, nil, err
			}
			bm.TimingPoints = append(bm.TimingPoints, tp)
		case "Colours":
			st.decodeColourRecord(&bm.Colours, colourKeys, line)
		case "HitObjects":
			ho, err := st.decodeHitObject(line)
			if err != nil {
				return nil, nil, err
			}
			if ho != nil {
				bm.HitObjects = append(bm.HitObjects, ho)
			}
		}
	}

	slices.SortStableFunc(bm.Colours.Combo, func(a, b ComboColour) int {
		return cmp.Compare(a.Index, b.Index)
	})
	resolveHoldColumns(bm)

	return bm, st.diags, nil
}

func bucket(bm *Beatmap, name string) {
	if bm.UnknownSections == nil {
		bm.UnknownSections = make(map[string][]string)
	}
	if _, ok := bm.UnknownSections[name]; !ok {
		bm.UnknownSections[name] = nil
	}
}

// resolveHoldColumns derives the mania column of each hold note from its x
// coordinate. Runs after all sections are in, since CircleSize (the mania
// key count) may follow [HitObjects] in the file.
func resolveHoldColumns(bm *Beatmap) {
	keys := int(math.Round(bm.Difficulty.CircleSize))
	if keys < 1 {
		return
	}
	for i, ho := range bm.HitObjects {
		h, ok := ho.(Hold)
		if !ok {
			continue
		}
		x, _ := h.Pos()
		col := x * keys / 512
		if col < 0 {
			col = 0
		}
		if col > keys-1 {
			col = keys - 1
		}
		h.Column = col
		bm.HitObjects[i] = h
	}
}
