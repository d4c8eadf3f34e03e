package osuparse

import (
	"strconv"
	"strings"
)

// Key tables for the key-value sections. Keys match case-sensitively; the
// default passed to the coercer is the field's documented default, so a
// malformed value degrades to the same state as an absent key.

func (st *decodeState) generalKey(g *General, key, raw string) {
	switch key {
	case "AudioFilename":
		g.AudioFilename = st.strval(raw)
	case "AudioLeadIn":
		g.AudioLeadIn = st.intval(key, raw, 0)
	case "PreviewTime":
		g.PreviewTime = st.intval(key, raw, 0)
	case "Countdown":
		g.Countdown = st.boolval(key, raw, false)
	case "CountdownOffset":
		g.CountdownOffset = st.intval(key, raw, 0)
	case "SampleSet":
		g.SampleSet = st.strval(raw)
	case "StackLeniency":
		g.StackLeniency = st.floatval(key, raw, 0)
	case "SkinPreference":
		g.SkinPreference = st.strval(raw)
	case "Mode":
		g.Mode = st.modeval(key, raw)
	case "LetterboxInBreaks":
		g.LetterboxInBreaks = st.boolval(key, raw, false)
	case "WidescreenStoryboard":
		g.WidescreenStoryboard = st.boolval(key, raw, false)
	case "StoryFireInFront":
		g.StoryFireInFront = st.boolval(key, raw, false)
	case "SpecialStyle":
		g.SpecialStyle = st.boolval(key, raw, false)
	case "EpilepsyWarning":
		g.EpilepsyWarning = st.boolval(key, raw, false)
	case "UseSkinSprites":
		g.UseSkinSprites = st.boolval(key, raw, false)
	default:
		if g.Overflow == nil {
			g.Overflow = make(map[string]string)
		}
		g.Overflow[key] = raw
	}
}

func (st *decodeState) editorKey(e *Editor, key, raw string) {
	switch key {
	case "Bookmarks":
		if strings.TrimSpace(raw) == "" {
			return
		}
		for _, p := range strings.Split(raw, ",") {
			if p = strings.TrimSpace(p); p != "" {
				e.Bookmarks = append(e.Bookmarks, st.intval(key, p, 0))
			}
		}
	case "DistanceSpacing":
		e.DistanceSpacing = st.floatval(key, raw, 1.22)
	case "BeatDivisor":
		e.BeatDivisor = st.intval(key, raw, 4)
	case "GridSize":
		e.GridSize = st.intval(key, raw, 4)
	case "TimelineZoom":
		e.TimelineZoom = st.floatval(key, raw, 1.0)
	default:
		if e.Overflow == nil {
			e.Overflow = make(map[string]string)
		}
		e.Overflow[key] = raw
	}
}

func (st *decodeState) metadataKey(m *Metadata, key, raw string) {
	switch key {
	case "Title":
		m.Title = st.strval(raw)
	case "TitleUnicode":
		m.TitleUnicode = st.strval(raw)
	case "Artist":
		m.Artist = st.strval(raw)
	case "ArtistUnicode":
		m.ArtistUnicode = st.strval(raw)
	case "Creator":
		m.Creator = st.strval(raw)
	case "Version":
		m.Version = st.strval(raw)
	case "Source":
		m.Source = st.strval(raw)
	case "Tags":
		m.Tags = strings.Fields(raw)
	case "BeatmapID":
		m.BeatmapID = st.intval(key, raw, 0)
	case "BeatmapSetID":
		m.BeatmapSetID = st.intval(key, raw, 0)
	default:
		if m.Overflow == nil {
			m.Overflow = make(map[string]string)
		}
		m.Overflow[key] = raw
	}
}

func (st *decodeState) difficultyKey(d *Difficulty, key, raw string) {
	switch key {
	case "HPDrainRate":
		d.HPDrainRate = st.floatval(key, raw, 0)
	case "CircleSize":
		d.CircleSize = st.floatval(key, raw, 0)
	case "OverallDifficulty":
		d.OverallDifficulty = st.floatval(key, raw, 0)
	case "ApproachRate":
		d.ApproachRate = st.floatval(key, raw, 0)
	case "SliderMultiplier":
		d.SliderMultiplier = st.floatval(key, raw, 0)
	case "SliderTickRate":
		d.SliderTickRate = st.floatval(key, raw, 0)
	default:
		if d.Overflow == nil {
			d.Overflow = make(map[string]string)
		}
		d.Overflow[key] = raw
	}
}

// decodeEvent turns one [Events] record into a tagged variant. Records this
// package does not model (storyboard commands mostly) come back as RawEvent.
func (st *decodeState) decodeEvent(line string) Event {
	fields := splitRecord(line)
	switch fields[0] {
	case "0", "Background":
		if len(fields) < 3 {
			return rawEvent(fields, line)
		}
		return BackgroundEvent{
			Time:     st.intval("startTime", fields[1], 0),
			Filename: cleanFilename(fields[2]),
			OffsetX:  st.intval("xOffset", field(fields, 3), 0),
			OffsetY:  st.intval("yOffset", field(fields, 4), 0),
		}
	case "1", "Video":
		if len(fields) < 3 {
			return rawEvent(fields, line)
		}
		return VideoEvent{
			Time:     st.intval("startTime", fields[1], 0),
			Filename: cleanFilename(fields[2]),
			OffsetX:  st.intval("xOffset", field(fields, 3), 0),
			OffsetY:  st.intval("yOffset", field(fields, 4), 0),
		}
	case "2", "Break":
		if len(fields) < 3 {
			return rawEvent(fields, line)
		}
		return BreakEvent{
			Time:    st.intval("startTime", fields[1], 0),
			EndTime: st.intval("endTime", fields[2], 0),
		}
	default:
		return rawEvent(fields, line)
	}
}

// rawEvent keeps the record verbatim, salvaging a start time when the second
// field happens to be one. No diagnostic: preservation is the contract here.
func rawEvent(fields []string, line string) RawEvent {
	t := 0
	if len(fields) >= 2 {
		if v, err := strconv.Atoi(strings.TrimSpace(fields[1])); err == nil {
			t = v
		}
	}
	return RawEvent{Time: t, Line: line}
}

// decodeColourRecord handles one "Key : r,g,b" line of [Colours].
func (st *decodeState) decodeColourRecord(c *Colours, seen map[string]bool, line string) {
	key, raw, ok := splitKeyValue(line)
	if !ok {
		st.report(DiagInvalidColour, "", line)
		return
	}
	if seen[key] {
		st.report(DiagDuplicateKey, key, raw)
		return
	}
	seen[key] = true

	switch {
	case strings.HasPrefix(key, "Combo"):
		n, err := strconv.Atoi(key[len("Combo"):])
		if err != nil {
			if c.Overflow == nil {
				c.Overflow = make(map[string]string)
			}
			c.Overflow[key] = raw
			return
		}
		col, valid := st.colourval(key, raw)
		if !valid {
			return
		}
		c.Combo = append(c.Combo, ComboColour{Index: n, Colour: col})
	case key == "SliderBody":
		if col, valid := st.colourval(key, raw); valid {
			c.SliderBody = &col
		}
	case key == "SliderTrackOverride":
		if col, valid := st.colourval(key, raw); valid {
			c.SliderTrackOverride = &col
		}
	case key == "SliderBorder":
		if col, valid := st.colourval(key, raw); valid {
			c.SliderBorder = &col
		}
	default:
		if c.Overflow == nil {
			c.Overflow = make(map[string]string)
		}
		c.Overflow[key] = raw
	}
}

// colourval decodes "r,g,b" with each component in 0..255. Invalid records
// are diagnosed and dropped, never clamped.
func (st *decodeState) colourval(field, raw string) (Colour, bool) {
	parts := strings.Split(raw, ",")
	if len(parts) != 3 {
		st.report(DiagInvalidColour, field, raw)
		return Colour{}, false
	}
	var rgb [3]int
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || v < 0 || v > 255 {
			st.report(DiagInvalidColour, field, raw)
			return Colour{}, false
		}
		rgb[i] = v
	}
	return Colour{R: rgb[0], G: rgb[1], B: rgb[2]}, true
}

func field(fields []string, i int) string {
	if i < len(fields) {
		return fields[i]
	}
	return ""
}

func cleanFilename(s string) string {
	s = strings.Trim(s, "\"")
	return strings.ReplaceAll(s, "\\", "/")
}
