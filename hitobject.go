package osuparse

import "strings"

// ObjectKind is the primary kind of a hit object.
type ObjectKind uint8

const (
	KindCircle ObjectKind = iota
	KindSlider
	KindSpinner
	KindHold
)

// TypeFlags is the raw type bitmask of a hit object record. Four mutually
// exclusive primary bits pick the kind; bit 2 and bits 4-6 are orthogonal
// flags carried on every variant.
type TypeFlags int

const (
	TypeCircle     TypeFlags = 1 << iota // 1
	TypeSlider                           // 2
	TypeNewCombo                         // 4
	TypeSpinner                          // 8
	TypeComboSkip1                       // 16
	TypeComboSkip2                       // 32
	TypeComboSkip3                       // 64
	TypeHold       TypeFlags = 1 << 7    // 128
)

// HitSoundFlags is the hit-sound bitmask.
type HitSoundFlags int

const (
	HitSoundNormal  HitSoundFlags = 1 << iota // 1
	HitSoundWhistle                           // 2
	HitSoundFinish                            // 4
	HitSoundClap                              // 8
)

// HitSample is the optional colon-separated extras tail:
// sampleSet:additionSet:customIndex:volume:filename. Sample set ids stay
// raw ints so out-of-range banks survive a round trip.
type HitSample struct {
	SampleSet   int
	AdditionSet int
	CustomIndex int
	Volume      int
	Filename    string
}

// EdgeSet is one sampleSet:additionSet override on a slider edge.
type EdgeSet struct {
	SampleSet   int
	AdditionSet int
}

// HitObject is one of Circle, Slider, Spinner or Hold.
type HitObject interface {
	Kind() ObjectKind
	Pos() (x, y int)
	StartTime() int
	TypeBits() TypeFlags
	NewCombo() bool
	ComboSkip() int
	HitSound() HitSoundFlags
	Sample() HitSample
}

// HitObjectBase carries the fields shared by every variant.
type HitObjectBase struct {
	X, Y   int
	Time   int
	Type   TypeFlags
	Sound  HitSoundFlags
	Extras HitSample
}

func (b HitObjectBase) Pos() (int, int)         { return b.X, b.Y }
func (b HitObjectBase) StartTime() int          { return b.Time }
func (b HitObjectBase) TypeBits() TypeFlags     { return b.Type }
func (b HitObjectBase) NewCombo() bool          { return b.Type&TypeNewCombo != 0 }
func (b HitObjectBase) ComboSkip() int          { return int(b.Type>>4) & 7 }
func (b HitObjectBase) HitSound() HitSoundFlags { return b.Sound }
func (b HitObjectBase) Sample() HitSample       { return b.Extras }

type Circle struct {
	HitObjectBase
}

func (Circle) Kind() ObjectKind { return KindCircle }

type Slider struct {
	HitObjectBase
	Path        SliderPath
	Repeat      int
	PixelLength float64
	// EdgeSounds and EdgeSets, when supplied, hold Repeat+1 entries
	// (head, each repeat, tail); nil when the record omits them.
	EdgeSounds []HitSoundFlags
	EdgeSets   []EdgeSet
}

func (Slider) Kind() ObjectKind { return KindSlider }

type Spinner struct {
	HitObjectBase
	EndTime int
}

func (Spinner) Kind() ObjectKind { return KindSpinner }

type Hold struct {
	HitObjectBase
	EndTime int
	Column  int
}

func (Hold) Kind() ObjectKind { return KindHold }

// decodeHitObject decodes one [HitObjects] record. Fewer than the 5 required
// leading fields is fatal; an unknown primary type skips the line with a
// diagnostic and returns a nil object.
func (st *decodeState) decodeHitObject(line string) (HitObject, error) {
	fields := splitRecord(line)
	if len(fields) < 5 {
		return nil, &ParseError{
			Line:   st.line,
			Reason: "truncated hit object record: " + line,
		}
	}

	base := HitObjectBase{
		X:     st.intval("x", fields[0], 0),
		Y:     st.intval("y", fields[1], 0),
		Time:  st.intval("time", fields[2], 0),
		Type:  TypeFlags(st.intval("type", fields[3], 0)),
		Sound: HitSoundFlags(st.intval("hitSound", fields[4], 0)),
	}

	// Lowest set primary bit wins; test order is fixed so ties are
	// deterministic.
	primaries := 0
	kind := ObjectKind(0)
	for _, p := range []struct {
		bit TypeFlags
		k   ObjectKind
	}{
		{TypeCircle, KindCircle},
		{TypeSlider, KindSlider},
		{TypeSpinner, KindSpinner},
		{TypeHold, KindHold},
	} {
		if base.Type&p.bit != 0 {
			if primaries == 0 {
				kind = p.k
			}
			primaries++
		}
	}
	if primaries == 0 {
		st.report(DiagUnknownHitObjectType, "type", fields[3])
		return nil, nil
	}
	if primaries > 1 {
		st.report(DiagAmbiguousHitObjectType, "type", fields[3])
	}

	switch kind {
	case KindSlider:
		return st.decodeSlider(base, fields), nil
	case KindSpinner:
		sp := Spinner{HitObjectBase: base}
		sp.EndTime = st.intval("endTime", field(fields, 5), 0)
		if raw := field(fields, 6); raw != "" {
			sp.Extras = st.decodeExtras(raw)
		}
		return sp, nil
	case KindHold:
		h := Hold{HitObjectBase: base}
		// Mania quirk: endTime and the extras block share one comma field,
		// separated by the first colon. Kept exactly as the format has it.
		if raw := field(fields, 5); raw != "" {
			if i := strings.Index(raw, ":"); i >= 0 {
				h.EndTime = st.intval("endTime", raw[:i], 0)
				h.Extras = st.decodeExtras(raw[i+1:])
			} else {
				h.EndTime = st.intval("endTime", raw, 0)
			}
		}
		return h, nil
	default:
		c := Circle{HitObjectBase: base}
		if raw := field(fields, 5); raw != "" {
			c.Extras = st.decodeExtras(raw)
		}
		return c, nil
	}
}

func (st *decodeState) decodeSlider(base HitObjectBase, fields []string) Slider {
	s := Slider{HitObjectBase: base}
	s.Path = st.decodeSliderPath(field(fields, 5))
	s.Repeat = st.intval("repeatCount", field(fields, 6), 1)
	s.PixelLength = st.floatval("pixelLength", field(fields, 7), 0)

	edges := s.Repeat + 1
	if edges < 1 {
		edges = 1
	}

	if raw := field(fields, 8); raw != "" {
		for _, tok := range strings.Split(raw, "|") {
			s.EdgeSounds = append(s.EdgeSounds, HitSoundFlags(st.intval("edgeSounds", tok, 0)))
		}
		if len(s.EdgeSounds) != edges {
			st.report(DiagEdgeListMismatch, "edgeSounds", raw)
			s.EdgeSounds = resize(s.EdgeSounds, edges)
		}
	}
	if raw := field(fields, 9); raw != "" {
		for _, tok := range strings.Split(raw, "|") {
			var es EdgeSet
			if i := strings.Index(tok, ":"); i >= 0 {
				es.SampleSet = st.intval("edgeSets", tok[:i], 0)
				es.AdditionSet = st.intval("edgeSets", tok[i+1:], 0)
			} else {
				es.SampleSet = st.intval("edgeSets", tok, 0)
			}
			s.EdgeSets = append(s.EdgeSets, es)
		}
		if len(s.EdgeSets) != edges {
			st.report(DiagEdgeListMismatch, "edgeSets", raw)
			s.EdgeSets = resize(s.EdgeSets, edges)
		}
	}

	if raw := field(fields, 10); raw != "" {
		s.Extras = st.decodeExtras(raw)
	}
	return s
}

// decodeExtras parses the colon block left to right, stopping at the first
// absent field; every field keeps its zero default until reached.
func (st *decodeState) decodeExtras(raw string) HitSample {
	var hs HitSample
	parts := strings.Split(raw, ":")
	for i, p := range parts {
		switch i {
		case 0:
			hs.SampleSet = st.intval("sampleSet", p, 0)
		case 1:
			hs.AdditionSet = st.intval("additionSet", p, 0)
		case 2:
			hs.CustomIndex = st.intval("customIndex", p, 0)
		case 3:
			hs.Volume = st.intval("volume", p, 0)
		case 4:
			hs.Filename = strings.Trim(strings.TrimSpace(p), "\"")
		}
	}
	return hs
}

// resize zero-pads or truncates s to n entries.
func resize[T any](s []T, n int) []T {
	if len(s) >= n {
		return s[:n]
	}
	out := make([]T, n)
	copy(out, s)
	return out
}
