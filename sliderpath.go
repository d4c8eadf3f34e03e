package osuparse

import "strings"

// CurveKind is the slider curve type letter.
type CurveKind uint8

const (
	CurveLinear  CurveKind = iota // L
	CurveBezier                   // B
	CurveCatmull                  // C
	CurvePerfect                  // P
)

func (k CurveKind) String() string {
	switch k {
	case CurveLinear:
		return "linear"
	case CurveBezier:
		return "bezier"
	case CurveCatmull:
		return "catmull"
	case CurvePerfect:
		return "perfect"
	default:
		return "unknown"
	}
}

// PathPoint is one slider control point. Unlike hit object anchors these are
// floats; the format permits sub-integer coordinates here.
type PathPoint struct {
	X, Y float64
}

// SliderPath is the decoded curve field of a slider. Consecutive duplicate
// points are bezier segment delimiters and are preserved, never collapsed.
type SliderPath struct {
	Kind   CurveKind
	Points []PathPoint
}

// decodeSliderPath decodes "X|x1:y1|x2:y2|..." where X is the curve letter.
// A perfect circle arc needs exactly three points counting the implicit
// slider head, so exactly two encoded control points; anything else is
// diagnosed and downgraded to Bezier so downstream rendering stays sane.
func (st *decodeState) decodeSliderPath(raw string) SliderPath {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		st.report(DiagMalformedValue, "curve", raw)
		return SliderPath{Kind: CurveBezier}
	}

	letter, rest, _ := strings.Cut(raw, "|")
	var kind CurveKind
	switch strings.TrimSpace(letter) {
	case "L":
		kind = CurveLinear
	case "B":
		kind = CurveBezier
	case "C":
		kind = CurveCatmull
	case "P":
		kind = CurvePerfect
	default:
		st.report(DiagMalformedValue, "curveType", letter)
		kind = CurveBezier
	}

	var points []PathPoint
	if strings.TrimSpace(rest) != "" {
		for _, tok := range strings.Split(rest, "|") {
			x, y, ok := strings.Cut(strings.TrimSpace(tok), ":")
			if !ok {
				st.report(DiagMalformedValue, "curvePoint", tok)
				continue
			}
			points = append(points, PathPoint{
				X: st.floatval("curvePoint", x, 0),
				Y: st.floatval("curvePoint", y, 0),
			})
		}
	}
	if len(points) == 0 {
		st.report(DiagMalformedValue, "curve", raw)
	}

	if kind == CurvePerfect && len(points) != 2 {
		st.report(DiagInvalidCircleArc, "curve", raw)
		kind = CurveBezier
	}
	return SliderPath{Kind: kind, Points: points}
}
