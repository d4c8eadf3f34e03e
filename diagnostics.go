package osuparse

import "fmt"

// DiagnosticKind identifies a class of recoverable decode problem.
type DiagnosticKind int

const (
	// DiagMalformedValue marks a field whose text could not be coerced to
	// its target type; the documented default was substituted.
	DiagMalformedValue DiagnosticKind = iota
	// DiagDuplicateKey marks a repeated key inside a section; the first
	// occurrence wins and the repeat is ignored.
	DiagDuplicateKey
	// DiagUnknownHitObjectType marks a hit object whose type bitmask sets
	// none of the four primary kind bits; the line is skipped.
	DiagUnknownHitObjectType
	// DiagAmbiguousHitObjectType marks a type bitmask with more than one
	// primary kind bit set; the lowest set bit wins.
	DiagAmbiguousHitObjectType
	// DiagEdgeListMismatch marks a slider edge-sound or edge-set list whose
	// length is not repeat+1; the list is zero-padded or truncated.
	DiagEdgeListMismatch
	// DiagInvalidCircleArc marks a perfect-circle curve without exactly
	// three arc points; the curve is downgraded to Bezier.
	DiagInvalidCircleArc
	// DiagInvalidColour marks a colour record with a missing or out-of-range
	// RGB component; the record is skipped.
	DiagInvalidColour
	// DiagUnrecognizedSection marks a section header outside the known set;
	// its lines are preserved verbatim but not decoded.
	DiagUnrecognizedSection
)

func (k DiagnosticKind) String() string {
	switch k {
	case DiagMalformedValue:
		return "malformed value"
	case DiagDuplicateKey:
		return "duplicate key"
	case DiagUnknownHitObjectType:
		return "unknown hit object type"
	case DiagAmbiguousHitObjectType:
		return "ambiguous hit object type"
	case DiagEdgeListMismatch:
		return "edge list length mismatch"
	case DiagInvalidCircleArc:
		return "invalid circle arc"
	case DiagInvalidColour:
		return "invalid colour"
	case DiagUnrecognizedSection:
		return "unrecognized section"
	default:
		return fmt.Sprintf("diagnostic(%d)", int(k))
	}
}

// Diagnostic is a non-fatal problem found while decoding. The parse always
// continues past it; the affected field holds its documented default.
type Diagnostic struct {
	Kind    DiagnosticKind
	Section string // section name, "" before the first header
	Line    int    // 1-based line number in the input
	Field   string // field name, "" when the whole record is at fault
	Raw     string // offending raw text
}

func (d Diagnostic) String() string {
	if d.Field != "" {
		return fmt.Sprintf("line %d [%s] %s: %s (%q)", d.Line, d.Section, d.Field, d.Kind, d.Raw)
	}
	return fmt.Sprintf("line %d [%s]: %s (%q)", d.Line, d.Section, d.Kind, d.Raw)
}

// ParseError is the fatal tier: the input is structurally unusable and no
// Beatmap can be produced.
type ParseError struct {
	Line   int // 1-based, 0 when no line applies
	Reason string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("osuparse: line %d: %s", e.Line, e.Reason)
	}
	return "osuparse: " + e.Reason
}
