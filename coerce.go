package osuparse

import (
	"strconv"
	"strings"
)

// decodeState threads the current position and the diagnostics accumulator
// through the section decoders. Coercion failures substitute the field's
// documented default and record a diagnostic; they never abort the parse.
type decodeState struct {
	section string
	line    int
	diags   []Diagnostic
}

func (st *decodeState) report(kind DiagnosticKind, field, raw string) {
	st.diags = append(st.diags, Diagnostic{
		Kind:    kind,
		Section: st.section,
		Line:    st.line,
		Field:   field,
		Raw:     raw,
	})
}

// intval coerces s to an int. An empty string means the field is absent and
// yields the default silently; anything else unparsable is diagnosed.
func (st *decodeState) intval(field, s string, def int) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		st.report(DiagMalformedValue, field, s)
		return def
	}
	return v
}

func (st *decodeState) floatval(field, s string, def float64) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		st.report(DiagMalformedValue, field, s)
		return def
	}
	return v
}

// boolval accepts exactly "0" or "1".
func (st *decodeState) boolval(field, s string, def bool) bool {
	switch strings.TrimSpace(s) {
	case "":
		return def
	case "0":
		return false
	case "1":
		return true
	default:
		st.report(DiagMalformedValue, field, s)
		return def
	}
}

func (st *decodeState) strval(s string) string {
	return strings.TrimSpace(s)
}

func (st *decodeState) modeval(field, s string) GameMode {
	switch strings.TrimSpace(s) {
	case "0":
		return ModeOsu
	case "1":
		return ModeTaiko
	case "2":
		return ModeCatch
	case "3":
		return ModeMania
	default:
		st.report(DiagMalformedValue, field, s)
		return ModeOsu
	}
}
