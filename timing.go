package osuparse

// Trailing timing point fields default per this table when absent.
const (
	defaultMeter       = 4
	defaultSampleSet   = 0
	defaultSampleIndex = 0
	defaultVolume      = 100
)

// decodeTimingPoint decodes one comma-separated [TimingPoints] record of up
// to 8 fields. A record without both time and beatLength is structurally
// truncated and fatal; everything past the second field is optional.
func (st *decodeState) decodeTimingPoint(line string) (TimingPoint, error) {
	fields := splitRecord(line)
	if len(fields) < 2 {
		return TimingPoint{}, &ParseError{
			Line:   st.line,
			Reason: "truncated timing point record: " + line,
		}
	}

	tp := TimingPoint{
		Time:        st.intval("time", fields[0], 0),
		BeatLength:  st.floatval("beatLength", fields[1], 0),
		Meter:       st.intval("meter", field(fields, 2), defaultMeter),
		SampleSet:   st.intval("sampleSet", field(fields, 3), defaultSampleSet),
		SampleIndex: st.intval("sampleIndex", field(fields, 4), defaultSampleIndex),
		Volume:      st.intval("volume", field(fields, 5), defaultVolume),
		Uninherited: st.boolval("uninherited", field(fields, 6), true),
	}
	effects := st.intval("effects", field(fields, 7), 0)
	tp.Kiai = effects&1 != 0
	return tp, nil
}
