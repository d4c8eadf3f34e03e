package osuparse

// GameMode is one of the four osu! rulesets.
type GameMode int

const (
	ModeOsu GameMode = iota
	ModeTaiko
	ModeCatch
	ModeMania
)

func (m GameMode) String() string {
	switch m {
	case ModeOsu:
		return "osu"
	case ModeTaiko:
		return "taiko"
	case ModeCatch:
		return "catch"
	case ModeMania:
		return "mania"
	default:
		return "unknown"
	}
}

// Beatmap is the parsed representation of one .osu file. Sections absent
// from the input keep their default sub-structures; nothing is fabricated.
type Beatmap struct {
	Version    int
	General    General
	Editor     Editor
	Metadata   Metadata
	Difficulty Difficulty

	Events       []Event
	TimingPoints []TimingPoint
	Colours      Colours
	HitObjects   []HitObject

	// UnknownSections preserves the raw lines of headers outside the known
	// set, keyed by section name. Lines before the first header land under "".
	UnknownSections map[string][]string
}

// General holds the [General] section.
type General struct {
	AudioFilename        string
	AudioLeadIn          int
	PreviewTime          int
	Countdown            bool
	SampleSet            string
	StackLeniency        float64
	SkinPreference       string
	Mode                 GameMode
	LetterboxInBreaks    bool
	WidescreenStoryboard bool
	StoryFireInFront     bool
	SpecialStyle         bool
	EpilepsyWarning      bool
	UseSkinSprites       bool
	CountdownOffset      int

	// Overflow retains keys outside the known table, verbatim.
	Overflow map[string]string
}

// Editor holds the [Editor] section.
type Editor struct {
	Bookmarks       []int
	DistanceSpacing float64
	BeatDivisor     int
	GridSize        int
	TimelineZoom    float64

	Overflow map[string]string
}

// Metadata holds the [Metadata] section.
type Metadata struct {
	Title         string
	TitleUnicode  string
	Artist        string
	ArtistUnicode string
	Creator       string
	Version       string
	Source        string
	Tags          []string
	BeatmapID     int
	BeatmapSetID  int

	Overflow map[string]string
}

// Difficulty holds the [Difficulty] section.
type Difficulty struct {
	HPDrainRate       float64
	CircleSize        float64
	OverallDifficulty float64
	ApproachRate      float64
	SliderMultiplier  float64
	SliderTickRate    float64

	Overflow map[string]string
}

// Event is one record of the [Events] section.
type Event interface {
	// EventTime is the event's start time in milliseconds.
	EventTime() int
}

type BackgroundEvent struct {
	Time     int
	Filename string
	OffsetX  int
	OffsetY  int
}

func (e BackgroundEvent) EventTime() int { return e.Time }

type VideoEvent struct {
	Time     int
	Filename string
	OffsetX  int
	OffsetY  int
}

func (e VideoEvent) EventTime() int { return e.Time }

type BreakEvent struct {
	Time    int
	EndTime int
}

func (e BreakEvent) EventTime() int { return e.Time }

// RawEvent preserves storyboard commands and other event records this
// package does not model, verbatim.
type RawEvent struct {
	Time int // 0 when the record carries no parsable start time
	Line string
}

func (e RawEvent) EventTime() int { return e.Time }

// TimingPoint is one record of the [TimingPoints] section. BeatLength is
// stored exactly as written: positive ms-per-beat for uninherited points,
// a negative multiplier source for inherited ones. Tempo inheritance is the
// consumer's job, not the parser's.
type TimingPoint struct {
	Time        int
	BeatLength  float64
	Meter       int
	SampleSet   int
	SampleIndex int
	Volume      int
	Uninherited bool
	Kiai        bool
}

// Colour is an RGB triple.
type Colour struct {
	R, G, B int
}

// ComboColour associates a colour with its 1-based combo slot.
type ComboColour struct {
	Index  int
	Colour Colour
}

// Colours holds the [Colours] section. Combo colours are ordered by index.
type Colours struct {
	Combo               []ComboColour
	SliderBody          *Colour
	SliderTrackOverride *Colour
	SliderBorder        *Colour

	Overflow map[string]string
}

func newBeatmap(version int) *Beatmap {
	return &Beatmap{
		Version: version,
		Editor: Editor{
			DistanceSpacing: 1.22,
			BeatDivisor:     4,
			GridSize:        4,
			TimelineZoom:    1.0,
		},
	}
}
