package osuparse

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixtureMap = `osu file format v14

[General]
AudioFilename: Bakemonogatari_-_Kimi_no_Shiranai_Monogatari.mp3
AudioLeadIn: 0
PreviewTime: 239594
Countdown: 0
SampleSet: Soft
StackLeniency: 0.7
Mode: 0
LetterboxInBreaks: 1
WidescreenStoryboard: 0

[Editor]
Bookmarks: 5,6
DistanceSpacing: 1
BeatDivisor: 4
GridSize: 4
TimelineZoom: 5.100003

[Metadata]
Title:Kimi no Shiranai Monogatari
TitleUnicode:君の知らない物語
Artist:supercell
ArtistUnicode:supercell
Creator:monstrata
Version:Celestial
Source:化物語
Tags:ed ending Bakemonogatari
BeatmapID:651744
BeatmapSetID:289074

[Difficulty]
HPDrainRate:5
CircleSize:4
OverallDifficulty:8
ApproachRate:9
SliderMultiplier:1.8
SliderTickRate:1

[Events]
//Background and Video events
0,0,"bg.jpg",0,0
2,100,200

[TimingPoints]
764,363.636363636364,4,2,1,50,1,0
764,-133.333333333333,4,2,1,50,0,0
3480,363.636363636364,4,2,1,50,1,8

[Colours]
Combo2 : 0,128,255
Combo1 : 255,128,0
SliderBorder : 10,20,30

[HitObjects]
47,196,764,6,0,L|38:127,2,63.7500024318696,2|0|0,0:0|0:0|0:0,0:0:0:0:
254,357,1854,1,0,0:0:0:0:
256,192,2000,12,0,3000,0:0:0:0:
`

func TestParseFixtureMap(t *testing.T) {
	bm, diags, err := Parse(fixtureMap)
	require.NoError(t, err)
	assert.Empty(t, diags)

	assert.Equal(t, 14, bm.Version)

	t.Run("general", func(t *testing.T) {
		assert.Equal(t, "Bakemonogatari_-_Kimi_no_Shiranai_Monogatari.mp3", bm.General.AudioFilename)
		assert.Equal(t, 0, bm.General.AudioLeadIn)
		assert.Equal(t, 239594, bm.General.PreviewTime)
		assert.False(t, bm.General.Countdown)
		assert.Equal(t, "Soft", bm.General.SampleSet)
		assert.InDelta(t, 0.7, bm.General.StackLeniency, 1e-9)
		assert.Equal(t, ModeOsu, bm.General.Mode)
		assert.True(t, bm.General.LetterboxInBreaks)
		assert.False(t, bm.General.WidescreenStoryboard)
		assert.Nil(t, bm.General.Overflow)
	})

	t.Run("editor", func(t *testing.T) {
		assert.Equal(t, []int{5, 6}, bm.Editor.Bookmarks)
		assert.InDelta(t, 1.0, bm.Editor.DistanceSpacing, 1e-9)
		assert.Equal(t, 4, bm.Editor.BeatDivisor)
		assert.Equal(t, 4, bm.Editor.GridSize)
		assert.InDelta(t, 5.100003, bm.Editor.TimelineZoom, 1e-9)
	})

	t.Run("metadata", func(t *testing.T) {
		assert.Equal(t, "Kimi no Shiranai Monogatari", bm.Metadata.Title)
		assert.Equal(t, "君の知らない物語", bm.Metadata.TitleUnicode)
		assert.Equal(t, "supercell", bm.Metadata.Artist)
		assert.Equal(t, "monstrata", bm.Metadata.Creator)
		assert.Equal(t, "Celestial", bm.Metadata.Version)
		assert.Equal(t, []string{"ed", "ending", "Bakemonogatari"}, bm.Metadata.Tags)
		assert.Equal(t, 651744, bm.Metadata.BeatmapID)
		assert.Equal(t, 289074, bm.Metadata.BeatmapSetID)
	})

	t.Run("difficulty", func(t *testing.T) {
		assert.InDelta(t, 5, bm.Difficulty.HPDrainRate, 1e-9)
		assert.InDelta(t, 4, bm.Difficulty.CircleSize, 1e-9)
		assert.InDelta(t, 8, bm.Difficulty.OverallDifficulty, 1e-9)
		assert.InDelta(t, 9, bm.Difficulty.ApproachRate, 1e-9)
		assert.InDelta(t, 1.8, bm.Difficulty.SliderMultiplier, 1e-9)
	})

	t.Run("events", func(t *testing.T) {
		require.Len(t, bm.Events, 2)
		bg, ok := bm.Events[0].(BackgroundEvent)
		require.True(t, ok)
		assert.Equal(t, "bg.jpg", bg.Filename)
		assert.Equal(t, 0, bg.Time)

		br, ok := bm.Events[1].(BreakEvent)
		require.True(t, ok)
		assert.Equal(t, 100, br.Time)
		assert.Equal(t, 200, br.EndTime)
	})

	t.Run("timing points keep raw beat lengths", func(t *testing.T) {
		require.Len(t, bm.TimingPoints, 3)
		first := bm.TimingPoints[0]
		assert.Equal(t, 764, first.Time)
		assert.InDelta(t, 363.636363636364, first.BeatLength, 1e-9)
		assert.Equal(t, 4, first.Meter)
		assert.Equal(t, 2, first.SampleSet)
		assert.Equal(t, 1, first.SampleIndex)
		assert.Equal(t, 50, first.Volume)
		assert.True(t, first.Uninherited)
		assert.False(t, first.Kiai)

		// The inherited point stores its negative multiplier source
		// untouched; no tempo resolution happens at parse time.
		second := bm.TimingPoints[1]
		assert.InDelta(t, -133.333333333333, second.BeatLength, 1e-9)
		assert.False(t, second.Uninherited)

		assert.True(t, bm.TimingPoints[2].Kiai)
	})

	t.Run("colours sorted by combo index", func(t *testing.T) {
		require.Len(t, bm.Colours.Combo, 2)
		assert.Equal(t, 1, bm.Colours.Combo[0].Index)
		assert.Equal(t, Colour{R: 255, G: 128, B: 0}, bm.Colours.Combo[0].Colour)
		assert.Equal(t, 2, bm.Colours.Combo[1].Index)
		require.NotNil(t, bm.Colours.SliderBorder)
		assert.Equal(t, Colour{R: 10, G: 20, B: 30}, *bm.Colours.SliderBorder)
	})

	t.Run("hit objects", func(t *testing.T) {
		require.Len(t, bm.HitObjects, 3)

		sl, ok := bm.HitObjects[0].(Slider)
		require.True(t, ok)
		assert.True(t, sl.NewCombo())
		assert.Equal(t, 2, sl.Repeat)
		assert.Equal(t, CurveLinear, sl.Path.Kind)
		assert.Equal(t, []PathPoint{{X: 38, Y: 127}}, sl.Path.Points)
		assert.Equal(t, []HitSoundFlags{2, 0, 0}, sl.EdgeSounds)
		require.Len(t, sl.EdgeSets, 3)

		c, ok := bm.HitObjects[1].(Circle)
		require.True(t, ok)
		assert.Equal(t, 1854, c.StartTime())

		sp, ok := bm.HitObjects[2].(Spinner)
		require.True(t, ok)
		assert.Equal(t, 3000, sp.EndTime)
		assert.True(t, sp.NewCombo())
	})
}

func TestParseHeaderHandling(t *testing.T) {
	t.Run("missing header is fatal", func(t *testing.T) {
		_, _, err := Parse("[General]\nAudioFilename: a.mp3\n")
		var perr *ParseError
		require.ErrorAs(t, err, &perr)
	})

	t.Run("empty input is fatal", func(t *testing.T) {
		_, _, err := Parse("")
		var perr *ParseError
		require.ErrorAs(t, err, &perr)
	})

	t.Run("header only yields defaults and no diagnostics", func(t *testing.T) {
		bm, diags, err := Parse("osu file format v11\n")
		require.NoError(t, err)
		assert.Empty(t, diags)
		assert.Equal(t, 11, bm.Version)
		assert.Equal(t, General{}, bm.General)
		assert.InDelta(t, 1.22, bm.Editor.DistanceSpacing, 1e-9)
		assert.Equal(t, 4, bm.Editor.BeatDivisor)
		assert.Empty(t, bm.TimingPoints)
		assert.Empty(t, bm.HitObjects)
	})

	t.Run("BOM and CRLF endings", func(t *testing.T) {
		text := "\ufeffosu file format v14\r\n\r\n[Metadata]\r\nTitle:abc\r\n"
		bm, diags, err := Parse(text)
		require.NoError(t, err)
		assert.Empty(t, diags)
		assert.Equal(t, "abc", bm.Metadata.Title)
	})

	t.Run("comments are skipped everywhere", func(t *testing.T) {
		text := "// leading comment\nosu file format v14\n[General]\n// inner\nAudioLeadIn: 5\n"
		bm, diags, err := Parse(text)
		require.NoError(t, err)
		assert.Empty(t, diags)
		assert.Equal(t, 5, bm.General.AudioLeadIn)
	})
}

func TestParseSectionPolicies(t *testing.T) {
	t.Run("unknown section preserved opaquely", func(t *testing.T) {
		text := "osu file format v14\n[Fonts]\nFont: Arial\n[Metadata]\nTitle:x\n"
		bm, diags, err := Parse(text)
		require.NoError(t, err)
		require.Len(t, diags, 1)
		assert.Equal(t, DiagUnrecognizedSection, diags[0].Kind)
		assert.Equal(t, []string{"Font: Arial"}, bm.UnknownSections["Fonts"])
		assert.Equal(t, "x", bm.Metadata.Title)
	})

	t.Run("duplicate key keeps first occurrence", func(t *testing.T) {
		text := "osu file format v14\n[Metadata]\nTitle:first\nTitle:second\n"
		bm, diags, err := Parse(text)
		require.NoError(t, err)
		assert.Equal(t, "first", bm.Metadata.Title)
		require.Len(t, diags, 1)
		assert.Equal(t, DiagDuplicateKey, diags[0].Kind)
		assert.Equal(t, "Title", diags[0].Field)
	})

	t.Run("unknown keys land in overflow", func(t *testing.T) {
		text := "osu file format v14\n[General]\nAudioLeadIn: 3\nSomeFutureKey: 42\n"
		bm, diags, err := Parse(text)
		require.NoError(t, err)
		assert.Empty(t, diags)
		assert.Equal(t, map[string]string{"SomeFutureKey": "42"}, bm.General.Overflow)
	})

	t.Run("known keys match case sensitively", func(t *testing.T) {
		text := "osu file format v14\n[General]\naudioleadin: 3\n"
		bm, diags, err := Parse(text)
		require.NoError(t, err)
		assert.Empty(t, diags)
		assert.Equal(t, 0, bm.General.AudioLeadIn)
		assert.Equal(t, "3", bm.General.Overflow["audioleadin"])
	})

	t.Run("malformed value substitutes default with diagnostic", func(t *testing.T) {
		text := "osu file format v14\n[General]\nAudioLeadIn: abc\nCountdown: 2\n"
		bm, diags, err := Parse(text)
		require.NoError(t, err)
		assert.Equal(t, 0, bm.General.AudioLeadIn)
		assert.False(t, bm.General.Countdown)
		require.Len(t, diags, 2)
		for _, d := range diags {
			assert.Equal(t, DiagMalformedValue, d.Kind)
			assert.Equal(t, "General", d.Section)
		}
	})

	t.Run("malformed editor value falls back to documented default", func(t *testing.T) {
		text := "osu file format v14\n[Editor]\nBeatDivisor: x\n"
		bm, diags, err := Parse(text)
		require.NoError(t, err)
		assert.Equal(t, 4, bm.Editor.BeatDivisor)
		require.Len(t, diags, 1)
	})
}

func TestParseTimingPoints(t *testing.T) {
	t.Run("trailing fields default", func(t *testing.T) {
		text := "osu file format v14\n[TimingPoints]\n764,363.6\n"
		bm, diags, err := Parse(text)
		require.NoError(t, err)
		assert.Empty(t, diags)
		require.Len(t, bm.TimingPoints, 1)
		tp := bm.TimingPoints[0]
		assert.Equal(t, 4, tp.Meter)
		assert.Equal(t, 0, tp.SampleSet)
		assert.Equal(t, 100, tp.Volume)
		assert.True(t, tp.Uninherited)
		assert.False(t, tp.Kiai)
	})

	t.Run("truncated record is fatal", func(t *testing.T) {
		text := "osu file format v14\n[TimingPoints]\n764\n"
		_, _, err := Parse(text)
		var perr *ParseError
		require.ErrorAs(t, err, &perr)
		assert.Equal(t, 3, perr.Line)
	})

	t.Run("input order preserved, never re-sorted by time", func(t *testing.T) {
		text := "osu file format v14\n[TimingPoints]\n2000,400\n1000,-50\n"
		bm, _, err := Parse(text)
		require.NoError(t, err)
		require.Len(t, bm.TimingPoints, 2)
		assert.Equal(t, 2000, bm.TimingPoints[0].Time)
		assert.Equal(t, 1000, bm.TimingPoints[1].Time)
	})
}

func TestParseConcurrentCallsIndependent(t *testing.T) {
	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			for j := 0; j < 50; j++ {
				bm, diags, err := Parse(fixtureMap)
				if err != nil || len(diags) != 0 || len(bm.HitObjects) != 3 {
					t.Error("concurrent parse produced wrong result")
					return
				}
			}
		}()
	}
	for i := 0; i < 8; i++ {
		<-done
	}
}

func TestDiagnosticString(t *testing.T) {
	d := Diagnostic{Kind: DiagMalformedValue, Section: "General", Line: 7, Field: "AudioLeadIn", Raw: "abc"}
	s := d.String()
	assert.True(t, strings.Contains(s, "General"))
	assert.True(t, strings.Contains(s, "AudioLeadIn"))
	assert.True(t, strings.Contains(s, "7"))
}
