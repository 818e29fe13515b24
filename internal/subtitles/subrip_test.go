package subtitles

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToSRT(t *testing.T) {
	doc := NewDocument("en")
	doc.AddStyle("::cue { color: white; }")
	doc.Cues = []Cue{
		{Start: time.Second, End: 2500 * time.Millisecond, Settings: "align:center", Text: "First"},
		{Identifier: "c2", Start: time.Hour, End: time.Hour + time.Second, Text: "Second\nline"},
	}

	out := doc.ToSRT(SRTOptions{})

	expected := "1\n" +
		"00:00:01,000 --> 00:00:02,500\n" +
		"First\n" +
		"\n" +
		"2\n" +
		"01:00:00,000 --> 01:00:01,000\n" +
		"Second\nline\n"
	assert.Equal(t, expected, out)
	assert.NotContains(t, out, "STYLE", "styles have no SubRip equivalent")
	assert.NotContains(t, out, "c2", "identifiers are dropped")
}

func TestToSRT_TopAlignment(t *testing.T) {
	doc := NewDocument("en")
	doc.Cues = []Cue{
		{Start: 0, End: time.Second, Settings: "line:0% align:center", Text: "Top"},
		{Start: 2 * time.Second, End: 3 * time.Second, Settings: "line:85.00%", Text: "Bottom"},
	}

	t.Run("Enabled", func(t *testing.T) {
		out := doc.ToSRT(SRTOptions{TopAlignment: true})
		assert.Contains(t, out, topAlignmentTag+"Top")
		assert.NotContains(t, out, topAlignmentTag+"Bottom")
	})

	t.Run("Disabled", func(t *testing.T) {
		out := doc.ToSRT(SRTOptions{})
		assert.NotContains(t, out, topAlignmentTag)
	})
}

func TestToSRT_Empty(t *testing.T) {
	doc := NewDocument("en")
	out := doc.ToSRT(SRTOptions{})
	require.Equal(t, "\n", out)
}
