// Package subtitles implements the WebVTT document model, the cue parser,
// document-level cleanups, and rendering to WebVTT or SubRip text.
package subtitles

import (
	"sort"
	"time"
)

// Cue is a single timed text entry.
type Cue struct {
	// Identifier is the optional cue identifier line preceding the timing.
	Identifier string
	Start      time.Duration
	End        time.Duration
	// Settings is the raw cue settings list from the timing line
	// (e.g. "line:85.00% align:center").
	Settings string
	// Text is the cue payload; lines are joined with '\n'.
	Text string
}

// Document is one reassembled subtitle track for a single language.
// It is owned by exactly one pipeline instance and never shared.
type Document struct {
	Language       string
	ClosedCaptions bool

	// Regions and Styles keep first-seen order; byte-identical blocks
	// collapse to one (segment delivery repeats the active style sheet
	// in every segment).
	Regions []string
	Styles  []string

	Cues []Cue

	// Warnings counts malformed blocks that were skipped during parsing.
	Warnings int
}

// NewDocument creates an empty document for the given language.
func NewDocument(language string) *Document {
	return &Document{Language: language}
}

// AddStyle appends a style block unless an identical one is already present.
func (d *Document) AddStyle(payload string) {
	for _, existing := range d.Styles {
		if existing == payload {
			return
		}
	}
	d.Styles = append(d.Styles, payload)
}

// AddRegion appends a region block unless an identical one is already present.
func (d *Document) AddRegion(payload string) {
	for _, existing := range d.Regions {
		if existing == payload {
			return
		}
	}
	d.Regions = append(d.Regions, payload)
}

// SortCues orders cues by start time. The sort is stable: cues with equal
// start times keep their original appearance order.
func (d *Document) SortCues() {
	sort.SliceStable(d.Cues, func(i, j int) bool {
		return d.Cues[i].Start < d.Cues[j].Start
	})
}
