package subtitles

import (
	"strings"
	"time"

	"golang.org/x/text/unicode/bidi"

	"hlsub/internal/language"
)

// Unicode directional formatting characters stripped before re-marking:
// LRM, RLM, LRE, RLE, PDF, LRO, RLO.
var bidiControlChars = []string{
	"\u200e", "\u200f", "\u202a", "\u202b", "\u202c", "\u202d", "\u202e",
}

// rleMark (RIGHT-TO-LEFT EMBEDDING) is prepended to right-to-left lines
// so they render correctly.
const rleMark = "\u202b"

// ProcessOptions toggles the document-level cleanup passes.
type ProcessOptions struct {
	RemoveDuplicates bool
	FixRTL           bool
}

// Polish applies the configured cleanup passes in place. Neither pass
// alters cue timestamps; duplicate removal is idempotent.
func (d *Document) Polish(opts ProcessOptions) {
	if opts.RemoveDuplicates {
		d.removeDuplicates()
	}
	if opts.FixRTL && language.IsRTL(d.Language) {
		d.fixRTL()
	}
}

type cueKey struct {
	start time.Duration
	end   time.Duration
	text  string
}

// removeDuplicates drops cues whose timestamp pair and full text match an
// earlier cue, keeping the first occurrence. Segment boundaries commonly
// repeat the last active cue.
func (d *Document) removeDuplicates() {
	seen := make(map[cueKey]struct{}, len(d.Cues))
	kept := d.Cues[:0]

	for _, cue := range d.Cues {
		key := cueKey{start: cue.Start, end: cue.End, text: cue.Text}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		kept = append(kept, cue)
	}

	d.Cues = kept
}

// fixRTL re-marks every cue line that contains a right-to-left run.
// Existing directional controls are stripped first so the fix does not
// stack with source-side corrections. Tags, numbers and Latin runs are
// left untouched; the renderer's bidi algorithm handles the reordering.
// Best-effort, not a full bidirectional-algorithm implementation.
func (d *Document) fixRTL() {
	for i := range d.Cues {
		lines := strings.Split(d.Cues[i].Text, "\n")
		for j, line := range lines {
			for _, ctrl := range bidiControlChars {
				line = strings.ReplaceAll(line, ctrl, "")
			}
			if hasRTLRun(line) {
				line = rleMark + line
			}
			lines[j] = line
		}
		d.Cues[i].Text = strings.Join(lines, "\n")
	}
}

// hasRTLRun reports whether the string contains at least one character of
// a right-to-left bidi class.
func hasRTLRun(s string) bool {
	for i := 0; i < len(s); {
		props, size := bidi.LookupString(s[i:])
		if size == 0 {
			break
		}
		switch props.Class() {
		case bidi.R, bidi.AL:
			return true
		}
		i += size
	}
	return false
}
