package subtitles

import (
	"regexp"
	"strconv"
	"strings"
)

// topAlignmentTag makes a cue render at the top of the screen in SubRip
// consumers that understand SSA alignment tags.
const topAlignmentTag = `{\an8}`

// lineSettingRE extracts the percentage value of a cue's "line" setting.
var lineSettingRE = regexp.MustCompile(`(?:^|\s)line:(-?\d+(?:\.\d+)?)%`)

// SRTOptions controls SubRip rendering.
type SRTOptions struct {
	// TopAlignment inserts a leading alignment tag into cues whose
	// original positioning places them at the top of the screen.
	TopAlignment bool
}

// ToSRT renders the document as SubRip text: cues renumbered from 1 in
// document order, comma millisecond separators, style and region blocks
// dropped (SubRip has no equivalent).
func (d *Document) ToSRT(opts SRTOptions) string {
	var sb strings.Builder

	for i, cue := range d.Cues {
		sb.WriteString(strconv.Itoa(i + 1))
		sb.WriteByte('\n')
		sb.WriteString(formatTimestamp(cue.Start, ','))
		sb.WriteString(" --> ")
		sb.WriteString(formatTimestamp(cue.End, ','))
		sb.WriteByte('\n')

		text := cue.Text
		if opts.TopAlignment && isTopAligned(cue.Settings) {
			text = topAlignmentTag + text
		}
		sb.WriteString(text)
		sb.WriteString("\n\n")
	}

	return strings.TrimRight(sb.String(), "\n") + "\n"
}

// isTopAligned reports whether the cue settings place the cue at the top
// of the screen (a line offset of 0%).
func isTopAligned(settings string) bool {
	match := lineSettingRE.FindStringSubmatch(settings)
	if match == nil {
		return false
	}
	value, err := strconv.ParseFloat(match[1], 64)
	if err != nil {
		return false
	}
	return value == 0
}
