package subtitles

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"hlsub/internal/logger"
)

// WebVTT block markers.
// https://www.w3.org/TR/webvtt1/#file-structure
const (
	vttHeader  = "WEBVTT"
	vttStyle   = "STYLE"
	vttRegion  = "REGION"
	vttComment = "NOTE"
)

// timingRE matches a cue timing line: "start --> end [settings]".
// Hours are optional on input.
var timingRE = regexp.MustCompile(
	`^((?:\d{1,2}:)?[0-5]?\d:[0-5]\d[.,]\d{3})[ \t]+-->[ \t]+((?:\d{1,2}:)?[0-5]?\d:[0-5]\d[.,]\d{3})[ \t]*(.*)$`)

// ParseWebVTT parses concatenated WebVTT text into a document. The input
// is typically several segments joined together, so repeated WEBVTT
// headers and repeated style/region blocks are tolerated. Malformed
// blocks are skipped with a warning; they never abort the document.
func ParseWebVTT(log logger.Logger, language, data string) *Document {
	doc := NewDocument(language)

	for _, block := range splitBlocks(data) {
		parseBlock(log, doc, block)
	}

	doc.SortCues()
	return doc
}

// splitBlocks cuts the input on blank-line boundaries.
func splitBlocks(data string) [][]string {
	var blocks [][]string
	var current []string

	for _, line := range strings.Split(data, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			if len(current) > 0 {
				blocks = append(blocks, current)
				current = nil
			}
			continue
		}
		current = append(current, line)
	}
	if len(current) > 0 {
		blocks = append(blocks, current)
	}

	return blocks
}

func parseBlock(log logger.Logger, doc *Document, block []string) {
	first := strings.TrimRight(block[0], " \t")

	switch {
	case strings.HasPrefix(first, vttHeader):
		// A file header, repeated once per concatenated segment. Any
		// trailing metadata lines (e.g. X-TIMESTAMP-MAP) go with it.

	case first == vttStyle:
		doc.AddStyle(strings.Join(block[1:], "\n"))

	case first == vttRegion:
		doc.AddRegion(strings.Join(block[1:], "\n"))

	case strings.HasPrefix(first, vttComment):
		// Comments carry no timed text; dropped from the document.

	default:
		parseCueBlock(log, doc, block)
	}
}

func parseCueBlock(log logger.Logger, doc *Document, block []string) {
	identifier := ""
	timingLine := block[0]
	payload := block[1:]

	// A cue may start with an identifier line before the timing line.
	if !strings.Contains(timingLine, "-->") && len(block) > 1 && strings.Contains(block[1], "-->") {
		identifier = block[0]
		timingLine = block[1]
		payload = block[2:]
	}

	match := timingRE.FindStringSubmatch(timingLine)
	if match == nil {
		log.Warnf("Skipping unrecognized subtitle block starting with %q", block[0])
		doc.Warnings++
		return
	}

	start, err := ParseTimestamp(match[1])
	if err != nil {
		log.Warnf("Skipping cue with bad start timestamp %q: %v", match[1], err)
		doc.Warnings++
		return
	}
	end, err := ParseTimestamp(match[2])
	if err != nil {
		log.Warnf("Skipping cue with bad end timestamp %q: %v", match[2], err)
		doc.Warnings++
		return
	}

	if end <= start {
		log.Debugf("Dropping degenerate cue (%s --> %s)", match[1], match[2])
		doc.Warnings++
		return
	}

	doc.Cues = append(doc.Cues, Cue{
		Identifier: identifier,
		Start:      start,
		End:        end,
		Settings:   strings.TrimSpace(match[3]),
		Text:       strings.Join(payload, "\n"),
	})
}

// ParseTimestamp parses "H:MM:SS.mmm" (hours optional, ',' accepted as the
// millisecond separator) into an offset.
func ParseTimestamp(value string) (time.Duration, error) {
	value = strings.Replace(value, ",", ".", 1)

	dot := strings.IndexByte(value, '.')
	if dot < 0 || len(value)-dot-1 != 3 {
		return 0, fmt.Errorf("timestamp %q missing millisecond field", value)
	}

	millis, err := strconv.Atoi(value[dot+1:])
	if err != nil {
		return 0, fmt.Errorf("invalid milliseconds in %q", value)
	}

	parts := strings.Split(value[:dot], ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}

	total := time.Duration(millis) * time.Millisecond
	multipliers := []time.Duration{time.Second, time.Minute, time.Hour}
	for i := 0; i < len(parts); i++ {
		n, err := strconv.Atoi(parts[len(parts)-1-i])
		if err != nil || n < 0 {
			return 0, fmt.Errorf("invalid timestamp %q", value)
		}
		total += time.Duration(n) * multipliers[i]
	}

	return total, nil
}

// formatTimestamp renders an offset as "HH:MM:SS<sep>mmm".
func formatTimestamp(offset time.Duration, millisSep byte) string {
	hours := offset / time.Hour
	offset -= hours * time.Hour
	minutes := offset / time.Minute
	offset -= minutes * time.Minute
	seconds := offset / time.Second
	millis := (offset - seconds*time.Second) / time.Millisecond

	return fmt.Sprintf("%02d:%02d:%02d%c%03d", hours, minutes, seconds, millisSep, millis)
}

// ToVTT re-serializes the document as normalized WebVTT: regions first,
// then deduplicated styles, then cues with their positioning preserved.
func (d *Document) ToVTT() string {
	var sb strings.Builder
	sb.WriteString(vttHeader)
	sb.WriteString("\n\n")

	for _, region := range d.Regions {
		sb.WriteString(vttRegion)
		sb.WriteByte('\n')
		sb.WriteString(region)
		sb.WriteString("\n\n")
	}

	for _, style := range d.Styles {
		sb.WriteString(vttStyle)
		sb.WriteByte('\n')
		sb.WriteString(style)
		sb.WriteString("\n\n")
	}

	for _, cue := range d.Cues {
		if cue.Identifier != "" {
			sb.WriteString(cue.Identifier)
			sb.WriteByte('\n')
		}
		sb.WriteString(formatTimestamp(cue.Start, '.'))
		sb.WriteString(" --> ")
		sb.WriteString(formatTimestamp(cue.End, '.'))
		if cue.Settings != "" {
			sb.WriteByte(' ')
			sb.WriteString(cue.Settings)
		}
		sb.WriteByte('\n')
		sb.WriteString(cue.Text)
		sb.WriteString("\n\n")
	}

	return strings.TrimRight(sb.String(), "\n") + "\n"
}
