// Package hls parses HLS master and media playlists (m3u8).
package hls

import (
	"bufio"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"hlsub/internal/models"
)

// ErrMalformedPlaylist indicates input that is not usable m3u8.
var ErrMalformedPlaylist = errors.New("malformed playlist")

const (
	tagHeader         = "#EXTM3U"
	tagMedia          = "#EXT-X-MEDIA:"
	tagInf            = "#EXTINF:"
	tagMediaSequence  = "#EXT-X-MEDIA-SEQUENCE:"
	tagTargetDuration = "#EXT-X-TARGETDURATION:"
	tagEndList        = "#EXT-X-ENDLIST"
)

// ParseMaster extracts the subtitle renditions from a master playlist.
// Rendition URIs are resolved against base. It fails with
// ErrMalformedPlaylist when the input is not valid m3u8 or lists no
// subtitle renditions at all. Forced renditions are tagged, not dropped;
// callers decide whether to process them.
func ParseMaster(data []byte, base *url.URL) ([]models.Rendition, error) {
	scanner := bufio.NewScanner(strings.NewReader(string(data)))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	sawHeader := false
	var renditions []models.Rendition

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if !sawHeader {
			if !strings.HasPrefix(line, tagHeader) {
				return nil, fmt.Errorf("%w: missing %s header", ErrMalformedPlaylist, tagHeader)
			}
			sawHeader = true
			continue
		}

		if !strings.HasPrefix(line, tagMedia) {
			continue
		}

		attrs := parseAttributes(strings.TrimPrefix(line, tagMedia))
		if attrs["TYPE"] != "SUBTITLES" {
			continue
		}

		uri := attrs["URI"]
		lang := attrs["LANGUAGE"]
		if uri == "" || lang == "" {
			return nil, fmt.Errorf("%w: subtitles media tag without URI or LANGUAGE", ErrMalformedPlaylist)
		}

		subType := models.SubtitlesNormal
		switch {
		case attrs["FORCED"] == "YES":
			subType = models.SubtitlesForced
		case strings.Contains(attrs["CHARACTERISTICS"], "public.accessibility"):
			subType = models.SubtitlesCC
		}

		resolved, err := resolveURI(base, uri)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedPlaylist, err)
		}

		renditions = append(renditions, models.Rendition{
			Language: lang,
			Name:     attrs["NAME"],
			Type:     subType,
			URI:      resolved,
		})
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPlaylist, err)
	}
	if len(renditions) == 0 {
		return nil, fmt.Errorf("%w: no subtitle renditions listed", ErrMalformedPlaylist)
	}

	return renditions, nil
}

// ParseMedia extracts the ordered segment list from a media playlist.
// A playlist that carries media-playlist tags but no segments is a valid,
// empty result. Segment URIs are resolved against base.
func ParseMedia(data []byte, base *url.URL) ([]models.Segment, error) {
	scanner := bufio.NewScanner(strings.NewReader(string(data)))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	sawHeader := false
	sawMediaTag := false
	sequence := 0
	pendingDuration := -1.0
	var segments []models.Segment

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if !sawHeader {
			if !strings.HasPrefix(line, tagHeader) {
				return nil, fmt.Errorf("%w: missing %s header", ErrMalformedPlaylist, tagHeader)
			}
			sawHeader = true
			continue
		}

		switch {
		case strings.HasPrefix(line, tagMediaSequence):
			n, err := strconv.Atoi(strings.TrimPrefix(line, tagMediaSequence))
			if err != nil {
				return nil, fmt.Errorf("%w: bad media sequence: %v", ErrMalformedPlaylist, err)
			}
			sequence = n
			sawMediaTag = true

		case strings.HasPrefix(line, tagTargetDuration), line == tagEndList:
			sawMediaTag = true

		case strings.HasPrefix(line, tagInf):
			spec := strings.TrimPrefix(line, tagInf)
			if i := strings.IndexByte(spec, ','); i >= 0 {
				spec = spec[:i]
			}
			duration, err := strconv.ParseFloat(strings.TrimSpace(spec), 64)
			if err != nil {
				return nil, fmt.Errorf("%w: bad segment duration %q", ErrMalformedPlaylist, spec)
			}
			pendingDuration = duration
			sawMediaTag = true

		case strings.HasPrefix(line, "#"):
			// Unrecognized tags are ignored.

		default:
			// A URI line must be announced by an EXTINF tag.
			if pendingDuration < 0 {
				return nil, fmt.Errorf("%w: segment URI without EXTINF", ErrMalformedPlaylist)
			}

			resolved, err := resolveURI(base, line)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrMalformedPlaylist, err)
			}

			segments = append(segments, models.Segment{
				URI:      resolved,
				Sequence: sequence,
				Duration: pendingDuration,
			})
			sequence++
			pendingDuration = -1
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPlaylist, err)
	}
	if pendingDuration >= 0 {
		return nil, fmt.Errorf("%w: EXTINF without segment URI", ErrMalformedPlaylist)
	}
	// Distinguish an empty media playlist from some other m3u8 document
	// (e.g. a master playlist) that simply has no segment lines.
	if len(segments) == 0 && !sawMediaTag {
		return nil, fmt.Errorf("%w: no media playlist tags found", ErrMalformedPlaylist)
	}

	return segments, nil
}

// parseAttributes splits an m3u8 attribute list into a map. Values may be
// quoted and contain commas.
func parseAttributes(list string) map[string]string {
	attrs := make(map[string]string)

	for len(list) > 0 {
		eq := strings.IndexByte(list, '=')
		if eq < 0 {
			break
		}
		key := strings.TrimSpace(list[:eq])
		rest := list[eq+1:]

		var value string
		if strings.HasPrefix(rest, `"`) {
			end := strings.IndexByte(rest[1:], '"')
			if end < 0 {
				value = rest[1:]
				rest = ""
			} else {
				value = rest[1 : end+1]
				rest = rest[end+2:]
			}
			rest = strings.TrimPrefix(rest, ",")
		} else if comma := strings.IndexByte(rest, ','); comma >= 0 {
			value = rest[:comma]
			rest = rest[comma+1:]
		} else {
			value = rest
			rest = ""
		}

		attrs[key] = value
		list = rest
	}

	return attrs
}

func resolveURI(base *url.URL, uri string) (string, error) {
	parsed, err := url.Parse(uri)
	if err != nil {
		return "", fmt.Errorf("failed to parse URI %q: %w", uri, err)
	}
	if base == nil {
		return parsed.String(), nil
	}
	return base.ResolveReference(parsed).String(), nil
}

// FilterRenditions retains the renditions whose language code matches the
// filter. It never merges renditions: two tracks with the same language
// but different types both survive.
func FilterRenditions(renditions []models.Rendition, matches func(code string) bool) []models.Rendition {
	var kept []models.Rendition
	for _, r := range renditions {
		if matches(r.Language) {
			kept = append(kept, r)
		}
	}
	return kept
}
