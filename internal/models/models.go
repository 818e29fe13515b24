package models

// SubtitlesType tags a rendition with its special variant, if any.
// Regular subtitle tracks carry an empty type.
type SubtitlesType string

const (
	SubtitlesNormal SubtitlesType = ""
	SubtitlesCC     SubtitlesType = "cc"
	SubtitlesForced SubtitlesType = "forced"
)

// Format identifies a subtitle container format by its file extension.
type Format string

const (
	FormatWebVTT Format = "vtt"
	FormatSubRip Format = "srt"
)

// Rendition is one alternative subtitle track listed in a master playlist.
type Rendition struct {
	// Language is the language code as declared by the playlist (e.g. "en", "pt-BR").
	Language string
	// Name is the human-readable track name.
	Name string
	// Type marks closed-caption or forced variants.
	Type SubtitlesType
	// URI is the fully-qualified URL of the rendition's media playlist.
	URI string
}

// Segment represents a single downloadable chunk of a media playlist.
type Segment struct {
	// URI is the fully-qualified URL to fetch the segment from.
	URI string
	// Sequence is the segment's media sequence number, the authoritative
	// ordering key regardless of fetch completion order.
	Sequence int
	// Duration is the segment duration in seconds, as declared by EXTINF.
	Duration float64
}

// Movie holds the metadata resolved from a store page URL.
type Movie struct {
	ID          string
	Title       string
	ReleaseYear int
	PlaylistURL string
}

// SubtitlesData is one finished subtitle document, ready to be written out.
type SubtitlesData struct {
	Language string
	Name     string
	Type     SubtitlesType
	Format   Format
	Content  []byte
}

// FileSuffix returns the naming suffix for the subtitles, e.g. "en.cc.srt".
func (s SubtitlesData) FileSuffix() string {
	if s.Type != SubtitlesNormal {
		return s.Language + "." + string(s.Type) + "." + string(s.Format)
	}
	return s.Language + "." + string(s.Format)
}
