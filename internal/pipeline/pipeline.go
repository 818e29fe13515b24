// Package pipeline drives one subtitle rendition end-to-end: media
// playlist resolution, segment fetching, WebVTT parsing, cleanup passes,
// and format conversion. Renditions run concurrently and fail
// independently of each other.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"hlsub/internal/fetch"
	"hlsub/internal/hls"
	"hlsub/internal/language"
	"hlsub/internal/logger"
	"hlsub/internal/models"
	"hlsub/internal/subtitles"
)

var (
	// ErrNoMatchingRenditions is reported when the language filter
	// retains nothing. A user-facing "nothing to download", not a crash.
	ErrNoMatchingRenditions = errors.New("no renditions match the language filter")

	// ErrEmptyRendition is reported when every segment of a rendition
	// fetched successfully but the payload sums to zero bytes. Reported
	// distinctly from success: no empty file is ever written.
	ErrEmptyRendition = errors.New("no subtitles available in rendition")
)

// Options carries the per-run subtitle settings.
type Options struct {
	// LanguageFilter keeps only matching renditions; empty keeps all.
	LanguageFilter   []string
	ConvertToSRT     bool
	RemoveDuplicates bool
	FixRTL           bool
	// TopAlignment applies the SubRip top-alignment tag during conversion.
	TopAlignment bool
}

// Result is the per-rendition outcome of a run.
type Result struct {
	Rendition models.Rendition
	// Subtitles is set on success, nil otherwise.
	Subtitles *models.SubtitlesData
	Err       error
}

// Pipeline processes every matching rendition of one master playlist.
type Pipeline struct {
	logger  logger.Logger
	fetcher *fetch.Fetcher
	opts    Options
}

// New creates a pipeline. The fetcher's flight table may be shared with
// other pipelines to deduplicate segments common across renditions.
func New(log logger.Logger, fetcher *fetch.Fetcher, opts Options) *Pipeline {
	return &Pipeline{logger: log, fetcher: fetcher, opts: opts}
}

// Run parses the master playlist and processes every matching rendition
// concurrently. Results come back in rendition order. A rendition's
// failure is recorded in its Result and never aborts its siblings; Run
// itself only fails when nothing can be processed at all.
func (p *Pipeline) Run(ctx context.Context, master []byte, masterURL string) ([]Result, error) {
	base, err := url.Parse(masterURL)
	if err != nil {
		return nil, fmt.Errorf("invalid master playlist URL: %w", err)
	}

	renditions, err := hls.ParseMaster(master, base)
	if err != nil {
		return nil, err
	}

	// Forced renditions are tagged by the parser but never downloaded.
	var candidates []models.Rendition
	for _, rendition := range renditions {
		if rendition.Type == models.SubtitlesForced {
			p.logger.Debugf("Skipping forced rendition '%s'", rendition.Language)
			continue
		}
		candidates = append(candidates, rendition)
	}

	matched := hls.FilterRenditions(candidates, func(code string) bool {
		return language.Matches(code, p.opts.LanguageFilter)
	})
	if len(matched) == 0 {
		return nil, ErrNoMatchingRenditions
	}

	p.logger.Debugf("%d matching subtitle renditions found", len(matched))

	results := make([]Result, len(matched))
	var wg sync.WaitGroup

	for i, rendition := range matched {
		i, rendition := i, rendition
		wg.Add(1)
		go func() {
			defer wg.Done()
			data, err := p.runOne(ctx, rendition)
			results[i] = Result{Rendition: rendition, Subtitles: data, Err: err}
		}()
	}

	wg.Wait()
	return results, nil
}

// runOne processes a single rendition. The document is assembled only
// after every segment arrived; a failed fetch never degrades into a
// shorter-than-real output.
func (p *Pipeline) runOne(ctx context.Context, rendition models.Rendition) (*models.SubtitlesData, error) {
	playlistBody, err := p.fetcher.FetchOne(ctx, rendition.URI)
	if err != nil {
		return nil, fmt.Errorf("media playlist: %w", err)
	}

	base, err := url.Parse(rendition.URI)
	if err != nil {
		return nil, fmt.Errorf("invalid media playlist URI: %w", err)
	}

	segments, err := hls.ParseMedia(playlistBody, base)
	if err != nil {
		return nil, err
	}
	if len(segments) == 0 {
		return nil, ErrEmptyRendition
	}

	bodies, err := p.fetcher.FetchAll(ctx, segments)
	if err != nil {
		return nil, err
	}

	total := 0
	for _, body := range bodies {
		total += len(body)
	}
	if total == 0 {
		return nil, ErrEmptyRendition
	}

	// Bodies are in segment sequence order regardless of fetch
	// completion order, so concatenation is deterministic. A blank line
	// between bodies keeps a segment without a trailing newline from
	// merging into the next segment's header block.
	var sb strings.Builder
	sb.Grow(total + 2*len(bodies))
	for _, body := range bodies {
		sb.Write(body)
		sb.WriteString("\n\n")
	}

	doc := subtitles.ParseWebVTT(p.logger, rendition.Language, sb.String())
	doc.ClosedCaptions = rendition.Type == models.SubtitlesCC
	if doc.Warnings > 0 {
		p.logger.Warnf("Skipped %d malformed blocks in '%s' subtitles", doc.Warnings, rendition.Language)
	}

	doc.Polish(subtitles.ProcessOptions{
		RemoveDuplicates: p.opts.RemoveDuplicates,
		FixRTL:           p.opts.FixRTL,
	})

	format := models.FormatWebVTT
	var content string
	if p.opts.ConvertToSRT {
		format = models.FormatSubRip
		content = doc.ToSRT(subtitles.SRTOptions{TopAlignment: p.opts.TopAlignment})
	} else {
		content = doc.ToVTT()
	}

	return &models.SubtitlesData{
		Language: rendition.Language,
		Name:     rendition.Name,
		Type:     rendition.Type,
		Format:   format,
		Content:  []byte(content),
	}, nil
}
