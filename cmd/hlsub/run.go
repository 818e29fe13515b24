package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"

	"hlsub/internal/config"
	"hlsub/internal/fetch"
	"hlsub/internal/logger"
	"hlsub/internal/models"
	"hlsub/internal/output"
	"hlsub/internal/pipeline"
	"hlsub/internal/scraper"
	"hlsub/internal/updater"
	"hlsub/internal/version"
)

// urlReport is the outcome of processing one URL argument.
type urlReport struct {
	url        string
	movie      *models.Movie
	matched    int
	downloaded int
	paths      []string
	err        error
}

func runDownload(ctx context.Context, cfg *config.Config, urls []string) error {
	log := logger.New(os.Stderr, cfg.General.LogLevel, cfg.General.LogJSON)

	clientCfg := fetch.ClientConfig{
		Timeout:   cfg.Timeout(),
		Proxy:     cfg.HTTP.Proxy,
		VerifyTLS: cfg.HTTP.VerifyTLS,
		UserAgent: cfg.HTTP.UserAgent,
	}
	client, err := fetch.NewClient(clientCfg)
	if err != nil {
		return fmt.Errorf("failed to build HTTP client: %w", err)
	}

	if cfg.General.CheckForUpdates {
		checkForUpdates(ctx, log, client)
	}

	scr := scraper.New(client, log, cfg.HTTP.UserAgent)
	writer := output.NewWriter(log, output.Options{
		Folder:    cfg.Downloads.Folder,
		Overwrite: cfg.Downloads.OverwriteExisting,
		Zip:       cfg.Downloads.Zip,
	})

	// One flight table for the whole run: renditions and URLs that share
	// segment URIs download each of them once.
	flights := fetch.NewFlightTable()

	fetcher := fetch.NewFetcher(client, log, clientCfg, flights)
	fetcher.SetConcurrency(cfg.HTTP.Concurrency)

	opts := pipeline.Options{
		LanguageFilter:   cfg.Downloads.Languages,
		ConvertToSRT:     cfg.Subtitles.Format == "srt",
		RemoveDuplicates: cfg.Subtitles.RemoveDuplicates,
		FixRTL:           cfg.Subtitles.FixRTL,
		TopAlignment:     cfg.Subtitles.SRTTopAlignment,
	}
	pipe := pipeline.New(log, fetcher, opts)

	// URLs are processed independently: one failing scrape or playlist
	// never blocks the remaining arguments.
	reports := make([]urlReport, 0, len(urls))
	for _, rawURL := range urls {
		if err := ctx.Err(); err != nil {
			return err
		}

		report := processURL(ctx, log, fetcher, scr, pipe, writer, rawURL)
		if report.err != nil {
			log.Errorf("Failed to process %s: %v", rawURL, report.err)
		}
		reports = append(reports, report)
	}

	printSummary(os.Stdout, reports)

	for _, report := range reports {
		if report.err == nil {
			return nil
		}
	}
	return errors.New("all URLs failed")
}

func processURL(
	ctx context.Context,
	log logger.Logger,
	fetcher *fetch.Fetcher,
	scr *scraper.Scraper,
	pipe *pipeline.Pipeline,
	writer *output.Writer,
	rawURL string,
) urlReport {
	report := urlReport{url: rawURL}

	movie, err := scr.Scrape(ctx, rawURL)
	if err != nil {
		report.err = err
		return report
	}
	report.movie = movie
	log.Infof("Found movie: %s (%d)", movie.Title, movie.ReleaseYear)

	master, err := fetcher.FetchOne(ctx, movie.PlaylistURL)
	if err != nil {
		report.err = fmt.Errorf("master playlist: %w", err)
		return report
	}

	results, err := pipe.Run(ctx, master, movie.PlaylistURL)
	if err != nil {
		report.err = err
		return report
	}
	report.matched = len(results)

	var downloaded []*models.SubtitlesData
	for _, result := range results {
		if result.Err != nil {
			log.Warnf("Failed to download '%s' subtitles for %s: %v",
				result.Rendition.Language, movie.Title, result.Err)
			continue
		}
		downloaded = append(downloaded, result.Subtitles)
	}
	report.downloaded = len(downloaded)

	if len(downloaded) > 0 {
		paths, err := writer.Write(movie, downloaded)
		report.paths = paths
		if err != nil {
			report.err = err
		}
	}

	return report
}

// checkForUpdates is advisory only; any failure is demoted to debug.
func checkForUpdates(ctx context.Context, log logger.Logger, client *http.Client) {
	check, err := updater.CheckLatest(ctx, client, version.Version)
	if err != nil {
		log.Debugf("Update check failed: %v", err)
		return
	}
	if !check.UpToDate {
		log.Warnf("A new version is available: %s (current version: %s). See %s",
			check.LatestVersion, check.CurrentVersion, check.ReleaseURL)
	}
}
