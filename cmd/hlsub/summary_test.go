package main

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"hlsub/internal/models"
)

func TestPrintSummary(t *testing.T) {
	movie := &models.Movie{Title: "Some Movie", ReleaseYear: 2023}

	t.Run("Downloads Counted Across URLs", func(t *testing.T) {
		var buf bytes.Buffer
		printSummary(&buf, []urlReport{
			{url: "https://example.com/1", movie: movie, matched: 3, downloaded: 2},
			{url: "https://example.com/2", movie: movie, matched: 1, downloaded: 1},
		})

		out := buf.String()
		assert.Contains(t, out, "3/4 matching subtitles were successfully downloaded.")
	})

	t.Run("Nothing Found", func(t *testing.T) {
		var buf bytes.Buffer
		printSummary(&buf, []urlReport{
			{url: "https://example.com/1", err: errors.New("scrape failed")},
		})

		out := buf.String()
		assert.Contains(t, out, "No matching subtitles were found.")
		assert.Contains(t, out, "scrape failed")
	})
}

func TestSummaryLine(t *testing.T) {
	movie := &models.Movie{Title: "Some Movie"}

	line := summaryLine(urlReport{movie: movie, matched: 2, downloaded: 2})
	assert.Equal(t, "Some Movie: 2/2 subtitles downloaded", line)

	line = summaryLine(urlReport{url: "https://example.com/x", err: errors.New("boom")})
	assert.Equal(t, "https://example.com/x: failed: boom", line)
}
