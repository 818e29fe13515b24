// Package output writes finished subtitle documents to disk using
// release-style file names, with optional archiving of multi-language
// downloads.
package output

import (
	"archive/zip"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"hlsub/internal/logger"
	"hlsub/internal/models"
)

const (
	mediaSource = "iT"
	sourceType  = "WEB"
)

// Characters replaced while turning a title into a file name stem.
var titleReplacer = strings.NewReplacer(
	": ", ".",
	":", ".",
	" - ", "-",
	", ", ".",
	". ", ".",
	" ", ".",
	"|", ".",
	"/", ".",
	"\\", ".",
	"<", "",
	">", "",
	"?", "",
	"*", "",
	"\"", "",
)

var multiDotRE = regexp.MustCompile(`\.{2,}`)

// Options controls file placement and conflict handling.
type Options struct {
	// Folder is the destination directory.
	Folder string
	// Overwrite replaces existing files; otherwise a numbered variant of
	// the name is used.
	Overwrite bool
	// Zip bundles the files into one archive when a title produced more
	// than one subtitle file.
	Zip bool
}

// Writer persists subtitle documents for one or more titles.
type Writer struct {
	logger logger.Logger
	opts   Options
}

// NewWriter creates a writer. An empty folder means the current directory.
func NewWriter(log logger.Logger, opts Options) *Writer {
	if opts.Folder == "" {
		opts.Folder = "."
	}
	return &Writer{logger: log, opts: opts}
}

// ReleaseStem builds the shared release-name prefix for a movie,
// e.g. "Some.Movie.2023.iT.WEB".
func ReleaseStem(movie *models.Movie) string {
	stem := standardizeTitle(movie.Title)
	if movie.ReleaseYear > 0 {
		stem += "." + strconv.Itoa(movie.ReleaseYear)
	}
	return stem + "." + mediaSource + "." + sourceType
}

// standardizeTitle converts a movie title into a file-name-safe dotted stem.
func standardizeTitle(title string) string {
	stem := titleReplacer.Replace(strings.TrimSpace(title))
	stem = multiDotRE.ReplaceAllString(stem, ".")
	return strings.Trim(stem, ".")
}

// Write stores every subtitle document of one movie and returns the final
// paths. With Zip enabled and more than one document, the individual files
// are replaced by a single archive.
func (w *Writer) Write(movie *models.Movie, subtitles []*models.SubtitlesData) ([]string, error) {
	stem := ReleaseStem(movie)
	var written []string

	for _, data := range subtitles {
		path := filepath.Join(w.opts.Folder, stem+"."+data.FileSuffix())
		if !w.opts.Overwrite {
			path = nonConflictingPath(path)
		}

		if err := os.WriteFile(path, data.Content, 0o644); err != nil {
			return written, fmt.Errorf("failed to write subtitles file: %w", err)
		}
		w.logger.Debugf("Wrote %s", path)
		written = append(written, path)
	}

	if w.opts.Zip && len(written) > 1 {
		archivePath := filepath.Join(w.opts.Folder, stem+".zip")
		if !w.opts.Overwrite {
			archivePath = nonConflictingPath(archivePath)
		}

		if err := archiveFiles(archivePath, written); err != nil {
			return written, err
		}
		for _, path := range written {
			if err := os.Remove(path); err != nil {
				w.logger.Warnf("Failed to remove %s after archiving: %v", path, err)
			}
		}
		w.logger.Debugf("Archived %d files into %s", len(written), archivePath)
		return []string{archivePath}, nil
	}

	return written, nil
}

// nonConflictingPath returns path itself if unused, otherwise the first
// "stem-N.ext" variant that does not exist yet.
func nonConflictingPath(path string) string {
	if _, err := os.Stat(path); err != nil {
		return path
	}

	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(path, ext)
	for i := 1; ; i++ {
		candidate := stem + "-" + strconv.Itoa(i) + ext
		if _, err := os.Stat(candidate); err != nil {
			return candidate
		}
	}
}

// archiveFiles bundles the given files into a zip archive, storing them
// under their base names.
func archiveFiles(archivePath string, paths []string) error {
	archive, err := os.Create(archivePath)
	if err != nil {
		return fmt.Errorf("failed to create archive: %w", err)
	}
	defer archive.Close()

	zw := zip.NewWriter(archive)
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			zw.Close()
			return fmt.Errorf("failed to read %s for archiving: %w", path, err)
		}

		entry, err := zw.Create(filepath.Base(path))
		if err != nil {
			zw.Close()
			return fmt.Errorf("failed to add %s to archive: %w", path, err)
		}
		if _, err := entry.Write(data); err != nil {
			zw.Close()
			return fmt.Errorf("failed to write %s to archive: %w", path, err)
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to finalize archive: %w", err)
	}
	return nil
}
