package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
)

// printSummary reports the per-URL results. Terminals get a table;
// everything else gets one plain line per URL.
func printSummary(w io.Writer, reports []urlReport) {
	if isTerminal(w) {
		printSummaryTable(w, reports)
	} else {
		for _, report := range reports {
			fmt.Fprintln(w, summaryLine(report))
		}
	}

	total, downloaded := 0, 0
	for _, report := range reports {
		total += report.matched
		downloaded += report.downloaded
	}

	switch {
	case total == 0:
		fmt.Fprintln(w, "No matching subtitles were found.")
	default:
		fmt.Fprintf(w, "%d/%d matching subtitles were successfully downloaded.\n", downloaded, total)
	}
}

func printSummaryTable(w io.Writer, reports []urlReport) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Title", "Matched", "Downloaded", "Output"})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
	})

	for _, report := range reports {
		title := report.url
		if report.movie != nil {
			title = report.movie.Title
			if report.movie.ReleaseYear > 0 {
				title += " (" + strconv.Itoa(report.movie.ReleaseYear) + ")"
			}
		}

		outcome := ""
		switch {
		case report.err != nil:
			outcome = report.err.Error()
		case len(report.paths) > 0:
			outcome = filepath.Base(report.paths[0])
			if len(report.paths) > 1 {
				outcome += fmt.Sprintf(" (+%d more)", len(report.paths)-1)
			}
		}

		tw.AppendRow(table.Row{title, report.matched, report.downloaded, outcome})
	}

	tw.Render()
}

func summaryLine(report urlReport) string {
	name := report.url
	if report.movie != nil {
		name = report.movie.Title
	}
	if report.err != nil {
		return fmt.Sprintf("%s: failed: %v", name, report.err)
	}
	return fmt.Sprintf("%s: %d/%d subtitles downloaded", name, report.downloaded, report.matched)
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
