package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"

	"github.com/goliatone/go-datagrid/components/grid"
)

const maxCellWidth = 40

// renderTable writes rows as space-aligned columns. Widths are measured in
// terminal cells so wide runes line up.
func renderTable(w io.Writer, header []string, rows [][]string) error {
	widths := make([]int, len(header))
	measure := func(cells []string) {
		for i, cell := range cells {
			if i >= len(widths) {
				break
			}
			widths[i] = max(widths[i], runewidth.StringWidth(clip(cell)))
		}
	}
	measure(header)
	for _, row := range rows {
		measure(row)
	}

	line := func(cells []string) error {
		parts := make([]string, len(widths))
		for i := range widths {
			var cell string
			if i < len(cells) {
				cell = clip(cells[i])
			}
			if i == len(widths)-1 {
				parts[i] = cell
				continue
			}
			parts[i] = runewidth.FillRight(cell, widths[i])
		}
		_, err := fmt.Fprintln(w, strings.TrimRight(strings.Join(parts, "  "), " "))
		return err
	}

	if err := line(header); err != nil {
		return err
	}
	rule := make([]string, len(widths))
	for i, width := range widths {
		rule[i] = strings.Repeat("-", width)
	}
	if err := line(rule); err != nil {
		return err
	}
	for _, row := range rows {
		if err := line(row); err != nil {
			return err
		}
	}
	return nil
}

func clip(cell string) string {
	cell = strings.ReplaceAll(cell, "\n", " ")
	return runewidth.Truncate(cell, maxCellWidth, "…")
}

// renderView prints a page of rows followed by a paging summary.
func renderView(w io.Writer, columns []grid.Column, view grid.View) error {
	header := make([]string, len(columns))
	for i, col := range columns {
		header[i] = col.Label
		if view.Sort.Key == col.Field {
			switch view.Sort.Direction {
			case grid.SortAscending:
				header[i] += " ▲"
			case grid.SortDescending:
				header[i] += " ▼"
			}
		}
	}
	rows := make([][]string, 0, view.Len())
	for row := range view.Rows() {
		cells := make([]string, len(columns))
		for i, col := range columns {
			cells[i] = grid.FormatValue(row.Values[col.Field])
		}
		rows = append(rows, cells)
	}
	if err := renderTable(w, header, rows); err != nil {
		return err
	}
	summary := fmt.Sprintf("page %d of %d, %s rows", view.Page, view.PageCount, humanize.Comma(int64(view.Total)))
	if view.Search != "" {
		summary += fmt.Sprintf(" matching %q", view.Search)
	}
	_, err := fmt.Fprintln(w, summary)
	return err
}
