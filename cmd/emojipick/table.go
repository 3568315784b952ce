package main

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// tableColumn describes one column of a CLI table. A zero maxWidth leaves
// the column unbounded; longer cells wrap.
type tableColumn struct {
	header   string
	align    text.Align
	maxWidth int
}

var (
	sourceColumns = []tableColumn{
		{header: "Path", maxWidth: 60},
		{header: "Origin", maxWidth: 32},
		{header: "Entries", align: text.AlignRight},
	}
	cacheColumns = []tableColumn{
		{header: "Cache"},
		{header: "Value", maxWidth: 72},
	}
)

// renderTable lays rows out under columns. Headers keep their case.
func renderTable(columns []tableColumn, rows [][]string) string {
	if len(columns) == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.Style().Format.Header = text.FormatDefault

	header := make(table.Row, len(columns))
	configs := make([]table.ColumnConfig, len(columns))
	for i, col := range columns {
		header[i] = col.header
		configs[i] = table.ColumnConfig{
			Number:      i + 1,
			Align:       col.align,
			AlignHeader: text.AlignLeft,
			WidthMax:    col.maxWidth,
		}
	}
	tw.AppendHeader(header)
	tw.SetColumnConfigs(configs)

	for _, row := range rows {
		r := make(table.Row, len(columns))
		for i := range r {
			r[i] = ""
			if i < len(row) {
				r[i] = row[i]
			}
		}
		tw.AppendRow(r)
	}
	return tw.Render()
}
