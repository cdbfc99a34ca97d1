package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/riskibarqy/dota-match-insight/internal/domain/insightrun"
	"github.com/riskibarqy/dota-match-insight/internal/domain/match"
	"github.com/riskibarqy/dota-match-insight/internal/usecase"
)

const nullCell = "-"

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))
}

// PrintRunSummary prints a one-line header describing the run.
func PrintRunSummary(w io.Writer, r usecase.RunResult) {
	source := "fresh"
	if r.Cached {
		source = "cached"
	}
	fmt.Fprintf(w, "\nPlayer: %s (%d)  |  Min patch: %s  |  Matches: %d  |  Rows: %d  |  Dropped: %d  |  %s\n\n",
		r.PlayerName, r.PlayerID, r.MinPatch, r.MatchCount, len(r.Rows), r.Dropped, source)
}

// PrintSampleRow prints one clean row vertically, one column per line.
func PrintSampleRow(w io.Writer, row match.CleanRow) {
	table := newTable(w)
	table.Header("COLUMN", "VALUE")

	values := row.Values()
	for i, column := range match.CleanColumns {
		value := values[i]
		if value == "" {
			value = nullCell
		}
		table.Append(column, value)
	}
	table.Render()
}

func PrintPatches(w io.Writer, patches []match.Patch, current string) {
	table := newTable(w)
	table.Header(" ", "ID", "NAME", "DATE")

	for _, p := range patches {
		marker := " "
		if p.Name == current {
			marker = ">"
		}
		table.Append(marker, strconv.Itoa(p.ID), p.Name, p.Date)
	}
	table.Render()
}

func PrintRuns(w io.Writer, runs []insightrun.Run) {
	table := newTable(w)
	table.Header("RUN", "PLAYER", "MIN_PATCH", "MATCHES", "ROWS", "DROPPED", "CREATED")

	for _, r := range runs {
		table.Append(
			r.ID,
			r.PlayerName,
			r.MinPatch,
			strconv.Itoa(r.MatchCount),
			strconv.Itoa(r.RowCount),
			strconv.Itoa(r.Dropped),
			r.CreatedAt.Format("2006-01-02 15:04"),
		)
	}
	table.Render()
}
