package main

import (
	"flag"
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/gomlx/milscope/backends"
	"github.com/gomlx/milscope/bundlecache"
	"github.com/gomlx/milscope/internal/xslices"
	"github.com/gomlx/milscope/mil"
)

var (
	flagSummary = flag.Bool("summary", false, "Displays a summary of the dump: per backend, how many "+
		"operations were dispatched to it, its total estimated runtime and how many validation "+
		"messages it produced.")
)

// Summary prints details of the dump file followed by per-backend totals.
func Summary(source bundlecache.Entry, records []mil.OperationRecord) {
	fmt.Println(titleStyle.Render("Summary"))
	table := newPlainTable(lipgloss.Right, lipgloss.Left)
	table.Row("analytics file", source.Path)
	if !source.ModTime.IsZero() {
		table.Row("size", humanize.Bytes(uint64(source.Size)))
		table.Row("modified", fmt.Sprintf("%s (%s)",
			source.ModTime.Format(time.DateTime), humanize.Time(source.ModTime)))
	}
	table.Row("# operations", humanize.Comma(int64(len(records))))
	fmt.Println(table.Render())

	fmt.Println(titleStyle.Render("Backends"))
	stats := collectBackendStats(records)
	backendsTable := newBackendsTable(
		[]string{"Backend", "Selected", "Est. Runtime", "Validation Messages"}, nil, 0)
	for _, id := range stats.ids {
		runtime := "N/A"
		if stats.hasRuntime[id] {
			runtime = formatSeconds(stats.runtimeTotals[id])
		}
		backendsTable.Row(backends.ColorFor(id), id,
			humanize.Comma(int64(stats.selectedCount[id])),
			runtime,
			humanize.Comma(int64(stats.validationCount[id])))
	}
	fmt.Println(backendsTable.Render())
}

// backendStats aggregates the per-backend totals of a dump. It covers the
// registered backends plus any ID the dump mentions.
type backendStats struct {
	ids             []string
	selectedCount   map[string]int
	runtimeTotals   map[string]float64
	hasRuntime      map[string]bool
	validationCount map[string]int
}

func collectBackendStats(records []mil.OperationRecord) backendStats {
	stats := backendStats{
		selectedCount:   make(map[string]int),
		runtimeTotals:   make(map[string]float64),
		hasRuntime:      make(map[string]bool),
		validationCount: make(map[string]int),
	}
	seen := make(map[string]bool)
	for _, id := range backends.IDs() {
		seen[id] = true
	}
	for _, record := range records {
		if record.SelectedBackend != mil.NotFound {
			stats.selectedCount[record.SelectedBackend]++
			seen[record.SelectedBackend] = true
		}
		for id, seconds := range record.Runtimes {
			stats.runtimeTotals[id] += seconds
			stats.hasRuntime[id] = true
			seen[id] = true
		}
		for id := range record.ValidationMessages {
			stats.validationCount[id]++
			seen[id] = true
		}
	}
	stats.ids = xslices.SortedKeys(seen)
	return stats
}

// formatSeconds renders a runtime in seconds with a readable unit.
func formatSeconds(seconds float64) string {
	return time.Duration(seconds * float64(time.Second)).Round(time.Microsecond).String()
}
