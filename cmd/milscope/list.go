package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/muesli/termenv"
	"k8s.io/klog/v2"

	"github.com/gomlx/milscope/bundlecache"
)

var (
	flagList = flag.Bool("list", false, "Lists every analytics dump found in the bundle cache, most "+
		"recently modified first, and exits.")
)

// listDumps prints the analytics dumps found under -cache_dir.
func listDumps() {
	output := termenv.NewOutput(os.Stdout)
	output.HideCursor()
	spinner := newCacheSpinner()
	entries, err := bundlecache.List(*flagCacheDir, func(string) { _ = spinner.Add(1) })
	_ = spinner.Finish()
	output.ShowCursor()
	if err != nil {
		klog.Exitf("Failed to scan the bundle cache: %v", err)
	}
	if len(entries) == 0 {
		fmt.Printf("No %s files found under %s\n", bundlecache.AnalyticsFileName, *flagCacheDir)
		return
	}

	fmt.Println(titleStyle.Render("Analytics Dumps"))
	table := newPlainTable(lipgloss.Left, lipgloss.Right, lipgloss.Right)
	table.Headers("Path", "Modified", "Size")
	for _, entry := range entries {
		table.Row(entry.Path,
			fmt.Sprintf("%s (%s)", entry.ModTime.Format(time.DateTime), humanize.Time(entry.ModTime)),
			humanize.Bytes(uint64(entry.Size)))
	}
	fmt.Println(table.Render())
}
