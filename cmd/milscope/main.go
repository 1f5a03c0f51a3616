package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/muesli/termenv"
	"github.com/schollz/progressbar/v3"
	"k8s.io/klog/v2"

	"github.com/gomlx/milscope/backends"
	"github.com/gomlx/milscope/bundlecache"
	"github.com/gomlx/milscope/internal/fsutil"
	"github.com/gomlx/milscope/mil"
)

var (
	flagDebug = flag.Bool("debug", false, "Echoes each raw statement before parsing it.")

	flagCacheDir = flag.String("cache_dir", bundlecache.DefaultCacheDir,
		"Directory tree searched for analytics dumps when no file is given.")
	flagBackendsConfig = flag.String("backends_config", "",
		"YAML file with extra backend definitions (id, column, color), applied on top of the "+
			"built-in backends. See package backends for the format.")
	flagNoColor = flag.Bool("no_color", false, "Disables colors in the reports.")
)

func main() {
	klog.InitFlags(nil)
	flag.Parse()

	if *flagNoColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
	loadBackendsConfig()

	if *flagList {
		listDumps()
		return
	}

	args := flag.Args()
	if len(args) > 1 {
		klog.Errorf("Too many arguments, at most one analytics dump can be given. See 'milscope -help'.")
		os.Exit(1)
	}

	var source bundlecache.Entry
	discovered := false
	if len(args) == 1 {
		source = statDump(fsutil.MustReplaceTildeInDir(args[0]))
	} else {
		source = discoverLatest()
		discovered = true
	}

	contents, err := os.ReadFile(source.Path)
	if err != nil {
		klog.Exitf("Failed to read analytics dump: %v", err)
	}
	records := parseDocument(string(contents))
	records = filterRecords(records)
	sortRecords(records)

	if *flagWhy != "" {
		Why(records, *flagWhy)
	} else {
		Report(records)
	}
	if *flagSummary {
		Summary(source, records)
	}
	if *flagCSV != "" {
		if err := writeCSV(*flagCSV, records); err != nil {
			klog.Fatalf("Failed to write -csv file: %+v", err)
		}
	}
	if *flagJSON != "" {
		if err := writeJSON(*flagJSON, records); err != nil {
			klog.Fatalf("Failed to write -json file: %+v", err)
		}
	}
	if *flagPlot {
		BuildPlot(records)
	}

	if discovered {
		fmt.Printf("Using latest analytics file: %s\n", source.Path)
		fmt.Printf("%s last modified: %s (%s)\n", bundlecache.AnalyticsFileName,
			source.ModTime.Format(time.DateTime), humanize.Time(source.ModTime))
	}
}

// loadBackendsConfig applies -backends_config, or the MILSCOPE_BACKENDS
// environment variable when the flag is unset.
func loadBackendsConfig() {
	var err error
	if *flagBackendsConfig != "" {
		err = backends.LoadConfig(*flagBackendsConfig)
	} else {
		err = backends.LoadDefaultConfig()
	}
	if err != nil {
		klog.Exitf("Failed to load backends configuration: %v", err)
	}
}

// parseDocument extracts one record per tensor operation statement. With
// -debug each raw statement is echoed before it is parsed.
func parseDocument(document string) []mil.OperationRecord {
	if !*flagDebug {
		return mil.ExtractAll(document)
	}
	var records []mil.OperationRecord
	for statement := range mil.Statements(document) {
		fmt.Println(statement)
		records = append(records, mil.Extract(statement))
	}
	return records
}

// statDump fills the cache entry for an explicitly given dump path. Size and
// ModTime stay zero if the file can't be stat'ed, reading it reports the
// error later.
func statDump(filePath string) bundlecache.Entry {
	entry := bundlecache.Entry{Path: filePath}
	if info, err := os.Stat(filePath); err == nil {
		entry.ModTime = info.ModTime()
		entry.Size = info.Size()
	}
	return entry
}

// newCacheSpinner returns an indeterminate progress indicator for bundle
// cache scans, ticked once per filesystem entry visited.
func newCacheSpinner() *progressbar.ProgressBar {
	return progressbar.NewOptions(-1,
		progressbar.OptionSetDescription("Scanning bundle cache"),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionClearOnFinish(),
	)
}

// discoverLatest finds the most recently modified analytics dump in the
// bundle cache.
func discoverLatest() bundlecache.Entry {
	output := termenv.NewOutput(os.Stdout)
	output.HideCursor()
	spinner := newCacheSpinner()
	entry, err := bundlecache.Latest(*flagCacheDir, func(string) { _ = spinner.Add(1) })
	_ = spinner.Finish()
	output.ShowCursor()
	if err != nil {
		klog.Exitf("Failed to find an analytics dump: %v", err)
	}
	return entry
}
