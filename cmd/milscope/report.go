package main

import (
	"flag"
	"fmt"
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/gomlx/milscope/backends"
	"github.com/gomlx/milscope/internal/xslices"
	"github.com/gomlx/milscope/mil"
)

var (
	flagOps = flag.String("ops", "", "Regular expression selecting which operations to report: "+
		"an operation is included if the expression matches its operation kind or its name.")
	flagSort = flag.String("sort", "none", "Order of the operations in the reports: \"none\" keeps "+
		"the document order, \"operation\" and \"name\" sort alphabetically, and a runtime column "+
		"title (e.g. \"cpu\") sorts from slowest to fastest on that backend.")
)

// Display colors of the non-runtime columns.
const (
	operationColor  = "6"
	nameColor       = "3"
	validationColor = "1"
)

// Report prints the operations table, the default report.
func Report(records []mil.OperationRecord) {
	fmt.Println(titleStyle.Render("MIL Operations"))
	fmt.Println(buildReportTable(records).Render())
}

// buildReportTable lays out one row per operation: the runtime columns come
// from the backends registry, tinted with each backend's color, and the
// selected backend cell is tinted per row.
func buildReportTable(records []mil.OperationRecord) *backendsTable {
	columns := backends.Columns()
	headers := []string{"Operation"}
	colColors := []string{operationColor}
	for _, column := range columns {
		backend, _ := backends.ColumnBackend(column)
		headers = append(headers, column+" Runtime")
		colColors = append(colColors, backend.Color)
	}
	backendCol := len(headers)
	headers = append(headers, "Selected Backend", "Name", "Validation Messages")
	colColors = append(colColors, "", nameColor, validationColor)

	table := newBackendsTable(headers, colColors, backendCol)
	for _, record := range records {
		cells := []string{record.Operation}
		for _, column := range columns {
			backend, _ := backends.ColumnBackend(column)
			cells = append(cells, runtimeCell(record, backend.ID))
		}
		cells = append(cells, record.SelectedBackend, record.Name, validationCell(record))
		table.Row(backends.ColorFor(record.SelectedBackend), cells...)
	}
	return table
}

// runtimeCell formats the backend's estimated runtime rounded to 4 decimal
// places, or "N/A" when the statement didn't estimate that backend.
func runtimeCell(record mil.OperationRecord, backendID string) string {
	seconds, found := record.Runtimes[backendID]
	if !found {
		return "N/A"
	}
	return strconv.FormatFloat(math.Round(seconds*1e4)/1e4, 'f', -1, 64)
}

// validationCell joins the validation messages as "backend: message" lines,
// in backend order.
func validationCell(record mil.OperationRecord) string {
	if len(record.ValidationMessages) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, backendID := range xslices.SortedKeys(record.ValidationMessages) {
		if sb.Len() > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(backendID)
		sb.WriteString(": ")
		sb.WriteString(strings.TrimRight(record.ValidationMessages[backendID], "\n"))
	}
	return sb.String()
}

// filterRecords applies the -ops filter.
func filterRecords(records []mil.OperationRecord) []mil.OperationRecord {
	if *flagOps == "" {
		return records
	}
	matcher, err := regexp.Compile(*flagOps)
	if err != nil {
		klog.Fatalf("Failed to compile -ops=%q matcher: %v", *flagOps, err)
	}
	return keepMatching(records, matcher)
}

func keepMatching(records []mil.OperationRecord, matcher *regexp.Regexp) []mil.OperationRecord {
	kept := make([]mil.OperationRecord, 0, len(records))
	for _, record := range records {
		if matcher.MatchString(record.Operation) || matcher.MatchString(record.Name) {
			kept = append(kept, record)
		}
	}
	return kept
}

// sortRecords applies the -sort order in place.
func sortRecords(records []mil.OperationRecord) {
	if err := sortRecordsBy(records, *flagSort); err != nil {
		klog.Fatalf("Invalid -sort value: %v", err)
	}
}

func sortRecordsBy(records []mil.OperationRecord, key string) error {
	key = strings.ToLower(strings.TrimSpace(key))
	switch key {
	case "", "none":
		return nil
	case "operation":
		slices.SortStableFunc(records, func(a, b mil.OperationRecord) int {
			return strings.Compare(a.Operation, b.Operation)
		})
		return nil
	case "name":
		slices.SortStableFunc(records, func(a, b mil.OperationRecord) int {
			return strings.Compare(a.Name, b.Name)
		})
		return nil
	}
	for _, column := range backends.Columns() {
		if key != strings.ToLower(column) {
			continue
		}
		backend, _ := backends.ColumnBackend(column)
		slices.SortStableFunc(records, func(a, b mil.OperationRecord) int {
			// Slowest first, records without that runtime last.
			ra, rb := runtimeOrMissing(a, backend.ID), runtimeOrMissing(b, backend.ID)
			switch {
			case ra > rb:
				return -1
			case ra < rb:
				return 1
			}
			return 0
		})
		return nil
	}
	return errors.Errorf("unknown sort key %q, valid values are none, operation, name, %s",
		key, strings.ToLower(strings.Join(backends.Columns(), ", ")))
}

func runtimeOrMissing(record mil.OperationRecord, backendID string) float64 {
	if seconds, found := record.Runtimes[backendID]; found {
		return seconds
	}
	return math.Inf(-1)
}
