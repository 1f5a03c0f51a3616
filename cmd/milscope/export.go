package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/pkg/errors"

	"github.com/gomlx/milscope/backends"
	"github.com/gomlx/milscope/mil"
)

var (
	flagCSV = flag.String("csv", "", "Writes the operations report to the given file as CSV, with "+
		"the same columns as the table.")
	flagJSON = flag.String("json", "", "Writes the operation records to the given file, one JSON "+
		"object per line. Use \"-\" for stdout.")
)

// csvHeader returns the lower-cased column names of the CSV export, derived
// from the report columns.
func csvHeader() []string {
	header := []string{"operation"}
	for _, column := range backends.Columns() {
		header = append(header, strings.ToLower(column)+"_runtime")
	}
	return append(header, "selected_backend", "name", "validation_messages")
}

// writeCSV saves the report columns for the given records as CSV.
func writeCSV(filePath string, records []mil.OperationRecord) error {
	f, err := os.Create(filePath)
	if err != nil {
		return errors.Wrapf(err, "failed to create %q", filePath)
	}
	header := csvHeader()
	if len(records) == 0 {
		// gota refuses header-only frames.
		if _, err := fmt.Fprintln(f, strings.Join(header, ",")); err != nil {
			_ = f.Close()
			return errors.Wrapf(err, "failed to write CSV to %q", filePath)
		}
		return f.Close()
	}

	columns := backends.Columns()
	rows := [][]string{header}
	for _, record := range records {
		row := []string{record.Operation}
		for _, column := range columns {
			backend, _ := backends.ColumnBackend(column)
			row = append(row, runtimeCell(record, backend.ID))
		}
		row = append(row, record.SelectedBackend, record.Name, validationCell(record))
		rows = append(rows, row)
	}
	df := dataframe.LoadRecords(rows, dataframe.DetectTypes(false), dataframe.DefaultType(series.String))
	if df.Error() != nil {
		_ = f.Close()
		return errors.Wrap(df.Error(), "failed to build the records frame")
	}
	if err := df.WriteCSV(f); err != nil {
		_ = f.Close()
		return errors.Wrapf(err, "failed to write CSV to %q", filePath)
	}
	return f.Close()
}

// writeJSON saves one JSON object per record, in report order. With "-" the
// records go to stdout. The output reads back with a json.Decoder, one Decode
// call per record.
func writeJSON(filePath string, records []mil.OperationRecord) error {
	if filePath == "-" {
		return encodeRecords(os.Stdout, records)
	}
	f, err := os.Create(filePath)
	if err != nil {
		return errors.Wrapf(err, "failed to create %q", filePath)
	}
	if err := encodeRecords(f, records); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func encodeRecords(w io.Writer, records []mil.OperationRecord) error {
	enc := json.NewEncoder(w)
	for _, record := range records {
		if err := enc.Encode(record); err != nil {
			return errors.Wrapf(err, "failed to encode the record of operation %q", record.Name)
		}
	}
	return nil
}
