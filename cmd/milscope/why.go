package main

import (
	"flag"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"k8s.io/klog/v2"

	"github.com/gomlx/milscope/backends"
	"github.com/gomlx/milscope/mil"
)

var (
	flagWhy = flag.String("why", "", "Backend ID to investigate, e.g. \"ane\": reports the operations "+
		"that were dispatched somewhere else, with that backend's estimated runtime and validation "+
		"message.")
)

// Why reports the operations that were not dispatched to the given backend,
// replacing the default operations table.
func Why(records []mil.OperationRecord, backendID string) {
	if _, found := backends.Get(backendID); !found {
		klog.Warningf("Backend %q is not configured, matching records by ID only. Configured backends: %s",
			backendID, strings.Join(backends.IDs(), ", "))
	}
	fmt.Println(titleStyle.Render(fmt.Sprintf("Operations not dispatched to %q", backendID)))
	table := newBackendsTable(
		[]string{"Operation", "Name", "Selected Backend", backendID + " Runtime", "Validation Message"},
		[]string{operationColor, nameColor, "", backends.ColorFor(backendID), validationColor},
		2)
	dispatched := 0
	for _, record := range records {
		if record.SelectedBackend == backendID {
			dispatched++
			continue
		}
		table.Row(backends.ColorFor(record.SelectedBackend),
			record.Operation, record.Name, record.SelectedBackend,
			runtimeCell(record, backendID),
			strings.TrimRight(record.ValidationMessages[backendID], "\n"))
	}
	fmt.Println(table.Render())
	fmt.Printf("%s of %s operations were dispatched to %q.\n",
		humanize.Comma(int64(dispatched)), humanize.Comma(int64(len(records))), backendID)
}
