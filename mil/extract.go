package mil

import (
	"regexp"
	"strconv"
	"strings"
)

// NotFound is the sentinel value of string fields whose pattern did not match.
const NotFound = "Not found"

// OperationRecord holds the fields extracted from a single tensor-operation
// statement. Records are plain values: extracting the same statement twice yields
// identical records.
type OperationRecord struct {
	// Operation is the kind of computation, e.g. "conv" or "matmul".
	// NotFound if the statement carries no assignment.
	Operation string

	// Runtimes maps a backend identifier (e.g. "classic_cpu", "mps_graph", "ane")
	// to its estimated runtime in seconds. Only backends mentioned in the
	// statement appear as keys.
	Runtimes map[string]float64

	// SelectedBackend is the backend chosen to execute the operation.
	// NotFound if the statement carries no selection annotation.
	SelectedBackend string

	// Name is the human-assigned name of the operation instance.
	// NotFound if absent.
	Name string

	// ValidationMessages maps a backend identifier to the diagnostic explaining
	// why that backend was or wasn't used. Escaped quotes (`\"`) are unescaped,
	// and non-empty messages are terminated with a newline.
	ValidationMessages map[string]string
}

var (
	// operationRe captures the operation kind from assignments like "tensor_3 = conv(...)".
	operationRe = regexp.MustCompile(`= (\w+)\(`)

	// runtimesRe captures the body of the per-backend runtime annotation;
	// runtimePairRe then picks the ("backend", seconds) pairs inside it.
	runtimesRe    = regexp.MustCompile(`EstimatedRuntime = dict<string, fp64>\(\{\{(.+?)\}\}\)`)
	runtimePairRe = regexp.MustCompile(`"(.+?)", (\d+\.\d+)`)

	selectedBackendRe = regexp.MustCompile(`SelectedBackend = string\("(.+?)"\)`)
	nameRe            = regexp.MustCompile(`name = string\("(.+?)"\)`)

	// validationRe captures the body of the validation-message annotation. The
	// message group of validationPairRe is greedy so that messages with embedded
	// escaped quotes survive whole; on statements with several message pairs it
	// can swallow the pair boundaries. The package tests pin that behavior.
	validationRe     = regexp.MustCompile(`ValidationMessage = dict<string, string>\(\{\{(.+?)\}\}\)`)
	validationPairRe = regexp.MustCompile(`"(.+?)", "(.+)"`)
)

// Extract pulls the OperationRecord fields out of one tensor-operation statement.
//
// Every field is searched for independently: a pattern that does not match leaves
// its field at the documented default (NotFound for strings, an empty map for the
// runtime and validation mappings) and does not affect the other fields. Extract
// has no failure path.
func Extract(statement string) OperationRecord {
	record := OperationRecord{
		Operation:          NotFound,
		SelectedBackend:    NotFound,
		Name:               NotFound,
		Runtimes:           make(map[string]float64),
		ValidationMessages: make(map[string]string),
	}

	if m := operationRe.FindStringSubmatch(statement); m != nil {
		record.Operation = m[1]
	}

	if m := runtimesRe.FindStringSubmatch(statement); m != nil {
		for _, pair := range runtimePairRe.FindAllStringSubmatch(m[1], -1) {
			// The pattern guarantees a decimal float; overflow saturates to +Inf.
			seconds, _ := strconv.ParseFloat(pair[2], 64)
			record.Runtimes[pair[1]] = seconds
		}
	}

	if m := selectedBackendRe.FindStringSubmatch(statement); m != nil {
		record.SelectedBackend = m[1]
	}

	if m := nameRe.FindStringSubmatch(statement); m != nil {
		record.Name = m[1]
	}

	if m := validationRe.FindStringSubmatch(statement); m != nil {
		for _, pair := range validationPairRe.FindAllStringSubmatch(m[1], -1) {
			record.ValidationMessages[pair[1]] = formatValidationMessage(pair[2])
		}
	}

	return record
}

// formatValidationMessage unescapes quotes and terminates non-empty messages with a
// newline. Empty messages stay empty.
func formatValidationMessage(message string) string {
	if message == "" {
		return message
	}
	return strings.ReplaceAll(message, `\"`, `"`) + "\n"
}
