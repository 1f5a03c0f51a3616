// Package mil parses the analytics dump written by the Core ML compiler
// ("analytics.mil"): a textual trace of tensor operations annotated with per-backend
// estimated runtimes, the compute backend selected to execute each operation, and
// validation messages explaining why a backend was excluded.
//
// The dump has no public grammar and no stability guarantees, so this package
// deliberately does not attempt to parse it as one: statements are segmented with a
// fixed delimiter, and each field of a statement is extracted with an independent,
// tolerant pattern search. A field whose pattern does not match degrades to a
// documented default instead of failing -- see Extract.
package mil

import (
	"iter"
	"slices"
	"strings"
)

// StatementPrefix marks the statements that describe tensor operations. Statements
// starting with anything else (program headers, function signatures) are skipped.
const StatementPrefix = "tensor"

// Statements splits an analytics document into its individual tensor-operation
// statements: the document is segmented on ';', each segment is trimmed of
// surrounding whitespace, and only segments starting with StatementPrefix are
// yielded, in document order.
//
// The sequence is lazy and restartable: ranging over it a second time yields the
// same statements again. A document with no tensor statements yields nothing; that
// is not an error.
func Statements(document string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for segment := range strings.SplitSeq(document, ";") {
			statement := strings.TrimSpace(segment)
			if !strings.HasPrefix(statement, StatementPrefix) {
				continue
			}
			if !yield(statement) {
				return
			}
		}
	}
}

// SplitStatements is the eager version of Statements.
func SplitStatements(document string) []string {
	return slices.Collect(Statements(document))
}

// ExtractAll runs Extract on every statement of the document, in document order.
func ExtractAll(document string) []OperationRecord {
	var records []OperationRecord
	for statement := range Statements(document) {
		records = append(records, Extract(statement))
	}
	return records
}
