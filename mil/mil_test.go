package mil

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatements(t *testing.T) {
	document := "program(main)\n;" +
		"  tensor_0 = relu(x = input)[name = string(\"act0\")]  \n;" +
		"\nfunc main<ios17>\n;" +
		"tensor_1 = conv(x = tensor_0)\n;" +
		";" + // Empty segment.
		"not_tensor = cast(x = tensor_1)"

	var got []string
	for statement := range Statements(document) {
		got = append(got, statement)
	}
	require.Len(t, got, 2)

	// Statements come out trimmed and in document order.
	assert.Equal(t, "tensor_0 = relu(x = input)[name = string(\"act0\")]", got[0])
	assert.Equal(t, "tensor_1 = conv(x = tensor_0)", got[1])

	// The sequence is restartable: a second pass yields the same statements.
	var again []string
	for statement := range Statements(document) {
		again = append(again, statement)
	}
	assert.Equal(t, got, again)

	// And it supports early stop.
	for statement := range Statements(document) {
		assert.Equal(t, got[0], statement)
		break
	}
}

func TestStatementsPrefixIsNotAWordBoundary(t *testing.T) {
	// Anything starting with the literal prefix counts, even when the prefix is
	// part of a longer identifier.
	got := SplitStatements("tensorish_0 = foo();plain = bar()")
	require.Len(t, got, 1)
	assert.Equal(t, "tensorish_0 = foo()", got[0])
}

func TestSplitStatementsMatchesSegmentCount(t *testing.T) {
	document := "header();tensor_0 = a();noise; tensor_1 = b() ;;tensor_2 = c()"

	// Reference count: trimmed ';'-separated segments starting with "tensor".
	wantCount := 0
	for _, segment := range strings.Split(document, ";") {
		if strings.HasPrefix(strings.TrimSpace(segment), "tensor") {
			wantCount++
		}
	}
	require.Equal(t, 3, wantCount)

	assert.Len(t, SplitStatements(document), wantCount)
	assert.Len(t, ExtractAll(document), wantCount)
}

func TestEmptyDocument(t *testing.T) {
	assert.Empty(t, SplitStatements(""))
	assert.Empty(t, ExtractAll(""))
	for range Statements("") {
		t.Fatal("empty document must yield no statements")
	}
}

func TestExtractAllEndToEnd(t *testing.T) {
	document := "tensor_0 = foo()\n  name = string(\"op1\")\n  SelectedBackend = string(\"ane\")\n" +
		";tensor_1 = bar()\n  name = string(\"op2\")\n" +
		";not_tensor_stmt"

	records := ExtractAll(document)
	require.Len(t, records, 2)

	assert.Equal(t, "foo", records[0].Operation)
	assert.Equal(t, "op1", records[0].Name)
	assert.Equal(t, "ane", records[0].SelectedBackend)
	assert.Empty(t, records[0].Runtimes)
	assert.Empty(t, records[0].ValidationMessages)

	assert.Equal(t, "bar", records[1].Operation)
	assert.Equal(t, "op2", records[1].Name)
	assert.Equal(t, NotFound, records[1].SelectedBackend)
}

func TestExtractAllPreservesOrder(t *testing.T) {
	const numOps = 20
	var sb strings.Builder
	for ii := 0; ii < numOps; ii++ {
		fmt.Fprintf(&sb, "tensor_%d = conv(x = tensor_%d)[name = string(\"op_%d\")];", ii+1, ii, ii)
	}
	records := ExtractAll(sb.String())
	require.Len(t, records, numOps)
	for ii, record := range records {
		assert.Equal(t, fmt.Sprintf("op_%d", ii), record.Name)
	}
}
