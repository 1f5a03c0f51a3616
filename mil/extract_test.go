package mil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fullStatement carries every annotation the extractor knows about.
const fullStatement = `tensor<fp16, [1, 1000]> tensor_42 = matmul(x = tensor_41, weight = const_7)[` +
	`name = string("classifier/dense"), ` +
	`EstimatedRuntime = dict<string, fp64>({{"classic_cpu", 0.0021}, {"mps_graph", 0.0009}, {"ane", 0.0003}}), ` +
	`SelectedBackend = string("ane"), ` +
	`ValidationMessage = dict<string, string>({{"mps_graph", "tensor rank not supported"}})]`

func TestExtract(t *testing.T) {
	record := Extract(fullStatement)

	assert.Equal(t, "matmul", record.Operation)
	assert.Equal(t, "classifier/dense", record.Name)
	assert.Equal(t, "ane", record.SelectedBackend)
	assert.Equal(t, map[string]float64{
		"classic_cpu": 0.0021,
		"mps_graph":   0.0009,
		"ane":         0.0003,
	}, record.Runtimes)
	assert.Equal(t, map[string]string{
		"mps_graph": "tensor rank not supported\n",
	}, record.ValidationMessages)
}

func TestExtractDefaults(t *testing.T) {
	// A statement with none of the annotations degrades every field independently.
	record := Extract("tensor_0")
	assert.Equal(t, NotFound, record.Operation)
	assert.Equal(t, NotFound, record.SelectedBackend)
	assert.Equal(t, NotFound, record.Name)
	assert.Empty(t, record.Runtimes)
	assert.Empty(t, record.ValidationMessages)
}

func TestExtractFieldsAreIndependent(t *testing.T) {
	// Annotation order doesn't matter, and a missing annotation doesn't block the others.
	record := Extract(`tensor_3 = pool(x = tensor_2)[` +
		`EstimatedRuntime = dict<string, fp64>({{"classic_cpu", 1.5}}), ` +
		`name = string("pool_1")]`)
	assert.Equal(t, "pool", record.Operation)
	assert.Equal(t, "pool_1", record.Name)
	assert.Equal(t, NotFound, record.SelectedBackend)
	assert.Equal(t, map[string]float64{"classic_cpu": 1.5}, record.Runtimes)
	assert.Empty(t, record.ValidationMessages)
}

func TestExtractRuntimesExactValues(t *testing.T) {
	record := Extract(`tensor_1 = conv(x = tensor_0)[` +
		`EstimatedRuntime = dict<string, fp64>({{"classic_cpu", 0.0021}, {"mps_graph", 0.0009}})]`)
	require.Contains(t, record.Runtimes, "classic_cpu")
	require.Contains(t, record.Runtimes, "mps_graph")

	// Exact equality after standard decimal parsing.
	assert.Equal(t, 0.0021, record.Runtimes["classic_cpu"])
	assert.Equal(t, 0.0009, record.Runtimes["mps_graph"])

	// Values without a decimal point are not runtime pairs.
	record = Extract(`tensor_1 = conv(x)[EstimatedRuntime = dict<string, fp64>({{"ane", 3}})]`)
	assert.Empty(t, record.Runtimes)
}

func TestExtractValidationMessageUnescaping(t *testing.T) {
	record := Extract(`tensor_9 = softmax(x = tensor_8)[` +
		`ValidationMessage = dict<string, string>({{"ane", "reason: too \"fancy\""}})]`)
	require.Contains(t, record.ValidationMessages, "ane")
	assert.Equal(t, "reason: too \"fancy\"\n", record.ValidationMessages["ane"])
}

func TestExtractGreedyValidationCapture(t *testing.T) {
	// With several message pairs the greedy message capture swallows the pair
	// boundary: everything up to the last quote becomes the first backend's
	// message. This pins the behavior so it only changes deliberately.
	record := Extract(`tensor_2 = pool(x = tensor_1)[` +
		`ValidationMessage = dict<string, string>({{"ane", "rank too \"high\""}, {"bnns", "unsupported"}})]`)
	require.Len(t, record.ValidationMessages, 1)
	want := `rank too "high""}, {"bnns", "unsupported` + "\n"
	assert.Equal(t, want, record.ValidationMessages["ane"])
}

func TestFormatValidationMessage(t *testing.T) {
	// Empty messages stay empty: no trailing newline.
	assert.Equal(t, "", formatValidationMessage(""))
	assert.Equal(t, "plain\n", formatValidationMessage("plain"))
	assert.Equal(t, "a \"b\" c\n", formatValidationMessage(`a \"b\" c`))
}

func TestExtractIsPure(t *testing.T) {
	first := Extract(fullStatement)
	second := Extract(fullStatement)
	require.Equal(t, first, second)

	// Mutating one result must not leak into a fresh extraction.
	first.Runtimes["ane"] = 99.0
	third := Extract(fullStatement)
	assert.Equal(t, 0.0003, third.Runtimes["ane"])
}

func TestExtractOperationFallsBackToAnyAssignment(t *testing.T) {
	// The operation pattern takes the first "= identifier(" occurrence; on a
	// statement without a real operation assignment that can be an annotation.
	record := Extract(`tensor_5 name = string("weird")`)
	assert.Equal(t, "string", record.Operation)
	assert.Equal(t, "weird", record.Name)
}
