package main

import (
	"encoding/base64"
	"encoding/json"
	"flag"
	"fmt"
	"html/template"
	"io"
	"os"

	"github.com/janpfeifer/gonb/gonbui/plotly"
	"github.com/janpfeifer/must"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	grob "github.com/MetalBlueberry/go-plotly/generated/v2.34.0/graph_objects"
	ptypes "github.com/MetalBlueberry/go-plotly/pkg/types"

	"github.com/gomlx/milscope/internal/xslices"
	"github.com/gomlx/milscope/mil"
)

var (
	flagPlot = flag.Bool("plot", false, "Writes an HTML page plotting the estimated runtime of every "+
		"operation, one line per backend, and prints its path.")
)

// BuildPlot plots the estimated runtimes over the operations in report order,
// one plotly trace per backend, and writes the result as a standalone HTML
// page.
func BuildPlot(records []mil.OperationRecord) {
	backendIDs := make(map[string]bool)
	for _, record := range records {
		for id := range record.Runtimes {
			backendIDs[id] = true
		}
	}
	if len(backendIDs) == 0 {
		klog.Warningf("No estimated runtimes found, nothing to plot.")
		return
	}

	// Label each operation by name; the index keeps repeated names apart on
	// the axis.
	labels := make([]string, len(records))
	for ii, record := range records {
		name := record.Name
		if name == mil.NotFound {
			name = record.Operation
		}
		labels[ii] = fmt.Sprintf("#%d %s", ii, name)
	}

	fig := &grob.Fig{
		Layout: &grob.Layout{
			Title: &grob.LayoutTitle{
				Text: ptypes.S("Estimated runtime per backend (seconds)"),
			},
			Xaxis: &grob.LayoutXaxis{
				Showgrid: ptypes.B(true),
			},
			Yaxis: &grob.LayoutYaxis{
				Showgrid: ptypes.B(true),
				Type:     grob.LayoutYaxisTypeLog,
			},
		},
	}
	for _, backendID := range xslices.SortedKeys(backendIDs) {
		var xs []string
		var ys []float64
		for ii, record := range records {
			seconds, found := record.Runtimes[backendID]
			if !found {
				continue
			}
			xs = append(xs, labels[ii])
			ys = append(ys, seconds)
		}
		fig.Data = append(fig.Data, &grob.Scatter{
			Name: ptypes.S(backendID),
			Line: &grob.ScatterLine{
				Shape: grob.ScatterLineShapeLinear,
			},
			Mode: "lines+markers",
			X:    ptypes.DataArray(xs),
			Y:    ptypes.DataArray(ys),
		})
	}

	figAsJSON := must.M1(json.Marshal(fig))
	tmpFile := must.M1(os.CreateTemp("", "milscope-plots-*.html"))
	if err := PlotlyToHTMLFile(tmpFile.Name(), figAsJSON); err != nil {
		klog.Fatalf("Failed to write plots: %+v", err)
	}
	fmt.Printf("\nPlots written to:\t%s\n\n", tmpFile.Name())
}

var (
	singleFileHTML = `<!DOCTYPE html>
	<head>
		<meta charset="utf-8">
		<title>milscope</title>
		<script src="{{ .CDN }}"></script>
	</head>
	<body style="background-color: black;">
{{- range $i, $f := .Figures }}
		<div id="plot{{ $i }}"></div>
		{{ if not (eq $i (lastIdx $.Figures)) }}
		<hr style="border-color: gray;">
		{{ end }}
{{- end }}
	<script>
{{- range $i, $f := .Figures }}
		data = JSON.parse(atob('{{ $f }}'))
		Plotly.newPlot('plot{{ $i }}', data);
{{- end }}
	</script>
	</body>
</html>`
	singleFileHTMLTmpl = template.Must(template.New("plotly").Funcs(template.FuncMap{
		"lastIdx": func(a []string) int { return len(a) - 1 },
	}).Parse(singleFileHTML))
)

// WritePlotlyAsHTML renders the Plotly figures (given as JSON) to an HTML page
// that can be served or saved to a file.
func WritePlotlyAsHTML(w io.Writer, figuresAsJSON ...[]byte) error {
	data := &struct {
		CDN     string
		Figures []string
	}{
		CDN:     plotly.PlotlySrc,
		Figures: xslices.Map(figuresAsJSON, func(fig []byte) string { return base64.StdEncoding.EncodeToString(fig) }),
	}
	err := singleFileHTMLTmpl.Execute(w, data)
	if err != nil {
		return errors.Wrap(err, "failed to render plotly")
	}
	return nil
}

// PlotlyToHTMLFile renders the Plotly figures (given as JSON) to an HTML file.
func PlotlyToHTMLFile(fileName string, figuresAsJSON ...[]byte) error {
	f, err := os.Create(fileName)
	if err != nil {
		return errors.Wrapf(err, "failed to create file %q", fileName)
	}
	defer func() { _ = f.Close() }()
	return WritePlotlyAsHTML(f, figuresAsJSON...)
}
