package report

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/ftoledo/fiberbudget/internal/store"
)

// reportTemplate is the printable report. Template escaping stands in
// for the manual HTML sanitisation the original did on project names and
// usernames.
var reportTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"number": formatNumber,
	"signal": formatSignal,
	"when": func(t time.Time) string {
		return t.Format(timestampLayout)
	},
	"by": performedBy,
}).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<title>Loss Calculation Report</title>
<style>
body { font-family: Arial, sans-serif; margin: 20mm; color: #333; }
h1 { color: #003366; text-align: center; }
table { width: 100%; border-collapse: collapse; margin-top: 20px; }
th, td { border: 1px solid #ddd; padding: 8px; text-align: left; }
th { background-color: #f2f2f2; color: #003366; }
tr:nth-child(even) { background-color: #f9f9f9; }
.footer { text-align: center; margin-top: 40px; font-size: 10px; color: #777; }
@media print { body { margin: 0; } }
</style>
</head>
<body>
<h1>Loss Calculation Report</h1>
<table>
<thead>
<tr><th>Project</th><th>Distance (km)</th><th>Splitter 1 (dB)</th><th>Qty S1</th><th>Splitter 2 (dB)</th><th>Qty S2</th><th>Fusion Splices</th><th>Final Signal (dB)</th><th>Date</th><th>Performed By</th></tr>
</thead>
<tbody>
{{- range .Calculations}}
<tr><td>{{.ProjectName}}</td><td>{{number .Distance}}</td><td>{{number .SplitterLoss1}}</td><td>{{.Splitters1}}</td><td>{{number .SplitterLoss2}}</td><td>{{.Splitters2}}</td><td>{{.FusionSplices}}</td><td>{{signal .FinalSignal}}</td><td>{{when .CalculatedAt}}</td><td>{{by .CalculatedBy}}</td></tr>
{{- end}}
</tbody>
</table>
<div class="footer">Report generated by the Fiber Optic Loss Calculation System - {{.GeneratedOn}}</div>
</body>
</html>
`))

// WriteHTML writes the printable report for calcs, newest first.
// generatedAt stamps the footer. An empty history is an error: the
// original refused to print an empty report and so does this.
func WriteHTML(w io.Writer, calcs []store.Calculation, generatedAt time.Time) error {
	if len(calcs) == 0 {
		return fmt.Errorf("no calculations to include in the report")
	}

	data := struct {
		Calculations []store.Calculation
		GeneratedOn  string
	}{
		Calculations: newestFirst(calcs),
		GeneratedOn:  generatedAt.Format("02/01/2006"),
	}

	if err := reportTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	return nil
}
