package audit

import (
	"fmt"
	"html/template"
	"strings"
)

// Report is the rendered outcome of one audit run, ready for delivery.
type Report struct {
	Issues  int
	Subject string
	HTML    string
}

var reportTemplate = template.Must(template.New("audit").Parse(`<h1>Weekly Data Health Report ({{.Issues}} issues found)</h1>
{{- if .Unpublished}}
<hr><h2>Unpublished or Draft Components ({{len .Unpublished}})</h2>
<p>The following components are tagged for the builder but are not Active and published to the Online Store.</p>
<ul>
{{- range .Unpublished}}
<li><strong>{{.Product}}</strong>: Status is <code>{{.Status}}</code> and Online Store URL is <code>{{if .HasStorefrontURL}}present{{else}}missing{{end}}</code>.</li>
{{- end}}
</ul>
{{- end}}
{{- if .Findings}}
<hr><h2>Components with Missing Data ({{.ViolationCount}})</h2>
<p>The following components are published but are missing critical metafield data.</p>
{{- range .Findings}}
<h3>{{.Product}}</h3>
<ul>
{{- range .Violations}}
<li>{{.Message}}</li>
{{- end}}
</ul>
{{- end}}
{{- end}}
`))

type reportData struct {
	Issues      int
	Unpublished []UnpublishedFinding
	Findings    []Finding
}

func (d reportData) ViolationCount() int {
	n := 0
	for _, f := range d.Findings {
		n += len(f.Violations)
	}
	return n
}

// BuildReport renders an evaluation result into the email document. Output is
// deterministic for identical input: sections and entries follow evaluation
// order, which follows catalog source order.
func BuildReport(result Result) (Report, error) {
	issues := result.Issues()

	var buf strings.Builder
	err := reportTemplate.Execute(&buf, reportData{
		Issues:      issues,
		Unpublished: result.Unpublished,
		Findings:    result.Findings,
	})
	if err != nil {
		return Report{}, fmt.Errorf("render audit report: %w", err)
	}

	return Report{
		Issues:  issues,
		Subject: fmt.Sprintf("Data Health Report: %d Issues Found", issues),
		HTML:    buf.String(),
	}, nil
}
