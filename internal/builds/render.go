package builds

import (
	"fmt"
	"html/template"
	"strings"
	"time"
)

// FormatCents renders a minor-unit amount as dollars with two fractional
// digits: 12345 -> "$123.45".
func FormatCents(cents int64) string {
	return fmt.Sprintf("$%.2f", float64(cents)/100)
}

var reportTemplate = template.Must(template.New("builds").Parse(`<!DOCTYPE html>
<html><head><style>body{font-family:sans-serif;color:#333}a{color:#007bff;text-decoration:none}.container{max-width:600px;margin:auto;padding:20px;border:1px solid #ddd}.build-section{margin-bottom:20px;padding-bottom:20px;border-bottom:1px solid #eee}.data-table{border-collapse:collapse;width:100%}.data-table td{padding:8px;border:1px solid #ddd}.data-table td:first-child{font-weight:bold;width:120px}.subheader{background-color:#f7f7f7;text-align:center;font-weight:bold}</style></head>
<body><div class="container">
<h2>Daily Abandoned Build Report</h2>
<p>Found <strong>{{len .Builds}}</strong> significant build(s) that were started but not added to the cart in the last 24 hours.</p>
{{- range .Builds}}
<div class="build-section">
<h3>Build #{{.Index}} (ID: {{.BuildID}})</h3>
<p>Captured: {{.CapturedAt}}</p>
<table class="data-table">
{{- if .Visitor}}
{{- if .Visitor.IsLoggedIn}}
<tr><td>User</td><td><strong><a href="{{.AdminURL}}" target="_blank">{{.Visitor.FirstName}} {{.Visitor.LastName}}</a></strong><br><small>{{.Visitor.Email}}</small></td></tr>
{{- else}}
<tr><td>User</td><td>Anonymous Visitor<br><small>ID: {{.Visitor.AnonymousID}}</small></td></tr>
{{- end}}
{{- end}}
<tr><td>Type</td><td><strong>{{.BuildType}}</strong></td></tr>
{{- if .RidingStyle}}
<tr><td>Style</td><td>{{.RidingStyle}}</td></tr>
{{- end}}
{{- if .ShowFront}}
<tr><td colspan="2" class="subheader">Front Wheel</td></tr>
<tr><td>Front Rim</td><td>{{.FrontRim}}</td></tr>
<tr><td>Front Hub</td><td>{{.FrontHub}}</td></tr>
{{- end}}
{{- if .ShowRear}}
<tr><td colspan="2" class="subheader">Rear Wheel</td></tr>
<tr><td>Rear Rim</td><td>{{.RearRim}}</td></tr>
<tr><td>Rear Hub</td><td>{{.RearHub}}</td></tr>
{{- end}}
<tr><td>Subtotal</td><td><strong>{{.Subtotal}}</strong></td></tr>
</table>
</div>
{{- end}}
</div></body></html>
`))

type buildView struct {
	Index       int
	BuildID     string
	CapturedAt  string
	Visitor     *Visitor
	AdminURL    string
	BuildType   BuildType
	RidingStyle string
	ShowFront   bool
	ShowRear    bool
	FrontRim    template.HTML
	FrontHub    template.HTML
	RearRim     template.HTML
	RearHub     template.HTML
	Subtotal    string
}

// Renderer turns drained builds into the report email body.
type Renderer struct {
	// storeDomain builds admin customer links for logged-in visitors.
	storeDomain string
}

// NewRenderer constructs a renderer for the given store.
func NewRenderer(storeDomain string) *Renderer {
	return &Renderer{storeDomain: storeDomain}
}

// Render serializes the batch deterministically: builds in drain order,
// sections gated by build type, missing selections marked explicitly.
func (r *Renderer) Render(records []BuildRecord) (string, error) {
	views := make([]buildView, 0, len(records))
	for i, rec := range records {
		view := buildView{
			Index:       i + 1,
			BuildID:     rec.BuildID,
			CapturedAt:  rec.CapturedAt.Format(time.RFC1123),
			Visitor:     rec.Visitor,
			BuildType:   rec.BuildType,
			RidingStyle: rec.RidingStyleDisplay,
			ShowFront:   rec.BuildType.IncludesFront(),
			ShowRear:    rec.BuildType.IncludesRear(),
			FrontRim:    componentCell(rec, "front", "Rim"),
			FrontHub:    componentCell(rec, "front", "Hub"),
			RearRim:     componentCell(rec, "rear", "Rim"),
			RearHub:     componentCell(rec, "rear", "Hub"),
			Subtotal:    FormatCents(rec.Subtotal),
		}
		if rec.Visitor != nil && rec.Visitor.IsLoggedIn {
			view.AdminURL = fmt.Sprintf("https://%s/admin/customers/%s", r.storeDomain, rec.Visitor.CustomerID)
		}
		views = append(views, view)
	}

	var buf strings.Builder
	err := reportTemplate.Execute(&buf, struct{ Builds []buildView }{Builds: views})
	if err != nil {
		return "", fmt.Errorf("render build report: %w", err)
	}
	return buf.String(), nil
}

// componentCell renders one selection, or the explicit not-selected marker.
// Never a blank cell.
func componentCell(rec BuildRecord, side, partType string) template.HTML {
	c, ok := rec.Component(side, partType)
	if !ok || c.Title == "" {
		return template.HTML("<em>Not Selected</em>")
	}
	title := template.HTMLEscapeString(c.Title)
	if c.VariantTitle != "" {
		title += " (" + template.HTMLEscapeString(c.VariantTitle) + ")"
	}
	return template.HTML(title)
}
