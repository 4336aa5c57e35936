package notify

import (
	htmltemplate "html/template"
	texttemplate "text/template"

	"github.com/dustin/go-humanize"

	"github.com/matzehuels/magnetsheet/pkg/order"
)

// RetentionDays is how long download links stay valid.
const RetentionDays = 30

type fileView struct {
	Name string
	Size string
	URL  string
}

type view struct {
	order.Payload
	Items         []fileView
	TotalSize     string
	Attached      bool
	RetentionDays int
}

func newView(p order.Payload, attachments []Attachment) view {
	v := view{Payload: p, RetentionDays: RetentionDays, Attached: len(attachments) > 0}
	var total int64
	for _, f := range p.Files {
		v.Items = append(v.Items, fileView{Name: f.Name, Size: humanSize(f.Size), URL: f.URL})
		total += f.Size
	}
	if len(v.Items) == 0 {
		for _, a := range attachments {
			size := int64(len(a.Data))
			v.Items = append(v.Items, fileView{Name: a.Name, Size: humanSize(size)})
			total += size
		}
	}
	v.TotalSize = humanSize(total)
	return v
}

func humanSize(n int64) string { return humanize.IBytes(uint64(max(n, 0))) }

var textTemplate = texttemplate.Must(texttemplate.New("text").Parse(`New magnet order received.

Order:         #{{.OrderNumber}}
Customer:      {{.CustomerName}}
Phone:         {{if .Phone}}{{.Phone}}{{else}}-{{end}}
Magnets:       {{.TotalMagnets}}
Files:         {{len .Items}} ({{.TotalSize}})

{{range .Items}}- {{.Name}} ({{.Size}}){{if .URL}}
  {{.URL}}{{end}}
{{end}}
{{- if .Attached}}
The print files are attached to this message.
{{else}}
Download links stay available for {{.RetentionDays}} days.
{{end}}`))

var htmlTemplate = htmltemplate.Must(htmltemplate.New("html").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: sans-serif; color: #222;">
<h2>New magnet order #{{.OrderNumber}}</h2>
<table cellpadding="4">
<tr><td><b>Customer</b></td><td>{{.CustomerName}}</td></tr>
<tr><td><b>Phone</b></td><td>{{if .Phone}}{{.Phone}}{{else}}-{{end}}</td></tr>
<tr><td><b>Magnets</b></td><td>{{.TotalMagnets}}</td></tr>
<tr><td><b>Files</b></td><td>{{len .Items}} ({{.TotalSize}})</td></tr>
</table>
<ul>
{{range .Items}}<li>{{if .URL}}<a href="{{.URL}}">{{.Name}}</a>{{else}}{{.Name}}{{end}} ({{.Size}})</li>
{{end}}</ul>
{{if .Attached}}<p>The print files are attached to this message.</p>
{{else}}<p>Download links stay available for {{.RetentionDays}} days.</p>
{{end}}</body>
</html>
`))
