package listing

import (
	"html/template"
	"io"
)

type gridView struct {
	Caption string
	Groups  []string
	Rows    []Row
}

var htmlFuncs = template.FuncMap{
	"gridData": func(caption string, groups []string, rows []Row) gridView {
		return gridView{Caption: caption, Groups: groups, Rows: rows}
	},
}

var htmlTemplate = template.Must(template.New("listing").Funcs(htmlFuncs).Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
</head>
<body>
<h1>{{.Title}}</h1>
<p>Channel {{.Channel}}, {{.Locality}}</p>
{{template "grid" (gridData "SINGLE" .Groups .SingleRows)}}
{{template "grid" (gridData "MULTI" .Groups .MultiRows)}}
<table>
<caption>DRUM</caption>
<tr><th>Volume</th><td>{{.Drum.Volume}}</td><th>Rcv Ch</th><td>{{.Drum.ReceiveChannel}}</td><th>Velo Depth</th><td>{{.Drum.VelocityDepth}}</td></tr>
</table>
<table>
<tr><th>Key</th><th>Note</th><th>Wave S1</th><th>Wave S2</th><th>Decay S1</th><th>Decay S2</th><th>Tune S1</th><th>Tune S2</th><th>Level S1</th><th>Level S2</th><th>Submix</th></tr>
{{- range .Drum.Notes}}
<tr><td>{{.Key}}</td><td>{{.Note}}</td><td>{{index .Waves 0}}</td><td>{{index .Waves 1}}</td><td>{{index .Decay 0}}</td><td>{{index .Decay 1}}</td><td>{{index .Tune 0}}</td><td>{{index .Tune 1}}</td><td>{{index .Level 0}}</td><td>{{index .Level 1}}</td><td>{{.Submix}}</td></tr>
{{- end}}
</table>
<table>
<caption>EFFECT</caption>
<tr><th>#</th><th>Type and parameters</th></tr>
{{- range .Effects}}
<tr><td>E-{{.Number}}</td><td>{{.}}</td></tr>
{{- end}}
</table>
</body>
</html>
{{define "grid"}}<table>
<tr>
    <th>{{.Caption}}</th>
{{- range .Groups}}
    <th>{{.}}</th>
{{- end}}
</tr>
{{- range .Rows}}
<tr>
    <td>{{.Number}}</td>
{{- range .Entries}}
    <td title="{{.Label}}">{{.Name}}</td>
{{- end}}
</tr>
{{- end}}
</table>{{end}}
`))

func writeHTML(w io.Writer, l Listing) error {
	return htmlTemplate.Execute(w, l)
}
