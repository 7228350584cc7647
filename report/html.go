package report

import (
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"strings"
)

// ResultsElementID is the id of the script element that carries the JSON report in the HTML
// output, where result-harvesting tools look for it.
const ResultsElementID = "__ariaatharness__results__"

var summaryTemplate = template.Must(template.New("summary").Funcs(template.FuncMap{
	"join": func(details []CommandDetail) string { return strings.Join(Commands(details), ", ") },
}).Parse(`<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>{{.Title}}</title></head>
<body>
<h1>{{.Title}}</h1>
<h2 id="overallstatus">Test result: {{.Status}}</h2>
{{range .Behaviors}}<p>After user performs task "{{.Task}}" in {{.Mode}} mode, the following behavior was observed:</p>
<table>
{{range .AssertionResults}}<tr><td>{{.Status}}</td><td>{{.Name}}</td><td><ul>
{{- if .Details.Correct}}<li>Passed for commands: {{join .Details.Correct}}.</li>{{end}}
{{- if .Details.Incorrect}}<li>Incorrect information supplied after commands: {{join .Details.Incorrect}}.</li>{{end}}
{{- if .Details.Incomplete}}<li>Incomplete or no information supplied for commands: {{join .Details.Incomplete}}.</li>{{end -}}
</ul></td></tr>
{{end}}</table>
{{end}}`))

// HTMLReporter writes a human-readable results page with the JSON report embedded in a
// text/json script element.
type HTMLReporter struct {
	W io.Writer
}

func (h HTMLReporter) Report(r SuiteReport) error {
	if err := summaryTemplate.Execute(h.W, r); err != nil {
		return err
	}
	// encoding/json escapes <, > and &, so the data cannot terminate the script element.
	data, err := json.Marshal(r)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(h.W, "<script type=\"text/json\" id=\"%s\">%s</script>\n</body>\n</html>\n",
		ResultsElementID, data)
	return err
}
