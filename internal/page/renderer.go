package page

import (
	"html/template"
	"io"

	"remotectl/internal/actions"
)

// The trigger path is relative so the page keeps working under whatever
// session prefix it was served from.
const pageTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>{{.Title}}</title>
    <link rel="stylesheet" href="/static/css/main.css" />
</head>
<body>
    <h1>{{.Title}}</h1>
    <div class="controls">
{{- range .Actions}}
        <button type="button" data-action="{{.ID}}" onclick="fetch('control/{{.ID}}')">{{.DisplayName}}</button>
{{- end}}
    </div>
</body>
</html>
`

type Renderer struct {
	tmpl *template.Template
}

func NewRenderer() *Renderer {
	return &Renderer{tmpl: template.Must(template.New("page").Parse(pageTemplate))}
}

type pageData struct {
	Title   string
	Actions []actions.Action
}

// Render writes the control page with one button per action, in order.
func (r *Renderer) Render(w io.Writer, title string, list []actions.Action) error {
	return r.tmpl.Execute(w, pageData{Title: title, Actions: list})
}
