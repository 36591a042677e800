package api

import (
	"embed"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

func newTemplates() *template.Template {
	return template.Must(template.New("").Funcs(template.FuncMap{
		"datetime": func(t interface{ Format(string) string }) string {
			return t.Format("2 Jan 2006 15:04")
		},
	}).ParseFS(templateFS, "templates/*.html"))
}
