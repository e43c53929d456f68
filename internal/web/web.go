package web

import (
	"embed"
	"html/template"
	"time"
)

//go:embed templates/*.html
var templateFS embed.FS

// FuncMap holds the helpers available to every page.
var FuncMap = template.FuncMap{
	"formatDate": func(t time.Time) string {
		return t.Format("January 2, 2006, 3:04 PM")
	},
	"field": func(m map[string]string, key string) string {
		return m[key]
	},
	"prevPage": func(page int) int { return page - 1 },
	"nextPage": func(page int) int { return page + 1 },
}

// Templates parses the embedded page templates. Each page is named after its file.
func Templates() (*template.Template, error) {
	return template.New("").Funcs(FuncMap).ParseFS(templateFS, "templates/*.html")
}
