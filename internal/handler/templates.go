package handler

import (
	"embed"
	"html/template"

	"dashboard/internal/models"
	"dashboard/internal/shell"
)

//go:embed templates/*.html
var templateFS embed.FS

// Templates parses the embedded page templates.
func Templates() (*template.Template, error) {
	return template.New("").Funcs(template.FuncMap{
		"date":     formatDate,
		"datetime": formatDateTime,
		"itemText": shell.ItemText,
		"str":      func(p *string) string { return derefOr(p, "") },
	}).ParseFS(templateFS, "templates/*.html")
}

func formatDate(t models.Timestamp) string {
	if t.IsZero() {
		return "N/A"
	}
	return t.Format("Jan 2, 2006")
}

func formatDateTime(t models.Timestamp) string {
	if t.IsZero() {
		return "N/A"
	}
	return t.Format("Jan 2, 2006 15:04")
}

func derefOr(p *string, fallback string) string {
	if p == nil {
		return fallback
	}
	return *p
}
