package handlers

import (
	"embed"
	"fmt"
	"html/template"
	"strconv"

	"github.com/polkiloo/driverdesk/internal/domain/model"
)

//go:embed templates/*.html
var templateFS embed.FS

// Templates parses the HTML pages served by PageHandler.
func Templates() *template.Template {
	return template.Must(template.New("").Funcs(template.FuncMap{
		"quantity": formatQuantity,
		"tabURL":   tabURL,
	}).ParseFS(templateFS, "templates/*.html"))
}

func formatQuantity(q float64, unit string) string {
	return fmt.Sprintf("%s %s", strconv.FormatFloat(q, 'f', -1, 64), unit)
}

func tabURL(driverID string, tab model.Tab) string {
	return fmt.Sprintf("/drivers/%s?tab=%s", template.URLQueryEscaper(driverID), tab)
}
