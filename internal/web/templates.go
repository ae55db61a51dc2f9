package web

import (
	"embed"
	"html/template"
	"time"

	"github.com/shopspring/decimal"
)

//go:embed templates/*.html
var templateFS embed.FS

var functions = template.FuncMap{
	"money": func(d decimal.Decimal) string {
		return "$" + d.StringFixed(2)
	},
	"formatDate": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format("02 Jan 2006, 15:04")
	},
}

// Templates parses every embedded page and partial into one set.
// Pages are addressed by file name, e.g. "index.html".
func Templates() *template.Template {
	return template.Must(template.New("").Funcs(functions).ParseFS(templateFS, "templates/*.html"))
}
