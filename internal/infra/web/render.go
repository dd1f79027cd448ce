package web

import (
	"embed"
	"html/template"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"streamshop/internal/domain/model"
)

//go:embed templates/*.html
var templatesFS embed.FS

// page carries the fields every template's header expects. Specific view
// structs embed it so the shared markup keeps working via promotion.
type page struct {
	Title    string
	Flash    string
	Error    string
	WhatsApp string
	Customer *model.Customer
	Admin    bool
}

type renderer struct {
	tpl *template.Template
	log *zerolog.Logger
}

func newRenderer(logger *zerolog.Logger) *renderer {
	funcs := template.FuncMap{
		"date": func(t *time.Time) string {
			if t == nil {
				return ""
			}
			return t.Format("2006-01-02")
		},
		"daysLeft": func(t *time.Time) int {
			if t == nil {
				return 0
			}
			d := int(time.Until(*t).Hours() / 24)
			if d < 0 {
				return 0
			}
			return d
		},
	}
	tpl := template.Must(template.New("").Funcs(funcs).ParseFS(templatesFS, "templates/*.html"))
	return &renderer{tpl: tpl, log: logger}
}

func (r *renderer) render(w http.ResponseWriter, status int, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := r.tpl.ExecuteTemplate(w, name, data); err != nil {
		r.log.Error().Err(err).Str("template", name).Msg("render failed")
	}
}
