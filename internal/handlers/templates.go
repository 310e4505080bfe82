package handlers

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/videoflix/webclient/internal/logging"
)

//go:embed templates/*.html
var templateFS embed.FS

// Renderer holds the parsed page templates. Every page is parsed together
// with the shared layout so the header, footer, and toast banner come along.
type Renderer struct {
	pages map[string]*template.Template
}

var pageNames = []string{
	"landing",
	"login",
	"sign_up",
	"forgot_password",
	"reset_password",
	"verify",
	"dashboard",
	"player",
}

// NewRenderer parses the embedded templates.
func NewRenderer() (*Renderer, error) {
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		tmpl, err := template.ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		pages[name] = tmpl
	}
	return &Renderer{pages: pages}, nil
}

// Render writes the named page. Render errors surface as a 500; by that
// point headers may already be out, so the error is logged either way.
func (rd *Renderer) Render(w http.ResponseWriter, r *http.Request, name string, data any) {
	tmpl, ok := rd.pages[name]
	if !ok {
		logging.FromContext(r.Context()).Error("unknown template", "name", name)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(w, "layout", data); err != nil {
		logging.FromContext(r.Context()).Error("render template", "name", name, "error", err)
	}
}
