package handlers

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
)

// SamplePrompt is offered by the page's "Use sample" button.
const SamplePrompt = "A child reaching for a red heart-shaped balloon, stencil vibe, gritty alley wall."

//go:embed templates/index.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

type pageData struct {
	Model        string
	Size         string
	HasReference bool
	SamplePrompt string
}

func (a *App) Index(w http.ResponseWriter, r *http.Request) {
	data := pageData{
		Model:        a.Generator.Model(),
		Size:         a.Generator.Size(),
		HasReference: a.References.Resolve() != nil,
		SamplePrompt: SamplePrompt,
	}
	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		a.Logger.Error().Err(err).Msg("page: render failed")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
