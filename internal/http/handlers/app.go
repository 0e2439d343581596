package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"banksy/internal/providers/image"
	"banksy/internal/reference"
)

type App struct {
	Logger     zerolog.Logger
	Generator  image.Generator
	References *reference.Resolver
	Style      string
}

func NewApp(logger zerolog.Logger, gen image.Generator, refs *reference.Resolver, style string) *App {
	return &App{Logger: logger, Generator: gen, References: refs, Style: style}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

type messageResponse struct {
	Message string `json:"message"`
}

func (a *App) message(w http.ResponseWriter, code int, msg string) {
	a.json(w, code, messageResponse{Message: msg})
}
