package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"banksy/internal/domain"
	"banksy/internal/middleware"
	"banksy/internal/providers/image"
)

const (
	msgPromptRequired = "Prompt is required."
	msgNotConfigured  = "Image generation is not configured. Please try again later."
	msgFailed         = "Image generation failed. Please try again."
	msgBodyTooLarge   = "Request body is too large."
)

type generateRequest struct {
	Prompt string `json:"prompt"`
}

type generateResponse struct {
	ImageBase64 string `json:"imageBase64"`
}

// Generate validates the prompt, attaches the configured style and reference,
// and calls the image provider once.
func (a *App) Generate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			a.message(w, http.StatusRequestEntityTooLarge, msgBodyTooLarge)
			return
		}
		// an unreadable body is treated as an empty prompt
		req.Prompt = ""
	}

	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		a.message(w, http.StatusBadRequest, msgPromptRequired)
		return
	}

	rid := middleware.RequestIDFromContext(r.Context())
	if !a.Generator.HasCredentials() {
		a.Logger.Error().Str("request_id", rid).Msg("generate: image API key is not configured")
		a.message(w, http.StatusInternalServerError, msgNotConfigured)
		return
	}

	ref := a.References.Resolve()
	asset, err := a.Generator.Generate(r.Context(), image.GenerateRequest{
		Prompt:    image.BuildPrompt(a.Style, ref, prompt),
		RequestID: rid,
		Reference: ref,
	})
	if err != nil {
		a.Logger.Error().Err(err).Str("request_id", rid).Msg("generate: image generation failed")
		if errors.Is(err, domain.ErrMissingCredentials) {
			a.message(w, http.StatusInternalServerError, msgNotConfigured)
			return
		}
		a.message(w, http.StatusInternalServerError, msgFailed)
		return
	}
	if asset == nil || asset.Base64 == "" {
		a.Logger.Error().Str("request_id", rid).Msg("generate: provider returned no image")
		a.message(w, http.StatusInternalServerError, msgFailed)
		return
	}

	a.json(w, http.StatusOK, generateResponse{ImageBase64: asset.Base64})
}
