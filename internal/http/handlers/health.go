package handlers

import (
	"net/http"
)

type healthResponse struct {
	Status    string `json:"status"`
	Generator string `json:"generator"`
	Model     string `json:"model"`
}

// Health reports liveness. A missing image API key does not fail the check;
// it is surfaced as generator "unconfigured".
func (a *App) Health(w http.ResponseWriter, r *http.Request) {
	generator := "ready"
	if !a.Generator.HasCredentials() {
		generator = "unconfigured"
	}
	a.json(w, http.StatusOK, healthResponse{Status: "ok", Generator: generator, Model: a.Generator.Model()})
}
