package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"banksy/internal/http/handlers"
	"banksy/internal/infra"
	"banksy/internal/providers/image"
)

type fixedGenerator struct {
	calls int
}

func (g *fixedGenerator) Generate(ctx context.Context, req image.GenerateRequest) (*image.Asset, error) {
	g.calls++
	return &image.Asset{Base64: "AAAA"}, nil
}

func (g *fixedGenerator) HasCredentials() bool { return true }
func (g *fixedGenerator) Model() string { return "gpt-image-1" }
func (g *fixedGenerator) Size() string { return "1024x1024" }

func newTestRouter(gen image.Generator) http.Handler {
	cfg := &infra.Config{MaxBodyBytes: 1 << 10, CORSAllowedOrigins: []string{"https://studio.example.com"}}
	app := handlers.NewApp(zerolog.Nop(), gen, nil, "")
	return NewRouter(cfg, zerolog.Nop(), app)
}

func TestRouterRoutes(t *testing.T) {
	gen := &fixedGenerator{}
	router := newTestRouter(gen)

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
		wantBody   string
	}{
		{name: "page", method: http.MethodGet, path: "/", wantStatus: http.StatusOK, wantBody: "Banksy Studio"},
		{name: "health", method: http.MethodGet, path: "/v1/healthz", wantStatus: http.StatusOK, wantBody: `"status":"ok"`},
		{name: "generate", method: http.MethodPost, path: "/api/generate", body: `{"prompt":"a red balloon"}`, wantStatus: http.StatusOK, wantBody: `"imageBase64":"AAAA"`},
		{name: "generate empty", method: http.MethodPost, path: "/api/generate", body: `{"prompt":""}`, wantStatus: http.StatusBadRequest, wantBody: "Prompt is required."},
		{name: "generate wrong method", method: http.MethodGet, path: "/api/generate", wantStatus: http.StatusMethodNotAllowed},
		{name: "unknown", method: http.MethodGet, path: "/nope", wantStatus: http.StatusNotFound},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, strings.NewReader(tc.body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			if rec.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tc.wantStatus, rec.Body.String())
			}
			if tc.wantBody != "" && !strings.Contains(rec.Body.String(), tc.wantBody) {
				t.Fatalf("body %q missing %q", rec.Body.String(), tc.wantBody)
			}
			if rec.Header().Get("X-Request-ID") == "" {
				t.Fatal("every response should carry a request id")
			}
		})
	}
	if gen.calls != 1 {
		t.Fatalf("generator calls = %d, want 1", gen.calls)
	}
}

func TestRouterRejectsOversizedBody(t *testing.T) {
	gen := &fixedGenerator{}
	router := newTestRouter(gen)

	body := `{"prompt":"` + strings.Repeat("x", 4<<10) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/generate", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("status = %d, want 413", rec.Code)
	}
	if gen.calls != 0 {
		t.Fatal("oversized body must not reach the provider")
	}
}

func TestRouterCORSPreflight(t *testing.T) {
	router := newTestRouter(&fixedGenerator{})

	req := httptest.NewRequest(http.MethodOptions, "/api/generate", nil)
	req.Header.Set("Origin", "https://studio.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "https://studio.example.com" {
		t.Fatalf("allow origin = %q", rec.Header().Get("Access-Control-Allow-Origin"))
	}
}
