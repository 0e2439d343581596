package image

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"

	"banksy/internal/domain"
	"banksy/internal/infra"
)

const (
	defaultOpenAIBaseURL = "https://api.openai.com/v1"
	defaultImageModel    = openai.CreateImageModelGptImage1
	defaultImageSize     = openai.CreateImageSize1024x1024
	defaultImageTimeout  = 120 * time.Second
)

// OpenAIOptions configures the OpenAI image generator.
type OpenAIOptions struct {
	APIKey         string
	BaseURL        string
	Organization   string
	Model          string
	Size           string
	HTTPClient     *http.Client
	RequestTimeout time.Duration
	Logger         *infra.Logger
}

// OpenAIGenerator calls the OpenAI Images API exactly once per Generate call.
// Text-only and URL-referenced prompts go to /images/generations; inline
// reference bytes go to /images/edits as the image part.
type OpenAIGenerator struct {
	apiKey       string
	baseURL      string
	organization string
	model        string
	size         string
	httpClient   *http.Client
	client       *openai.Client
	logger       *infra.Logger
}

// NewOpenAIGenerator constructs a generator with sane defaults. A missing API
// key is not an error here; Generate refuses to run instead.
func NewOpenAIGenerator(opts OpenAIOptions) *OpenAIGenerator {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.RequestTimeout
		if timeout <= 0 {
			timeout = defaultImageTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultOpenAIBaseURL
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = defaultImageModel
	}
	size := strings.TrimSpace(opts.Size)
	if size == "" {
		size = defaultImageSize
	}
	logger := opts.Logger
	if logger == nil {
		l := zerolog.New(io.Discard)
		logger = &l
	}
	apiKey := strings.TrimSpace(opts.APIKey)

	clientCfg := openai.DefaultConfig(apiKey)
	clientCfg.BaseURL = baseURL
	clientCfg.OrgID = strings.TrimSpace(opts.Organization)
	clientCfg.HTTPClient = httpClient

	return &OpenAIGenerator{
		apiKey:       apiKey,
		baseURL:      baseURL,
		organization: clientCfg.OrgID,
		model:        model,
		size:         size,
		httpClient:   httpClient,
		client:       openai.NewClientWithConfig(clientCfg),
		logger:       logger,
	}
}

// Model returns the configured model identifier.
func (g *OpenAIGenerator) Model() string {
	return g.model
}

// Size returns the configured output resolution.
func (g *OpenAIGenerator) Size() string {
	return g.size
}

// HasCredentials reports whether the generator can perform remote calls.
func (g *OpenAIGenerator) HasCredentials() bool {
	return g.apiKey != ""
}

// Generate fulfils the Generator interface.
func (g *OpenAIGenerator) Generate(ctx context.Context, req GenerateRequest) (*Asset, error) {
	if !g.HasCredentials() {
		return nil, fmt.Errorf("openai: %w", domain.ErrMissingCredentials)
	}
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		return nil, fmt.Errorf("openai: %w", domain.ErrInvalidPrompt)
	}

	var (
		resp openai.ImageResponse
		err  error
	)
	if req.Reference.Inline() {
		resp, err = g.edit(ctx, prompt, req)
	} else {
		resp, err = g.client.CreateImage(ctx, openai.ImageRequest{
			Prompt:         prompt,
			Model:          g.model,
			N:              1,
			Size:           g.size,
			ResponseFormat: g.responseFormat(),
		})
	}
	if err != nil {
		return nil, fmt.Errorf("openai: %w: %w", domain.ErrProviderFailure, err)
	}

	if len(resp.Data) == 0 || strings.TrimSpace(resp.Data[0].B64JSON) == "" {
		return nil, fmt.Errorf("openai: %w", domain.ErrEmptyImage)
	}
	g.logger.Debug().
		Str("model", g.model).
		Str("request_id", req.RequestID).
		Bool("edit", req.Reference.Inline()).
		Int("output_tokens", resp.Usage.OutputTokens).
		Msg("openai: generated image")

	return &Asset{
		Base64:        resp.Data[0].B64JSON,
		Format:        "image/png",
		RevisedPrompt: resp.Data[0].RevisedPrompt,
	}, nil
}

// responseFormat only asks DALL-E models for base64; gpt-image models always
// return base64 and reject the parameter.
func (g *OpenAIGenerator) responseFormat() string {
	if strings.HasPrefix(g.model, "dall-e") {
		return openai.CreateImageResponseFormatB64JSON
	}
	return ""
}

// edit posts the multipart edit request itself because the SDK's
// CreateEditImage does not forward the model field.
func (g *OpenAIGenerator) edit(ctx context.Context, prompt string, req GenerateRequest) (openai.ImageResponse, error) {
	var out openai.ImageResponse
	ref := req.Reference

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename=%q`, ref.Filename))
	header.Set("Content-Type", ref.MIME)
	part, err := form.CreatePart(header)
	if err != nil {
		return out, fmt.Errorf("build edit form: %w", err)
	}
	if _, err := part.Write(ref.Data); err != nil {
		return out, fmt.Errorf("build edit form: %w", err)
	}
	fields := [][2]string{
		{"prompt", prompt},
		{"model", g.model},
		{"n", "1"},
		{"size", g.size},
	}
	if format := g.responseFormat(); format != "" {
		fields = append(fields, [2]string{"response_format", format})
	}
	for _, field := range fields {
		if err := form.WriteField(field[0], field[1]); err != nil {
			return out, fmt.Errorf("build edit form: %w", err)
		}
	}
	if err := form.Close(); err != nil {
		return out, fmt.Errorf("build edit form: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/images/edits", &body)
	if err != nil {
		return out, fmt.Errorf("build edit request: %w", err)
	}
	httpReq.Header.Set("Content-Type", form.FormDataContentType())
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+g.apiKey)
	if g.organization != "" {
		httpReq.Header.Set("OpenAI-Organization", g.organization)
	}

	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		return out, fmt.Errorf("edit request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return out, fmt.Errorf("read edit response: %w", err)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusBadRequest {
		var detail openai.ErrorResponse
		if err := json.Unmarshal(raw, &detail); err == nil && detail.Error != nil {
			detail.Error.HTTPStatus = resp.Status
			detail.Error.HTTPStatusCode = resp.StatusCode
			return out, detail.Error
		}
		return out, fmt.Errorf("edit status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("decode edit response: %w", err)
	}
	return out, nil
}

var _ Generator = (*OpenAIGenerator)(nil)
