package infra

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv              string        `validate:"required"`
	Port                string        `validate:"required,numeric"`
	OpenAIAPIKey        string
	OpenAIBaseURL       string        `validate:"required,url"`
	OpenAIOrg           string
	ImageModel          string        `validate:"required"`
	ImageSize           string        `validate:"oneof=256x256 512x512 1024x1024 1024x1536 1536x1024 1792x1024 1024x1792 auto"`
	ImageRequestTimeout time.Duration `validate:"gt=0"`
	ReferenceURL        string        `validate:"omitempty,http_url"`
	ReferenceBase64     string
	ReferencePath       string
	ReferenceDir        string
	StylePrompt         string
	StyleDescriptorPath string
	CORSAllowedOrigins  []string
	MaxBodyBytes        int64         `validate:"gt=0"`
	HTTPReadTimeout     time.Duration `validate:"gt=0"`
	HTTPWriteTimeout    time.Duration `validate:"gte=0"`
	HTTPIdleTimeout     time.Duration `validate:"gt=0"`
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
// The OpenAI credential is deliberately optional here: requests are refused one by one
// when it is missing so the page can still be served.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:              getEnv("APP_ENV", "development"),
		Port:                getEnv("PORT", "8080"),
		OpenAIAPIKey:        strings.TrimSpace(os.Getenv("OPENAI_API_KEY")),
		OpenAIBaseURL:       strings.TrimRight(getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"), "/"),
		OpenAIOrg:           strings.TrimSpace(os.Getenv("OPENAI_ORG")),
		ImageModel:          getEnv("IMAGE_MODEL", "gpt-image-1"),
		ImageSize:           getEnv("IMAGE_SIZE", "1024x1024"),
		ImageRequestTimeout: time.Second * time.Duration(getEnvInt("IMAGE_REQUEST_TIMEOUT_SECONDS", 120)),
		ReferenceURL:        strings.TrimSpace(os.Getenv("REFERENCE_IMAGE_URL")),
		ReferenceBase64:     strings.TrimSpace(os.Getenv("REFERENCE_IMAGE_BASE64")),
		ReferencePath:       strings.TrimSpace(os.Getenv("REFERENCE_IMAGE_PATH")),
		ReferenceDir:        getEnv("REFERENCE_IMAGE_DIR", "reference"),
		StylePrompt:         strings.TrimSpace(os.Getenv("STYLE_PROMPT")),
		StyleDescriptorPath: strings.TrimSpace(os.Getenv("STYLE_DESCRIPTOR_PATH")),
		CORSAllowedOrigins:  splitList(os.Getenv("CORS_ALLOWED_ORIGINS")),
		MaxBodyBytes:        int64(getEnvInt("MAX_BODY_BYTES", 64<<10)),
		HTTPReadTimeout:     time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout:    time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 180)),
		HTTPIdleTimeout:     time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field shapes and ranges.
func (c *Config) Validate() error {
	err := validator.New().Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("config: %w", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Field(), fe.Tag()))
	}
	return fmt.Errorf("config: invalid %s", strings.Join(msgs, ", "))
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return i
		}
	}
	return fallback
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
