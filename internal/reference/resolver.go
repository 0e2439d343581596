// Package reference locates the optional reference image that guides every
// generation. Sources are checked in a fixed order: explicit URL, base64
// bytes, file path, then the first image found in the default directory.
package reference

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"

	"banksy/internal/infra"
)

// Source identifies where a reference came from.
type Source string

const (
	SourceURL       Source = "url"
	SourceBase64    Source = "base64"
	SourceFile      Source = "file"
	SourceDirectory Source = "directory"
)

// MaxBytes caps inline references to what the image edit endpoint accepts.
const MaxBytes = 25 << 20

var allowedMIME = []string{"image/png", "image/jpeg", "image/webp"}

var imageExtensions = map[string]struct{}{
	".png":  {},
	".jpg":  {},
	".jpeg": {},
	".webp": {},
}

var errNotImage = errors.New("reference: content is not a supported image")

// Reference is a resolved reference image. Exactly one of URL or Data is set.
type Reference struct {
	Source   Source
	URL      string
	Data     []byte
	MIME     string
	Filename string
}

// Inline reports whether the reference carries bytes rather than a link.
func (r *Reference) Inline() bool {
	return r != nil && len(r.Data) > 0
}

// Options configures a Resolver. Empty fields are skipped.
type Options struct {
	URL    string
	Base64 string
	Path   string
	Dir    string
	Logger *infra.Logger
}

// Resolver reads reference sources on every call so edits to the files on
// disk are picked up without a restart.
type Resolver struct {
	url    string
	base64 string
	path   string
	dir    string
	logger *infra.Logger
}

// NewResolver builds a resolver from the configured sources.
func NewResolver(opts Options) *Resolver {
	logger := opts.Logger
	if logger == nil {
		l := zerolog.New(io.Discard)
		logger = &l
	}
	return &Resolver{
		url:    strings.TrimSpace(opts.URL),
		base64: strings.TrimSpace(opts.Base64),
		path:   strings.TrimSpace(opts.Path),
		dir:    strings.TrimSpace(opts.Dir),
		logger: logger,
	}
}

// Resolve returns the first usable reference, or nil when there is none. A
// configured source that cannot be used is logged and the next one is tried.
func (r *Resolver) Resolve() *Reference {
	if r == nil {
		return nil
	}
	if r.url != "" {
		ref, err := fromURL(r.url)
		if err == nil {
			return ref
		}
		r.warn(SourceURL, err)
	}
	if r.base64 != "" {
		ref, err := fromBase64(r.base64)
		if err == nil {
			return ref
		}
		r.warn(SourceBase64, err)
	}
	if r.path != "" {
		ref, err := fromFile(r.path)
		if err == nil {
			ref.Source = SourceFile
			return ref
		}
		r.warn(SourceFile, err)
	}
	if r.dir != "" {
		ref, err := r.fromDir(r.dir)
		if err == nil {
			return ref
		}
		if !errors.Is(err, os.ErrNotExist) {
			r.warn(SourceDirectory, err)
		}
	}
	return nil
}

func (r *Resolver) warn(source Source, err error) {
	r.logger.Warn().Err(err).Str("source", string(source)).Msg("reference: source skipped")
}

func fromURL(raw string) (*Reference, error) {
	parsed, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("reference: parse url: %w", err)
	}
	scheme := strings.ToLower(parsed.Scheme)
	if (scheme != "http" && scheme != "https") || parsed.Host == "" {
		return nil, fmt.Errorf("reference: invalid url %q", raw)
	}
	return &Reference{Source: SourceURL, URL: parsed.String()}, nil
}

func fromBase64(raw string) (*Reference, error) {
	payload := raw
	if strings.HasPrefix(strings.ToLower(payload), "data:") {
		idx := strings.Index(payload, ",")
		if idx < 0 {
			return nil, errors.New("reference: malformed data uri")
		}
		payload = payload[idx+1:]
	}
	payload = strings.Join(strings.Fields(payload), "")
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
		if err != nil {
			return nil, fmt.Errorf("reference: decode base64: %w", err)
		}
	}
	ref, err := inline(data, "")
	if err != nil {
		return nil, err
	}
	ref.Source = SourceBase64
	return ref, nil
}

func fromFile(path string) (*Reference, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("reference: stat file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("reference: %s is a directory", path)
	}
	if info.Size() > MaxBytes {
		return nil, fmt.Errorf("reference: %s exceeds %d bytes", path, MaxBytes)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reference: read file: %w", err)
	}
	return inline(data, filepath.Base(path))
}

// fromDir returns the first usable image in dir. Files that fail validation
// are logged and skipped.
func (r *Resolver) fromDir(dir string) (*Reference, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		if _, ok := imageExtensions[strings.ToLower(filepath.Ext(entry.Name()))]; !ok {
			continue
		}
		ref, err := fromFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			r.warn(SourceDirectory, fmt.Errorf("%s: %w", entry.Name(), err))
			continue
		}
		ref.Source = SourceDirectory
		return ref, nil
	}
	return nil, fmt.Errorf("reference: no image in %s: %w", dir, os.ErrNotExist)
}

func inline(data []byte, filename string) (*Reference, error) {
	if len(data) == 0 {
		return nil, errors.New("reference: empty payload")
	}
	if len(data) > MaxBytes {
		return nil, fmt.Errorf("reference: payload exceeds %d bytes", MaxBytes)
	}
	mime := mimetype.Detect(data)
	if !mimetype.EqualsAny(mime.String(), allowedMIME...) {
		return nil, fmt.Errorf("%w: %s", errNotImage, mime.String())
	}
	if filename == "" {
		filename = "reference" + mime.Extension()
	}
	return &Reference{Data: data, MIME: mime.String(), Filename: filename}, nil
}
