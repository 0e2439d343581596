package domain

import "errors"

var (
	ErrInvalidPrompt      = errors.New("invalid prompt")
	ErrMissingCredentials = errors.New("missing provider credentials")
	ErrProviderFailure    = errors.New("provider failure")
	ErrEmptyImage         = errors.New("provider returned no image")
)
