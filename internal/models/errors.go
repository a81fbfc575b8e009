package models

import "errors"

var (
	// ErrConfigurationMissing means a credential or catalog is unavailable; nothing can be generated
	ErrConfigurationMissing = errors.New("configuration missing")

	// ErrExternalService wraps failures of the text or image generation service
	ErrExternalService = errors.New("external service failure")

	// ErrEmptyInput means a required field was blank; no external call was made
	ErrEmptyInput = errors.New("empty input")
)
