package domain

import "errors"

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists signals a duplicate resource.
	ErrAlreadyExists = errors.New("already exists")
	// ErrValidation signals malformed caller input.
	ErrValidation = errors.New("validation failed")
	// ErrDefaultPreset signals an operation refused because the preset is
	// the current default for its content type.
	ErrDefaultPreset = errors.New("preset is the default for its content type")
	// ErrUnsupportedFormat signals an unknown export format.
	ErrUnsupportedFormat = errors.New("unsupported export format")
	// ErrMetadataSource signals a metadata source failure.
	ErrMetadataSource = errors.New("metadata source error")
	// ErrGenerationProvider signals a text generation provider failure.
	ErrGenerationProvider = errors.New("generation provider error")
)
