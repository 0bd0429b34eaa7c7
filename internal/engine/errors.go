package engine

import "errors"

var (
	// ErrRootNotFound indicates the dataset root does not exist.
	ErrRootNotFound = errors.New("root directory not found")

	// ErrRootNotDirectory indicates the dataset root is not a directory.
	ErrRootNotDirectory = errors.New("root is not a directory")

	// ErrValidation indicates a validation failure.
	ErrValidation = errors.New("validation failed")

	// ErrNoSeriesSource indicates classify was given neither series info nor DICOMs.
	ErrNoSeriesSource = errors.New("no series source given")
)
