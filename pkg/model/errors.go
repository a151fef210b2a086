package model

import "errors"

// Common sentinel errors for model construction and readout
var (
	// ErrInsufficientNodes is returned when a graph is too small for
	// the fixed-position readout (fewer than feature_width nodes)
	ErrInsufficientNodes = errors.New("graph has too few nodes for readout")

	// ErrCorruptCheckpoint is returned when a checkpoint file fails
	// magic, version or checksum validation
	ErrCorruptCheckpoint = errors.New("corrupt checkpoint file")

	// ErrConfigInvalid is returned when a model configuration fails
	// validation
	ErrConfigInvalid = errors.New("invalid model configuration")
)
