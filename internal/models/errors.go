package models

import "errors"

// Custom errors
var (
	ErrInsufficientData     = errors.New("insufficient data for requested window")
	ErrInvalidConfiguration = errors.New("invalid configuration")
	ErrNotFound             = errors.New("record not found")
	ErrDuplicateKey         = errors.New("duplicate key violation")
)
