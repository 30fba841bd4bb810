package model

import "errors"

var (
	// ErrInvalidInput marks bad arguments rejected before any computation runs.
	ErrInvalidInput = errors.New("invalid input")

	// ErrModelFit marks a forecasting model that could not be fitted.
	// Callers treat it as recoverable and disable the forecast section.
	ErrModelFit = errors.New("model fit failed")
)
