package model

import "errors"

// Validation and lookup errors. Constructors wrap these with context, so
// callers should test with errors.Is.
var (
	ErrInvalidRegion   = errors.New("invalid region")
	ErrInvalidItem     = errors.New("invalid item")
	ErrInvalidFixation = errors.New("invalid fixation")
	ErrInvalidSaccade  = errors.New("invalid saccade")
	ErrInvalidTrial    = errors.New("invalid trial")
	ErrOutOfRange      = errors.New("position out of range")
	ErrRegionNotFound  = errors.New("region not found")
	ErrTrialNotFound   = errors.New("trial not found")
)
