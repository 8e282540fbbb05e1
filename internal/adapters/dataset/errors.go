package dataset

import "errors"

// Sentinel errors for dataset loading.
var (
	ErrLabelsMissing = errors.New("labels file missing")
	ErrLabelsDecode  = errors.New("labels file malformed")
	ErrSubsetMissing = errors.New("subset directory missing")
)
