package detector

import "errors"

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrInvalidConfig = errors.New("invalid detector config")
	ErrFrameOrder    = errors.New("frame number not increasing")
)
