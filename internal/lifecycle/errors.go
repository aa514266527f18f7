package lifecycle

import "errors"

// Input validation failures are the engine's only error conditions. Unknown
// breeding-site types, missing camera or GPS metadata, and empty candidate
// lists are all normal branches, never errors.
var (
	ErrConfidenceOutOfRange = errors.New("confidence must be within [0, 1]")
	ErrNegativeSize         = errors.New("size bytes must not be negative")
	ErrUnknownRiskLevel     = errors.New("unknown risk level")
)
