package cwnd

import "errors"

// Error kinds. Callers match them with errors.Is; the wrapped message carries
// the path, line and cell that caused the failure.
var (
	ErrNotFound = errors.New("input not found")
	ErrParse    = errors.New("parse error")
	ErrWrite    = errors.New("write error")
)
