package fileio

import "errors"

// Error taxonomy shared by every file-backed store. Callers match with
// errors.Is; the wrapped cause stays reachable through errors.Unwrap.
var (
	ErrIO    = errors.New("io error")
	ErrParse = errors.New("parse error")
)
