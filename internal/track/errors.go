package track

import "errors"

var (
	ErrLineNotFound  = errors.New("track: line not found")
	ErrDuplicateLine = errors.New("track: duplicate line id")
	ErrInvalidLine   = errors.New("track: invalid line geometry")
	ErrUnknownSample = errors.New("track: unknown sample")
	ErrGridMismatch  = errors.New("track: grid out of sync with line set")
)
