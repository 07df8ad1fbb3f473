package guard

import "errors"

// These are raised as panics; they indicate a caller bug.
var (
	ErrWriteWhileReading = errors.New("guard: write acquired while holding a read handle")
	ErrReentrantWrite    = errors.New("guard: write acquired while holding a write handle")
	ErrReadWhileWriting  = errors.New("guard: read acquired while holding a write handle")
	ErrReleased          = errors.New("guard: handle used after release")
)
