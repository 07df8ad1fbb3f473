package editor

import "github.com/pkg/errors"

var (
	// ErrIterationRange is the panic value for an iteration offset outside
	// [0, Iterations].
	ErrIterationRange = errors.New("editor: iteration offset out of range")
	// ErrStartRange is the panic value for a playback start frame at or past
	// the computed length.
	ErrStartRange  = errors.New("editor: start frame out of range")
	ErrUnknownTool = errors.New("editor: unknown tool")
	ErrNoStore     = errors.New("editor: no backup store")
)
