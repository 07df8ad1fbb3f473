// Package viz is the terminal front end of the track editor.
//
// [Model] is a Bubble Tea program that forwards keys and mouse events to an
// [editor.Editor] and draws the track, the rider and the active tool's
// overlay on a braille [Canvas]:
//
//   - [Canvas]: 2x4 dot braille grid; each cell is colored by the highest
//     [Ink] drawn into it
//   - [Viewport]: track to dot and cell mapping around the camera center
//   - Theme selection with 3 built-in color schemes
//
// # Key Bindings
//
//	Space - Play from flag / pause
//	Esc   - Stop
//	F     - Set flag
//	Tab   - Next tool
//	O     - Open a sample or backup
//	1-8   - Toggle edit locks
//	?     - Show help overlay
//
// Terminals report no key-held state, so edit locks are toggles. Shift, Ctrl
// and Alt on mouse events add the both-joints, degree-snap and angle locks.
package viz
