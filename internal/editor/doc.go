// Package editor ties the track, its timeline and undo history together
// behind one guard and drives playback, the camera, zoom triggers, the
// active tool and background autosave.
//
// Editor methods that acquire guard handles never hold the editor's own
// mutex while doing so. The guard notifier only touches atomics and the
// timeline, so lock order is always guard, then timeline, then editor state.
package editor
