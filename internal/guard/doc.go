// Package guard mediates every access to the shared track.
//
// Readers and writers obtain scoped handles from a Guard. Any number of
// read handles may be held at once; a write handle excludes every other
// handle. Handles must be released exactly once, typically with defer:
//
//	r := g.AcquireRead(ctx)
//	defer r.Release()
//
// or through the View and Update helpers, which release on every exit path
// including panics.
//
// A write handle records its mutations as one undo action and, on release,
// reports the changed lines to the bound Notifier before the lock is
// dropped, so no reader can see edited geometry with a stale timeline.
//
// Acquiring a write handle with a context obtained from a handle that is
// still held on the same guard would deadlock; it panics instead.
package guard
