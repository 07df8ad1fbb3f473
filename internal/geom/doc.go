// Package geom provides the planar math shared by the track, the physics
// engine and the editing tools.
//
//   - [Vec2]: value type for points and displacements
//   - [Angle]: direction helper with degree/radian views
//   - [Rect]: axis aligned bounds for region queries
//
// The lock and snap helpers ([AngleLock], [SnapToDegrees], [LengthLock])
// implement the constraint modifiers applied while dragging line joints.
//
// All functions are pure and allocation free; results are bit-identical for
// identical inputs, which the simulation cache relies on.
package geom
