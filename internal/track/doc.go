// Package track holds the editable line set the rider simulates against.
//
// A Track keeps its lines ordered by id and indexes them in a uniform
// spatial grid so that point and region queries only touch nearby cells.
// Every mutation updates the grid incrementally: the old cell memberships
// of a line are dropped and the new ones inserted.
//
// Track is not safe for concurrent use. Callers outside the guard package
// should never hold a *Track directly.
package track
