// Package physics implements the rider body and the deterministic step
// that advances it by one frame against a line set.
//
// A frame is computed in two phases. Every point first gets a position
// Verlet momentum tick with gravity, then a fixed number of relaxation
// passes runs. Each pass satisfies the stick constraints of the body and
// resolves one-sided collisions against the nearby lines:
//
//	state := rider
//	for frame := 1; frame <= n; frame++ {
//	    state = engine.Step(state, lines, engine.Iterations()).State
//	}
//
// Running fewer passes than [Engine.Iterations] yields the intermediate pose
// used for sub-frame rendering. The engine keeps no state between calls, so
// a step is a pure function of the previous state and the lines.
package physics
