// Package physics advances the movable bodies of a [world.World] under
// their mutual gravity.
//
// A step reads one snapshot of the world, integrates every mover against it
// in parallel and commits all results at once, so no body in a step sees
// another body's already-updated position.
//
// Units: positions in gigametres, velocities in km/s, masses in 10^24 kg,
// times in seconds.
package physics
