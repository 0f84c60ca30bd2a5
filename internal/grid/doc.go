// Package grid provides the staggered (MAC) velocity storage for the solver.
//
// Velocities live on cell faces rather than cell centers:
//
//   - horizontal-normal faces carry the x-component, stored row-major in an
//     (nx+1)×ny array; face (i,j) sits at (i·h, (j+½)·h)
//   - vertical-normal faces carry the y-component, stored row-major in an
//     nx×(ny+1) array; face (i,j) sits at ((i+½)·h, j·h)
//
// The y axis grows downward, so a cell's top face has the smaller y.
//
// A [Cell] is a view holding the indices of its four bounding faces. Two
// neighboring cells hold the same index for their shared face, so a write
// through one is seen by the other without any aliasing of Go values.
//
// # Mutability
//
// Every face carries a fixed flag. Fixed faces are skipped by the projector,
// the advector and external forces. Obstacles and pinned boundary faces are
// fixed; everything else is mutable.
package grid
