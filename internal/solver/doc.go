// Package solver runs the direct stiffness method on a plane truss.
//
// A [Solver] sequences the pipeline:
//
//   - member lengths are refreshed on the [truss.Model]
//   - [stiffness.Assemble] builds the 2N x 2N global matrix
//   - [boundary.Apply] removes constrained DOFs
//   - the reduced system is solved with [matrix.Dense.Solve]
//   - member forces and support reactions are recovered from displacements
//
// # Example
//
//	m := truss.New()
//	m.AddNode(0, 0, true, true)
//	m.AddNode(4, 0, false, true)
//	m.AddNode(0, 3, false, false)
//	m.AddMember(0, 1)
//	m.AddMember(0, 2)
//	m.AddMember(1, 2)
//	m.AddLoad(2, 10, 0)
//
//	s := solver.New(m)
//	if err := s.Solve(); err != nil {
//	    // errors.Is(err, solver.ErrUnstable) for mechanisms
//	}
//	forces, _ := s.Forces()
//
// # Thread Safety
//
// Solver instances are NOT thread-safe and must not share a model with
// another running solver. [SolveBatch] clones each model and gives every
// clone its own Solver.
package solver
