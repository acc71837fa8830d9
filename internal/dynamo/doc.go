// Package dynamo provides the primitives shared by every part of the
// gravity simulation:
//
//   - sentinel errors and [SimulationError]
//   - the run lifecycle ([Status], [StatusFlag])
//   - unit constants
//   - [ParallelFor] for data-parallel loops
//   - [TrigTable] for the discrete camera rotation
//
// # Thread Safety
//
// [StatusFlag] is safe for concurrent use. Everything else is immutable
// after construction.
package dynamo
