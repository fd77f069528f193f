// Package engine implements dense int32 matrix multiplication.
//
// Two strategies are provided and selected at runtime: a sequential one that
// computes every output row on the calling goroutine, and a parallel one that
// partitions the output by row into independent tasks. Both share the same
// row kernel, accumulate in ascending k with int32 wraparound, and therefore
// produce bit-identical products.
//
// Strategies are exposed through the Multiplier interface. An Engine wraps a
// strategy core with the dimension check, result allocation, tracing, logging,
// metrics and progress reporting. A MultiplierFactory maps registry names to
// ready-to-use Multipliers.
package engine
