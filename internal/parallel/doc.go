// Package parallel provides the row-partitioning and bounded fan-out
// primitives used by the parallel multiplication strategy.
//
// Work is split into contiguous row ranges with Partition and executed with
// ForEach, which runs one task per range on an errgroup, bounded by a worker
// limit, and waits for every started task before returning. Task failures,
// including recovered panics, are aggregated by an ErrorCollector.
package parallel
