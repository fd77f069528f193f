// Package memory estimates the footprint of a multiplication, enforces the
// --memory-limit budget, and controls the garbage collector around large
// runs.
package memory
