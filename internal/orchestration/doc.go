// Package orchestration runs one or more multiplication strategies on the
// same operands, concurrently, and compares their products. Presentation is
// reached only through the ProgressReporter and ResultPresenter interfaces.
package orchestration
