// Package format holds the text formatting shared by the CLI and the TUI:
// durations, ETAs, progress bars and numbers.
package format
