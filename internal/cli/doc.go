// Package cli renders the line-oriented terminal output of matcalc: the
// execution banner, the progress spinner, result tables and completion
// scripts.
//
// Display* functions write to an [io.Writer]. Format* functions return
// strings without I/O. Write* functions write files.
package cli
