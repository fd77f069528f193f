// Package logging provides the logging facade used by matcalc's outer layers.
// It wraps zerolog behind a small Logger interface and configures the global
// level from the command line. Lower layers such as the engine take a
// zerolog.Logger directly.
package logging
