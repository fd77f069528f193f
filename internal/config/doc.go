// Package config parses and validates matcalc's command-line configuration.
//
// Values are resolved in priority order: command-line flags, then MATCALC_
// environment variables, then a cached calibration profile and hardware-based
// adaptive defaults, then the static defaults declared here.
package config
