// Package ui holds the color themes shared by the CLI presenter and the
// interactive dashboard.
package ui
