// Package application provides application initialization and dependency wiring.
// It builds the piece catalog, the minimizer and its progress reporting from
// the resolved configuration, making the main package cleaner and more
// focused on CLI parsing and orchestration.
package application
