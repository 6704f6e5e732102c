// Package cli constructs the gitwhisk command-line interface, wiring the
// Cobra command hierarchy, the configuration loader with its embedded
// defaults, and the structured logging primitives shared by every
// subcommand.
package cli
