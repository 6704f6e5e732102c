// Package shortcuts implements the thin git wrappers: branch creation with
// an upstream push, plain push, commit, save, and interactive rebase. Each
// shortcut runs a short sequence of named git steps, mirrors the captured
// output of every step, and stops at the first failure.
package shortcuts
