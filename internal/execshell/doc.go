// Package execshell provides structured helpers for invoking the git executable.
//
// It wraps os/exec behind ShellExecutor, which captures buffered output,
// streams output line by line for long-running commands, or hands the
// terminal to git for interactive subcommands. OSCommandRunner supplies the
// default process execution while tests substitute recording runners.
package execshell
