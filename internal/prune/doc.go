// Package prune provides the fetch and pull commands that mirror git output
// while deleting local branches whose remote counterparts were pruned.
//
// It offers a pure fetch-output classifier, a terminal highlighter for branch
// references, and a coordinating Service that interleaves line display with
// per-branch deletion decisions.
package prune
