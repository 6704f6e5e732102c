// Package gitrepo contains helpers for interrogating and manipulating Git repositories.
//
// It exposes RepositoryManager for resolving the current branch, enumerating
// local branches, and deleting branches, consumed by the prune service and
// other callers that need structured Git operations.
package gitrepo
