// Package gitrepo contains helpers for interrogating and manipulating Git repositories.
//
// It exposes RepositoryManager for inspecting branches, remotes, and status,
// along with remote URL parsing utilities consumed by the fork synchronization
// service.
package gitrepo
