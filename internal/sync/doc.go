// Package sync orchestrates synchronizing a forked repository with its
// upstream source: environment validation, upstream remote resolution, fetch,
// divergence computation, confirmed rebase, and confirmed lease force-push.
package sync
