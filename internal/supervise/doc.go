// Package supervise starts and tracks the child processes a parent talks to
// over stdio.
//
// Ownership boundary:
// - child start with retry/backoff
// - session identity handed to the child through the environment
// - single-take stdin/stdout handles
// - exit status mapping and lifecycle events
package supervise
