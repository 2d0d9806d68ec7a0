// Package stream wraps a pair of byte capabilities as a duplex typed stream.
//
// Ownership boundary:
// - buffered read half (peek/consume) and buffered write half (flush)
// - guarded operations: one live operation per half, misuse reported as protocol.ErrBusy
// - typed read/write for every codec, raw pass-through and io interop
// - factories over the process's own stdio or a supervised child's pipes
//
// Reads and writes use disjoint halves and may be in flight at the same time.
// Cancelling an operation releases its half but does not retract bytes already
// written or restore bytes already consumed; peers must agree to abandon the
// channel after a cancelled multi-step operation.
package stream
