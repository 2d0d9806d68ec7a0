// Package bridge turns blocking, message-oriented channels into pollable
// one-shot operations.
//
// Ownership boundary:
// - one worker goroutine per direction with a bounded request queue
//   (capacity 1 for receive, 2 for send)
// - single outstanding operation per direction; a second one is protocol.ErrBusy
// - cooperative shutdown through a sentinel request
// - Framed: msgpack messages over a blocking stream
package bridge
