// Package transport provides the non-blocking byte capability the protocol
// runtime is polled against.
//
// Ownership boundary:
// - Reader/Writer poll interfaces (attempt up to N bytes, wake on progress)
// - in-memory pipe with bounded capacity and chunked delivery
// - pumps bridging blocking io.Reader/io.Writer endpoints (stdio, child pipes)
package transport
