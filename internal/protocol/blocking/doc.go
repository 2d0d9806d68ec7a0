// Package blocking is the synchronous mirror of the stream API.
//
// It speaks the same wire format over bufio-wrapped blocking endpoints and
// adds explicit byte orders (binary.BigEndian, binary.LittleEndian) for
// readers that do not share the host's native order. binary.NativeEndian is
// the order the non-blocking stream uses.
package blocking
