// Package protocol owns the wire contract shared by the pipe runtime.
//
// Ownership boundary:
// - error taxonomy (transport, unexpected end of stream, invalid data, write zero, misuse)
// - poll: resumable operation contract and memoizing stages
// - codec: primitive and compound wire codecs
// - stream: duplex stream wrapper exposing codecs as typed operations
// - blocking: synchronous mirror of the stream API
// - bridge: worker-backed adapter for message-oriented channels
//
// Wire format (native byte order, word-size length prefixes):
//
//	scalar      raw in-memory image, 1/2/4/8/16 bytes
//	float       raw IEEE-754 bit pattern
//	bytes/str   [len: uint][len x element bytes]
//	optional    [1 byte: 0 absent, 1 present][inner]
//	outcome     [1 byte: 0 failure, 1 success][failure or success payload]
package protocol
