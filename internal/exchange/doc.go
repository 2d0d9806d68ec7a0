// Package exchange is the request/response session a supervising parent runs
// against its child over a stdio stream.
//
// Ownership boundary:
// - session handshake (child announces its session UUID)
// - opcode table and reply shapes
// - child-side Server loop and parent-side Client calls
//
// Wire shape: every request is a u8 opcode followed by its payload; every
// reply is flushed before the next request is read.
//
//	opcode  request        reply
//	1       u32            u32
//	2       string         result<string, u8>
//	3       []i32          i64 (sum)
//	4       string (key)   option<bytes>
//	5       f64            f64
//	6       -              u8 (ack), then the child stops serving
//	other   -              result<string, u8> failure FailUnknownOp
package exchange
