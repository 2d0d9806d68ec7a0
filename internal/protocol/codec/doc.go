// Package codec implements the resumable wire codecs.
//
// Every encoder and decoder is a poll.Stage bound to one stream half. Stages
// keep their progress (bytes moved, cached sub-stage results) between polls,
// so a value can be transferred a few bytes at a time across many scheduling
// turns without losing or repeating bytes.
//
// Ownership boundary:
// - fixed-width scalar codecs (staged multi-byte path, 1-byte fast path)
// - floats atop the equal-width unsigned codecs
// - 128-bit integers
// - length-prefixed bytes, strings and primitive slices
// - optional and outcome values behind a 1-byte discriminator
package codec
