package codec

import (
	"unicode/utf8"
	"unsafe"

	"github.com/danmuck/pipewire/internal/protocol"
	"github.com/danmuck/pipewire/internal/protocol/poll"
	"github.com/danmuck/pipewire/internal/transport"
)

// StringReader decodes a byte buffer and validates it as UTF-8 once the
// whole payload has arrived.
type StringReader struct {
	bytes *SliceReader[byte]
}

func NewStringReader() *StringReader {
	return &StringReader{bytes: NewBytesReader()}
}

func (r *StringReader) WithLimits(l Limits) *StringReader {
	r.bytes.limits = l
	return r
}

func (r *StringReader) PollStage(cx *poll.Context, src transport.Reader) (string, bool, error) {
	b, ok, err := r.bytes.PollStage(cx, src)
	if err != nil || !ok {
		return "", false, err
	}
	if !utf8.Valid(b) {
		return "", false, protocol.Invalidf("string payload of %d bytes is not valid UTF-8", len(b))
	}
	if len(b) == 0 {
		return "", true, nil
	}
	// b is owned by this stage and never written again.
	return unsafe.String(unsafe.SliceData(b), len(b)), true, nil
}
