package blocking

import (
	"bufio"
	"encoding/binary"
	"errors"
	"io"
	"math"
	"os"
	"unicode/utf8"
	"unsafe"

	"github.com/danmuck/pipewire/internal/protocol"
	"github.com/danmuck/pipewire/internal/protocol/codec"
)

const DefaultBufferSize = 8 * 1024

// Stream is a buffered blocking duplex stream.
type Stream struct {
	r       *bufio.Reader
	w       *bufio.Writer
	limits  codec.Limits
	closers []io.Closer
}

// New wraps r and w. Either side that implements io.Closer is closed by Close.
func New(r io.Reader, w io.Writer) *Stream {
	s := &Stream{
		r:      bufio.NewReaderSize(r, DefaultBufferSize),
		w:      bufio.NewWriterSize(w, DefaultBufferSize),
		limits: codec.DefaultLimits(),
	}
	if c, ok := w.(io.Closer); ok {
		s.closers = append(s.closers, c)
	}
	if c, ok := r.(io.Closer); ok {
		s.closers = append(s.closers, c)
	}
	return s
}

// Parent attaches to this process's standard input and output.
func Parent() (*Stream, bool) {
	if os.Stdin == nil || os.Stdout == nil {
		return nil, false
	}
	return New(os.Stdin, os.Stdout), true
}

// ConnectChild attaches to a supervised child's stdout and stdin.
func ConnectChild(child interface {
	TakeStdin() (io.WriteCloser, bool)
	TakeStdout() (io.ReadCloser, bool)
}) (*Stream, bool) {
	stdout, ok := child.TakeStdout()
	if !ok {
		return nil, false
	}
	stdin, ok := child.TakeStdin()
	if !ok {
		_ = stdout.Close()
		return nil, false
	}
	return New(stdout, stdin), true
}

func (s *Stream) SetLimits(l codec.Limits) {
	if l.MaxElements > 0 {
		s.limits = l
	}
}

func (s *Stream) Read(p []byte) (int, error) { return s.r.Read(p) }
func (s *Stream) Write(p []byte) (int, error) { return s.w.Write(p) }
func (s *Stream) Flush() error { return s.w.Flush() }
func (s *Stream) Peek(n int) ([]byte, error) { return s.r.Peek(n) }
func (s *Stream) Discard(n int) (int, error) { return s.r.Discard(n) }

// Close flushes buffered output and closes the underlying endpoints.
func (s *Stream) Close() error {
	errs := []error{s.w.Flush()}
	for _, c := range s.closers {
		errs = append(errs, c.Close())
	}
	s.closers = nil
	return errors.Join(errs...)
}

func (s *Stream) readFull(p []byte) error {
	if _, err := io.ReadFull(s.r, p); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return protocol.ErrUnexpectedEOF
		}
		return err
	}
	return nil
}

func (s *Stream) writeAll(p []byte) error {
	n, err := s.w.Write(p)
	if err != nil {
		return err
	}
	if n < len(p) {
		return protocol.ErrWriteZero
	}
	return nil
}

func sizeOf[T codec.Fixed]() int {
	var zero T
	return int(unsafe.Sizeof(zero))
}

// Write encodes v in the given byte order.
func Write[T codec.Fixed](s *Stream, order binary.ByteOrder, v T) error {
	var buf [8]byte
	n := sizeOf[T]()
	switch n {
	case 1:
		buf[0] = byte(v)
	case 2:
		order.PutUint16(buf[:2], uint16(v))
	case 4:
		order.PutUint32(buf[:4], uint32(v))
	default:
		order.PutUint64(buf[:8], uint64(v))
	}
	return s.writeAll(buf[:n])
}

// Read decodes a T in the given byte order.
func Read[T codec.Fixed](s *Stream, order binary.ByteOrder) (T, error) {
	var buf [8]byte
	n := sizeOf[T]()
	if err := s.readFull(buf[:n]); err != nil {
		return 0, err
	}
	switch n {
	case 1:
		return T(buf[0]), nil
	case 2:
		return T(order.Uint16(buf[:2])), nil
	case 4:
		return T(order.Uint32(buf[:4])), nil
	default:
		return T(order.Uint64(buf[:8])), nil
	}
}

func WriteFloat32(s *Stream, order binary.ByteOrder, v float32) error {
	return Write(s, order, math.Float32bits(v))
}

func WriteFloat64(s *Stream, order binary.ByteOrder, v float64) error {
	return Write(s, order, math.Float64bits(v))
}

func ReadFloat32(s *Stream, order binary.ByteOrder) (float32, error) {
	b, err := Read[uint32](s, order)
	return math.Float32frombits(b), err
}

func ReadFloat64(s *Stream, order binary.ByteOrder) (float64, error) {
	b, err := Read[uint64](s, order)
	return math.Float64frombits(b), err
}

// WriteBytes writes a native-order length prefix followed by p.
func (s *Stream) WriteBytes(p []byte) error {
	if err := Write(s, binary.NativeEndian, uint(len(p))); err != nil {
		return err
	}
	return s.writeAll(p)
}

func (s *Stream) WriteString(v string) error {
	if err := Write(s, binary.NativeEndian, uint(len(v))); err != nil {
		return err
	}
	_, err := s.w.WriteString(v)
	return err
}

func (s *Stream) ReadBytes() ([]byte, error) {
	n, err := Read[uint](s, binary.NativeEndian)
	if err != nil {
		return nil, err
	}
	if uint64(n) > s.limits.MaxElements {
		return nil, protocol.Invalidf("declared length %d exceeds limit %d", n, s.limits.MaxElements)
	}
	buf := make([]byte, n)
	if err := s.readFull(buf); err != nil {
		return nil, err
	}
	return buf, nil
}

func (s *Stream) ReadString() (string, error) {
	b, err := s.ReadBytes()
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", protocol.Invalidf("string payload of %d bytes is not valid UTF-8", len(b))
	}
	return string(b), nil
}
