package protocol

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/danmuck/pipewire/internal/testutil/testlog"
)

func TestKindOf(t *testing.T) {
	testlog.Start(t)
	cases := []struct {
		err  error
		want Kind
	}{
		{nil, KindNone},
		{ErrUnexpectedEOF, KindUnexpectedEOF},
		{fmt.Errorf("read header: %w", ErrUnexpectedEOF), KindUnexpectedEOF},
		{Invalidf("tag %d", 9), KindInvalidData},
		{ErrWriteZero, KindWriteZero},
		{ErrBusy, KindMisuse},
		{ErrCompleted, KindMisuse},
		{io.ErrClosedPipe, KindTransport},
		{errors.New("connection reset"), KindTransport},
	}
	for _, tc := range cases {
		if got := KindOf(tc.err); got != tc.want {
			t.Fatalf("KindOf(%v)=%s want %s", tc.err, got, tc.want)
		}
	}
}

func TestInvalidfKeepsDetail(t *testing.T) {
	testlog.Start(t)
	err := Invalidf("discriminator %d", 7)
	if !errors.Is(err, ErrInvalidData) {
		t.Fatalf("Invalidf does not match ErrInvalidData: %v", err)
	}
	if !strings.Contains(err.Error(), "discriminator 7") {
		t.Fatalf("detail lost: %v", err)
	}
	if Kind(99).String() != "kind(99)" {
		t.Fatalf("unexpected fallback name %q", Kind(99))
	}
}
