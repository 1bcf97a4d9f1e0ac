package dcerpc

import (
	"testing"

	"github.com/specterops/dcerpc/internal/wire"
)

func TestUCS2ZRoundTrip(t *testing.T) {
	cases := []string{"", "srvsvc", "DC01$", "héllo-wörld", "日本語"}

	for _, s := range cases {
		buf := wire.New(make([]byte, 256))
		c := &Cursor{Buf: buf}

		off := c.EncodeUCS2Z(0, s)
		if off < 0 {
			t.Fatalf("encode(%q) failed", s)
		}

		_, got := c.DecodeUCS2Z(0)
		if got != s {
			t.Errorf("round trip(%q) = %q", s, got)
		}
	}
}

func TestUCS2ZLayoutCountsIncludeTerminator(t *testing.T) {
	buf := wire.New(make([]byte, 64))
	c := &Cursor{Buf: buf, TSyn: NDR32}

	c.EncodeUCS2Z(0, "ab")

	maxCount := buf.GetUint32(0)
	offsetField := buf.GetUint32(4)
	actualCount := buf.GetUint32(8)

	if maxCount != 3 || actualCount != 3 {
		t.Errorf("max_count=%d actual_count=%d, want 3 (2 chars + NUL)", maxCount, actualCount)
	}
	if offsetField != 0 {
		t.Errorf("offset field = %d, want 0", offsetField)
	}
}

type upperConverter struct{}

func (upperConverter) Encode(s string) []uint16 {
	return DefaultUCS2Converter.Encode(s)
}
func (upperConverter) Decode(units []uint16) string {
	return "X:" + DefaultUCS2Converter.Decode(units)
}

func TestCursorHonorsCustomConverter(t *testing.T) {
	buf := wire.New(make([]byte, 64))
	c := &Cursor{Buf: buf, Conv: upperConverter{}}

	c.EncodeUCS2Z(0, "ab")
	_, got := c.DecodeUCS2Z(0)
	if got != "X:ab" {
		t.Errorf("got %q, want %q", got, "X:ab")
	}
}
