package hexconv

import (
	"strings"
	"testing"
)

func benchLocal(b *testing.B, str string) {
	b.SetBytes(int64(len(str)))
	b.ResetTimer()

	for range b.N {
		var result uint64

		for j := range str {
			result = (result << 4) | uint64(Halfbyte[str[j]])
		}
	}
}

func TestHalfbyte(t *testing.T) {
	cases := map[byte]byte{
		'0': 0x0, '9': 0x9,
		'a': 0xa, 'f': 0xf,
		'A': 0xA, 'F': 0xF,
	}

	for c, want := range cases {
		if got := Halfbyte[c]; got != want {
			t.Fatalf("Halfbyte[%q] = %#x, want %#x", c, got, want)
		}
	}

	for _, c := range []byte("gGzZ \t;\"") {
		if Halfbyte[c] != 0xFF {
			t.Fatalf("Halfbyte[%q] should be invalid", c)
		}
	}
}

func BenchmarkParse(b *testing.B) {
	b.Run("short", func(b *testing.B) {
		benchLocal(b, "123456789abcdef")
	})

	b.Run("long", func(b *testing.B) {
		benchLocal(b, strings.Repeat("123456789abcdef", 100))
	})
}
