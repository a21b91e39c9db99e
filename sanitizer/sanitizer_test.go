package sanitizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeModes(t *testing.T) {
	tests := []struct {
		name  string
		mode  Mode
		input string
		want  string
	}{
		{"none passthrough", None, "with\nnewline", "with\nnewline"},
		{"clean text untouched", HexEncode, "ordinary text 123", "ordinary text 123"},
		{"hex newline", HexEncode, "a\nb", "a<0a>b"},
		{"hex tab", HexEncode, "a\tb", "a<09>b"},
		{"hex ansi escape", HexEncode, "a\x1b[31mred", "a<1b>[31mred"},
		{"hex null", HexEncode, "a\x00b", "a<00>b"},
		{"strip newline", Strip, "a\nb", "ab"},
		{"strip keeps printables", Strip, "keep me", "keep me"},
		{"escape newline", Escape, "a\nb", "a\\nb"},
		{"escape tab", Escape, "a\tb", "a\\tb"},
		{"escape control", Escape, "a\x01b", "a\\u0001b"},
		{"unicode preserved", HexEncode, "héllo wörld", "héllo wörld"},
		{"empty", HexEncode, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(tt.mode)
			assert.Equal(t, tt.want, s.Sanitize(tt.input))
		})
	}
}

func TestSanitizeReuse(t *testing.T) {
	s := New(HexEncode)

	first := s.Sanitize("a\nb")
	second := s.Sanitize("c\td")

	assert.Equal(t, "a<0a>b", first)
	assert.Equal(t, "c<09>d", second)
}

func TestSanitizeMultibyteControl(t *testing.T) {
	// U+2028 LINE SEPARATOR is non-printable and multi-byte.
	s := New(HexEncode)
	assert.Equal(t, "a<e280a8>b", s.Sanitize("a b"))
}
