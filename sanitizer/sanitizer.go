// Package sanitizer neutralizes control characters in log text so a
// hostile or malformed message cannot corrupt a log file or inject
// fake records (e.g. via embedded newlines or ANSI escapes).
package sanitizer

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"unicode/utf8"
)

// Mode selects how non-printable runes are transformed.
type Mode int

const (
	// None passes text through unchanged.
	None Mode = iota
	// HexEncode replaces each non-printable rune with "<XX..>" holding
	// the hex of its UTF-8 bytes. Suitable for plain-text sinks.
	HexEncode
	// Strip removes non-printable runes entirely.
	Strip
	// Escape replaces non-printable runes with JSON-style backslash
	// escapes. Suitable for text embedded in JSON strings.
	Escape
)

// Sanitizer applies one Mode to input strings. Not safe for concurrent
// use; each consumer owns its own instance (the dispatcher is the only
// writer in practice).
type Sanitizer struct {
	mode Mode
	buf  []byte
}

// New creates a Sanitizer for the given mode.
func New(mode Mode) *Sanitizer {
	return &Sanitizer{
		mode: mode,
		buf:  make([]byte, 0, 256),
	}
}

// Sanitize transforms data according to the configured mode. Printable
// runes, including multi-byte UTF-8, pass through untouched.
func (s *Sanitizer) Sanitize(data string) string {
	if s.mode == None {
		return data
	}

	// Fast path: nothing to transform.
	clean := true
	for _, r := range data {
		if !strconv.IsPrint(r) && r != ' ' {
			clean = false
			break
		}
	}
	if clean {
		return data
	}

	s.buf = s.buf[:0]
	for _, r := range data {
		if strconv.IsPrint(r) || r == ' ' {
			s.buf = utf8.AppendRune(s.buf, r)
			continue
		}
		switch s.mode {
		case Strip:
			// dropped
		case HexEncode:
			var runeBytes [utf8.UTFMax]byte
			n := utf8.EncodeRune(runeBytes[:], r)
			s.buf = append(s.buf, '<')
			s.buf = append(s.buf, hex.EncodeToString(runeBytes[:n])...)
			s.buf = append(s.buf, '>')
		case Escape:
			s.buf = appendEscaped(s.buf, r)
		}
	}
	return string(s.buf)
}

func appendEscaped(buf []byte, r rune) []byte {
	switch r {
	case '\n':
		return append(buf, '\\', 'n')
	case '\r':
		return append(buf, '\\', 'r')
	case '\t':
		return append(buf, '\\', 't')
	case '\b':
		return append(buf, '\\', 'b')
	case '\f':
		return append(buf, '\\', 'f')
	}
	if r < 0x20 || r == 0x7f {
		return append(buf, fmt.Sprintf("\\u%04x", r)...)
	}
	return utf8.AppendRune(buf, r)
}
