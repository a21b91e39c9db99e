package jmtlogger

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/davecgh/go-spew/spew"

	"github.com/JDW2018/JMTLogger/sanitizer"
)

// Template tokens understood by the text formatter.
const (
	segLiteral = iota
	segTime
	segName
	segLevel
	segPID
	segGID
	segSource
	segMessage
)

type segment struct {
	kind    int
	literal string
}

var tokenKinds = map[string]int{
	"time":    segTime,
	"name":    segName,
	"level":   segLevel,
	"pid":     segPID,
	"gid":     segGID,
	"source":  segSource,
	"message": segMessage,
}

// compileTemplate splits a template like
// "{time} - {name} - {level} - {message}" into segments. Unknown
// tokens are kept as literals.
func compileTemplate(template string) []segment {
	var segs []segment
	for len(template) > 0 {
		open := strings.IndexByte(template, '{')
		if open < 0 {
			segs = append(segs, segment{kind: segLiteral, literal: template})
			break
		}
		closing := strings.IndexByte(template[open:], '}')
		if closing < 0 {
			segs = append(segs, segment{kind: segLiteral, literal: template})
			break
		}
		if open > 0 {
			segs = append(segs, segment{kind: segLiteral, literal: template[:open]})
		}
		token := template[open+1 : open+closing]
		if kind, ok := tokenKinds[token]; ok {
			segs = append(segs, segment{kind: kind})
		} else {
			segs = append(segs, segment{kind: segLiteral, literal: template[open : open+closing+1]})
		}
		template = template[open+closing+1:]
	}
	return segs
}

// formatter renders Records into output lines. One instance per sink,
// owned by the dispatcher goroutine; the internal buffer is reused
// across renders.
type formatter struct {
	segments []segment
	json     bool
	tsFormat string
	san      *sanitizer.Sanitizer
	buf      []byte
}

// newTextFormatter builds a template-driven plain-text formatter.
// Control characters in messages and attributes are hex-encoded so one
// record always occupies one line (captured stacks excepted).
func newTextFormatter(template, tsFormat string) *formatter {
	return &formatter{
		segments: compileTemplate(template),
		tsFormat: tsFormat,
		san:      sanitizer.New(sanitizer.HexEncode),
		buf:      make([]byte, 0, 1024),
	}
}

// newJSONFormatter builds a formatter emitting one JSON object per
// record. Escaping happens inline, no sanitizer pass needed.
func newJSONFormatter(tsFormat string) *formatter {
	return &formatter{
		json:     true,
		tsFormat: tsFormat,
		buf:      make([]byte, 0, 1024),
	}
}

// render produces the output line for rec, without a trailing newline.
// The returned slice is valid until the next render call.
func (f *formatter) render(rec *Record) []byte {
	f.buf = f.buf[:0]
	if f.json {
		return f.renderJSON(rec)
	}
	return f.renderText(rec)
}

func (f *formatter) renderText(rec *Record) []byte {
	for _, seg := range f.segments {
		switch seg.kind {
		case segLiteral:
			f.buf = append(f.buf, seg.literal...)
		case segTime:
			f.buf = rec.Time.AppendFormat(f.buf, f.tsFormat)
		case segName:
			f.buf = append(f.buf, rec.Name...)
		case segLevel:
			f.buf = append(f.buf, LevelName(rec.Level)...)
		case segPID:
			f.buf = strconv.AppendInt(f.buf, int64(rec.PID), 10)
		case segGID:
			f.buf = strconv.AppendUint(f.buf, rec.GID, 10)
		case segSource:
			f.buf = append(f.buf, rec.Source...)
		case segMessage:
			f.writeMessage(rec)
		}
	}

	if len(rec.Stack) > 0 {
		f.buf = append(f.buf, '\n')
		f.buf = append(f.buf, bytes.TrimRight(rec.Stack, "\n")...)
	}
	return f.buf
}

// writeMessage appends the sanitized message followed by the record's
// attributes and error, if any.
func (f *formatter) writeMessage(rec *Record) {
	f.buf = append(f.buf, f.san.Sanitize(rec.Message)...)

	if pairwise(rec.Attrs) {
		for i := 0; i+1 < len(rec.Attrs); i += 2 {
			f.buf = append(f.buf, ' ')
			f.buf = append(f.buf, rec.Attrs[i].(string)...)
			f.buf = append(f.buf, '=')
			f.writeTextValue(rec.Attrs[i+1])
		}
	} else {
		for _, attr := range rec.Attrs {
			f.buf = append(f.buf, ' ')
			f.writeTextValue(attr)
		}
	}

	if rec.Err != nil {
		f.buf = append(f.buf, " error="...)
		f.writeTextValue(rec.Err)
	}
}

// pairwise reports whether attrs can be rendered as key=value pairs.
func pairwise(attrs []any) bool {
	if len(attrs) == 0 || len(attrs)%2 != 0 {
		return false
	}
	for i := 0; i < len(attrs); i += 2 {
		if _, ok := attrs[i].(string); !ok {
			return false
		}
	}
	return true
}

// writeTextValue converts any value to its text representation.
func (f *formatter) writeTextValue(v any) {
	switch val := v.(type) {
	case string:
		f.writeQuotable(f.san.Sanitize(val))
	case int:
		f.buf = strconv.AppendInt(f.buf, int64(val), 10)
	case int64:
		f.buf = strconv.AppendInt(f.buf, val, 10)
	case uint:
		f.buf = strconv.AppendUint(f.buf, uint64(val), 10)
	case uint64:
		f.buf = strconv.AppendUint(f.buf, val, 10)
	case float32:
		f.buf = strconv.AppendFloat(f.buf, float64(val), 'f', -1, 32)
	case float64:
		f.buf = strconv.AppendFloat(f.buf, val, 'f', -1, 64)
	case bool:
		f.buf = strconv.AppendBool(f.buf, val)
	case nil:
		f.buf = append(f.buf, "nil"...)
	case time.Time:
		f.buf = val.AppendFormat(f.buf, f.tsFormat)
	case error:
		f.writeQuotable(f.san.Sanitize(val.Error()))
	case fmt.Stringer:
		f.writeQuotable(f.san.Sanitize(val.String()))
	default:
		// Structs, maps, pointers: delegate to spew for a compact,
		// deterministic dump.
		var b bytes.Buffer
		dumper := &spew.ConfigState{
			Indent:                  " ",
			MaxDepth:                10,
			DisablePointerAddresses: true,
			DisableCapacities:       true,
			SortKeys:                true,
		}
		dumper.Fdump(&b, val)
		f.writeQuotable(f.san.Sanitize(string(bytes.TrimSpace(b.Bytes()))))
	}
}

// writeQuotable quotes values containing spaces so attribute pairs
// stay unambiguous.
func (f *formatter) writeQuotable(s string) {
	if len(s) == 0 || strings.ContainsRune(s, ' ') {
		f.buf = append(f.buf, '"')
		for i := 0; i < len(s); i++ {
			if s[i] == '"' || s[i] == '\\' {
				f.buf = append(f.buf, '\\')
			}
			f.buf = append(f.buf, s[i])
		}
		f.buf = append(f.buf, '"')
		return
	}
	f.buf = append(f.buf, s...)
}

func (f *formatter) renderJSON(rec *Record) []byte {
	f.buf = append(f.buf, `{"time":"`...)
	f.buf = rec.Time.AppendFormat(f.buf, f.tsFormat)
	f.buf = append(f.buf, `","logger":"`...)
	f.writeJSONString(rec.Name)
	f.buf = append(f.buf, `","level":"`...)
	f.buf = append(f.buf, LevelName(rec.Level)...)
	f.buf = append(f.buf, `","pid":`...)
	f.buf = strconv.AppendInt(f.buf, int64(rec.PID), 10)
	f.buf = append(f.buf, `,"gid":`...)
	f.buf = strconv.AppendUint(f.buf, rec.GID, 10)

	if rec.Source != "" {
		f.buf = append(f.buf, `,"source":"`...)
		f.writeJSONString(rec.Source)
		f.buf = append(f.buf, '"')
	}

	f.buf = append(f.buf, `,"message":"`...)
	f.writeJSONString(rec.Message)
	f.buf = append(f.buf, '"')

	if len(rec.Attrs) > 0 {
		f.buf = append(f.buf, `,"attrs":[`...)
		for i, attr := range rec.Attrs {
			if i > 0 {
				f.buf = append(f.buf, ',')
			}
			f.writeJSONValue(attr)
		}
		f.buf = append(f.buf, ']')
	}

	if rec.Err != nil {
		f.buf = append(f.buf, `,"error":"`...)
		f.writeJSONString(rec.Err.Error())
		f.buf = append(f.buf, '"')
	}

	if len(rec.Stack) > 0 {
		f.buf = append(f.buf, `,"stack":"`...)
		f.writeJSONString(string(rec.Stack))
		f.buf = append(f.buf, '"')
	}

	f.buf = append(f.buf, '}')
	return f.buf
}

// writeJSONValue converts any value to its JSON representation.
func (f *formatter) writeJSONValue(v any) {
	switch val := v.(type) {
	case string:
		f.buf = append(f.buf, '"')
		f.writeJSONString(val)
		f.buf = append(f.buf, '"')
	case int:
		f.buf = strconv.AppendInt(f.buf, int64(val), 10)
	case int64:
		f.buf = strconv.AppendInt(f.buf, val, 10)
	case uint:
		f.buf = strconv.AppendUint(f.buf, uint64(val), 10)
	case uint64:
		f.buf = strconv.AppendUint(f.buf, val, 10)
	case float32:
		f.buf = strconv.AppendFloat(f.buf, float64(val), 'f', -1, 32)
	case float64:
		f.buf = strconv.AppendFloat(f.buf, val, 'f', -1, 64)
	case bool:
		f.buf = strconv.AppendBool(f.buf, val)
	case nil:
		f.buf = append(f.buf, "null"...)
	case time.Time:
		f.buf = append(f.buf, '"')
		f.buf = val.AppendFormat(f.buf, f.tsFormat)
		f.buf = append(f.buf, '"')
	case error:
		f.buf = append(f.buf, '"')
		f.writeJSONString(val.Error())
		f.buf = append(f.buf, '"')
	case fmt.Stringer:
		f.buf = append(f.buf, '"')
		f.writeJSONString(val.String())
		f.buf = append(f.buf, '"')
	default:
		f.buf = append(f.buf, '"')
		f.writeJSONString(fmt.Sprintf("%+v", val))
		f.buf = append(f.buf, '"')
	}
}

const hexChars = "0123456789abcdef"

// writeJSONString appends a string to the buffer, escaping JSON
// special characters.
func (f *formatter) writeJSONString(str string) {
	lenStr := len(str)
	for i := 0; i < lenStr; {
		if c := str[i]; c < ' ' || c == '"' || c == '\\' {
			switch c {
			case '\\', '"':
				f.buf = append(f.buf, '\\', c)
			case '\n':
				f.buf = append(f.buf, '\\', 'n')
			case '\r':
				f.buf = append(f.buf, '\\', 'r')
			case '\t':
				f.buf = append(f.buf, '\\', 't')
			case '\b':
				f.buf = append(f.buf, '\\', 'b')
			case '\f':
				f.buf = append(f.buf, '\\', 'f')
			default:
				f.buf = append(f.buf, `\u00`...)
				f.buf = append(f.buf, hexChars[c>>4], hexChars[c&0xF])
			}
			i++
		} else {
			start := i
			for i < lenStr && str[i] >= ' ' && str[i] != '"' && str[i] != '\\' {
				i++
			}
			f.buf = append(f.buf, str[start:i]...)
		}
	}
}
