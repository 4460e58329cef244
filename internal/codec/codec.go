// Package codec parses, validates and pretty-prints scene JSON with positioned syntax errors.
package codec

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
)

// DefaultIndent matches the indentation the engine uses when it saves scenes.
const DefaultIndent = "    "

// SyntaxError is a JSON syntax error with a human readable position.
// Line and Column are 1-based; Column counts bytes.
type SyntaxError struct {
	Msg    string
	Offset int64
	Line   int
	Column int
	Source string // offending line without its newline
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("line %d column %d: %s", e.Line, e.Column, e.Msg)
}

// Snippet returns the offending line followed by a caret under the failing column.
func (e *SyntaxError) Snippet() string {
	col := max(e.Column-1, 0)
	pad := make([]byte, 0, col)
	for i := 0; i < col && i < len(e.Source); i++ {
		if e.Source[i] == '\t' {
			pad = append(pad, '\t')
		} else {
			pad = append(pad, ' ')
		}
	}
	return e.Source + "\n" + string(pad) + "^"
}

// Parse strictly parses text into generic structured data.
func Parse(text []byte) (any, error) {
	var v any
	if err := json.Unmarshal(text, &v); err != nil {
		return nil, diagnose(text, err)
	}
	return v, nil
}

// Validate reports whether text is syntactically valid JSON, with a positioned error if not.
func Validate(text []byte) error {
	if json.Valid(text) {
		return nil
	}
	_, err := Parse(text)
	if err == nil {
		// Valid and Unmarshal disagree; report at the start of the document.
		return &SyntaxError{Msg: "invalid JSON", Line: 1, Column: 1, Source: firstLine(text)}
	}
	return err
}

// Format validates text and re-indents it, keeping key order. The result ends with a newline.
func Format(text []byte, indent string) ([]byte, error) {
	if err := Validate(text); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, bytes.TrimSpace(text), "", indent); err != nil {
		return nil, diagnose(text, err)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// Marshal serialises v with the given indent. The result ends with a newline.
func Marshal(v any, indent string) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", indent)
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// diagnose turns a decoder error into a SyntaxError.
// Rendered templates often carry CRLF line endings and a BOM from the editor, so the text is
// normalised and parsed once more to get an offset that matches the lines a reader sees.
func diagnose(text []byte, err error) error {
	var se *json.SyntaxError
	if !errors.As(err, &se) {
		return err
	}
	normalized := normalize(text)
	offset := se.Offset
	msg := se.Error()
	var v any
	if err2 := json.Unmarshal(normalized, &v); err2 != nil {
		var se2 *json.SyntaxError
		if errors.As(err2, &se2) {
			offset = se2.Offset
			msg = se2.Error()
		}
	} else {
		normalized = text
	}
	line, col, src := locate(normalized, offset, msg)
	return &SyntaxError{
		Msg:    strings.TrimPrefix(msg, "json: "),
		Offset: offset,
		Line:   line,
		Column: col,
		Source: src,
	}
}

func normalize(text []byte) []byte {
	text = bytes.TrimPrefix(text, []byte("\xef\xbb\xbf"))
	return bytes.ReplaceAll(text, []byte("\r\n"), []byte("\n"))
}

// locate converts a decoder offset into line, column and the text of that line.
// The offset is the index of the failing byte, except for trailing data after the document,
// where the decoder reports one past it.
func locate(text []byte, offset int64, msg string) (line, col int, src string) {
	pos := int(offset)
	if strings.Contains(msg, "after top-level value") {
		pos--
	}
	pos = min(max(pos, 0), max(len(text)-1, 0))
	line = 1 + bytes.Count(text[:pos], []byte("\n"))
	start := bytes.LastIndexByte(text[:pos], '\n') + 1
	end := bytes.IndexByte(text[start:], '\n')
	if end < 0 {
		end = len(text)
	} else {
		end += start
	}
	return line, pos - start + 1, strings.TrimSuffix(string(text[start:end]), "\r")
}

func firstLine(text []byte) string {
	if i := bytes.IndexByte(text, '\n'); i >= 0 {
		return string(text[:i])
	}
	return string(text)
}
