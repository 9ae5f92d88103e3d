// Package document decodes JSON files and renders them as indented text.
package document

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/chroma/v2/quick"
)

// DefaultIndent is the number of spaces per nesting level.
const DefaultIndent = 2

// Document is one successfully decoded file. It is never modified after
// Decode returns.
type Document struct {
	Name string
	Data any
	Text string
	Size int64
}

// Decode reads r completely and decodes it as a single JSON value. Numbers
// are kept as json.Number so large integers survive. Text is rendered from
// the decoded value, so two bodies with equal Data get equal Text.
func Decode(name string, r io.Reader, indent int) (*Document, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	v, err := parse(raw)
	if err != nil {
		return nil, err
	}

	return &Document{
		Name: name,
		Data: plain(v),
		Text: render(v, indent),
		Size: int64(len(raw)),
	}, nil
}

// Format re-indents a JSON value. Object key order and number literals are
// preserved; a key repeated within one object keeps its first position and
// its last value. Format(Format(x)) == Format(x). An indent of 0 yields
// compact output.
func Format(raw []byte, indent int) (string, error) {
	v, err := parse(raw)
	if err != nil {
		return "", err
	}
	return render(v, indent), nil
}

// object is a decoded JSON object that remembers key order.
type object struct {
	keys   []string
	values map[string]any
}

// parse decodes exactly one JSON value from raw into objects, []any,
// json.Number, string, bool or nil.
func parse(raw []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	if !dec.More() {
		if _, err := dec.Token(); err != nil && err != io.EOF {
			return nil, err
		}
		return nil, fmt.Errorf("empty document")
	}

	v, err := parseValue(dec)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("invalid character after top-level value")
	}
	return v, nil
}

func parseValue(dec *json.Decoder) (any, error) {
	tok, err := next(dec)
	if err != nil {
		return nil, err
	}

	delim, ok := tok.(json.Delim)
	if !ok {
		return tok, nil
	}

	switch delim {
	case '{':
		obj := &object{values: map[string]any{}}
		for dec.More() {
			tok, err := next(dec)
			if err != nil {
				return nil, err
			}
			key, ok := tok.(string)
			if !ok {
				return nil, fmt.Errorf("invalid object key %v", tok)
			}
			v, err := parseValue(dec)
			if err != nil {
				return nil, err
			}
			if _, seen := obj.values[key]; !seen {
				obj.keys = append(obj.keys, key)
			}
			obj.values[key] = v
		}
		if _, err := next(dec); err != nil {
			return nil, err
		}
		return obj, nil

	case '[':
		arr := []any{}
		for dec.More() {
			v, err := parseValue(dec)
			if err != nil {
				return nil, err
			}
			arr = append(arr, v)
		}
		if _, err := next(dec); err != nil {
			return nil, err
		}
		return arr, nil
	}
	return nil, fmt.Errorf("unexpected %q", delim)
}

// next reads a token inside a value, where running out of input is an error.
func next(dec *json.Decoder) (json.Token, error) {
	tok, err := dec.Token()
	if err == io.EOF {
		return nil, io.ErrUnexpectedEOF
	}
	return tok, err
}

// plain converts objects to maps, matching what json.Unmarshal yields.
func plain(v any) any {
	switch v := v.(type) {
	case *object:
		m := make(map[string]any, len(v.keys))
		for _, k := range v.keys {
			m[k] = plain(v.values[k])
		}
		return m
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = plain(e)
		}
		return out
	}
	return v
}

func render(v any, indent int) string {
	var buf bytes.Buffer
	var unit string
	if indent > 0 {
		unit = strings.Repeat(" ", indent)
	}
	write(&buf, v, unit, 0)
	return buf.String()
}

func write(buf *bytes.Buffer, v any, unit string, depth int) {
	newline := func(d int) {
		if unit != "" {
			buf.WriteByte('\n')
			buf.WriteString(strings.Repeat(unit, d))
		}
	}

	switch v := v.(type) {
	case *object:
		if len(v.keys) == 0 {
			buf.WriteString("{}")
			return
		}
		buf.WriteByte('{')
		for i, k := range v.keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			newline(depth + 1)
			writeString(buf, k)
			buf.WriteByte(':')
			if unit != "" {
				buf.WriteByte(' ')
			}
			write(buf, v.values[k], unit, depth+1)
		}
		newline(depth)
		buf.WriteByte('}')

	case []any:
		if len(v) == 0 {
			buf.WriteString("[]")
			return
		}
		buf.WriteByte('[')
		for i, e := range v {
			if i > 0 {
				buf.WriteByte(',')
			}
			newline(depth + 1)
			write(buf, e, unit, depth+1)
		}
		newline(depth)
		buf.WriteByte(']')

	case string:
		writeString(buf, v)
	case json.Number:
		buf.WriteString(v.String())
	case bool:
		if v {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case nil:
		buf.WriteString("null")
	}
}

// writeString quotes s the way encoding/json does, minus HTML escaping.
func writeString(buf *bytes.Buffer, s string) {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(s)
	buf.Write(bytes.TrimSuffix(tmp.Bytes(), []byte("\n")))
}

// Highlight colors formatted JSON for a 256-color terminal using the named
// chroma style.
func Highlight(text, style string) (string, error) {
	var buf bytes.Buffer
	if err := quick.Highlight(&buf, text, "json", "terminal256", style); err != nil {
		return "", err
	}
	return buf.String(), nil
}
