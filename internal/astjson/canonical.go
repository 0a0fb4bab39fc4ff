package astjson

import (
	"bytes"
	"fmt"

	"golang.org/x/text/unicode/norm"
)

// MarshalCanonical produces a canonical JSON encoding of a serialized
// tree, in the spirit of RFC 8785. This is the only encoding that should
// be used for golden-file comparison and content-stable persistence.
//
// Properties:
//  1. Object keys emitted in sorted order
//  2. No HTML escaping (< > & are NOT escaped)
//  3. Strings are NFC normalized
//  4. No insignificant whitespace
//
// Structurally identical trees therefore marshal to byte-identical
// output across invocations.
func MarshalCanonical(n *Node) ([]byte, error) {
	if n == nil {
		return nil, fmt.Errorf("cannot marshal nil node")
	}
	var buf bytes.Buffer
	if err := marshalNode(&buf, n); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// marshalNode writes one node as an object. Key order is the sorted
// order of the fixed key set: children, expr, type, value.
func marshalNode(buf *bytes.Buffer, n *Node) error {
	buf.WriteByte('{')

	first := true
	field := func(key string) {
		if !first {
			buf.WriteByte(',')
		}
		first = false
		writeCanonicalString(buf, key)
		buf.WriteByte(':')
	}

	if n.Children != nil {
		field("children")
		buf.WriteByte('[')
		for i, child := range n.Children {
			if i > 0 {
				buf.WriteByte(',')
			}
			if child == nil {
				return fmt.Errorf("child %d is nil", i)
			}
			if err := marshalNode(buf, child); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	}

	if n.Expr != nil {
		field("expr")
		if err := marshalNode(buf, n.Expr); err != nil {
			return err
		}
	}

	field("type")
	writeCanonicalString(buf, n.Type)

	field("value")
	if n.Value == nil {
		buf.WriteString("null")
	} else {
		writeCanonicalString(buf, *n.Value)
	}

	buf.WriteByte('}')
	return nil
}

// writeCanonicalString writes a JSON string with NFC normalization and
// the minimal escape set: quote, backslash, and control characters
// below U+0020. HTML-significant characters and U+2028/U+2029 pass
// through literally, unlike encoding/json defaults.
func writeCanonicalString(buf *bytes.Buffer, s string) {
	const hex = "0123456789abcdef"

	buf.WriteByte('"')
	for _, r := range norm.NFC.String(s) {
		switch r {
		case '"':
			buf.WriteString(`\"`)
		case '\\':
			buf.WriteString(`\\`)
		case '\b':
			buf.WriteString(`\b`)
		case '\f':
			buf.WriteString(`\f`)
		case '\n':
			buf.WriteString(`\n`)
		case '\r':
			buf.WriteString(`\r`)
		case '\t':
			buf.WriteString(`\t`)
		default:
			if r < 0x20 {
				buf.WriteString(`\u00`)
				buf.WriteByte(hex[byte(r)>>4])
				buf.WriteByte(hex[byte(r)&0xf])
			} else {
				buf.WriteRune(r)
			}
		}
	}
	buf.WriteByte('"')
}
