package akn

import (
	"bytes"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// SyntaxError reports a well-formedness violation found while serializing:
// an illegal element or attribute name, or a character XML 1.0 forbids.
// The batch layer maps it to its own terminal status.
type SyntaxError struct {
	Path string
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("xml syntax error at %s: %s", e.Path, e.Msg)
}

const (
	xmlDeclaration = "<?xml version='1.0' encoding='UTF-8'?>\n"
	indentUnit     = "  "
)

// Serialize renders the tree as UTF-8 with a declaration and stable
// pretty-printed indentation. Identical input yields byte-identical output.
// After rendering, every escaped ">" is restored to its literal form; the
// downstream consumers have relied on that shape for years.
func Serialize(root *Element) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(xmlDeclaration)
	if err := writeElement(&buf, root, 0, "/"+root.Name); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')

	out := bytes.ReplaceAll(buf.Bytes(), []byte("&gt;"), []byte(">"))
	return out, nil
}

func writeElement(buf *bytes.Buffer, e *Element, depth int, path string) error {
	if err := checkName(e.Name, path); err != nil {
		return err
	}
	indent := strings.Repeat(indentUnit, depth)
	buf.WriteString(indent)
	buf.WriteByte('<')
	buf.WriteString(e.Name)
	for _, a := range e.Attrs {
		if err := checkName(a.Name, path); err != nil {
			return err
		}
		if err := checkChars(a.Value, path); err != nil {
			return err
		}
		fmt.Fprintf(buf, ` %s="%s"`, a.Name, escapeAttr(a.Value))
	}

	if len(e.Nodes) == 0 {
		buf.WriteString("/>\n")
		return nil
	}

	if hasText(e) {
		// mixed or text content renders inline, lxml-style
		buf.WriteByte('>')
		if err := writeInline(buf, e, path); err != nil {
			return err
		}
		fmt.Fprintf(buf, "</%s>\n", e.Name)
		return nil
	}

	buf.WriteString(">\n")
	for _, n := range e.Nodes {
		child := n.(*Element)
		if err := writeElement(buf, child, depth+1, path+"/"+child.Name); err != nil {
			return err
		}
	}
	buf.WriteString(indent)
	fmt.Fprintf(buf, "</%s>\n", e.Name)
	return nil
}

func writeInline(buf *bytes.Buffer, e *Element, path string) error {
	for _, n := range e.Nodes {
		switch v := n.(type) {
		case Text:
			if err := checkChars(string(v), path); err != nil {
				return err
			}
			buf.WriteString(escapeText(string(v)))
		case *Element:
			childPath := path + "/" + v.Name
			if err := checkName(v.Name, childPath); err != nil {
				return err
			}
			buf.WriteByte('<')
			buf.WriteString(v.Name)
			for _, a := range v.Attrs {
				if err := checkName(a.Name, childPath); err != nil {
					return err
				}
				if err := checkChars(a.Value, childPath); err != nil {
					return err
				}
				fmt.Fprintf(buf, ` %s="%s"`, a.Name, escapeAttr(a.Value))
			}
			if len(v.Nodes) == 0 {
				buf.WriteString("/>")
				continue
			}
			buf.WriteByte('>')
			if err := writeInline(buf, v, childPath); err != nil {
				return err
			}
			fmt.Fprintf(buf, "</%s>", v.Name)
		}
	}
	return nil
}

func hasText(e *Element) bool {
	for _, n := range e.Nodes {
		if _, ok := n.(Text); ok {
			return true
		}
	}
	return false
}

var textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

var attrEscaper = strings.NewReplacer(
	"&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;", "\n", "&#10;")

func escapeText(s string) string { return textEscaper.Replace(s) }
func escapeAttr(s string) string { return attrEscaper.Replace(s) }

func checkName(name, path string) error {
	if name == "" {
		return &SyntaxError{Path: path, Msg: "empty name"}
	}
	for i, r := range name {
		if r == utf8.RuneError {
			return &SyntaxError{Path: path, Msg: "invalid UTF-8 in name"}
		}
		if unicode.IsLetter(r) || r == '_' {
			continue
		}
		if i > 0 && (unicode.IsDigit(r) || r == '-' || r == '.' || r == ':') {
			continue
		}
		return &SyntaxError{Path: path, Msg: fmt.Sprintf("illegal name %q", name)}
	}
	return nil
}

// checkChars rejects characters outside the XML 1.0 Char production; those
// come from broken source encodings and would make the artifact unparseable.
func checkChars(s string, path string) error {
	for _, r := range s {
		if r == utf8.RuneError {
			return &SyntaxError{Path: path, Msg: "invalid UTF-8 in content"}
		}
		if r == '\t' || r == '\n' || r == '\r' {
			continue
		}
		if r < 0x20 || (r >= 0xD800 && r <= 0xDFFF) || r == 0xFFFE || r == 0xFFFF {
			return &SyntaxError{Path: path, Msg: fmt.Sprintf("illegal character U+%04X", r)}
		}
	}
	return nil
}
