// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package ast

import (
	"fmt"
	"io"
	"strings"
)

// A Formatter carries the settings for pretty-printing JSON values.
//
// Each element of a non-empty object or array is written on its own line,
// indented by Indent spaces per nesting level. Empty containers are written
// as {} and []. Object members are separated from their values by ": ".
// The output has no trailing whitespace and no final newline.
type Formatter struct {
	Indent int // spaces per nesting level; negative values are treated as 0
}

// Format renders a pretty-printed representation of v to w using the settings
// from f.
func (f Formatter) Format(w io.Writer, v Value) error {
	_, err := io.WriteString(w, f.FormatString(v))
	return err
}

// FormatString returns a pretty-printed representation of v using the
// settings from f.
func (f Formatter) FormatString(v Value) string {
	var sb strings.Builder
	f.formatValue(&sb, v, "")
	return sb.String()
}

func (f Formatter) indent() string { return strings.Repeat(" ", max(f.Indent, 0)) }

// formatValue writes a representation of v to sb, where indent is the
// indentation of the line on which v begins.
func (f Formatter) formatValue(sb *strings.Builder, v Value, indent string) {
	switch t := v.(type) {
	case Array:
		if len(t) == 0 {
			sb.WriteString("[]")
			return
		}
		sb.WriteString("[\n")
		adent := indent + f.indent()
		for i, elt := range t {
			if i > 0 {
				sb.WriteString(",\n")
			}
			sb.WriteString(adent)
			f.formatValue(sb, elt, adent)
		}
		sb.WriteString("\n")
		sb.WriteString(indent)
		sb.WriteString("]")

	case Object:
		if len(t) == 0 {
			sb.WriteString("{}")
			return
		}
		sb.WriteString("{\n")
		mdent := indent + f.indent()
		for i, m := range t {
			if i > 0 {
				sb.WriteString(",\n")
			}
			sb.WriteString(mdent)
			sb.WriteString(m.Key.JSON())
			sb.WriteString(": ")
			f.formatValue(sb, m.Value, mdent)
		}
		sb.WriteString("\n")
		sb.WriteString(indent)
		sb.WriteString("}")

	case Null, Bool, Number, String:
		sb.WriteString(t.JSON())

	default:
		panic(fmt.Sprintf("unknown value type %T", v))
	}
}
