// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

// Package escape handles quoting and unquoting of JSON strings.
package escape

import (
	"errors"
	"unicode/utf8"

	"go4.org/mem"
)

var controlEsc = [...]byte{
	'\b': 'b',
	'\f': 'f',
	'\n': 'n',
	'\r': 'r',
	'\t': 't',
	' ':  ' ', // sentinel
}

const hexDigit = "0123456789abcdef"

// Quote encodes src for inclusion in a JSON string. The result does not
// include the enclosing double quotation marks.
func Quote(src mem.RO) []byte {
	buf := make([]byte, 0, src.Len())
	for src.Len() != 0 {
		r, n := mem.DecodeRune(src)
		src = src.SliceFrom(n)

		switch {
		case r < ' ':
			if b := controlEsc[r]; b != 0 {
				buf = append(buf, '\\', b)
			} else {
				buf = append(buf, '\\', 'u', '0', '0', hexDigit[r>>4], hexDigit[r&15])
			}
		case r == '\\' || r == '"':
			buf = append(buf, '\\', byte(r))
		case r < utf8.RuneSelf:
			buf = append(buf, byte(r))
		case r == utf8.RuneError, r == '\u2028', r == '\u2029':
			buf = append(buf, '\\', 'u',
				hexDigit[(r>>12)&15], hexDigit[(r>>8)&15], hexDigit[(r>>4)&15], hexDigit[r&15])
		default:
			buf = utf8.AppendRune(buf, r)
		}
	}
	return buf
}

// Unquote decodes the JSON encoding of a string. The input must have the
// enclosing double quotation marks already removed.
//
// Escape sequences are replaced with their unescaped equivalents. Invalid
// escapes are replaced by the Unicode replacement rune. Unquote reports an
// error for an incomplete escape sequence.
func Unquote(src mem.RO) ([]byte, error) {
	i := mem.IndexByte(src, '\\')
	if i < 0 {
		return mem.Append(nil, src), nil
	}

	dec := make([]byte, 0, src.Len())
	for i >= 0 {
		dec = mem.Append(dec, src.SliceTo(i))
		src = src.SliceFrom(i + 1)
		if src.Len() == 0 {
			return nil, errors.New("incomplete escape sequence")
		}

		r, n := mem.DecodeRune(src)
		src = src.SliceFrom(max(n, 1))
		switch r {
		case '"', '\\', '/':
			dec = append(dec, byte(r))
		case 'b':
			dec = append(dec, '\b')
		case 'f':
			dec = append(dec, '\f')
		case 'n':
			dec = append(dec, '\n')
		case 'r':
			dec = append(dec, '\r')
		case 't':
			dec = append(dec, '\t')
		case 'u':
			if src.Len() < 4 {
				return nil, errors.New("incomplete Unicode escape")
			}
			v, ok := parseHex4(src.SliceTo(4))
			src = src.SliceFrom(4)
			if !ok {
				v = utf8.RuneError
			} else if utf16IsHigh(v) && hasLowSurrogate(src) {
				lo, _ := parseHex4(src.Slice(2, 6))
				v = combineSurrogates(v, lo)
				src = src.SliceFrom(6)
			}
			dec = utf8.AppendRune(dec, v)
		default:
			dec = utf8.AppendRune(dec, utf8.RuneError)
		}
		i = mem.IndexByte(src, '\\')
	}
	return mem.Append(dec, src), nil
}

func parseHex4(data mem.RO) (rune, bool) {
	var v rune
	for i := 0; i < data.Len(); i++ {
		b := data.At(i)
		v <<= 4
		switch {
		case '0' <= b && b <= '9':
			v += rune(b - '0')
		case 'a' <= b && b <= 'f':
			v += rune(b - 'a' + 10)
		case 'A' <= b && b <= 'F':
			v += rune(b - 'A' + 10)
		default:
			return 0, false
		}
	}
	return v, true
}

func utf16IsHigh(r rune) bool { return 0xd800 <= r && r < 0xdc00 }

// hasLowSurrogate reports whether src begins with a \u escape for a UTF-16
// low surrogate.
func hasLowSurrogate(src mem.RO) bool {
	if src.Len() < 6 || src.At(0) != '\\' || src.At(1) != 'u' {
		return false
	}
	lo, ok := parseHex4(src.Slice(2, 6))
	return ok && 0xdc00 <= lo && lo < 0xe000
}

func combineSurrogates(hi, lo rune) rune {
	return ((hi - 0xd800) << 10) + (lo - 0xdc00) + 0x10000
}
