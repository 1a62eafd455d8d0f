package types

import (
	"strconv"
	"strings"
)

// ParseLiteral converts the text of a typed source literal to a Value
func ParseLiteral(t TypeCode, text string) (Value, error) {
	switch t {
	case TYPE_INT:
		n, err := ParseInt(text)
		if err != nil {
			return nil, err
		}
		return NewInt(n), nil
	case TYPE_BOOL:
		switch text {
		case "true":
			return NewBool(true), nil
		case "false":
			return NewBool(false), nil
		}
		return nil, NewError(E_STRUCT, "invalid bool literal %q", text)
	case TYPE_STR:
		return NewStr(DecodeEscapes(text)), nil
	case TYPE_NIL:
		if text != "nil" {
			return nil, NewError(E_STRUCT, "invalid nil literal %q", text)
		}
		return Nil, nil
	default:
		return nil, NewError(E_STRUCT, "invalid literal type %s", t)
	}
}

// ParseInt parses a base-10 integer with an optional sign
func ParseInt(text string) (int64, error) {
	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return 0, NewError(E_STRUCT, "invalid int literal %q", text)
	}
	return n, nil
}

// DecodeEscapes replaces every \ddd sequence (three decimal digits) with the
// character of that code point. Backslashes not followed by three digits are
// kept as-is.
func DecodeEscapes(s string) string {
	if !strings.Contains(s, "\\") {
		return s
	}

	runes := []rune(s)
	var result strings.Builder
	for i := 0; i < len(runes); i++ {
		if runes[i] == '\\' && i+3 < len(runes) && isDigits(runes[i+1:i+4]) {
			code := int(runes[i+1]-'0')*100 + int(runes[i+2]-'0')*10 + int(runes[i+3]-'0')
			result.WriteRune(rune(code))
			i += 3
			continue
		}
		result.WriteRune(runes[i])
	}
	return result.String()
}

func isDigits(rs []rune) bool {
	for _, r := range rs {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
