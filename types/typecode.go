package types

// TypeCode represents the dynamic type tag of a value
type TypeCode int

const (
	TYPE_UNDEF TypeCode = 0
	TYPE_INT   TypeCode = 1
	TYPE_BOOL  TypeCode = 2
	TYPE_STR   TypeCode = 3
	TYPE_NIL   TypeCode = 4
)

// String returns the type name as reported by the TYPE instruction.
// Undefined slots have no type and report the empty string.
func (t TypeCode) String() string {
	switch t {
	case TYPE_UNDEF:
		return ""
	case TYPE_INT:
		return "int"
	case TYPE_BOOL:
		return "bool"
	case TYPE_STR:
		return "string"
	case TYPE_NIL:
		return "nil"
	default:
		return "unknown"
	}
}

// TypeFromString converts a source type name ("int", "bool", "string", "nil")
// to a TypeCode
func TypeFromString(s string) (TypeCode, bool) {
	switch s {
	case "int":
		return TYPE_INT, true
	case "bool":
		return TYPE_BOOL, true
	case "string":
		return TYPE_STR, true
	case "nil":
		return TYPE_NIL, true
	default:
		return TYPE_UNDEF, false
	}
}
