package types

// ErrorCode classifies interpreter failures. The numeric value of each code
// is the process exit status reported for it.
type ErrorCode int

// Error codes - values follow the IPPcode24 return code table
const (
	E_NONE        ErrorCode = 0
	E_PARAM       ErrorCode = 10
	E_INFILE      ErrorCode = 11
	E_OUTFILE     ErrorCode = 12
	E_XMLFORMAT   ErrorCode = 31
	E_STRUCT      ErrorCode = 32
	E_SEMANTIC    ErrorCode = 52
	E_OPTYPE      ErrorCode = 53
	E_VARACCESS   ErrorCode = 54
	E_FRAMEACCESS ErrorCode = 55
	E_VALUE       ErrorCode = 56
	E_OPVALUE     ErrorCode = 57
	E_STRING      ErrorCode = 58
	E_INTERNAL    ErrorCode = 88
)

// String returns the symbolic name for an error code
func (e ErrorCode) String() string {
	switch e {
	case E_NONE:
		return "E_NONE"
	case E_PARAM:
		return "E_PARAM"
	case E_INFILE:
		return "E_INFILE"
	case E_OUTFILE:
		return "E_OUTFILE"
	case E_XMLFORMAT:
		return "E_XMLFORMAT"
	case E_STRUCT:
		return "E_STRUCT"
	case E_SEMANTIC:
		return "E_SEMANTIC"
	case E_OPTYPE:
		return "E_OPTYPE"
	case E_VARACCESS:
		return "E_VARACCESS"
	case E_FRAMEACCESS:
		return "E_FRAMEACCESS"
	case E_VALUE:
		return "E_VALUE"
	case E_OPVALUE:
		return "E_OPVALUE"
	case E_STRING:
		return "E_STRING"
	case E_INTERNAL:
		return "E_INTERNAL"
	default:
		return "E_UNKNOWN"
	}
}

// Message returns a human-readable message for an error code
func (e ErrorCode) Message() string {
	switch e {
	case E_NONE:
		return "No error"
	case E_PARAM:
		return "Invalid parameters"
	case E_INFILE:
		return "Cannot open input file"
	case E_OUTFILE:
		return "Cannot open output file"
	case E_XMLFORMAT:
		return "Malformed XML"
	case E_STRUCT:
		return "Invalid source structure"
	case E_SEMANTIC:
		return "Semantic error"
	case E_OPTYPE:
		return "Wrong operand type"
	case E_VARACCESS:
		return "Variable does not exist"
	case E_FRAMEACCESS:
		return "Frame does not exist"
	case E_VALUE:
		return "Missing value"
	case E_OPVALUE:
		return "Wrong operand value"
	case E_STRING:
		return "Invalid string operation"
	case E_INTERNAL:
		return "Internal error"
	default:
		return "Unknown error"
	}
}

// ExitCode returns the process exit status for the error code
func (e ErrorCode) ExitCode() int {
	return int(e)
}

// ErrorFromString converts a string like "E_OPTYPE" to an ErrorCode
func ErrorFromString(s string) (ErrorCode, bool) {
	switch s {
	case "E_NONE":
		return E_NONE, true
	case "E_PARAM":
		return E_PARAM, true
	case "E_INFILE":
		return E_INFILE, true
	case "E_OUTFILE":
		return E_OUTFILE, true
	case "E_XMLFORMAT":
		return E_XMLFORMAT, true
	case "E_STRUCT":
		return E_STRUCT, true
	case "E_SEMANTIC":
		return E_SEMANTIC, true
	case "E_OPTYPE":
		return E_OPTYPE, true
	case "E_VARACCESS":
		return E_VARACCESS, true
	case "E_FRAMEACCESS":
		return E_FRAMEACCESS, true
	case "E_VALUE":
		return E_VALUE, true
	case "E_OPVALUE":
		return E_OPVALUE, true
	case "E_STRING":
		return E_STRING, true
	case "E_INTERNAL":
		return E_INTERNAL, true
	default:
		return E_NONE, false
	}
}

// Value is the interface all runtime values implement
type Value interface {
	Type() TypeCode
	String() string   // Text emitted by WRITE/DPRINT
	Equal(Value) bool // Same type and same contents
}
