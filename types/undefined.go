package types

// UndefinedValue marks a declared-but-never-assigned variable slot.
// Instructions reading it fail with E_VALUE; only TYPE observes it.
type UndefinedValue struct{}

// Undefined is the shared marker for unassigned slots
var Undefined = UndefinedValue{}

func (v UndefinedValue) Type() TypeCode {
	return TYPE_UNDEF
}

func (v UndefinedValue) String() string {
	return "<undefined>"
}

func (v UndefinedValue) Equal(other Value) bool {
	_, ok := other.(UndefinedValue)
	return ok
}

// IsUndefined reports whether v is missing or the undefined marker
func IsUndefined(v Value) bool {
	if v == nil {
		return true
	}
	_, ok := v.(UndefinedValue)
	return ok
}
