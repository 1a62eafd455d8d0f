package types

// NilValue is the single value of type nil
type NilValue struct{}

// Nil is the shared nil value
var Nil = NilValue{}

// Type returns the type code for nil
func (n NilValue) Type() TypeCode {
	return TYPE_NIL
}

// String returns the empty string; WRITE prints nothing for nil
func (n NilValue) String() string {
	return ""
}

// Equal reports whether other is also nil
func (n NilValue) Equal(other Value) bool {
	_, ok := other.(NilValue)
	return ok
}
