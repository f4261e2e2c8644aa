package property

//go:generate go tool stringer -type=Kind -trimprefix=Kind -output=kind_string.go

// Kind identifies which member of the value union a Value holds.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindArray

	// KindTotal is a constant that represents the total number of kinds defined
	KindTotal = int(iota)
)

// IsScalar reports whether values of the kind can be interpolated into text.
func (k Kind) IsScalar() bool {
	switch k {
	default:
		return false
	case KindBool, KindInt, KindFloat, KindString:
		return true
	}
}

// IsNumber reports whether the kind is Int or Float.
func (k Kind) IsNumber() bool {
	return k == KindInt || k == KindFloat
}
