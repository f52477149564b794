package common

// Field selects which of the two vector fields a record contributes to.
type Field uint8

const (
	FieldE Field = iota
	FieldB
)

func (f Field) Toggle() Field {
	if f == FieldE {
		return FieldB
	}
	return FieldE
}

func (f Field) String() string {
	switch f {
	case FieldE:
		return "E"
	case FieldB:
		return "B"
	}
	return "unknown"
}
