package model

// Outcome reports how a gated action ended. Expected failures are outcomes,
// not errors, so callers decide how to surface them.
type Outcome uint8

const (
	OK Outcome = iota
	InsufficientResources
	NotFound
	Occupied
	Locked
	AlreadyDone
	Unavailable
)

var outcomeNames = [...]string{
	OK:                    "ok",
	InsufficientResources: "insufficient_resources",
	NotFound:              "not_found",
	Occupied:              "occupied",
	Locked:                "locked",
	AlreadyDone:           "already_done",
	Unavailable:           "unavailable",
}

func (o Outcome) String() string {
	if int(o) < len(outcomeNames) {
		return outcomeNames[o]
	}
	return "unknown"
}

func (o Outcome) OK() bool { return o == OK }

func (o Outcome) MarshalText() ([]byte, error) { return []byte(o.String()), nil }
