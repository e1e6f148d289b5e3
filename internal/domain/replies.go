package domain

// ReplySet identifies which group of suggestion chips is on display.
// Exactly one set is active at a time; the default is RepliesNone.
type ReplySet int

const (
	RepliesNone ReplySet = iota
	RepliesInitial
	RepliesFinal
)

// String returns a human-readable reply set name.
func (r ReplySet) String() string {
	switch r {
	case RepliesNone:
		return "none"
	case RepliesInitial:
		return "initial"
	case RepliesFinal:
		return "final"
	default:
		return "unknown"
	}
}
