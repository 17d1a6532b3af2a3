package domain

// Status is the stage an application has reached.
// Any status may be set from any other; there is no transition graph.
type Status string

const (
	StatusApplied   Status = "APPLIED"
	StatusScreen    Status = "SCREEN"
	StatusOnsite    Status = "ONSITE"
	StatusOffer     Status = "OFFER"
	StatusRejected  Status = "REJECTED"
	StatusWithdrawn Status = "WITHDRAWN"
)

// Statuses lists every recognized status in lifecycle order.
var Statuses = []Status{
	StatusApplied,
	StatusScreen,
	StatusOnsite,
	StatusOffer,
	StatusRejected,
	StatusWithdrawn,
}

var statusLabels = map[Status]string{
	StatusApplied:   "Applied",
	StatusScreen:    "Screen",
	StatusOnsite:    "Onsite",
	StatusOffer:     "Offer",
	StatusRejected:  "Rejected",
	StatusWithdrawn: "Withdrawn",
}

func (s Status) Valid() bool {
	_, ok := statusLabels[s]
	return ok
}

// Label returns the human readable name, or the raw value if s is unknown.
func (s Status) Label() string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return string(s)
}
