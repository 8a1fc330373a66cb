package order

// Status of an order in its delivery lifecycle. The sequence is fixed
// and strictly forward: pending -> preparing -> delivering -> delivered.
type Status string

const (
	StatusPending    Status = "pending"
	StatusPreparing  Status = "preparing"
	StatusDelivering Status = "delivering"
	StatusDelivered  Status = "delivered"
)

var statusOrder = []Status{StatusPending, StatusPreparing, StatusDelivering, StatusDelivered}

func ParseStatus(s string) (Status, bool) {
	for _, st := range statusOrder {
		if string(st) == s {
			return st, true
		}
	}
	return "", false
}

func (s Status) String() string {
	return string(s)
}

// Active reports whether an order in this status still belongs to the
// "in progress" tab. Only delivered orders are history.
func (s Status) Active() bool {
	return s != StatusDelivered
}

// CanTransition reports whether next is the immediate successor of s.
// Backward moves, skips and repeats are all rejected.
func (s Status) CanTransition(next Status) bool {
	for i := 0; i < len(statusOrder)-1; i++ {
		if statusOrder[i] == s {
			return statusOrder[i+1] == next
		}
	}
	return false
}
