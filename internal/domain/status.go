package domain

import "fmt"

// OrderStatus is the ordinal order lifecycle state. The zero value is the
// initial state for new orders.
type OrderStatus int

const (
	StatusReceived OrderStatus = iota
	StatusInProgress
	StatusReady
	StatusDelivered
)

var statusNames = map[OrderStatus]string{
	StatusReceived:   "received",
	StatusInProgress: "in_progress",
	StatusReady:      "ready",
	StatusDelivered:  "delivered",
}

func (s OrderStatus) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("unknown(%d)", int(s))
}

// Valid reports whether s is a member of the enumeration.
func (s OrderStatus) Valid() bool {
	_, ok := statusNames[s]
	return ok
}

// ParseOrderStatus converts the wire representation back into a status.
func ParseOrderStatus(name string) (OrderStatus, error) {
	for s, n := range statusNames {
		if n == name {
			return s, nil
		}
	}
	return 0, Validationf("unknown order status %q", name)
}

// statusTransitions is the full transition table. The graph is directed and
// permits reversal, but has no self-loops and no skip-state edges.
var statusTransitions = map[OrderStatus][]OrderStatus{
	StatusReceived:   {StatusInProgress},
	StatusInProgress: {StatusReceived, StatusReady},
	StatusReady:      {StatusInProgress, StatusDelivered},
	StatusDelivered:  {StatusReady},
}

// AllowedTransitions returns the statuses reachable from s in one step.
// Unknown statuses have an empty allowed set.
func AllowedTransitions(s OrderStatus) []OrderStatus {
	return statusTransitions[s]
}

// CanTransition checks a single edge against the transition table.
func CanTransition(from, to OrderStatus) bool {
	for _, next := range statusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
