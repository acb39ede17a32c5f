package switcher

import "fmt"

// Action is the kind of forwarding decision
type Action int

const (
	// ActionForward sends the frame out a single known port
	ActionForward Action = iota
	// ActionFlood sends a copy out every port except the ingress port
	ActionFlood
	// ActionFilter drops the frame because the destination is on the ingress segment
	ActionFilter
)

// String returns the string representation of the action
func (a Action) String() string {
	switch a {
	case ActionForward:
		return "FORWARD"
	case ActionFlood:
		return "FLOOD"
	case ActionFilter:
		return "FILTER"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", int(a))
	}
}

// Decision is the outcome of the forwarding step.
//
// Port is the egress port for ActionForward, the excluded ingress port for
// ActionFlood, and the ingress port the frame was dropped on for ActionFilter.
type Decision struct {
	Action Action
	Port   int
}

// Forward returns a decision to send the frame out port
func Forward(port int) Decision {
	return Decision{Action: ActionForward, Port: port}
}

// Flood returns a decision to send the frame out every port except excluded
func Flood(excluded int) Decision {
	return Decision{Action: ActionFlood, Port: excluded}
}

// Filter returns a decision to drop a frame received on ingress
func Filter(ingress int) Decision {
	return Decision{Action: ActionFilter, Port: ingress}
}

// EgressPorts lists the ports a copy of the frame leaves on
func (d Decision) EgressPorts(numPorts int) []int {
	switch d.Action {
	case ActionForward:
		return []int{d.Port}
	case ActionFlood:
		return floodPorts(numPorts, d.Port)
	default:
		return nil
	}
}

func (d Decision) String() string {
	switch d.Action {
	case ActionForward:
		return fmt.Sprintf("FORWARD(port %d)", d.Port)
	case ActionFlood:
		return fmt.Sprintf("FLOOD(except port %d)", d.Port)
	case ActionFilter:
		return fmt.Sprintf("FILTER(port %d)", d.Port)
	default:
		return d.Action.String()
	}
}
