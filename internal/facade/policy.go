package facade

import (
	"fmt"
	"strings"
)

// Policy decides which handlers of a slot run on Invoke.
type Policy int

const (
	// PolicyBroadcast runs every handler in binding order.
	PolicyBroadcast Policy = iota

	// PolicyLatest runs only the most recently bound handler. When its
	// provider deactivates, the previous one takes over.
	PolicyLatest

	// PolicyExclusive admits a single handler.
	PolicyExclusive
)

// String returns the policy name used in configuration.
func (p Policy) String() string {
	switch p {
	case PolicyBroadcast:
		return "broadcast"
	case PolicyLatest:
		return "latest"
	case PolicyExclusive:
		return "exclusive"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

// ParsePolicy parses a policy name. Empty input yields PolicyBroadcast.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "broadcast":
		return PolicyBroadcast, nil
	case "latest":
		return PolicyLatest, nil
	case "exclusive":
		return PolicyExclusive, nil
	default:
		return PolicyBroadcast, fmt.Errorf("facade: unknown policy %q", s)
	}
}
