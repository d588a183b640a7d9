package health

import (
	"fmt"
	"strings"
)

// Status ranks the health of a probed target. Values ascend by severity and
// the order is load-bearing: aggregation takes the maximum, so a single
// unhealthy result outranks any number of healthy ones.
type Status int

const (
	StatusHealthy Status = iota
	StatusUnknown
	StatusDegraded
	StatusUnhealthy
)

// String returns the lowercase wire name of the status.
func (s Status) String() string {
	switch s {
	case StatusHealthy:
		return "healthy"
	case StatusUnknown:
		return "unknown"
	case StatusDegraded:
		return "degraded"
	case StatusUnhealthy:
		return "unhealthy"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// MarshalText implements encoding.TextMarshaler so statuses serialize as
// their lowercase names in JSON and YAML.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Status) UnmarshalText(text []byte) error {
	parsed, err := ParseStatus(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseStatus converts a status name to a Status. Matching is
// case-insensitive and ignores surrounding whitespace.
func ParseStatus(value string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "healthy":
		return StatusHealthy, nil
	case "unknown":
		return StatusUnknown, nil
	case "degraded":
		return StatusDegraded, nil
	case "unhealthy":
		return StatusUnhealthy, nil
	default:
		return StatusUnknown, fmt.Errorf("unknown health status %q", value)
	}
}

// Worst returns the more severe of two statuses. Every severity comparison
// in the engine goes through here.
func Worst(a, b Status) Status {
	if b > a {
		return b
	}
	return a
}
