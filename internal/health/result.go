package health

import "time"

// Result is the outcome of a single probe execution. Exactly one Result
// exists per probe invocation; it is immutable once produced.
type Result struct {
	// Name identifies the probe, unique within one aggregation pass.
	Name string
	// Status is the probe's verdict about its target.
	Status Status
	// Detail is free text for humans. May be empty.
	Detail string
	// Latency is how long the probe took to produce its verdict.
	Latency time.Duration
	// Err is set only when the probe itself failed abnormally (transport
	// fault, timeout, panic), as opposed to reporting an unhealthy target.
	Err error
	// ObservedAt is the completion timestamp.
	ObservedAt time.Time
}

// Healthy builds a passing result.
func Healthy(detail string) Result {
	return Result{Status: StatusHealthy, Detail: detail}
}

// Degraded builds a result for a target that answered but is impaired.
func Degraded(detail string, err error) Result {
	return Result{Status: StatusDegraded, Detail: detail, Err: err}
}

// Unhealthy builds a result for a confirmed failure.
func Unhealthy(detail string, err error) Result {
	return Result{Status: StatusUnhealthy, Detail: detail, Err: err}
}

// Unknown builds a result when the probe could not determine target health.
func Unknown(detail string, err error) Result {
	return Result{Status: StatusUnknown, Detail: detail, Err: err}
}
