package health

import (
	"fmt"
	"time"
)

// Report is the immutable product of one aggregation pass.
type Report struct {
	// GeneratedAt is the aggregation timestamp.
	GeneratedAt time.Time
	// Results preserves invocation order; it is never sorted by severity.
	Results []Result
	// Counts maps every status to its occurrence count. All four statuses
	// are always present. sum(Counts) == len(Results).
	Counts map[Status]int
	// Overall is the maximum severity across Results, StatusUnknown for an
	// empty pass.
	Overall Status
}

// Aggregate reduces a sequence of per-probe results into a Report. The input
// is copied, so later mutation of the caller's slice cannot alter the report.
// An empty batch is not an error: there is nothing to be healthy or unhealthy
// about, so the verdict is Unknown.
func Aggregate(results []Result) Report {
	counts := map[Status]int{
		StatusHealthy:   0,
		StatusUnknown:   0,
		StatusDegraded:  0,
		StatusUnhealthy: 0,
	}

	copied := make([]Result, len(results))
	copy(copied, results)

	overall := StatusUnknown
	for i, r := range copied {
		counts[r.Status]++
		if i == 0 {
			overall = r.Status
			continue
		}
		overall = Worst(overall, r.Status)
	}

	return Report{
		GeneratedAt: time.Now().UTC(),
		Results:     copied,
		Counts:      counts,
		Overall:     overall,
	}
}

// Summary restates counts and total as one sentence. It is computed on
// demand from Counts so it can never disagree with them.
func (r Report) Summary() string {
	return fmt.Sprintf("health summary: %d healthy, %d unhealthy, %d degraded, %d unknown out of %d probes",
		r.Counts[StatusHealthy],
		r.Counts[StatusUnhealthy],
		r.Counts[StatusDegraded],
		r.Counts[StatusUnknown],
		len(r.Results))
}
