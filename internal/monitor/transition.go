package monitor

import "github.com/nholik/pulsecheck/internal/health"

// Transition records one probe's status change between consecutive passes.
type Transition struct {
	Name   string
	From   health.Status
	To     health.Status
	Detail string
}

// detectTransitions compares the previous report with the current one and
// returns one Transition per probe whose status changed, in current report
// order. On the first pass (prev == nil) only probes that are not Healthy
// are reported, so a clean startup stays quiet.
func detectTransitions(prev *health.Report, current health.Report) []Transition {
	previous := map[string]health.Status{}
	if prev != nil {
		for _, r := range prev.Results {
			previous[r.Name] = r.Status
		}
	}
	firstRun := prev == nil

	transitions := make([]Transition, 0)
	for _, r := range current.Results {
		from, seen := previous[r.Name]

		if firstRun || !seen {
			if r.Status == health.StatusHealthy {
				continue
			}
			from = health.StatusUnknown
		} else if from == r.Status {
			continue
		}

		transitions = append(transitions, Transition{
			Name:   r.Name,
			From:   from,
			To:     r.Status,
			Detail: r.Detail,
		})
	}

	return transitions
}
