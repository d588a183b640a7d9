package health

import (
	"errors"
	"strings"
	"testing"
)

func TestAggregate_EmptyBatchIsUnknown(t *testing.T) {
	report := Aggregate(nil)

	if report.Overall != StatusUnknown {
		t.Errorf("Overall = %v, want %v", report.Overall, StatusUnknown)
	}
	if len(report.Results) != 0 {
		t.Errorf("Results length = %d, want 0", len(report.Results))
	}
	for status, count := range report.Counts {
		if count != 0 {
			t.Errorf("Counts[%v] = %d, want 0", status, count)
		}
	}
	if report.GeneratedAt.IsZero() {
		t.Error("GeneratedAt not stamped")
	}
}

func TestAggregate_OverallIsMaxSeverity(t *testing.T) {
	tests := []struct {
		name     string
		statuses []Status
		want     Status
	}{
		{"all healthy", []Status{StatusHealthy, StatusHealthy}, StatusHealthy},
		{"single unknown", []Status{StatusUnknown}, StatusUnknown},
		{"degraded beats unknown", []Status{StatusUnknown, StatusDegraded}, StatusDegraded},
		{"unhealthy beats all", []Status{StatusHealthy, StatusDegraded, StatusHealthy, StatusUnhealthy}, StatusUnhealthy},
		{"unknown beats healthy", []Status{StatusHealthy, StatusUnknown, StatusHealthy}, StatusUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results := make([]Result, len(tt.statuses))
			for i, status := range tt.statuses {
				results[i] = Result{Name: "p", Status: status}
			}

			report := Aggregate(results)
			if report.Overall != tt.want {
				t.Errorf("Overall = %v, want %v", report.Overall, tt.want)
			}
		})
	}
}

func TestAggregate_MixedBatchCounts(t *testing.T) {
	results := []Result{
		{Name: "a", Status: StatusHealthy},
		{Name: "b", Status: StatusDegraded},
		{Name: "c", Status: StatusHealthy},
		{Name: "d", Status: StatusUnhealthy, Err: errors.New("connection refused")},
	}

	report := Aggregate(results)

	if report.Overall != StatusUnhealthy {
		t.Errorf("Overall = %v, want %v", report.Overall, StatusUnhealthy)
	}
	wantCounts := map[Status]int{
		StatusHealthy:   2,
		StatusDegraded:  1,
		StatusUnhealthy: 1,
		StatusUnknown:   0,
	}
	for status, want := range wantCounts {
		if got := report.Counts[status]; got != want {
			t.Errorf("Counts[%v] = %d, want %d", status, got, want)
		}
	}
}

func TestAggregate_CountsSumToResultLength(t *testing.T) {
	batches := [][]Status{
		{},
		{StatusHealthy},
		{StatusHealthy, StatusUnknown, StatusDegraded, StatusUnhealthy},
		{StatusDegraded, StatusDegraded, StatusDegraded},
	}

	for _, statuses := range batches {
		results := make([]Result, len(statuses))
		for i, status := range statuses {
			results[i] = Result{Name: "p", Status: status}
		}

		report := Aggregate(results)
		sum := 0
		for _, count := range report.Counts {
			sum += count
		}
		if sum != len(report.Results) {
			t.Errorf("batch %v: counts sum %d != results %d", statuses, sum, len(report.Results))
		}
	}
}

func TestAggregate_PreservesInputOrder(t *testing.T) {
	results := []Result{
		{Name: "zeta", Status: StatusUnhealthy},
		{Name: "alpha", Status: StatusHealthy},
		{Name: "mid", Status: StatusDegraded},
	}

	report := Aggregate(results)

	want := []string{"zeta", "alpha", "mid"}
	for i, name := range want {
		if report.Results[i].Name != name {
			t.Errorf("Results[%d].Name = %q, want %q", i, report.Results[i].Name, name)
		}
	}
}

func TestAggregate_CopiesInput(t *testing.T) {
	results := []Result{{Name: "a", Status: StatusHealthy}}

	report := Aggregate(results)
	results[0].Status = StatusUnhealthy

	if report.Results[0].Status != StatusHealthy {
		t.Error("report aliased the caller's slice")
	}
}

func TestSummary_ConsistentWithCounts(t *testing.T) {
	report := Aggregate([]Result{
		{Name: "a", Status: StatusHealthy},
		{Name: "b", Status: StatusHealthy},
		{Name: "c", Status: StatusUnhealthy},
		{Name: "d", Status: StatusUnknown},
	})

	want := "health summary: 2 healthy, 1 unhealthy, 0 degraded, 1 unknown out of 4 probes"
	if got := report.Summary(); got != want {
		t.Errorf("Summary() = %q, want %q", got, want)
	}
}

func TestSummary_EmptyReport(t *testing.T) {
	report := Aggregate(nil)

	got := report.Summary()
	if !strings.Contains(got, "out of 0 probes") {
		t.Errorf("Summary() = %q, want zero-probe wording", got)
	}
}
