package health

import "testing"

func TestWorst_PicksHigherSeverity(t *testing.T) {
	tests := []struct {
		name string
		a, b Status
		want Status
	}{
		{"healthy vs healthy", StatusHealthy, StatusHealthy, StatusHealthy},
		{"healthy vs unknown", StatusHealthy, StatusUnknown, StatusUnknown},
		{"unknown vs degraded", StatusUnknown, StatusDegraded, StatusDegraded},
		{"degraded vs unhealthy", StatusDegraded, StatusUnhealthy, StatusUnhealthy},
		{"unhealthy vs healthy", StatusUnhealthy, StatusHealthy, StatusUnhealthy},
		{"order does not matter", StatusDegraded, StatusUnknown, StatusDegraded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Worst(tt.a, tt.b); got != tt.want {
				t.Errorf("Worst(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestStatusSeverityOrderIsAscending(t *testing.T) {
	ordered := []Status{StatusHealthy, StatusUnknown, StatusDegraded, StatusUnhealthy}
	for i := 1; i < len(ordered); i++ {
		if ordered[i-1] >= ordered[i] {
			t.Fatalf("expected %v < %v", ordered[i-1], ordered[i])
		}
	}
}

func TestStatusString(t *testing.T) {
	tests := []struct {
		status Status
		want   string
	}{
		{StatusHealthy, "healthy"},
		{StatusUnknown, "unknown"},
		{StatusDegraded, "degraded"},
		{StatusUnhealthy, "unhealthy"},
		{Status(42), "status(42)"},
	}

	for _, tt := range tests {
		if got := tt.status.String(); got != tt.want {
			t.Errorf("Status(%d).String() = %q, want %q", int(tt.status), got, tt.want)
		}
	}
}

func TestParseStatus(t *testing.T) {
	tests := []struct {
		input   string
		want    Status
		wantErr bool
	}{
		{"healthy", StatusHealthy, false},
		{"HEALTHY", StatusHealthy, false},
		{" degraded ", StatusDegraded, false},
		{"Unhealthy", StatusUnhealthy, false},
		{"unknown", StatusUnknown, false},
		{"", StatusUnknown, true},
		{"bogus", StatusUnknown, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseStatus(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseStatus(%q) expected error", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseStatus(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseStatus(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestStatusTextRoundTrip(t *testing.T) {
	for _, status := range []Status{StatusHealthy, StatusUnknown, StatusDegraded, StatusUnhealthy} {
		text, err := status.MarshalText()
		if err != nil {
			t.Fatalf("MarshalText(%v): %v", status, err)
		}
		var parsed Status
		if err := parsed.UnmarshalText(text); err != nil {
			t.Fatalf("UnmarshalText(%q): %v", text, err)
		}
		if parsed != status {
			t.Errorf("round trip %v -> %q -> %v", status, text, parsed)
		}
	}
}
