package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/nholik/pulsecheck/internal/health"
)

// Format selects a report rendering.
type Format string

const (
	FormatTable   Format = "table"
	FormatJSON    Format = "json"
	FormatSummary Format = "summary"
)

// ParseFormat validates a format name.
func ParseFormat(value string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(value))) {
	case FormatTable:
		return FormatTable, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatSummary:
		return FormatSummary, nil
	default:
		return "", fmt.Errorf("unknown report format %q", value)
	}
}

// Render writes rep to w in the given format.
func Render(w io.Writer, rep health.Report, format Format) error {
	switch format {
	case FormatJSON:
		return renderJSON(w, rep)
	case FormatSummary:
		return renderSummary(w, rep)
	case FormatTable, "":
		return renderTable(w, rep)
	default:
		return fmt.Errorf("unknown report format %q", format)
	}
}

// payload is the wire form of a health report. Webhook templates receive it
// as their execution context.
type payload struct {
	GeneratedAt time.Time       `json:"generated_at"`
	Overall     health.Status   `json:"overall"`
	Total       int             `json:"total"`
	Healthy     int             `json:"healthy"`
	Unhealthy   int             `json:"unhealthy"`
	Degraded    int             `json:"degraded"`
	Unknown     int             `json:"unknown"`
	Results     []payloadResult `json:"results"`
	Summary     string          `json:"summary"`
}

type payloadResult struct {
	Name       string        `json:"name"`
	Status     health.Status `json:"status"`
	Detail     string        `json:"detail"`
	LatencyMS  int64         `json:"latency_ms"`
	Error      string        `json:"error,omitempty"`
	ObservedAt time.Time     `json:"observed_at"`
}

func payloadFrom(rep health.Report) payload {
	results := make([]payloadResult, len(rep.Results))
	for i, r := range rep.Results {
		entry := payloadResult{
			Name:       r.Name,
			Status:     r.Status,
			Detail:     r.Detail,
			LatencyMS:  r.Latency.Milliseconds(),
			ObservedAt: r.ObservedAt,
		}
		if r.Err != nil {
			entry.Error = r.Err.Error()
		}
		results[i] = entry
	}

	return payload{
		GeneratedAt: rep.GeneratedAt,
		Overall:     rep.Overall,
		Total:       len(rep.Results),
		Healthy:     rep.Counts[health.StatusHealthy],
		Unhealthy:   rep.Counts[health.StatusUnhealthy],
		Degraded:    rep.Counts[health.StatusDegraded],
		Unknown:     rep.Counts[health.StatusUnknown],
		Results:     results,
		Summary:     rep.Summary(),
	}
}

func renderJSON(w io.Writer, rep health.Report) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(payloadFrom(rep))
}

func renderSummary(w io.Writer, rep health.Report) error {
	for _, r := range rep.Results {
		line := fmt.Sprintf("%s %s: %s", statusGlyph(r.Status), r.Name, r.Status)
		if detail := detailCell(r); detail != "" {
			line += " - " + detail
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, rep.Summary())
	return err
}

func renderTable(w io.Writer, rep health.Report) error {
	color := writerIsTerminal(w)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PROBE\tSTATUS\tLATENCY\tDETAIL")
	for _, r := range rep.Results {
		fmt.Fprintf(tw, "%s\t%s\t%dms\t%s\n", r.Name, statusCell(r.Status, color), r.Latency.Milliseconds(), detailCell(r))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\n%s\noverall: %s\n", rep.Summary(), rep.Overall)
	return err
}

const (
	colorReset  = "\x1b[0m"
	colorRed    = "\x1b[31m"
	colorGreen  = "\x1b[32m"
	colorYellow = "\x1b[33m"
	colorGray   = "\x1b[37m"
)

func statusGlyph(s health.Status) string {
	switch s {
	case health.StatusHealthy:
		return "✓"
	case health.StatusDegraded:
		return "⚠"
	case health.StatusUnhealthy:
		return "✗"
	default:
		return "?"
	}
}

func statusColor(s health.Status) string {
	switch s {
	case health.StatusHealthy:
		return colorGreen
	case health.StatusDegraded:
		return colorYellow
	case health.StatusUnhealthy:
		return colorRed
	default:
		return colorGray
	}
}

func statusCell(s health.Status, color bool) string {
	text := statusGlyph(s) + " " + s.String()
	if !color {
		return text
	}
	return statusColor(s) + text + colorReset
}

func detailCell(r health.Result) string {
	switch {
	case r.Err != nil && r.Detail != "":
		return fmt.Sprintf("%s (%s)", r.Detail, r.Err)
	case r.Err != nil:
		return r.Err.Error()
	default:
		return r.Detail
	}
}

func writerIsTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(file.Fd()) || isatty.IsCygwinTerminal(file.Fd())
}
