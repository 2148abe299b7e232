package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/wesleyorama2/volley/internal/batch"
)

// Formatter renders a report as human-readable text
type Formatter struct {
	Options
	scheme *ColorScheme
}

// NewFormatter creates a new text formatter with the given options
func NewFormatter(opts Options) *Formatter {
	scheme := DefaultColorScheme()
	if opts.NoColor {
		scheme = NoColorScheme()
	}
	return &Formatter{Options: opts, scheme: scheme}
}

// Format implements ReportFormatter. Results are printed in batch order,
// followed by the summary.
func (f *Formatter) Format(report batch.Report) (string, error) {
	var buf strings.Builder

	if f.Title != "" {
		buf.WriteString(f.scheme.Highlight.Sprint(f.Title))
		buf.WriteString("\n\n")
	}

	width := nameWidth(report.Results)
	for _, r := range report.Results {
		f.writeResult(&buf, r, width)
	}

	if len(report.Results) > 0 {
		buf.WriteString("\n")
	}
	f.writeSummary(&buf, report.Summary)

	return buf.String(), nil
}

func (f *Formatter) writeResult(buf *strings.Builder, r batch.Result, width int) {
	icon := SuccessIcon(f.NoColor)
	if !r.Succeeded() {
		icon = ErrorIcon(f.NoColor)
	}

	status := "---"
	if code := r.StatusCode(); code != 0 {
		status = fmt.Sprintf("%d", code)
	}

	fmt.Fprintf(buf, "%s %s %s %s %s",
		icon,
		f.scheme.Method.Sprintf("%-7s", r.Method),
		padRight(displayName(r), width),
		f.scheme.Status(r.StatusCode()).Sprintf("%3s", status),
		formatDuration(r.Elapsed),
	)
	if msg := r.Error(); msg != "" {
		buf.WriteString("  ")
		buf.WriteString(f.scheme.Error.Sprint(msg))
	}
	buf.WriteString("\n")

	for _, d := range r.Diagnostics {
		fmt.Fprintf(buf, "    %s %s\n", WarningIcon(f.NoColor), d)
	}

	if !f.Verbose {
		return
	}
	fmt.Fprintf(buf, "    URL: %s\n", f.scheme.URL.Sprint(r.URL))
	if t := r.Timing; t.TotalTime > 0 {
		buf.WriteString("    Timing:\n")
		fmt.Fprintf(buf, "      DNS Lookup:         %s\n", formatDuration(t.DNSLookupTime))
		fmt.Fprintf(buf, "      TCP Connection:     %s\n", formatDuration(t.TCPConnectTime))
		fmt.Fprintf(buf, "      TLS Handshake:      %s\n", formatDuration(t.TLSHandshakeTime))
		fmt.Fprintf(buf, "      Time to First Byte: %s\n", formatDuration(t.TimeToFirstByte))
		fmt.Fprintf(buf, "      Content Transfer:   %s\n", formatDuration(t.ContentTransferTime))
		fmt.Fprintf(buf, "      Total:              %s\n", formatDuration(t.TotalTime))
	}
	if body := r.Body(); body != "" {
		buf.WriteString("    Body:\n")
		buf.WriteString(indent(formatJSONString(body), "      "))
		buf.WriteString("\n")
	}
}

func (f *Formatter) writeSummary(buf *strings.Builder, s batch.Summary) {
	buf.WriteString(f.scheme.Highlight.Sprint("Summary"))
	buf.WriteString("\n")

	fmt.Fprintf(buf, "  Run:       %s\n", f.scheme.Muted.Sprint(s.RunID))
	fmt.Fprintf(buf, "  Requests:  %d total, %s, %s\n",
		s.TotalRequests,
		f.scheme.Success.Sprintf("%d succeeded", s.SuccessCount),
		f.failures(s.FailureCount),
	)
	fmt.Fprintf(buf, "  Duration:  %s\n", formatDuration(s.TotalElapsed))

	if s.SuccessCount == 0 {
		return
	}
	fmt.Fprintf(buf, "  Average:   %.2fms\n", s.AverageSuccessMillis)
	fmt.Fprintf(buf, "  Latency:   min %s  p50 %s  p90 %s  p99 %s  max %s\n",
		formatDuration(s.Latency.Min),
		formatDuration(s.Latency.P50),
		formatDuration(s.Latency.P90),
		formatDuration(s.Latency.P99),
		formatDuration(s.Latency.Max),
	)
}

func (f *Formatter) failures(n int) string {
	text := fmt.Sprintf("%d failed", n)
	if n == 0 {
		return text
	}
	return f.scheme.Error.Sprint(text)
}

func displayName(r batch.Result) string {
	if r.Folder == "" {
		return r.Name
	}
	return r.Folder + "/" + r.Name
}

func nameWidth(results []batch.Result) int {
	width := 0
	for _, r := range results {
		if n := len([]rune(displayName(r))); n > width {
			width = n
		}
	}
	return width
}

func padRight(s string, width int) string {
	n := len([]rune(s))
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}

func indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}

// formatJSONString attempts to pretty-print a JSON string
func formatJSONString(s string) string {
	var prettyJSON bytes.Buffer
	if err := json.Indent(&prettyJSON, []byte(s), "", "  "); err != nil {
		return s
	}
	return prettyJSON.String()
}

// formatDuration formats a duration in a short human-readable form.
func formatDuration(d time.Duration) string {
	switch {
	case d < time.Microsecond:
		return "0ms"
	case d < time.Millisecond:
		return fmt.Sprintf("%dµs", d.Microseconds())
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	case d < time.Minute:
		return fmt.Sprintf("%.2fs", d.Seconds())
	}
	return fmt.Sprintf("%.1fm", d.Minutes())
}
