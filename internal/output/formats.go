package output

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/wesleyorama2/volley/internal/batch"
)

// OutputFormat represents the available output formats
type OutputFormat string

const (
	// FormatText is the default human-readable text format
	FormatText OutputFormat = "text"
	// FormatJSON outputs in JSON format
	FormatJSON OutputFormat = "json"
	// FormatYAML outputs in YAML format
	FormatYAML OutputFormat = "yaml"
	// FormatJUnit outputs in JUnit XML format (for CI/CD integration)
	FormatJUnit OutputFormat = "junit"
)

// ReportFormatter renders a settled batch.
type ReportFormatter interface {
	Format(report batch.Report) (string, error)
}

// Options configure every formatter.
type Options struct {
	// Title names the batch, usually the collection name.
	Title   string
	Verbose bool
	NoColor bool
}

// GetFormatter returns a formatter for the given format
func GetFormatter(format OutputFormat, opts Options) (ReportFormatter, error) {
	switch format {
	case FormatText, "":
		return NewFormatter(opts), nil
	case FormatJSON:
		return &JSONFormatter{Options: opts, Pretty: true}, nil
	case FormatYAML:
		return &YAMLFormatter{Options: opts}, nil
	case FormatJUnit:
		return &JUnitFormatter{Options: opts}, nil
	}
	return nil, fmt.Errorf("unknown output format %q", format)
}

// ReportData is the structured form of a report shared by JSON and YAML.
type ReportData struct {
	Title     string       `json:"title,omitempty" yaml:"title,omitempty"`
	RunID     string       `json:"runId" yaml:"runId"`
	StartedAt string       `json:"startedAt" yaml:"startedAt"`
	Summary   SummaryData  `json:"summary" yaml:"summary"`
	Results   []ResultData `json:"results" yaml:"results"`
}

// ResultData represents one request of the batch
type ResultData struct {
	Name        string      `json:"name" yaml:"name"`
	Folder      string      `json:"folder,omitempty" yaml:"folder,omitempty"`
	Method      string      `json:"method" yaml:"method"`
	URL         string      `json:"url" yaml:"url"`
	Success     bool        `json:"success" yaml:"success"`
	StatusCode  int         `json:"statusCode,omitempty" yaml:"statusCode,omitempty"`
	ElapsedMs   int64       `json:"elapsedMs" yaml:"elapsedMs"`
	Error       string      `json:"error,omitempty" yaml:"error,omitempty"`
	Timing      *TimingData `json:"timing,omitempty" yaml:"timing,omitempty"`
	Body        interface{} `json:"body,omitempty" yaml:"body,omitempty"`
	Diagnostics []string    `json:"diagnostics,omitempty" yaml:"diagnostics,omitempty"`
}

// TimingData is the phase breakdown of one response in milliseconds
type TimingData struct {
	DNSLookup       float64 `json:"dnsLookupMs,omitempty" yaml:"dnsLookupMs,omitempty"`
	TCPConnection   float64 `json:"tcpConnectionMs,omitempty" yaml:"tcpConnectionMs,omitempty"`
	TLSHandshake    float64 `json:"tlsHandshakeMs,omitempty" yaml:"tlsHandshakeMs,omitempty"`
	TimeToFirstByte float64 `json:"timeToFirstByteMs,omitempty" yaml:"timeToFirstByteMs,omitempty"`
	ContentTransfer float64 `json:"contentTransferMs,omitempty" yaml:"contentTransferMs,omitempty"`
	Total           float64 `json:"totalMs" yaml:"totalMs"`
}

// SummaryData represents the aggregate view of the batch
type SummaryData struct {
	TotalRequests    int         `json:"totalRequests" yaml:"totalRequests"`
	SuccessCount     int         `json:"successCount" yaml:"successCount"`
	FailureCount     int         `json:"failureCount" yaml:"failureCount"`
	TotalElapsedMs   int64       `json:"totalElapsedMs" yaml:"totalElapsedMs"`
	AverageSuccessMs float64     `json:"averageSuccessMs" yaml:"averageSuccessMs"`
	Latency          LatencyData `json:"latency" yaml:"latency"`
}

// LatencyData holds latency statistics in milliseconds
type LatencyData struct {
	Min float64 `json:"minMs" yaml:"minMs"`
	Max float64 `json:"maxMs" yaml:"maxMs"`
	P50 float64 `json:"p50Ms" yaml:"p50Ms"`
	P90 float64 `json:"p90Ms" yaml:"p90Ms"`
	P99 float64 `json:"p99Ms" yaml:"p99Ms"`
}

// NewReportData converts a report. Response bodies are included only when
// verbose is set.
func NewReportData(report batch.Report, title string, verbose bool) ReportData {
	s := report.Summary
	data := ReportData{
		Title:     title,
		RunID:     s.RunID,
		StartedAt: s.StartedAt.Format(time.RFC3339),
		Summary: SummaryData{
			TotalRequests:    s.TotalRequests,
			SuccessCount:     s.SuccessCount,
			FailureCount:     s.FailureCount,
			TotalElapsedMs:   s.TotalElapsedMillis(),
			AverageSuccessMs: s.AverageSuccessMillis,
			Latency: LatencyData{
				Min: millis(s.Latency.Min),
				Max: millis(s.Latency.Max),
				P50: millis(s.Latency.P50),
				P90: millis(s.Latency.P90),
				P99: millis(s.Latency.P99),
			},
		},
		Results: make([]ResultData, 0, len(report.Results)),
	}

	for _, r := range report.Results {
		rd := ResultData{
			Name:        r.Name,
			Folder:      r.Folder,
			Method:      r.Method,
			URL:         r.URL,
			Success:     r.Succeeded(),
			StatusCode:  r.StatusCode(),
			ElapsedMs:   r.ElapsedMillis(),
			Error:       r.Error(),
			Timing:      newTimingData(r),
			Diagnostics: r.Diagnostics,
		}
		if verbose {
			rd.Body = parseBody(r.Body())
		}
		data.Results = append(data.Results, rd)
	}

	return data
}

// parseBody decodes a JSON body so it nests in the output, falling back to
// the raw string.
func parseBody(body string) interface{} {
	if body == "" {
		return nil
	}
	var parsed interface{}
	if err := json.Unmarshal([]byte(body), &parsed); err != nil {
		return body
	}
	return parsed
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

// JSONFormatter formats output as JSON
type JSONFormatter struct {
	Options
	Pretty bool
}

// Format implements ReportFormatter
func (f *JSONFormatter) Format(report batch.Report) (string, error) {
	data := NewReportData(report, f.Title, f.Verbose)

	var output []byte
	var err error
	if f.Pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}
	if err != nil {
		return "", fmt.Errorf("failed to marshal report: %w", err)
	}

	return string(output) + "\n", nil
}

// YAMLFormatter formats output as YAML
type YAMLFormatter struct {
	Options
}

// Format implements ReportFormatter
func (f *YAMLFormatter) Format(report batch.Report) (string, error) {
	output, err := yaml.Marshal(NewReportData(report, f.Title, f.Verbose))
	if err != nil {
		return "", fmt.Errorf("failed to marshal report: %w", err)
	}
	return string(output), nil
}

// JUnitFormatter formats output as JUnit XML for CI/CD integration
type JUnitFormatter struct {
	Options
}

// JUnitTestSuites represents the root element containing all test suites
type JUnitTestSuites struct {
	XMLName    xml.Name         `xml:"testsuites"`
	TestSuites []JUnitTestSuite `xml:"testsuite"`
}

// JUnitTestSuite represents a JUnit test suite
type JUnitTestSuite struct {
	Name      string          `xml:"name,attr"`
	ID        string          `xml:"id,attr,omitempty"`
	Tests     int             `xml:"tests,attr"`
	Failures  int             `xml:"failures,attr"`
	Errors    int             `xml:"errors,attr"`
	Time      float64         `xml:"time,attr"`
	Timestamp string          `xml:"timestamp,attr"`
	TestCases []JUnitTestCase `xml:"testcase"`
}

// JUnitTestCase represents a JUnit test case
type JUnitTestCase struct {
	Name      string        `xml:"name,attr"`
	Classname string        `xml:"classname,attr"`
	Time      float64       `xml:"time,attr"`
	Failure   *JUnitFailure `xml:"failure,omitempty"`
	SystemOut string        `xml:"system-out,omitempty"`
}

// JUnitFailure represents a JUnit test failure
type JUnitFailure struct {
	Message string `xml:"message,attr"`
	Type    string `xml:"type,attr"`
	Content string `xml:",chardata"`
}

// Format implements ReportFormatter
func (f *JUnitFormatter) Format(report batch.Report) (string, error) {
	s := report.Summary

	name := f.Title
	if name == "" {
		name = "volley"
	}

	suite := JUnitTestSuite{
		Name:      name,
		ID:        s.RunID,
		Tests:     s.TotalRequests,
		Failures:  s.FailureCount,
		Time:      s.TotalElapsed.Seconds(),
		Timestamp: s.StartedAt.Format(time.RFC3339),
		TestCases: make([]JUnitTestCase, 0, len(report.Results)),
	}

	for _, r := range report.Results {
		classname := name
		if r.Folder != "" {
			classname = name + "." + strings.ReplaceAll(r.Folder, "/", ".")
		}

		tc := JUnitTestCase{
			Name:      r.Name,
			Classname: classname,
			Time:      r.Elapsed.Seconds(),
			SystemOut: strings.Join(r.Diagnostics, "\n"),
		}
		if !r.Succeeded() {
			tc.Failure = &JUnitFailure{
				Message: r.Error(),
				Type:    "RequestFailed",
				Content: fmt.Sprintf("%s %s", r.Method, r.URL),
			}
			if f.Verbose && r.Body() != "" {
				tc.Failure.Content += "\n" + r.Body()
			}
		}
		suite.TestCases = append(suite.TestCases, tc)
	}

	output, err := xml.MarshalIndent(JUnitTestSuites{TestSuites: []JUnitTestSuite{suite}}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to generate JUnit XML: %w", err)
	}

	return xml.Header + string(output) + "\n", nil
}

// newTimingData returns nil when no response arrived.
func newTimingData(r batch.Result) *TimingData {
	t := r.Timing
	if t.TotalTime == 0 {
		return nil
	}
	return &TimingData{
		DNSLookup:       millis(t.DNSLookupTime),
		TCPConnection:   millis(t.TCPConnectTime),
		TLSHandshake:    millis(t.TLSHandshakeTime),
		TimeToFirstByte: millis(t.TimeToFirstByte),
		ContentTransfer: millis(t.ContentTransferTime),
		Total:           millis(t.TotalTime),
	}
}
