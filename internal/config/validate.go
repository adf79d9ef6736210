package config

import (
	"fmt"
	"net/url"
	"slices"
	"strings"
	"unicode"

	"tvpshape/pkg/param"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError indicates a configuration error that should block start-up.
	SeverityError IssueSeverity = "error"
	// SeverityWarning indicates a finding worth surfacing that does not block
	// start-up.
	SeverityWarning IssueSeverity = "warning"
)

// Issue describes a single validation finding. Path is the JSON path of the
// offending field, e.g. "metrics.push_gateway".
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

// Error implements the error interface so an Issue can be returned as one.
func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// HasErrors reports whether any issue has SeverityError.
func HasErrors(issues []Issue) bool {
	return slices.ContainsFunc(issues, func(i Issue) bool { return i.Severity == SeverityError })
}

// Validate performs static checks over c and returns the findings. It does
// not mutate c. Backend kinds are checked against param.ListKinds, so the
// binder packages must be imported first.
func (c Config) Validate() []Issue {
	var issues []Issue

	switch {
	case strings.TrimSpace(c.Backend) == "":
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "backend",
			Message:  "backend must not be empty",
		})
	case !slices.Contains(param.ListKinds(), c.Backend):
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "backend",
			Message:  fmt.Sprintf("unknown backend %q; registered: %s", c.Backend, strings.Join(param.ListKinds(), ", ")),
		})
	}

	if c.DefaultColumnName != strings.TrimSpace(c.DefaultColumnName) {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "default_column_name",
			Message:  "leading or trailing whitespace is kept in the column name",
		})
	}

	if strings.ContainsFunc(c.TagKey, func(r rune) bool {
		return r == ':' || r == '"' || unicode.IsSpace(r) || unicode.IsControl(r)
	}) {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "tag_key",
			Message:  fmt.Sprintf("%q cannot be used as a struct tag key", c.TagKey),
		})
	}

	issues = append(issues, validateMetrics(c.Metrics)...)
	return issues
}

func validateMetrics(m Metrics) []Issue {
	var issues []Issue
	if !m.Enabled {
		if m.PushGateway != "" || m.Addr != "" {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Path:     "metrics",
				Message:  "settings are ignored because metrics.enabled is false",
			})
		}
		return issues
	}

	switch m.Kind {
	case "", MetricsPrometheus:
		if m.PushGateway != "" {
			u, err := url.Parse(m.PushGateway)
			if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
				issues = append(issues, Issue{
					Severity: SeverityError,
					Path:     "metrics.push_gateway",
					Message:  "must be an absolute http(s) URL",
				})
			}
		}
		if strings.TrimSpace(m.Job) == "" {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Path:     "metrics.job",
				Message:  `job is empty; "tvpshape" is used`,
			})
		}
	case MetricsDatadog:
		if strings.TrimSpace(m.Addr) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "metrics.addr",
				Message:  "addr is required for the datadog backend",
			})
		}
		for i, tag := range m.Tags {
			if !strings.Contains(tag, ":") {
				issues = append(issues, Issue{
					Severity: SeverityWarning,
					Path:     fmt.Sprintf("metrics.tags[%d]", i),
					Message:  fmt.Sprintf("tag %q has no value; expected key:value", tag),
				})
			}
		}
	default:
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "metrics.kind",
			Message:  fmt.Sprintf("unknown kind %q; expected %q or %q", m.Kind, MetricsPrometheus, MetricsDatadog),
		})
	}
	return issues
}
