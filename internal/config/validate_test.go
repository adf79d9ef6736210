package config

import (
	"testing"

	"github.com/stretchr/testify/require"

	_ "tvpshape/pkg/param/all"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want []Issue
	}{
		{
			name: "minimal",
			cfg:  Config{Backend: "ydb"},
		},
		{
			name: "missing backend",
			cfg:  Config{},
			want: []Issue{{SeverityError, "backend", "backend must not be empty"}},
		},
		{
			name: "unknown backend",
			cfg:  Config{Backend: "oracle"},
			want: []Issue{{SeverityError, "backend", `unknown backend "oracle"; registered: mssql, pgcopy, ydb`}},
		},
		{
			name: "padded default column",
			cfg:  Config{Backend: "mssql", DefaultColumnName: " Id"},
			want: []Issue{{SeverityWarning, "default_column_name", "leading or trailing whitespace is kept in the column name"}},
		},
		{
			name: "bad tag key",
			cfg:  Config{Backend: "mssql", TagKey: "db:x"},
			want: []Issue{{SeverityError, "tag_key", `"db:x" cannot be used as a struct tag key`}},
		},
		{
			name: "gateway without metrics",
			cfg:  Config{Backend: "mssql", Metrics: Metrics{PushGateway: "http://gw:9091"}},
			want: []Issue{{SeverityWarning, "metrics", "settings are ignored because metrics.enabled is false"}},
		},
		{
			name: "bad gateway and empty job",
			cfg:  Config{Backend: "mssql", Metrics: Metrics{Enabled: true, PushGateway: "gw:9091"}},
			want: []Issue{
				{SeverityError, "metrics.push_gateway", "must be an absolute http(s) URL"},
				{SeverityWarning, "metrics.job", `job is empty; "tvpshape" is used`},
			},
		},
		{
			name: "datadog",
			cfg:  Config{Backend: "mssql", Metrics: Metrics{Enabled: true, Kind: "datadog", Addr: "127.0.0.1:8125", Tags: []string{"env:prod"}}},
		},
		{
			name: "datadog without addr",
			cfg:  Config{Backend: "mssql", Metrics: Metrics{Enabled: true, Kind: "datadog", Tags: []string{"prod"}}},
			want: []Issue{
				{SeverityError, "metrics.addr", "addr is required for the datadog backend"},
				{SeverityWarning, "metrics.tags[0]", `tag "prod" has no value; expected key:value`},
			},
		},
		{
			name: "unknown metrics kind",
			cfg:  Config{Backend: "mssql", Metrics: Metrics{Enabled: true, Kind: "statsd"}},
			want: []Issue{{SeverityError, "metrics.kind", `unknown kind "statsd"; expected "prometheus" or "datadog"`}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tt.cfg.Validate())
		})
	}
}

func TestHasErrors(t *testing.T) {
	require.False(t, HasErrors(nil))
	require.False(t, HasErrors([]Issue{{Severity: SeverityWarning}}))
	require.True(t, HasErrors([]Issue{{Severity: SeverityWarning}, {Severity: SeverityError}}))
}

func TestIssue_Error(t *testing.T) {
	iss := Issue{SeverityError, "backend", "boom"}
	require.EqualError(t, iss, "error at backend: boom")
}
