package cli

import (
	"strings"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/google/go-cmp/cmp"

	"github.com/ardnew/vecu/log"
)

func TestLogConfigScan(t *testing.T) {
	prev := log.Default()
	t.Cleanup(func() { log.SetDefault(prev) })

	base := logConfig{Level: "info", Format: "json", TimeLayout: "RFC3339", Pretty: true}

	tests := []struct {
		name string
		args []string
		want logConfig
	}{
		{
			name: "none",
			args: []string{"eval", "[1]"},
			want: base,
		},
		{
			name: "separate values",
			args: []string{"--log-level", "debug", "--log-format", "text", "[1]"},
			want: logConfig{Level: "debug", Format: "text", TimeLayout: "RFC3339", Pretty: true},
		},
		{
			name: "assigned values",
			args: []string{"--log-level=warn", "--log-time-layout=kitchen"},
			want: logConfig{Level: "warn", Format: "json", TimeLayout: "kitchen", Pretty: true},
		},
		{
			name: "missing value",
			args: []string{"--log-level", "--log-caller"},
			want: logConfig{Level: "info", Format: "json", TimeLayout: "RFC3339", Caller: true, Pretty: true},
		},
		{
			name: "negated toggle",
			args: []string{"--no-log-pretty"},
			want: logConfig{Level: "info", Format: "json", TimeLayout: "RFC3339"},
		},
		{
			name: "assigned toggles",
			args: []string{"--log-pretty=false", "--no-log-caller=false"},
			want: logConfig{Level: "info", Format: "json", TimeLayout: "RFC3339", Caller: true},
		},
		{
			name: "invalid toggle",
			args: []string{"--log-caller=maybe"},
			want: base,
		},
		{
			name: "negated value flag",
			args: []string{"--no-log-level", "debug"},
			want: base,
		},
		{
			name: "unknown log flag",
			args: []string{"--log-color", "--pprof-mode", "cpu"},
			want: base,
		},
		{
			name: "terminator",
			args: []string{"--log-caller", "--", "--log-level", "error"},
			want: logConfig{Level: "info", Format: "json", TimeLayout: "RFC3339", Caller: true, Pretty: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := base
			got.scan(tt.args)

			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("scan mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

// Every flag kong derives for the log group must be known to scan, with
// toggles exactly where kong sees booleans.
func TestLogFlagsMatchGroup(t *testing.T) {
	var grammar struct {
		Log logConfig `embed:"" group:"log" prefix:"log-"`
	}

	parser, err := kong.New(&grammar,
		kong.ExplicitGroups([]kong.Group{grammar.Log.group()}),
		grammar.Log.vars(),
	)
	if err != nil {
		t.Fatalf("kong.New: %v", err)
	}

	seen := 0

	for _, flag := range parser.Model.Flags {
		if flag.Group == nil || flag.Group.Key != "log" {
			continue
		}

		name := strings.TrimPrefix(flag.Name, "log-")

		lf, ok := logFlags[name]
		if !ok {
			t.Errorf("flag --%s not handled by scan", flag.Name)

			continue
		}

		if got, want := lf.toggle != nil, flag.IsBool(); got != want {
			t.Errorf("flag --%s: toggle %v, want %v", flag.Name, got, want)
		}

		seen++
	}

	if seen != len(logFlags) {
		t.Errorf("scan handles %d flags, log group has %d", len(logFlags), seen)
	}
}
