package parsers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDiaginfo(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  map[string][]string
	}{
		{
			name: "sections are keyed by trimmed title",
			input: `== history cache diagnostic information ==
Items:10 values:20 time:0.000100
  Memory.data:

== LLD diagnostic information ==
Rules:1 values:0 time:0.000010
`,
			want: map[string][]string{
				SectionHistoryCache: {"Items:10 values:20 time:0.000100", "Memory.data:"},
				SectionLLD:          {"Rules:1 values:0 time:0.000010"},
			},
		},
		{
			name:  "lines before the first header are dropped",
			input: "stray\n== locks diagnostic information ==\nZBX_MUTEX_LOG:0x7f\n",
			want:  map[string][]string{SectionLocks: {"ZBX_MUTEX_LOG:0x7f"}},
		},
		{
			name:  "stdout section is suppressed",
			input: "== STDOUT ==\nnoise\n== alerting diagnostic information ==\nAlerts:0 time:0.1\n",
			want:  map[string][]string{SectionAlerting: {"Alerts:0 time:0.1"}},
		},
		{
			name:  "lines after stdout stay dropped until the next header",
			input: "== LLD diagnostic information ==\nRules:1 values:0 time:0.1\n== STDOUT ==\nnoise\nmore noise\n",
			want:  map[string][]string{SectionLLD: {"Rules:1 values:0 time:0.1"}},
		},
		{
			name:  "repeated title starts over",
			input: "== locks diagnostic information ==\na:0x1\n== locks diagnostic information ==\nb:0x2\n",
			want:  map[string][]string{SectionLocks: {"b:0x2"}},
		},
		{
			name:  "empty section is kept",
			input: "== value cache diagnostic information ==\n\n",
			want:  map[string][]string{SectionValueCache: {}},
		},
		{
			name:  "empty input",
			input: "",
			want:  map[string][]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseDiaginfo(tt.input))
		})
	}
}

func TestParseDiaginfo_NeverKeepsStdout(t *testing.T) {
	inputs := []string{
		"== STDOUT ==",
		"== STDOUT ==\nline\n",
		"==  STDOUT  ==\nline\n== x ==\ny\n",
		"== a ==\n1\n== STDOUT ==\n2\n== STDOUT ==\n3\n",
	}
	for _, in := range inputs {
		assert.NotContains(t, ParseDiaginfo(in), StdoutSection, "input %q", in)
	}
}
