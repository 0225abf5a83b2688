package parsers

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const vmstatSample = `procs -----------memory---------- ---swap-- -----io---- -system-- ------cpu-----
 r  b   swpd   free   buff  cache   si   so    bi    bo   in   cs us sy id wa st
 2  0      0 812344 120032 3456780    0    0     5    22  310  512  7  2 90  1  0
 1  0      0 811200 120040 3456900    0    0     0    48  290  498  5  1 93  1  0
`

func TestParseVmstat(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  [][]int64
	}{
		{
			name:  "header lines are skipped",
			input: vmstatSample,
			want: [][]int64{
				{2, 0, 0, 812344, 120032, 3456780, 0, 0, 5, 22, 310, 512, 7, 2, 90, 1, 0},
				{1, 0, 0, 811200, 120040, 3456900, 0, 0, 0, 48, 290, 498, 5, 1, 93, 1, 0},
			},
		},
		{
			name:  "short rows are dropped",
			input: "1 2 3 4 5\n1 2 3 4 5 6 7 8 9 10 11 12 13 14 15 16\n",
			want:  [][]int64{{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16}},
		},
		{
			name:  "non-numeric tokens become zero",
			input: "1 x 3 4 5 6 7 8 9 10 11 12 13 14 15 16\n",
			want:  [][]int64{{1, 0, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16}},
		},
		{
			name:  "leading integer prefix is kept",
			input: "1 2k 3 4 5 6 7 8 9 10 11 12 13 14 15 16\n",
			want:  [][]int64{{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16}},
		},
		{
			name:  "lines starting with a letter are ignored",
			input: "r 1 2 3 4 5 6 7 8 9 10 11 12 13 14 15 16\n",
			want:  [][]int64{},
		},
		{
			name:  "crlf input",
			input: "1 2 3 4 5 6 7 8 9 10 11 12 13 14 15 16\r\n",
			want:  [][]int64{{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16}},
		},
		{
			name:  "empty input",
			input: "",
			want:  [][]int64{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseVmstat(tt.input))
		})
	}
}

func TestParseVmstat_RowsAreWideEnough(t *testing.T) {
	input := vmstatSample + "3 4 5\n9 9 9 9 9 9 9 9 9 9 9 9 9 9 9\n"
	for _, row := range ParseVmstat(input) {
		assert.GreaterOrEqual(t, len(row), 16)
	}
}

func TestParseVmstat_ReparseIsStable(t *testing.T) {
	first := ParseVmstat(vmstatSample)
	require.NotEmpty(t, first)

	var b strings.Builder
	for _, row := range first {
		cols := make([]string, len(row))
		for i, v := range row {
			cols[i] = strconv.FormatInt(v, 10)
		}
		b.WriteString(strings.Join(cols, " "))
		b.WriteString("\n")
	}

	assert.Equal(t, first, ParseVmstat(b.String()))
}
