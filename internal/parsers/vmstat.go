package parsers

import (
	"strings"
	"unicode"

	"github.com/zinspect/zinspect/internal/dataset"
)

// ParseVmstat extracts numeric sample rows from vmstat output.
//
// A line is a data row when its trimmed form starts with a digit. Tokens
// that are not numbers become 0 so columns stay aligned. Rows narrower than
// dataset.VmstatMinColumns are dropped whole.
func ParseVmstat(content string) [][]int64 {
	rows := make([][]int64, 0)
	for _, line := range splitLines(content) {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || !unicode.IsDigit(rune(trimmed[0])) {
			continue
		}

		tokens := strings.Fields(trimmed)
		if len(tokens) < dataset.VmstatMinColumns {
			continue
		}

		row := make([]int64, len(tokens))
		for i, tok := range tokens {
			row[i] = parseIntLoose(tok)
		}
		rows = append(rows, row)
	}
	return rows
}
