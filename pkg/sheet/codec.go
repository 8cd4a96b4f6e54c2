// Package sheet provides spreadsheet cell addressing and a positional
// row/column store abstraction used by the sync operations.
package sheet

import (
	"fmt"
	"strings"
)

// ColumnLetter converts a 1-based column index to its spreadsheet letter
// notation (1 -> "A", 26 -> "Z", 27 -> "AA"). This is bijective base-26:
// there is no zero digit, each position encodes 1..26.
func ColumnLetter(index int) string {
	if index < 1 {
		return ""
	}

	var b []byte
	for index > 0 {
		index--
		b = append([]byte{byte('A' + index%26)}, b...)
		index /= 26
	}
	return string(b)
}

// ColumnIndex converts spreadsheet letter notation back to its 1-based
// column index ("A" -> 1, "Z" -> 26, "AA" -> 27). Input is case-normalized
// before decoding. Non-letter input is rejected.
func ColumnIndex(letters string) (int, error) {
	letters = strings.ToUpper(strings.TrimSpace(letters))
	if letters == "" {
		return 0, fmt.Errorf("empty column reference")
	}

	index := 0
	for _, r := range letters {
		if r < 'A' || r > 'Z' {
			return 0, fmt.Errorf("invalid column reference %q", letters)
		}
		index = index*26 + int(r-'A'+1)
	}
	return index, nil
}

// CellRef formats a 1-based (row, column) pair as an A1-style reference.
func CellRef(row, col int) string {
	return fmt.Sprintf("%s%d", ColumnLetter(col), row)
}
