package sheet

// Store is the positional row/column oracle the sync operations read from
// and write to. Rows and columns are 1-based. Implementations make no
// transactional guarantees; cells are written one at a time.
type Store interface {
	// ReadColumn returns the values of one column from startRow down to the
	// last occupied row, in row order. Missing cells read as "".
	ReadColumn(startRow, col int) ([]string, error)

	// WriteCell sets a single cell value.
	WriteCell(row, col int, value string) error
}
