package sheet

import (
	"encoding/csv"
	"fmt"
	"os"
)

// CSVStore is a file-backed Store. The whole grid is held in memory; Load
// and Save are explicit so a sync run mutates cells freely and persists
// once at the end.
type CSVStore struct {
	path string
	grid [][]string
}

// NewCSVStore creates a store for the given file path without touching disk.
func NewCSVStore(path string) *CSVStore {
	return &CSVStore{path: path}
}

// Load reads the CSV file into memory. A missing file yields an empty grid.
func (s *CSVStore) Load() error {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.grid = nil
			return nil
		}
		return fmt.Errorf("open sheet %s: %w", s.path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // ragged rows are fine
	rows, err := r.ReadAll()
	if err != nil {
		return fmt.Errorf("read sheet %s: %w", s.path, err)
	}
	s.grid = rows
	return nil
}

// Save writes the in-memory grid back to the file.
func (s *CSVStore) Save() error {
	f, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("create sheet %s: %w", s.path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(s.grid); err != nil {
		return fmt.Errorf("write sheet %s: %w", s.path, err)
	}
	w.Flush()
	return w.Error()
}

// ReadColumn implements Store. Rows shorter than col read as "".
func (s *CSVStore) ReadColumn(startRow, col int) ([]string, error) {
	if startRow < 1 || col < 1 {
		return nil, fmt.Errorf("cell coordinates are 1-based (row %d, col %d)", startRow, col)
	}

	var values []string
	for i := startRow - 1; i < len(s.grid); i++ {
		row := s.grid[i]
		if col-1 < len(row) {
			values = append(values, row[col-1])
		} else {
			values = append(values, "")
		}
	}
	return values, nil
}

// WriteCell implements Store, growing the grid as needed.
func (s *CSVStore) WriteCell(row, col int, value string) error {
	if row < 1 || col < 1 {
		return fmt.Errorf("cell coordinates are 1-based (row %d, col %d)", row, col)
	}

	for len(s.grid) < row {
		s.grid = append(s.grid, nil)
	}
	for len(s.grid[row-1]) < col {
		s.grid[row-1] = append(s.grid[row-1], "")
	}
	s.grid[row-1][col-1] = value
	return nil
}
