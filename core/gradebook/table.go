package gradebook

import (
	"encoding/csv"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/Abdelhadi-Wael/gradebook-project/core"
)

// Well-known input columns.
const (
	RosterKeyColumn = "NetID"
	GradesKeyColumn = "SID" // same identifier space as NetID
	QuizKeyColumn   = "Email"
	QuizGradeColumn = "Grade"
	EmailColumn     = "Email Address"
	SectionColumn   = "Section"
	FirstNameColumn = "First Name"
	LastNameColumn  = "Last Name"
)

type (
	// Table is one parsed CSV input, keyed by a student identifier column.
	// It serializes cleanly so session stores can persist raw inputs as-is.
	Table struct {
		File    string   `json:"file"` // source file name, used in error messages
		Key     string   `json:"key"`
		Columns []string `json:"columns"` // non-key columns, input order
		Rows    []Row    `json:"rows"`

		index map[string]int
	}

	// Row holds one record's cells split into numeric and text values.
	// A category absent from Nums is missing, never zero.
	Row struct {
		Key  string             `json:"key"`
		Nums map[string]float64 `json:"nums,omitempty"`
		Text map[string]string  `json:"text,omitempty"`
	}

	// ParseOptions control how a CSV input is read into a Table.
	ParseOptions struct {
		File       string
		Key        string
		LowerText  []string            // text columns to lowercase (emails)
		SkipColumn func(string) bool   // drops matching columns entirely
	}
)

// Parse reads one CSV input into a Table.
// The header row must contain opts.Key; a repeated identifier rejects the
// whole file with a DuplicateKeyError. Identifiers are lowercased.
func Parse(r io.Reader, opts ParseOptions) (*Table, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, &SchemaError{File: opts.File, Column: opts.Key}
	}
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s header", opts.File)
	}

	keyIdx := -1
	for i := range header {
		header[i] = core.CleanString(header[i])
		if header[i] == opts.Key {
			keyIdx = i
		}
	}
	if keyIdx < 0 {
		return nil, &SchemaError{File: opts.File, Column: opts.Key}
	}

	lowered := make(map[string]bool, len(opts.LowerText))
	for _, col := range opts.LowerText {
		lowered[col] = true
	}

	t := &Table{
		File:  opts.File,
		Key:   opts.Key,
		index: make(map[string]int),
	}
	for i, col := range header {
		if i == keyIdx || col == "" {
			continue
		}
		if opts.SkipColumn != nil && opts.SkipColumn(col) {
			continue
		}
		t.Columns = append(t.Columns, col)
	}

	line := 1
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "reading %s", opts.File)
		}
		line++

		key := core.CleanString(record[keyIdx], true /* lower */)
		if key == "" {
			continue
		}
		if _, exists := t.index[key]; exists {
			return nil, &DuplicateKeyError{File: opts.File, Key: key, Line: line}
		}

		row := Row{
			Key:  key,
			Nums: make(map[string]float64),
			Text: make(map[string]string),
		}
		for i, col := range header {
			if i == keyIdx || i >= len(record) || !t.hasColumn(col) {
				continue
			}
			cell := core.CleanString(record[i], lowered[col])
			if cell == "" {
				continue // missing, not zero
			}
			if num, err := strconv.ParseFloat(cell, 64); err == nil {
				row.Nums[col] = num
			} else {
				row.Text[col] = cell
			}
		}
		t.index[key] = len(t.Rows)
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

func (t *Table) hasColumn(name string) bool {
	for _, col := range t.Columns {
		if col == name {
			return true
		}
	}
	return false
}

// Get returns the row for the given (lowercased) identifier.
func (t *Table) Get(key string) (Row, bool) {
	if t == nil {
		return Row{}, false
	}
	if t.index == nil { // deserialized tables rebuild their index lazily
		t.index = make(map[string]int, len(t.Rows))
		for i, row := range t.Rows {
			t.index[row.Key] = i
		}
	}
	i, ok := t.index[key]
	if !ok {
		return Row{}, false
	}
	return t.Rows[i], true
}

// ReadRoster parses the roster file, keyed by NetID.
func ReadRoster(r io.Reader, file string) (*Table, error) {
	return Parse(r, ParseOptions{
		File:      file,
		Key:       RosterKeyColumn,
		LowerText: []string{EmailColumn},
	})
}

// ReadGrades parses the grades file, keyed by SID.
// Submission timestamp columns are dropped, as the grading tool exports them
// alongside the scores.
func ReadGrades(r io.Reader, file string) (*Table, error) {
	return Parse(r, ParseOptions{
		File:       file,
		Key:        GradesKeyColumn,
		SkipColumn: func(col string) bool { return strings.Contains(col, "Submission") },
	})
}

// Quiz is one parsed quiz file; its name doubles as the score category.
type Quiz struct {
	Name  string `json:"name"`
	Table *Table `json:"table"`
}

// ReadQuiz parses one quiz file, keyed by email, naming it after the file.
func ReadQuiz(r io.Reader, filename string) (Quiz, error) {
	t, err := Parse(r, ParseOptions{File: filename, Key: QuizKeyColumn})
	if err != nil {
		return Quiz{}, err
	}
	if !t.hasColumn(QuizGradeColumn) {
		return Quiz{}, &SchemaError{File: filename, Column: QuizGradeColumn}
	}
	return Quiz{Name: QuizName(filename), Table: t}, nil
}

// QuizName derives a quiz category from its file name:
// "quiz_5_responses.csv" becomes "Quiz 5".
func QuizName(filename string) string {
	name := strings.ToLower(filepath.Base(filename))
	name = strings.TrimSuffix(name, filepath.Ext(name))
	parts := strings.Split(name, "_")
	if len(parts) > 2 {
		parts = parts[:2]
	}
	for i, p := range parts {
		if p != "" {
			parts[i] = strings.ToUpper(p[:1]) + p[1:]
		}
	}
	return strings.Join(parts, " ")
}
