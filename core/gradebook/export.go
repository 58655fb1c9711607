package gradebook

import (
	"encoding/csv"
	"io"
	"sort"
	"strconv"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
)

const exportSheet = "Gradebook"

// Sections lists the distinct roster sections, sorted.
func Sections(gb *Gradebook) []string {
	seen := make(map[string]bool)
	var sections []string
	for _, s := range gb.Students {
		if s.Section != "" && !seen[s.Section] {
			seen[s.Section] = true
			sections = append(sections, s.Section)
		}
	}
	sort.Strings(sections)
	return sections
}

func exportHeader(gb *Gradebook) []string {
	header := []string{"ID", "First Name", "Last Name", "Email", "Section"}
	header = append(header, gb.Categories...)
	return append(header, "Final Score", "Ceiling Percent", "Final Grade")
}

func exportRow(gb *Gradebook, s Student) []string {
	row := []string{s.ID, s.FirstName, s.LastName, s.Email, s.Section}
	for _, cat := range gb.Categories {
		if v, ok := s.Score(cat); ok {
			row = append(row, strconv.FormatFloat(v, 'f', -1, 64))
		} else {
			row = append(row, "") // missing stays blank
		}
	}
	if s.Final != nil {
		row = append(row,
			strconv.FormatFloat(*s.Final, 'f', 2, 64),
			strconv.FormatFloat(*s.CeilingPercent, 'f', 0, 64),
			s.LetterGrade,
		)
	} else {
		row = append(row, "", "", "")
	}
	return row
}

// WriteCSV writes the gradebook as CSV; a non-empty section keeps only that
// section's students.
func WriteCSV(w io.Writer, gb *Gradebook, section string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader(gb)); err != nil {
		return errors.Wrap(err, "writing gradebook CSV header")
	}
	for _, s := range gb.Students {
		if section != "" && s.Section != section {
			continue
		}
		if err := cw.Write(exportRow(gb, s)); err != nil {
			return errors.Wrap(err, "writing gradebook CSV row")
		}
	}
	cw.Flush()
	return errors.Wrap(cw.Error(), "flushing gradebook CSV")
}

// WriteXLSX writes the gradebook as an XLSX workbook, one sheet.
func WriteXLSX(w io.Writer, gb *Gradebook) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return errors.Wrap(err, "renaming sheet")
	}

	writeRow := func(rowIdx int, cells []string) error {
		for colIdx, cell := range cells {
			name, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx)
			if err != nil {
				return err
			}
			// keep numbers numeric in the workbook
			if num, convErr := strconv.ParseFloat(cell, 64); convErr == nil {
				err = f.SetCellValue(exportSheet, name, num)
			} else {
				err = f.SetCellValue(exportSheet, name, cell)
			}
			if err != nil {
				return err
			}
		}
		return nil
	}

	if err := writeRow(1, exportHeader(gb)); err != nil {
		return errors.Wrap(err, "writing gradebook XLSX header")
	}
	for i, s := range gb.Students {
		if err := writeRow(i+2, exportRow(gb, s)); err != nil {
			return errors.Wrap(err, "writing gradebook XLSX row")
		}
	}

	_, err := f.WriteTo(w)
	return errors.Wrap(err, "writing gradebook XLSX")
}
