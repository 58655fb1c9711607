package gradebook

import (
	"bytes"
	"fmt"

	"gonum.org/v1/gonum/stat"
)

type (
	// CategoryScore pairs one student's score with the class average for the
	// same category, ready for a side-by-side chart.
	CategoryScore struct {
		Category     string   `json:"category"`
		Score        *float64 `json:"score"` // nil = missing
		ClassAverage float64  `json:"class_average"`
	}

	// StudentReport is the per-student payload: a text block plus the numeric
	// series the per-student chart consumes.
	StudentReport struct {
		ID             string          `json:"id"`
		Name           string          `json:"name"`
		Email          string          `json:"email,omitempty"`
		Section        string          `json:"section,omitempty"`
		Scores         []CategoryScore `json:"scores"`
		Final          *float64        `json:"final_score"`
		CeilingPercent *float64        `json:"ceiling_percent"`
		LetterGrade    string          `json:"letter_grade,omitempty"`
		ClassAverage   float64         `json:"class_average"`
		Rank           int             `json:"rank"`       // 1 = best, among scored students
		ClassSize      int             `json:"class_size"` // scored students
		Percentile     float64         `json:"percentile"`
		Text           string          `json:"text"`
	}
)

// Report builds the detailed payload for one student.
// The id must be a (lowercased) roster identifier; unknown ids fail with a
// NotFoundError.
func Report(gb *Gradebook, id string) (StudentReport, error) {
	s, err := gb.Student(id)
	if err != nil {
		return StudentReport{}, err
	}

	finals := gb.Finals()
	rep := StudentReport{
		ID:             s.ID,
		Name:           s.Name(),
		Email:          s.Email,
		Section:        s.Section,
		Final:          s.Final,
		CeilingPercent: s.CeilingPercent,
		LetterGrade:    s.LetterGrade,
		ClassSize:      len(finals),
	}
	if len(finals) > 0 {
		rep.ClassAverage = stat.Mean(finals, nil)
	}

	for _, cat := range gb.Categories {
		cs := CategoryScore{Category: cat, ClassAverage: categoryAverage(gb, cat)}
		if v, ok := s.Score(cat); ok {
			score := v
			cs.Score = &score
		}
		rep.Scores = append(rep.Scores, cs)
	}

	if s.Final != nil {
		var better, atOrBelow int
		for _, f := range finals {
			if f > *s.Final {
				better++
			}
			if f <= *s.Final {
				atOrBelow++
			}
		}
		rep.Rank = better + 1
		rep.Percentile = 100 * float64(atOrBelow) / float64(len(finals))
	}

	rep.Text = renderText(rep)
	return rep, nil
}

func categoryAverage(gb *Gradebook, category string) float64 {
	var sum float64
	var n int
	for _, s := range gb.Students {
		if v, ok := s.Score(category); ok {
			sum += v
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

func renderText(rep StudentReport) string {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "STUDENT: %s (%s)\n", rep.Name, rep.ID)
	if rep.Final != nil {
		fmt.Fprintf(&buf, "GRADE:   %s (%.0f%%)\n", rep.LetterGrade, *rep.CeilingPercent)
		fmt.Fprintf(&buf, "FINAL:   %.1f\n", *rep.Final)
	} else {
		fmt.Fprint(&buf, "GRADE:   n/a (no usable score)\n")
	}
	fmt.Fprintf(&buf, "AVG:     %.1f\n", rep.ClassAverage)
	if rep.Rank > 0 {
		fmt.Fprintf(&buf, "RANK:    %d/%d (percentile %.1f)\n", rep.Rank, rep.ClassSize, rep.Percentile)
	}
	fmt.Fprint(&buf, "-----------------------------------\n")
	for _, cs := range rep.Scores {
		if cs.Score != nil {
			fmt.Fprintf(&buf, "%s: %.1f (class avg %.1f)\n", cs.Category, *cs.Score, cs.ClassAverage)
		} else {
			fmt.Fprintf(&buf, "%s: -- (class avg %.1f)\n", cs.Category, cs.ClassAverage)
		}
	}
	return buf.String()
}
