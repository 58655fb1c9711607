package gradebook

import (
	"fmt"
	"math"
	"sort"

	"github.com/Abdelhadi-Wael/gradebook-project/core"
)

// WeightConfig maps a score category to its (non-negative) weight.
// Weights need not sum to one: each student's final score divides by the
// total weight of the categories that student actually has a score for.
type WeightConfig map[string]float64

// Validate rejects negative weights and categories the gradebook never saw.
func (w WeightConfig) Validate(categories []string) error {
	known := make(map[string]bool, len(categories))
	for _, c := range categories {
		known[c] = true
	}

	var flds []core.FieldError
	for cat, weight := range w {
		switch {
		case !known[cat]:
			flds = append(flds, core.FieldError{Field: cat, Error: "unknown score category"})
		case weight < 0:
			flds = append(flds, core.FieldError{Field: cat, Error: "weight must not be negative"})
		}
	}
	if len(flds) > 0 {
		sort.Slice(flds, func(i, j int) bool { return flds[i].Field < flds[j].Field })
		return core.NewValidationError(fmt.Errorf("invalid weight config"), flds...)
	}
	return nil
}

// ApplyWeights computes every student's weighted final score in place:
//
//	final = sum(weight_c * score_c) / sum(weight_c over non-missing c)
//
// Missing categories drop out of both sums, so they never count as zero.
// A student with no score in any weighted category keeps a nil final.
func ApplyWeights(gb *Gradebook, weights WeightConfig) error {
	if err := weights.Validate(gb.Categories); err != nil {
		return err
	}

	for i := range gb.Students {
		s := &gb.Students[i]

		var num, den float64
		for cat, weight := range weights {
			if score, ok := s.Scores[cat]; ok {
				num += weight * score
				den += weight
			}
		}

		if den == 0 {
			s.Final = nil
			s.CeilingPercent = nil
			s.LetterGrade = ""
			continue
		}

		final := num / den
		ceiling := math.Ceil(final)
		s.Final = &final
		s.CeilingPercent = &ceiling
		s.LetterGrade = LetterGrade(ceiling)
	}
	return nil
}

// LetterGrade buckets a ceiling percent into the usual letter grades.
func LetterGrade(percent float64) string {
	switch {
	case percent >= 90:
		return "A"
	case percent >= 80:
		return "B"
	case percent >= 70:
		return "C"
	case percent >= 60:
		return "D"
	default:
		return "F"
	}
}
