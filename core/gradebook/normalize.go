package gradebook

import (
	"regexp"
	"strings"
)

// Derived category names.
const (
	HomeworkCategory = "Homework Score"
	QuizCategory     = "Quiz Score"

	maxPointsSuffix = " - Max Points"
	scoreSuffix     = " Score"
)

var (
	examRegex     = regexp.MustCompile(`^Exam \d$`)
	homeworkRegex = regexp.MustCompile(`^Homework \d\d?$`)
)

// Normalize rewrites raw point columns into percentage score categories, the
// shape the grading tool exports:
//   - each "Exam n" with an "Exam n - Max Points" sibling becomes
//     "Exam n Score" = 100 * points / max
//   - all "Homework k" columns pool into one "Homework Score" =
//     100 * sum(points) / sum(max), over the pairs a student has
//   - each quiz column is scaled by its class-wide maximum (quiz files carry
//     no max-points column), then averaged into one "Quiz Score"
//   - any other category passes through unchanged
//
// A student missing every input of a derived category stays missing in it.
func Normalize(gb *Gradebook) {
	var exams, homeworks, passthrough []string
	maxCols := make(map[string]string) // base category -> max-points column
	quiz := make(map[string]bool, len(gb.QuizCategories))
	for _, c := range gb.QuizCategories {
		quiz[c] = true
	}

	for _, cat := range gb.Categories {
		switch {
		case strings.HasSuffix(cat, maxPointsSuffix):
			maxCols[strings.TrimSuffix(cat, maxPointsSuffix)] = cat
		case examRegex.MatchString(cat):
			exams = append(exams, cat)
		case homeworkRegex.MatchString(cat):
			homeworks = append(homeworks, cat)
		case quiz[cat]:
		default:
			passthrough = append(passthrough, cat)
		}
	}

	// class-wide quiz maxima
	quizMax := make(map[string]float64, len(gb.QuizCategories))
	for _, s := range gb.Students {
		for _, q := range gb.QuizCategories {
			if v, ok := s.Scores[q]; ok && v > quizMax[q] {
				quizMax[q] = v
			}
		}
	}

	var categories []string
	for _, exam := range exams {
		if _, ok := maxCols[exam]; ok {
			categories = append(categories, exam+scoreSuffix)
		} else {
			passthrough = append(passthrough, exam)
		}
	}
	if len(homeworks) > 0 {
		categories = append(categories, HomeworkCategory)
	}
	if len(gb.QuizCategories) > 0 {
		categories = append(categories, QuizCategory)
	}
	categories = append(categories, passthrough...)

	for i := range gb.Students {
		s := &gb.Students[i]
		scores := make(map[string]float64, len(categories))

		for _, exam := range exams {
			maxCol, ok := maxCols[exam]
			if !ok {
				continue
			}
			pts, okPts := s.Scores[exam]
			max, okMax := s.Scores[maxCol]
			if okPts && okMax && max > 0 {
				scores[exam+scoreSuffix] = 100 * pts / max
			}
		}

		var hwSum, hwMaxSum float64
		var hwAny bool
		for _, hw := range homeworks {
			maxCol, ok := maxCols[hw]
			if !ok {
				continue
			}
			pts, okPts := s.Scores[hw]
			max, okMax := s.Scores[maxCol]
			if okPts && okMax {
				hwSum += pts
				hwMaxSum += max
				hwAny = true
			}
		}
		if hwAny && hwMaxSum > 0 {
			scores[HomeworkCategory] = 100 * hwSum / hwMaxSum
		}

		var qSum float64
		var qCount int
		for _, q := range gb.QuizCategories {
			if v, ok := s.Scores[q]; ok && quizMax[q] > 0 {
				qSum += v / quizMax[q]
				qCount++
			}
		}
		if qCount > 0 {
			scores[QuizCategory] = 100 * qSum / float64(qCount)
		}

		for _, cat := range passthrough {
			if v, ok := s.Scores[cat]; ok {
				scores[cat] = v
			}
		}

		s.Scores = scores
	}

	gb.Categories = categories
	gb.QuizCategories = nil
}
