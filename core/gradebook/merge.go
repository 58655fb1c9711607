package gradebook

type (
	// Student is one merged gradebook row.
	Student struct {
		ID        string             `json:"id"`
		FirstName string             `json:"first_name,omitempty"`
		LastName  string             `json:"last_name,omitempty"`
		Email     string             `json:"email,omitempty"`
		Section   string             `json:"section,omitempty"`
		Scores    map[string]float64 `json:"scores"` // category -> score; absent = missing

		// computed by ApplyWeights
		Final          *float64 `json:"final_score"` // nil = no usable score
		CeilingPercent *float64 `json:"ceiling_percent"`
		LetterGrade    string   `json:"letter_grade,omitempty"`
	}

	// Gradebook is the joined table: one row per roster student.
	Gradebook struct {
		Students       []Student `json:"students"`   // roster order
		Categories     []string  `json:"categories"` // discovered score categories, input order
		QuizCategories []string  `json:"quiz_categories,omitempty"`

		index map[string]int
	}
)

func (s *Student) Name() string {
	switch {
	case s.FirstName == "" && s.LastName == "":
		return s.ID
	case s.FirstName == "":
		return s.LastName
	case s.LastName == "":
		return s.FirstName
	}
	return s.FirstName + " " + s.LastName
}

// Score returns the student's score for a category, reporting missing values.
func (s *Student) Score(category string) (float64, bool) {
	v, ok := s.Scores[category]
	return v, ok
}

// Student returns the row for the given identifier.
func (gb *Gradebook) Student(id string) (*Student, error) {
	i, ok := gb.index[id]
	if !ok {
		return nil, &NotFoundError{ID: id}
	}
	return &gb.Students[i], nil
}

func (gb *Gradebook) reindex() {
	gb.index = make(map[string]int, len(gb.Students))
	for i, s := range gb.Students {
		gb.index[s.ID] = i
	}
}

// Merge joins the three inputs into one table with one row per roster student.
// Grade rows attach by identifier; quiz rows attach by the roster email and
// fall back to the identifier when the quiz file is keyed by it directly.
// Students absent from a secondary file keep missing values for its columns.
func Merge(roster, grades *Table, quizzes []Quiz) (*Gradebook, error) {
	if roster == nil {
		return nil, &SchemaError{File: "roster", Column: RosterKeyColumn}
	}

	gb := &Gradebook{}

	// categories: grade score columns first, then one per quiz file
	if grades != nil {
		for _, col := range grades.Columns {
			switch col {
			case FirstNameColumn, LastNameColumn, EmailColumn, SectionColumn:
			default:
				gb.Categories = append(gb.Categories, col)
			}
		}
	}
	for _, q := range quizzes {
		gb.Categories = append(gb.Categories, q.Name)
		gb.QuizCategories = append(gb.QuizCategories, q.Name)
	}

	for _, row := range roster.Rows {
		s := Student{
			ID:        row.Key,
			FirstName: row.Text[FirstNameColumn],
			LastName:  row.Text[LastNameColumn],
			Email:     row.Text[EmailColumn],
			Section:   row.Text[SectionColumn],
			Scores:    make(map[string]float64),
		}

		if grades != nil {
			if grow, ok := grades.Get(s.ID); ok {
				if s.FirstName == "" {
					s.FirstName = grow.Text[FirstNameColumn]
				}
				if s.LastName == "" {
					s.LastName = grow.Text[LastNameColumn]
				}
				for _, col := range grades.Columns {
					if v, ok := grow.Nums[col]; ok && gb.hasCategory(col) {
						s.Scores[col] = v
					}
				}
			}
		}

		for _, q := range quizzes {
			qrow, ok := q.Table.Get(s.Email)
			if !ok {
				qrow, ok = q.Table.Get(s.ID)
			}
			if !ok {
				continue
			}
			if v, ok := qrow.Nums[QuizGradeColumn]; ok {
				s.Scores[q.Name] = v
			}
		}

		gb.Students = append(gb.Students, s)
	}

	gb.reindex()
	return gb, nil
}

func (gb *Gradebook) hasCategory(name string) bool {
	for _, c := range gb.Categories {
		if c == name {
			return true
		}
	}
	return false
}
