package session

import (
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/Abdelhadi-Wael/gradebook-project/core"
	"github.com/Abdelhadi-Wael/gradebook-project/core/gradebook"
)

// Service ties a session store to the gradebook computations. It holds no
// state of its own: every result is recomputed from the session's raw inputs.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create() (Session, error) {
	now := time.Now().UTC()
	return svc.repo.CreateSession(Session{
		ID:        uuid.NewString(),
		CreatedAt: now,
		UpdatedAt: now,
	})
}

func (svc *Service) Get(id string) (Session, error) {
	return svc.repo.GetSession(id)
}

func (svc *Service) Delete(id string) error {
	return svc.repo.DeleteSession(id)
}

func (svc *Service) save(s Session) (Session, error) {
	s.UpdatedAt = time.Now().UTC()
	return svc.repo.SaveSession(s)
}

// SetRoster parses and attaches the roster file, replacing any previous one.
func (svc *Service) SetRoster(id string, r io.Reader, filename string) (Session, error) {
	s, err := svc.repo.GetSession(id)
	if err != nil {
		return Session{}, err
	}
	t, err := gradebook.ReadRoster(r, filename)
	if err != nil {
		return Session{}, err
	}
	s.Roster = t
	return svc.save(s)
}

// SetGrades parses and attaches the grades file, replacing any previous one.
func (svc *Service) SetGrades(id string, r io.Reader, filename string) (Session, error) {
	s, err := svc.repo.GetSession(id)
	if err != nil {
		return Session{}, err
	}
	t, err := gradebook.ReadGrades(r, filename)
	if err != nil {
		return Session{}, err
	}
	s.Grades = t
	return svc.save(s)
}

// AddQuiz parses and attaches one quiz file. A quiz with the same derived
// name replaces the previous upload instead of duplicating the category.
func (svc *Service) AddQuiz(id string, r io.Reader, filename string) (Session, error) {
	s, err := svc.repo.GetSession(id)
	if err != nil {
		return Session{}, err
	}
	q, err := gradebook.ReadQuiz(r, filename)
	if err != nil {
		return Session{}, err
	}

	replaced := false
	for i := range s.Quizzes {
		if s.Quizzes[i].Name == q.Name {
			s.Quizzes[i] = q
			replaced = true
			break
		}
	}
	if !replaced {
		s.Quizzes = append(s.Quizzes, q)
	}
	return svc.save(s)
}

// SetWeights validates the weight config against the categories the current
// inputs expose, then stores it.
func (svc *Service) SetWeights(id string, weights gradebook.WeightConfig) (Session, error) {
	s, err := svc.repo.GetSession(id)
	if err != nil {
		return Session{}, err
	}

	categories, err := svc.categories(&s)
	if err != nil {
		return Session{}, err
	}
	if err = weights.Validate(categories); err != nil {
		return Session{}, err
	}

	s.Weights = weights
	return svc.save(s)
}

// Categories lists the weighting options the session's inputs expose.
func (svc *Service) Categories(id string) ([]string, error) {
	s, err := svc.repo.GetSession(id)
	if err != nil {
		return nil, err
	}
	return svc.categories(&s)
}

func (svc *Service) categories(s *Session) ([]string, error) {
	gb, err := svc.compute(s, false /* weighted */)
	if err != nil {
		return nil, err
	}
	return gb.Categories, nil
}

// Gradebook recomputes the full merged, normalized, weighted table.
func (svc *Service) Gradebook(id string) (*gradebook.Gradebook, error) {
	s, err := svc.repo.GetSession(id)
	if err != nil {
		return nil, err
	}
	return svc.compute(&s, true /* weighted */)
}

func (svc *Service) compute(s *Session, weighted bool) (*gradebook.Gradebook, error) {
	if s.Roster == nil {
		return nil, core.NewValidationError(
			fmt.Errorf("no roster uploaded"),
			core.FieldError{Field: "roster", Error: "upload a roster file first"},
		)
	}
	if s.Grades == nil {
		return nil, core.NewValidationError(
			fmt.Errorf("no grades uploaded"),
			core.FieldError{Field: "grades", Error: "upload a grades file first"},
		)
	}

	gb, err := gradebook.Merge(s.Roster, s.Grades, s.Quizzes)
	if err != nil {
		return nil, err
	}
	gradebook.Normalize(gb)

	if weighted && len(s.Weights) > 0 {
		if err = gradebook.ApplyWeights(gb, s.Weights); err != nil {
			return nil, err
		}
	}
	return gb, nil
}

// Summary recomputes the class summary statistics.
func (svc *Service) Summary(id string, opts gradebook.SummaryOptions) (gradebook.ClassSummary, error) {
	gb, err := svc.Gradebook(id)
	if err != nil {
		return gradebook.ClassSummary{}, err
	}
	return gradebook.Summarize(gb, opts), nil
}

// Report recomputes the gradebook and builds one student's report.
func (svc *Service) Report(id, studentID string) (gradebook.StudentReport, error) {
	gb, err := svc.Gradebook(id)
	if err != nil {
		return gradebook.StudentReport{}, err
	}
	return gradebook.Report(gb, core.CleanString(studentID, true /* lower */))
}

// ExportCSV streams the gradebook as CSV, optionally filtered to one section.
func (svc *Service) ExportCSV(id, section string, w io.Writer) error {
	gb, err := svc.Gradebook(id)
	if err != nil {
		return err
	}
	return errors.Wrap(gradebook.WriteCSV(w, gb, section), "exporting CSV")
}

// ExportXLSX streams the gradebook as an XLSX workbook.
func (svc *Service) ExportXLSX(id string, w io.Writer) error {
	gb, err := svc.Gradebook(id)
	if err != nil {
		return err
	}
	return errors.Wrap(gradebook.WriteXLSX(w, gb), "exporting XLSX")
}
