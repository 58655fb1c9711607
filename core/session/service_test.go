package session_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Abdelhadi-Wael/gradebook-project/core"
	"github.com/Abdelhadi-Wael/gradebook-project/core/gradebook"
	"github.com/Abdelhadi-Wael/gradebook-project/core/session"
	inmemstore "github.com/Abdelhadi-Wael/gradebook-project/storage/session/inmem"
)

func setup(t *testing.T) *session.Service {
	t.Helper()
	db, err := inmemstore.Open()
	require.NoError(t, err)
	return session.NewService(inmemstore.NewSessionRepository(db))
}

func uploadAll(t *testing.T, svc *session.Service) session.Session {
	t.Helper()
	s, err := svc.Create()
	require.NoError(t, err)

	_, err = svc.SetRoster(s.ID, strings.NewReader("NetID\nS1\nS2\n"), "roster.csv")
	require.NoError(t, err)
	_, err = svc.SetGrades(s.ID, strings.NewReader("SID,exam\nS1,80\n"), "grades.csv")
	require.NoError(t, err)
	s, err = svc.AddQuiz(s.ID, strings.NewReader("Email,Grade\nS1,90\nS2,70\n"), "quiz.csv")
	require.NoError(t, err)
	return s
}

func TestService_uploadFlow(t *testing.T) {
	svc := setup(t)
	s := uploadAll(t, svc)

	require.True(t, s.HasInputs())
	require.Len(t, s.Quizzes, 1)
	assert.Equal(t, "Quiz", s.Quizzes[0].Name)

	// quiz files normalize into one pooled category
	categories, err := svc.Categories(s.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{gradebook.QuizCategory, "exam"}, categories)
}

func TestService_reuploadReplaces(t *testing.T) {
	svc := setup(t)
	s := uploadAll(t, svc)

	// same quiz name replaces instead of duplicating the category
	s2, err := svc.AddQuiz(s.ID, strings.NewReader("Email,Grade\nS1,95\n"), "quiz.csv")
	require.NoError(t, err)
	assert.Len(t, s2.Quizzes, 1)
}

func TestService_setWeights(t *testing.T) {
	svc := setup(t)
	s := uploadAll(t, svc)

	_, err := svc.SetWeights(s.ID, gradebook.WeightConfig{"exam": 0.7, gradebook.QuizCategory: 0.3})
	require.NoError(t, err)

	// unknown category is rejected
	_, err = svc.SetWeights(s.ID, gradebook.WeightConfig{"homework": 1})
	var vErr *core.ValidationError
	require.ErrorAs(t, err, &vErr)
}

func TestService_gradebookRecompute(t *testing.T) {
	svc := setup(t)
	s := uploadAll(t, svc)

	_, err := svc.SetWeights(s.ID, gradebook.WeightConfig{"exam": 0.7, gradebook.QuizCategory: 0.3})
	require.NoError(t, err)

	gb, err := svc.Gradebook(s.ID)
	require.NoError(t, err)
	require.Len(t, gb.Students, 2)

	// class quiz max is 90: S1 scores 100, S2 scores 700/9
	s1, err := gb.Student("s1")
	require.NoError(t, err)
	require.NotNil(t, s1.Final)
	assert.InDelta(t, 0.7*80+0.3*100, *s1.Final, 1e-9)

	s2, err := gb.Student("s2")
	require.NoError(t, err)
	require.NotNil(t, s2.Final)
	assert.InDelta(t, 100*70.0/90, *s2.Final, 1e-9)
}

func TestService_summaryAndReport(t *testing.T) {
	svc := setup(t)
	s := uploadAll(t, svc)

	_, err := svc.SetWeights(s.ID, gradebook.WeightConfig{"exam": 0.7, gradebook.QuizCategory: 0.3})
	require.NoError(t, err)

	summary, err := svc.Summary(s.ID, gradebook.SummaryOptions{})
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Count)

	rep, err := svc.Report(s.ID, "S1") // identifiers match case-insensitively
	require.NoError(t, err)
	assert.Equal(t, "s1", rep.ID)
	assert.Equal(t, 1, rep.Rank)

	_, err = svc.Report(s.ID, "ghost")
	var notFound *gradebook.NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestService_missingInputs(t *testing.T) {
	svc := setup(t)
	s, err := svc.Create()
	require.NoError(t, err)

	_, err = svc.Gradebook(s.ID)
	var vErr *core.ValidationError
	require.ErrorAs(t, err, &vErr)
	require.Len(t, vErr.Fields, 1)
	assert.Equal(t, "roster", vErr.Fields[0].Field)
}

func TestService_unknownSession(t *testing.T) {
	svc := setup(t)

	_, err := svc.Get("nope")
	assert.ErrorIs(t, err, session.ErrNotFound)

	_, err = svc.SetWeights("nope", nil)
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestService_exports(t *testing.T) {
	svc := setup(t)
	s := uploadAll(t, svc)

	var csvBuf strings.Builder
	require.NoError(t, svc.ExportCSV(s.ID, "", &csvBuf))
	assert.Contains(t, csvBuf.String(), "s1")
	assert.Contains(t, csvBuf.String(), "s2")
}
