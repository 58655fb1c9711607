package echoapi

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Abdelhadi-Wael/gradebook-project/core"
	"github.com/Abdelhadi-Wael/gradebook-project/core/gradebook"
	"github.com/Abdelhadi-Wael/gradebook-project/core/session"
	chartsvc "github.com/Abdelhadi-Wael/gradebook-project/services/charts"
)

const (
	rosterFileField = "file"
	gradesFileField = "file"
	quizFilesField  = "files"
)

type gradebookApi struct {
	svc        *session.Service
	conf       *core.Config
	validate   *validator.Validate
	translator ut.Translator
}

func registerGradebookAPI(
	g *echo.Group,
	svc *session.Service,
	conf *core.Config,
	validate *validator.Validate,
	translator ut.Translator,
) {
	api := gradebookApi{
		svc:        svc,
		conf:       conf,
		validate:   validate,
		translator: translator,
	}

	sg := g.Group("/sessions")
	sg.POST("", api.create)

	dg := sg.Group("/:id")
	dg.GET("", api.retrieve)
	dg.DELETE("", api.destroy)

	// inputs
	dg.POST("/roster", api.uploadRoster)
	dg.POST("/grades", api.uploadGrades)
	dg.POST("/quizzes", api.uploadQuizzes)
	dg.PUT("/weights", api.setWeights)
	dg.GET("/categories", api.queryCategories)

	// computed outputs
	dg.GET("/gradebook", api.retrieveGradebook)
	dg.GET("/summary", api.retrieveSummary)
	dg.GET("/sections", api.querySections)
	dg.GET("/export/csv", api.exportCSV)
	dg.GET("/export/xlsx", api.exportXLSX)
	dg.GET("/charts/grades.png", api.gradeCountsChart)
	dg.GET("/charts/distribution.png", api.distributionChart)

	stg := dg.Group("/students/:sid")
	stg.GET("/report", api.studentReport)
	stg.GET("/chart.png", api.studentChart)
}

// Serializers

type sessionResponse struct {
	ID        string                 `json:"id"`
	Roster    string                 `json:"roster,omitempty"`
	Grades    string                 `json:"grades,omitempty"`
	Quizzes   []string               `json:"quizzes,omitempty"`
	Weights   gradebook.WeightConfig `json:"weights,omitempty"`
	CreatedAt string                 `json:"created_at"`
	UpdatedAt string                 `json:"updated_at"`
}

func serializeSession(s session.Session) sessionResponse {
	resp := sessionResponse{
		ID:        s.ID,
		Weights:   s.Weights,
		CreatedAt: s.CreatedAt.Format(time.RFC3339),
		UpdatedAt: s.UpdatedAt.Format(time.RFC3339),
	}
	if s.Roster != nil {
		resp.Roster = s.Roster.File
	}
	if s.Grades != nil {
		resp.Grades = s.Grades.File
	}
	for _, q := range s.Quizzes {
		resp.Quizzes = append(resp.Quizzes, q.Name)
	}
	return resp
}

// Requests

type weightsRequest struct {
	Weights map[string]float64 `json:"weights" validate:"required,dive,keys,category,endkeys,gte=0"`
}

func (r *weightsRequest) Validate(validate *validator.Validate) error {
	return validate.Struct(r)
}

// Handlers

func (api *gradebookApi) create(ctx echo.Context) error {
	s, err := api.svc.Create()
	if err != nil {
		return errors.Wrap(err, "creating session")
	}
	return ctx.JSON(http.StatusCreated, serializeSession(s))
}

func (api *gradebookApi) retrieve(ctx echo.Context) error {
	s, err := api.svc.Get(ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, serializeSession(s))
}

func (api *gradebookApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Param("id")); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

func formFile(ctx echo.Context, field string) (multipart.File, string, error) {
	fh, err := ctx.FormFile(field)
	if err != nil {
		return nil, "", core.NewValidationError(
			fmt.Errorf("no file uploaded"),
			core.FieldError{Field: field, Error: "a CSV file is required"},
		)
	}
	f, err := fh.Open()
	if err != nil {
		return nil, "", errors.Wrapf(err, "opening upload %s", fh.Filename)
	}
	return f, fh.Filename, nil
}

func (api *gradebookApi) uploadRoster(ctx echo.Context) error {
	f, name, err := formFile(ctx, rosterFileField)
	if err != nil {
		return err
	}
	defer f.Close()

	s, err := api.svc.SetRoster(ctx.Param("id"), f, name)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, serializeSession(s))
}

func (api *gradebookApi) uploadGrades(ctx echo.Context) error {
	f, name, err := formFile(ctx, gradesFileField)
	if err != nil {
		return err
	}
	defer f.Close()

	s, err := api.svc.SetGrades(ctx.Param("id"), f, name)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, serializeSession(s))
}

func (api *gradebookApi) uploadQuizzes(ctx echo.Context) error {
	form, err := ctx.MultipartForm()
	if err != nil || len(form.File[quizFilesField]) == 0 {
		return core.NewValidationError(
			fmt.Errorf("no quiz files uploaded"),
			core.FieldError{Field: quizFilesField, Error: "at least one CSV file is required"},
		)
	}

	var s session.Session
	for _, fh := range form.File[quizFilesField] {
		f, err := fh.Open()
		if err != nil {
			return errors.Wrapf(err, "opening upload %s", fh.Filename)
		}
		s, err = api.svc.AddQuiz(ctx.Param("id"), f, fh.Filename)
		_ = f.Close()
		if err != nil {
			return err
		}
	}
	return ctx.JSON(http.StatusOK, serializeSession(s))
}

func (api *gradebookApi) setWeights(ctx echo.Context) error {
	var data weightsRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to weightsRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	s, err := api.svc.SetWeights(ctx.Param("id"), data.Weights)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, serializeSession(s))
}

func (api *gradebookApi) queryCategories(ctx echo.Context) error {
	categories, err := api.svc.Categories(ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{"categories": categories})
}

func (api *gradebookApi) retrieveGradebook(ctx echo.Context) error {
	gb, err := api.svc.Gradebook(ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, gb)
}

func (api *gradebookApi) retrieveSummary(ctx echo.Context) error {
	var q SummaryQuery
	q.Bind(ctx, api.conf)

	summary, err := api.svc.Summary(ctx.Param("id"), q.Opts)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, summary)
}

func (api *gradebookApi) querySections(ctx echo.Context) error {
	gb, err := api.svc.Gradebook(ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{"sections": gradebook.Sections(gb)})
}

func (api *gradebookApi) exportCSV(ctx echo.Context) error {
	section := ctx.QueryParam(sectionParam)

	var buf bytes.Buffer
	if err := api.svc.ExportCSV(ctx.Param("id"), section, &buf); err != nil {
		return err
	}

	filename := "grades.csv"
	if section != "" {
		filename = "Section_" + section + ".csv"
	}
	ctx.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return ctx.Blob(http.StatusOK, "text/csv", buf.Bytes())
}

func (api *gradebookApi) exportXLSX(ctx echo.Context) error {
	var buf bytes.Buffer
	if err := api.svc.ExportXLSX(ctx.Param("id"), &buf); err != nil {
		return err
	}
	ctx.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="grades.xlsx"`)
	return ctx.Blob(
		http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		buf.Bytes(),
	)
}

func (api *gradebookApi) gradeCountsChart(ctx echo.Context) error {
	var q SummaryQuery
	q.Bind(ctx, api.conf)

	summary, err := api.svc.Summary(ctx.Param("id"), q.Opts)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err = chartsvc.GradeCounts(&buf, summary.GradeCounts); err != nil {
		return err
	}
	return ctx.Blob(http.StatusOK, "image/png", buf.Bytes())
}

func (api *gradebookApi) distributionChart(ctx echo.Context) error {
	var q SummaryQuery
	q.Bind(ctx, api.conf)

	summary, err := api.svc.Summary(ctx.Param("id"), q.Opts)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err = chartsvc.Distribution(&buf, summary); err != nil {
		return err
	}
	return ctx.Blob(http.StatusOK, "image/png", buf.Bytes())
}

func (api *gradebookApi) studentReport(ctx echo.Context) error {
	rep, err := api.svc.Report(ctx.Param("id"), ctx.Param("sid"))
	if err != nil {
		return err
	}

	if ctx.QueryParam(formatParam) == "text" {
		filename := rep.ID + "_Report.txt"
		ctx.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
		return ctx.Blob(http.StatusOK, echo.MIMETextPlainCharsetUTF8, []byte(rep.Text))
	}
	return ctx.JSON(http.StatusOK, rep)
}

func (api *gradebookApi) studentChart(ctx echo.Context) error {
	rep, err := api.svc.Report(ctx.Param("id"), ctx.Param("sid"))
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err = chartsvc.StudentComparison(&buf, rep); err != nil {
		return err
	}
	return ctx.Blob(http.StatusOK, "image/png", buf.Bytes())
}
