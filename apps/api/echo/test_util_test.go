package echoapi

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/Abdelhadi-Wael/gradebook-project/core"
	"github.com/Abdelhadi-Wael/gradebook-project/core/session"
	logsvc "github.com/Abdelhadi-Wael/gradebook-project/services/logger"
	inmemstore "github.com/Abdelhadi-Wael/gradebook-project/storage/session/inmem"
)

func newTestServer(t *testing.T) Server {
	t.Helper()

	conf := &core.Config{TestMode: true, AppName: "Gradebook", Env: "TEST", Build: "test"}
	conf.Summary.HistogramBins = 20
	conf.Summary.KDEPoints = 100

	db, err := inmemstore.Open()
	if err != nil {
		t.Fatalf("newTestServer() failed: %v", err)
	}
	svc := session.NewService(inmemstore.NewSessionRepository(db))

	validate := validator.New()
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	core.InitValidators(validate, translator)

	return NewServer(ServerDeps{
		Conf:       conf,
		Logger:     logsvc.NewConsoleLogger(log.New(io.Discard, "", 0)),
		SessionSvc: svc,
		Validate:   validate,
		Translator: translator,
	})
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	return req, rec
}

// newUploadRequest builds a multipart request; files are (filename, content) pairs.
func newUploadRequest(t *testing.T, path, field string, files ...[2]string) (*http.Request, *httptest.ResponseRecorder) {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for _, f := range files {
		fw, err := mw.CreateFormFile(field, f[0])
		if err != nil {
			t.Fatalf("newUploadRequest() failed: %v", err)
		}
		if _, err = io.WriteString(fw, f[1]); err != nil {
			t.Fatalf("newUploadRequest() failed: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("newUploadRequest() failed: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	return req, rec
}

func marshallObj(t *testing.T, obj interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marshallObj() failed: %v", err)
	}
	return data
}

func decodeObj(t *testing.T, rec *httptest.ResponseRecorder, obj interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), obj); err != nil {
		t.Fatalf("decodeObj() failed: %v; body: %s", err, rec.Body.String())
	}
}
