package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"FinCrawl/internal/domain/models"
	"FinCrawl/internal/usecase"
	xlogger "FinCrawl/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRunner struct {
	busy      bool
	startErr  error
	healthErr error
	started   []models.SourceID
	start     string
	end       string
}

func (f *fakeRunner) Start(start, end string, sources []models.SourceID) error {
	if f.busy {
		return usecase.ErrBusy
	}
	if f.startErr != nil {
		return f.startErr
	}
	f.start, f.end, f.started = start, end, sources
	f.busy = true
	return nil
}

func (f *fakeRunner) Status() usecase.RunStatus {
	return usecase.RunStatus{Running: f.busy, Start: f.start, End: f.end, Sources: f.started}
}

func (f *fakeRunner) Health(context.Context) error { return f.healthErr }

func serve(t *testing.T, r *fakeRunner, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	NewCrawlEchoHandler(xlogger.Nop(), r).RegisterRoutes(e)

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestCrawlAcceptedWithMarketDefault(t *testing.T) {
	r := &fakeRunner{}
	rec := serve(t, r, http.MethodPost, "/api/v1/crawl", `{"start_date":"2021-07-01","end_date":"2021-07-02"}`)

	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, []models.SourceID{models.SourceTWSE, models.SourceTPEX}, r.started)

	var resp struct {
		Status int               `json:"status"`
		Data   usecase.RunStatus `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, http.StatusAccepted, resp.Status)
	assert.True(t, resp.Data.Running)
}

func TestCrawlExplicitSources(t *testing.T) {
	r := &fakeRunner{}
	rec := serve(t, r, http.MethodPost, "/api/v1/crawl", `{"start_date":"2021-07-01","end_date":"2021-07-01","sources":["taifex"]}`)
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, []models.SourceID{models.SourceTAIFEX}, r.started)
}

func TestCrawlValidation(t *testing.T) {
	cases := map[string]string{
		"missing start":  `{"end_date":"2021-07-01"}`,
		"bad date":       `{"start_date":"2021/07/01","end_date":"2021-07-01"}`,
		"bad market":     `{"start_date":"2021-07-01","end_date":"2021-07-01","market":"bonds"}`,
		"bad source":     `{"start_date":"2021-07-01","end_date":"2021-07-01","sources":["nyse"]}`,
		"inverted range": `{"start_date":"2021-07-05","end_date":"2021-07-01"}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			r := &fakeRunner{}
			rec := serve(t, r, http.MethodPost, "/api/v1/crawl", body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Nil(t, r.started)
		})
	}
}

func TestCrawlConflictWhileBusy(t *testing.T) {
	r := &fakeRunner{busy: true}
	rec := serve(t, r, http.MethodPost, "/api/v1/crawl", `{"start_date":"2021-07-01","end_date":"2021-07-01"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestCrawlStartFailure(t *testing.T) {
	r := &fakeRunner{startErr: errors.New("pipeline closed")}
	rec := serve(t, r, http.MethodPost, "/api/v1/crawl", `{"start_date":"2021-07-01","end_date":"2021-07-01"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":"ERR_INTERNAL"`)
	assert.NotContains(t, rec.Body.String(), "pipeline closed")
	assert.Nil(t, r.started)
}

func TestStatus(t *testing.T) {
	r := &fakeRunner{start: "2021-07-01", end: "2021-07-02"}
	rec := serve(t, r, http.MethodGet, "/api/v1/crawl/status", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"start_date":"2021-07-01"`)
}

func TestHealth(t *testing.T) {
	rec := serve(t, &fakeRunner{}, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(t, &fakeRunner{healthErr: errors.New("no route to host")}, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
