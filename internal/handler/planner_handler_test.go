package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/study-buddy/study-buddy-api/internal/dto"
	"github.com/study-buddy/study-buddy-api/internal/middleware"
	"github.com/study-buddy/study-buddy-api/internal/models"
	"github.com/study-buddy/study-buddy-api/internal/service"
	appErrors "github.com/study-buddy/study-buddy-api/pkg/errors"
)

type fakePlannerSrv struct {
	generated   *dto.TimetableResponse
	generateErr error
	last        *dto.TimetableResponse
	lastErr     error
	roster      *models.Roster
	rosterErr   error
	export      *service.ExportResult
	exportErr   error
	lastFormat  service.ExportFormat
}

func (f *fakePlannerSrv) GenerateTimetable(ctx context.Context, userID string, req dto.GenerateTimetableRequest) (*dto.TimetableResponse, error) {
	return f.generated, f.generateErr
}

func (f *fakePlannerSrv) LastTimetable(ctx context.Context, userID string) (*dto.TimetableResponse, error) {
	return f.last, f.lastErr
}

func (f *fakePlannerSrv) LatestRoster(ctx context.Context, userID string) (*models.Roster, error) {
	return f.roster, f.rosterErr
}

func (f *fakePlannerSrv) ExportTimetable(ctx context.Context, userID, userEmail, username string, format service.ExportFormat) (*service.ExportResult, error) {
	f.lastFormat = format
	return f.export, f.exportErr
}

func authedContext(t *testing.T, method, target, body string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(method, target, strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "u1", Email: "user@example.com", Username: "planner"})
	return c, rec
}

func TestPlannerHandlerGenerate(t *testing.T) {
	srv := &fakePlannerSrv{generated: &dto.TimetableResponse{RosterID: "r1"}}
	h := NewPlannerHandler(srv)

	body := `{"courses":[
		{"courseName":"Calculus I","courseCode":"MTH101","units":3},
		{"courseName":"Physics","courseCode":"PHY101","units":3},
		{"courseName":"Computer Science","courseCode":"CSC101","units":4}
	]}`
	c, rec := authedContext(t, http.MethodPost, "/timetable", body)

	h.Generate(c)

	require.Equal(t, http.StatusOK, rec.Code)
	var envelope struct {
		Data dto.TimetableResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "r1", envelope.Data.RosterID)
}

func TestPlannerHandlerGenerateRejectsBadJSON(t *testing.T) {
	h := NewPlannerHandler(&fakePlannerSrv{})
	c, rec := authedContext(t, http.MethodPost, "/timetable", `{"courses":`)

	h.Generate(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPlannerHandlerGenerateRequiresAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/timetable", strings.NewReader("{}"))

	NewPlannerHandler(&fakePlannerSrv{}).Generate(c)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPlannerHandlerGenerateUpstreamError(t *testing.T) {
	srv := &fakePlannerSrv{generateErr: appErrors.Clone(appErrors.ErrMalformedSchedule, "bad model output")}
	h := NewPlannerHandler(srv)
	c, rec := authedContext(t, http.MethodPost, "/timetable", `{"courses":[]}`)

	h.Generate(c)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestPlannerHandlerLastNotFound(t *testing.T) {
	srv := &fakePlannerSrv{lastErr: appErrors.Clone(appErrors.ErrNotFound, "no saved timetable")}
	h := NewPlannerHandler(srv)
	c, rec := authedContext(t, http.MethodGet, "/timetable/last", "")

	h.Last(c)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPlannerHandlerExport(t *testing.T) {
	srv := &fakePlannerSrv{export: &service.ExportResult{
		URL:       "/api/v1/export/token",
		Format:    service.ExportFormatCSV,
		ExpiresAt: time.Now().Add(time.Hour),
	}}
	h := NewPlannerHandler(srv)
	c, rec := authedContext(t, http.MethodGet, "/timetable/export?format=csv", "")

	h.Export(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, service.ExportFormatCSV, srv.lastFormat)

	var envelope struct {
		Data dto.ExportResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "/api/v1/export/token", envelope.Data.URL)
}

func TestPlannerHandlerExportRejectsUnknownFormat(t *testing.T) {
	h := NewPlannerHandler(&fakePlannerSrv{})
	c, rec := authedContext(t, http.MethodGet, "/timetable/export?format=xml", "")

	h.Export(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
