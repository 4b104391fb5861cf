package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/study-buddy/study-buddy-api/internal/dto"
	"github.com/study-buddy/study-buddy-api/internal/models"
	appErrors "github.com/study-buddy/study-buddy-api/pkg/errors"
	"github.com/study-buddy/study-buddy-api/pkg/export"
)

type stubCacheRepo struct {
	data map[string][]byte
}

func newStubCacheRepo() *stubCacheRepo {
	return &stubCacheRepo{data: make(map[string][]byte)}
}

func (s *stubCacheRepo) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := s.data[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (s *stubCacheRepo) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.data[key] = raw
	return nil
}

func (s *stubCacheRepo) DeleteByPattern(ctx context.Context, pattern string) error {
	s.data = make(map[string][]byte)
	return nil
}

type stubRosterStore struct {
	created   *models.Roster
	createErr error
	latest    *models.Roster
}

func (s *stubRosterStore) Create(ctx context.Context, roster *models.Roster) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.created = roster
	return nil
}

func (s *stubRosterStore) GetLatestByUser(ctx context.Context, userID string) (*models.Roster, error) {
	if s.latest == nil {
		return nil, sql.ErrNoRows
	}
	return s.latest, nil
}

type stubGenerator struct {
	raw    json.RawMessage
	err    error
	prompt string
}

func (s *stubGenerator) GenerateJSON(ctx context.Context, prompt string) (json.RawMessage, error) {
	s.prompt = prompt
	if s.err != nil {
		return nil, s.err
	}
	return s.raw, nil
}

type stubExporter struct {
	dataset  export.Dataset
	sections []export.Section
	result   *ExportResult
	err      error
}

func (s *stubExporter) GenerateTable(exportID, name, title string, dataset export.Dataset, format ExportFormat) (*ExportResult, error) {
	s.dataset = dataset
	if s.err != nil {
		return nil, s.err
	}
	if s.result != nil {
		return s.result, nil
	}
	return &ExportResult{URL: "/api/v1/export/token", Format: format, ExpiresAt: time.Now().Add(time.Hour)}, nil
}

func (s *stubExporter) GenerateDocument(exportID, name, title string, sections []export.Section) (*ExportResult, error) {
	s.sections = sections
	if s.err != nil {
		return nil, s.err
	}
	return &ExportResult{URL: "/api/v1/export/token", Format: ExportFormatPDF, ExpiresAt: time.Now().Add(time.Hour)}, nil
}

type stubNotifier struct {
	enabled bool
	sentTo  string
	sentURL string
}

func (s *stubNotifier) Enabled() bool { return s.enabled }

func (s *stubNotifier) SendTimetableReady(to, username, downloadURL string) error {
	s.sentTo = to
	s.sentURL = downloadURL
	return nil
}

func threeCourses() []dto.CourseInput {
	return []dto.CourseInput{
		{Name: "Calculus I", Code: "MTH101", Units: 3},
		{Name: "Intro to Computer Science", Code: "CSC101", Units: 4},
		{Name: "General Physics", Code: "PHY101", Units: 3},
	}
}

func newPlanner(rosters rosterStore, ai scheduleGenerator, exporter tableExporter, email emailNotifier) (*PlannerService, *stubCacheRepo) {
	cacheRepo := newStubCacheRepo()
	cache := NewCacheService(cacheRepo, nil, time.Hour, zap.NewNop(), true)
	svc := NewPlannerService(rosters, ai, cache, nil, exporter, email, validator.New(), zap.NewNop(), PlannerOptions{})
	return svc, cacheRepo
}

func TestPlannerGenerateTimetable(t *testing.T) {
	rosters := &stubRosterStore{}
	ai := &stubGenerator{raw: json.RawMessage(`[
		{"day":"Monday","time":"8:00 AM - 9:00 AM","courseName":"Calculus I","courseCode":"MTH101"},
		{"day":"Tuesday","time":"9:00 AM - 10:00 AM","courseName":"Intro to Computer Science","courseCode":"CSC101"}
	]`)}
	svc, _ := newPlanner(rosters, ai, &stubExporter{}, nil)

	view, err := svc.GenerateTimetable(context.Background(), "u1", dto.GenerateTimetableRequest{Courses: threeCourses()})
	require.NoError(t, err)
	require.Len(t, view.Days, 7)
	require.Len(t, view.TimeSlots, 12)
	require.Len(t, view.Cells, 12)

	first := view.Cells[0][0]
	assert.True(t, first.Occupied)
	assert.Equal(t, "MTH101", first.CourseCode)
	assert.NotEmpty(t, first.Glyph)
	assert.False(t, view.Cells[0][1].Occupied)

	assert.Equal(t, 2, view.Stats.TotalScheduledHours)
	assert.Equal(t, "Monday", view.Stats.BusiestDay)

	require.NotNil(t, rosters.created)
	assert.Len(t, rosters.created.Courses, 3)
	assert.Contains(t, ai.prompt, "MTH101")
	assert.Contains(t, ai.prompt, "8:00 AM - 9:00 AM")

	cached, err := svc.LastTimetable(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, view.RosterID, cached.RosterID)
}

func TestPlannerGenerateRequiresThreeCourses(t *testing.T) {
	svc, _ := newPlanner(&stubRosterStore{}, &stubGenerator{}, &stubExporter{}, nil)

	_, err := svc.GenerateTimetable(context.Background(), "u1", dto.GenerateTimetableRequest{Courses: threeCourses()[:2]})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestPlannerGenerateMalformedResponse(t *testing.T) {
	ai := &stubGenerator{raw: json.RawMessage(`{"not":"an array"}`)}
	svc, _ := newPlanner(&stubRosterStore{}, ai, &stubExporter{}, nil)

	_, err := svc.GenerateTimetable(context.Background(), "u1", dto.GenerateTimetableRequest{Courses: threeCourses()})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrMalformedSchedule.Code, appErrors.FromError(err).Code)
}

func TestPlannerGenerateUpstreamFailure(t *testing.T) {
	ai := &stubGenerator{err: appErrors.Clone(appErrors.ErrUpstream, "quota exceeded")}
	svc, _ := newPlanner(&stubRosterStore{}, ai, &stubExporter{}, nil)

	_, err := svc.GenerateTimetable(context.Background(), "u1", dto.GenerateTimetableRequest{Courses: threeCourses()})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUpstream.Code, appErrors.FromError(err).Code)
}

func TestPlannerGenerateSurvivesRosterSaveFailure(t *testing.T) {
	rosters := &stubRosterStore{createErr: errors.New("db down")}
	ai := &stubGenerator{raw: json.RawMessage(`[]`)}
	svc, _ := newPlanner(rosters, ai, &stubExporter{}, nil)

	view, err := svc.GenerateTimetable(context.Background(), "u1", dto.GenerateTimetableRequest{Courses: threeCourses()})
	require.NoError(t, err)
	assert.Equal(t, 0, view.Stats.TotalScheduledHours)
}

func TestPlannerLastTimetableMiss(t *testing.T) {
	svc, _ := newPlanner(&stubRosterStore{}, &stubGenerator{}, &stubExporter{}, nil)

	_, err := svc.LastTimetable(context.Background(), "u1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestPlannerLastTimetableCorruptCacheDegradesToMiss(t *testing.T) {
	svc, cacheRepo := newPlanner(&stubRosterStore{}, &stubGenerator{}, &stubExporter{}, nil)
	cacheRepo.data[timetableCacheKey("u1")] = []byte("{broken")

	_, err := svc.LastTimetable(context.Background(), "u1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestPlannerExportTimetable(t *testing.T) {
	ai := &stubGenerator{raw: json.RawMessage(`[
		{"day":"Friday","time":"6:00 PM - 7:00 PM","courseName":"Calculus I","courseCode":"MTH101"}
	]`)}
	exporter := &stubExporter{}
	email := &stubNotifier{enabled: true}
	svc, _ := newPlanner(&stubRosterStore{}, ai, exporter, email)

	_, err := svc.GenerateTimetable(context.Background(), "u1", dto.GenerateTimetableRequest{Courses: threeCourses()})
	require.NoError(t, err)

	result, err := svc.ExportTimetable(context.Background(), "u1", "user@example.com", "planner", ExportFormatCSV)
	require.NoError(t, err)
	assert.Equal(t, ExportFormatCSV, result.Format)

	require.Len(t, exporter.dataset.Headers, 8)
	assert.Equal(t, "Time", exporter.dataset.Headers[0])
	require.Len(t, exporter.dataset.Rows, 12)
	assert.Equal(t, "Calculus I (MTH101)", exporter.dataset.Rows[10]["Friday"])

	assert.Equal(t, "user@example.com", email.sentTo)
	assert.Equal(t, result.URL, email.sentURL)
}

func TestPlannerExportWithoutTimetable(t *testing.T) {
	svc, _ := newPlanner(&stubRosterStore{}, &stubGenerator{}, &stubExporter{}, nil)

	_, err := svc.ExportTimetable(context.Background(), "u1", "", "", ExportFormatPDF)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
