package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/study-buddy/study-buddy-api/internal/dto"
	"github.com/study-buddy/study-buddy-api/internal/models"
	"github.com/study-buddy/study-buddy-api/internal/timetable"
	appErrors "github.com/study-buddy/study-buddy-api/pkg/errors"
	"github.com/study-buddy/study-buddy-api/pkg/export"
)

type rosterStore interface {
	Create(ctx context.Context, roster *models.Roster) error
	GetLatestByUser(ctx context.Context, userID string) (*models.Roster, error)
}

type scheduleGenerator interface {
	GenerateJSON(ctx context.Context, prompt string) (json.RawMessage, error)
}

type tableExporter interface {
	GenerateTable(exportID, name, title string, dataset export.Dataset, format ExportFormat) (*ExportResult, error)
}

type emailNotifier interface {
	Enabled() bool
	SendTimetableReady(to, username, downloadURL string) error
}

// PlannerOptions tunes timetable generation.
type PlannerOptions struct {
	CacheTTL   time.Duration
	MinCourses int
}

// PlannerService owns the timetable lifecycle: roster validation, schedule
// generation through the model, grid/stat aggregation, last-result caching
// and file exports.
type PlannerService struct {
	rosters   rosterStore
	ai        scheduleGenerator
	cache     *CacheService
	metrics   *MetricsService
	exports   tableExporter
	email     emailNotifier
	validator *validator.Validate
	logger    *zap.Logger
	opts      PlannerOptions
}

// NewPlannerService constructs a PlannerService.
func NewPlannerService(rosters rosterStore, ai scheduleGenerator, cache *CacheService, metrics *MetricsService, exports tableExporter, email emailNotifier, validate *validator.Validate, logger *zap.Logger, opts PlannerOptions) *PlannerService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if opts.MinCourses <= 0 {
		opts.MinCourses = 3
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 24 * time.Hour
	}
	return &PlannerService{
		rosters:   rosters,
		ai:        ai,
		cache:     cache,
		metrics:   metrics,
		exports:   exports,
		email:     email,
		validator: validate,
		logger:    logger,
		opts:      opts,
	}
}

func timetableCacheKey(userID string) string {
	return "timetable:last:" + userID
}

// GenerateTimetable validates the roster, asks the model for a weekly
// schedule and returns the rendered grid with its stats. The result replaces
// the user's cached last timetable.
func (s *PlannerService) GenerateTimetable(ctx context.Context, userID string, req dto.GenerateTimetableRequest) (*dto.TimetableResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid timetable request")
	}
	if len(req.Courses) < s.opts.MinCourses {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("at least %d courses are required", s.opts.MinCourses))
	}

	now := time.Now().UTC()
	roster := &models.Roster{
		ID:        uuid.NewString(),
		UserID:    userID,
		Title:     req.Title,
		CreatedAt: now,
		UpdatedAt: now,
		Courses:   make([]models.Course, 0, len(req.Courses)),
	}
	for _, c := range req.Courses {
		roster.Courses = append(roster.Courses, models.Course{
			ID:        uuid.NewString(),
			Name:      strings.TrimSpace(c.Name),
			Code:      strings.TrimSpace(c.Code),
			Units:     c.Units,
			CreatedAt: now,
		})
	}

	// Roster persistence is best effort; a database outage should not block
	// generating a schedule the user already typed in.
	if err := s.rosters.Create(ctx, roster); err != nil {
		s.logger.Warn("failed to persist roster", zap.String("user_id", userID), zap.Error(err))
	}

	prompt := s.buildPrompt(roster.Courses)
	start := time.Now()
	raw, err := s.ai.GenerateJSON(ctx, prompt)
	if s.metrics != nil {
		s.metrics.ObserveUpstreamCall("timetable", time.Since(start), err)
	}
	if err != nil {
		return nil, err
	}

	assignments, err := timetable.Normalize(raw)
	if err != nil {
		return nil, err
	}

	grid := timetable.BuildGrid(assignments)
	stats := timetable.ComputeStats(roster.Courses, assignments)
	view := buildTimetableView(roster.ID, roster.Title, now, grid, stats)

	if err := s.cache.Set(ctx, timetableCacheKey(userID), view, s.opts.CacheTTL); err != nil {
		s.logger.Warn("failed to cache timetable", zap.String("user_id", userID), zap.Error(err))
	}
	if s.metrics != nil {
		s.metrics.RecordTimetableGenerated()
	}

	s.logger.Info("timetable generated",
		zap.String("user_id", userID),
		zap.String("roster_id", roster.ID),
		zap.Int("assignments", stats.TotalScheduledHours))
	return view, nil
}

// LastTimetable returns the cached last result for the user.
func (s *PlannerService) LastTimetable(ctx context.Context, userID string) (*dto.TimetableResponse, error) {
	var view dto.TimetableResponse
	hit, err := s.cache.Get(ctx, timetableCacheKey(userID), &view)
	if err != nil {
		s.logger.Warn("timetable cache read failed", zap.String("user_id", userID), zap.Error(err))
	}
	if !hit {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "no saved timetable, generate one first")
	}
	return &view, nil
}

// LatestRoster returns the user's most recent course roster.
func (s *PlannerService) LatestRoster(ctx context.Context, userID string) (*models.Roster, error) {
	roster, err := s.rosters.GetLatestByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "no roster saved yet")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load roster")
	}
	return roster, nil
}

// ExportTimetable renders the user's last timetable as CSV or PDF and
// returns a signed download. When email delivery is enabled the download
// link is also mailed to the user.
func (s *PlannerService) ExportTimetable(ctx context.Context, userID, userEmail, username string, format ExportFormat) (*ExportResult, error) {
	view, err := s.LastTimetable(ctx, userID)
	if err != nil {
		return nil, err
	}

	title := view.Title
	if title == "" {
		title = "Weekly Study Timetable"
	}
	dataset := timetableDataset(view)
	result, err := s.exports.GenerateTable(uuid.NewString(), "timetable", title, dataset, format)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render timetable export")
	}

	if s.email != nil && s.email.Enabled() && userEmail != "" {
		if err := s.email.SendTimetableReady(userEmail, username, result.URL); err != nil {
			s.logger.Warn("failed to queue export email", zap.String("user_id", userID), zap.Error(err))
		}
	}
	return result, nil
}

// buildPrompt embeds the canonical vocabulary and the roster so the model
// can only answer inside the grid we render.
func (s *PlannerService) buildPrompt(courses []models.Course) string {
	coursesJSON, _ := json.Marshal(courses)
	daysJSON, _ := json.Marshal(timetable.Days)
	slotsJSON, _ := json.Marshal(timetable.TimeSlots)

	var b strings.Builder
	b.WriteString("You are a study planner. Create a balanced weekly study timetable for these courses:\n")
	b.Write(coursesJSON)
	b.WriteString("\nAllocate more sessions to courses with more units. Use only these days:\n")
	b.Write(daysJSON)
	b.WriteString("\nand only these time slots:\n")
	b.Write(slotsJSON)
	b.WriteString("\nRespond with a JSON array where every element has exactly these string fields: ")
	b.WriteString(`"day", "time", "courseName", "courseCode". `)
	b.WriteString("Schedule at most one course per day and time slot. Do not include any other text.")
	return b.String()
}

func buildTimetableView(rosterID, title string, generatedAt time.Time, grid models.WeeklyGrid, stats models.ScheduleStats) *dto.TimetableResponse {
	view := &dto.TimetableResponse{
		RosterID:    rosterID,
		Title:       title,
		GeneratedAt: generatedAt,
		Days:        make([]dto.DayHeader, 0, len(grid.Days)),
		TimeSlots:   make([]dto.SlotHeader, 0, len(grid.TimeSlots)),
		Cells:       make([][]dto.TimetableCell, 0, len(grid.Cells)),
		Stats:       stats,
	}
	for _, day := range grid.Days {
		view.Days = append(view.Days, dto.DayHeader{Name: day, Glyph: timetable.DayGlyph(day)})
	}
	for _, slot := range grid.TimeSlots {
		view.TimeSlots = append(view.TimeSlots, dto.SlotHeader{Label: slot, Glyph: timetable.TimeGlyph(slot)})
	}
	for _, row := range grid.Cells {
		cells := make([]dto.TimetableCell, 0, len(row))
		for _, cell := range row {
			rendered := dto.TimetableCell{
				Occupied:   cell.Occupied,
				CourseName: cell.CourseName,
				CourseCode: cell.CourseCode,
			}
			if cell.Occupied {
				rendered.Glyph = timetable.CourseGlyph(cell.CourseName)
			}
			cells = append(cells, rendered)
		}
		view.Cells = append(view.Cells, cells)
	}
	return view
}

func timetableDataset(view *dto.TimetableResponse) export.Dataset {
	headers := make([]string, 0, len(view.Days)+1)
	headers = append(headers, "Time")
	for _, day := range view.Days {
		headers = append(headers, day.Name)
	}

	rows := make([]map[string]string, 0, len(view.TimeSlots))
	for i, slot := range view.TimeSlots {
		row := map[string]string{"Time": slot.Label}
		for j, day := range view.Days {
			if i < len(view.Cells) && j < len(view.Cells[i]) {
				cell := view.Cells[i][j]
				if cell.Occupied {
					row[day.Name] = fmt.Sprintf("%s (%s)", cell.CourseName, cell.CourseCode)
				}
			}
		}
		rows = append(rows, row)
	}
	return export.Dataset{Headers: headers, Rows: rows}
}
