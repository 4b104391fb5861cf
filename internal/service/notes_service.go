package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/study-buddy/study-buddy-api/internal/dto"
	appErrors "github.com/study-buddy/study-buddy-api/pkg/errors"
	"github.com/study-buddy/study-buddy-api/pkg/export"
)

type documentExporter interface {
	GenerateDocument(exportID, name, title string, sections []export.Section) (*ExportResult, error)
}

// NotesService generates structured study notes and optional PDF exports.
type NotesService struct {
	ai        scheduleGenerator
	metrics   *MetricsService
	exports   documentExporter
	validator *validator.Validate
	logger    *zap.Logger
}

// NewNotesService constructs a NotesService.
func NewNotesService(ai scheduleGenerator, metrics *MetricsService, exports documentExporter, validate *validator.Validate, logger *zap.Logger) *NotesService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &NotesService{ai: ai, metrics: metrics, exports: exports, validator: validate, logger: logger}
}

// Generate produces heading/body note sections for a topic.
func (s *NotesService) Generate(ctx context.Context, req dto.NotesRequest) (*dto.NotesResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid notes request")
	}

	start := time.Now()
	raw, err := s.ai.GenerateJSON(ctx, s.buildPrompt(req))
	if s.metrics != nil {
		s.metrics.ObserveUpstreamCall("notes", time.Since(start), err)
	}
	if err != nil {
		return nil, err
	}

	var sections []dto.NoteSection
	if err := json.Unmarshal(raw, &sections); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrMalformedSchedule.Code, appErrors.ErrMalformedSchedule.Status, "notes response is not a decodable array")
	}

	s.logger.Info("notes generated", zap.String("topic", req.Topic), zap.Int("sections", len(sections)))
	return &dto.NotesResponse{Topic: req.Topic, Sections: sections}, nil
}

// Export generates notes and renders them as a downloadable PDF.
func (s *NotesService) Export(ctx context.Context, req dto.NotesRequest) (*ExportResult, error) {
	notes, err := s.Generate(ctx, req)
	if err != nil {
		return nil, err
	}

	sections := make([]export.Section, 0, len(notes.Sections))
	for _, sec := range notes.Sections {
		sections = append(sections, export.Section{Heading: sec.Heading, Body: sec.Body})
	}
	result, err := s.exports.GenerateDocument(uuid.NewString(), "notes", "Study Notes: "+notes.Topic, sections)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render notes export")
	}
	return result, nil
}

func (s *NotesService) buildPrompt(req dto.NotesRequest) string {
	var b strings.Builder
	b.WriteString("Write concise study notes on the topic \"")
	b.WriteString(req.Topic)
	b.WriteString("\".")
	if req.Source != "" {
		b.WriteString(" Base the notes on this material:\n")
		b.WriteString(req.Source)
		b.WriteString("\n")
	}
	b.WriteString(" Respond with a JSON array of objects, each with string fields ")
	b.WriteString(`"heading" and "body". Do not include any other text.`)
	return b.String()
}
