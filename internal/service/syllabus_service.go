package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/study-buddy/study-buddy-api/internal/dto"
	appErrors "github.com/study-buddy/study-buddy-api/pkg/errors"
)

// SyllabusService turns a course plus three seed topics into a four-week
// study syllabus.
type SyllabusService struct {
	ai        scheduleGenerator
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSyllabusService constructs a SyllabusService.
func NewSyllabusService(ai scheduleGenerator, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *SyllabusService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &SyllabusService{ai: ai, metrics: metrics, validator: validate, logger: logger}
}

// Generate builds the four-week plan.
func (s *SyllabusService) Generate(ctx context.Context, req dto.SyllabusRequest) (*dto.SyllabusResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid syllabus request")
	}

	start := time.Now()
	raw, err := s.ai.GenerateJSON(ctx, s.buildPrompt(req))
	if s.metrics != nil {
		s.metrics.ObserveUpstreamCall("syllabus", time.Since(start), err)
	}
	if err != nil {
		return nil, err
	}

	var weeks []dto.SyllabusWeek
	if err := json.Unmarshal(raw, &weeks); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrMalformedSchedule.Code, appErrors.ErrMalformedSchedule.Status, "syllabus response is not a decodable array")
	}
	for i := range weeks {
		if weeks[i].Week == 0 {
			weeks[i].Week = i + 1
		}
	}

	s.logger.Info("syllabus generated", zap.String("course", req.CourseName), zap.Int("weeks", len(weeks)))
	return &dto.SyllabusResponse{CourseName: req.CourseName, Weeks: weeks}, nil
}

func (s *SyllabusService) buildPrompt(req dto.SyllabusRequest) string {
	var b strings.Builder
	b.WriteString("Create a four-week study syllabus for the course \"")
	b.WriteString(req.CourseName)
	b.WriteString("\" covering these topics: ")
	b.WriteString(strings.Join(req.Topics, ", "))
	b.WriteString(". Respond with a JSON array of exactly four objects, each with fields ")
	b.WriteString(`"week" (number), "topic" (string) and "readings" (array of strings). `)
	b.WriteString("Do not include any other text.")
	return b.String()
}
