package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/study-buddy/study-buddy-api/internal/dto"
	appErrors "github.com/study-buddy/study-buddy-api/pkg/errors"
)

type uploadStorage interface {
	SaveStream(filename string, r io.Reader) (string, error)
	Delete(filename string) error
}

// SolverOptions tunes tutorial-sheet uploads.
type SolverOptions struct {
	MaxFileSizeBytes int64
}

// SolverUpload describes one incoming tutorial sheet.
type SolverUpload struct {
	FileName    string
	Size        int64
	ContentType string
	Content     io.Reader
	// Questions is the question text extracted client side. The uploaded
	// PDF is retained verbatim; its text is not parsed server side.
	Questions string
}

// SolverService stores uploaded tutorial sheets and asks the model for
// worked solutions.
type SolverService struct {
	ai      scheduleGenerator
	storage uploadStorage
	metrics *MetricsService
	logger  *zap.Logger
	opts    SolverOptions
}

// NewSolverService constructs a SolverService.
func NewSolverService(ai scheduleGenerator, storage uploadStorage, metrics *MetricsService, logger *zap.Logger, opts SolverOptions) *SolverService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.MaxFileSizeBytes <= 0 {
		opts.MaxFileSizeBytes = 5 * 1024 * 1024
	}
	return &SolverService{ai: ai, storage: storage, metrics: metrics, logger: logger, opts: opts}
}

// Solve validates and stores the upload, then returns solutions keyed by
// question label.
func (s *SolverService) Solve(ctx context.Context, userID string, upload SolverUpload) (*dto.SolverResponse, error) {
	if err := s.validateUpload(upload); err != nil {
		return nil, err
	}

	storedName := fmt.Sprintf("%s_%s%s", userID, uuid.NewString(), strings.ToLower(filepath.Ext(upload.FileName)))
	relPath, err := s.storage.SaveStream(storedName, io.LimitReader(upload.Content, s.opts.MaxFileSizeBytes))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to store upload")
	}

	start := time.Now()
	raw, err := s.ai.GenerateJSON(ctx, s.buildPrompt(upload.Questions))
	if s.metrics != nil {
		s.metrics.ObserveUpstreamCall("solver", time.Since(start), err)
	}
	if err != nil {
		if delErr := s.storage.Delete(relPath); delErr != nil {
			s.logger.Warn("failed to remove upload after solver error", zap.String("path", relPath), zap.Error(delErr))
		}
		return nil, err
	}

	var questions map[string]dto.SolverQuestion
	if err := json.Unmarshal(raw, &questions); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrMalformedSchedule.Code, appErrors.ErrMalformedSchedule.Status, "solver response is not a decodable object")
	}
	if len(questions) == 0 {
		return nil, appErrors.Clone(appErrors.ErrMalformedSchedule, "solver response contained no questions")
	}

	s.logger.Info("tutorial sheet solved",
		zap.String("user_id", userID),
		zap.String("file", upload.FileName),
		zap.Int("questions", len(questions)))
	return &dto.SolverResponse{FileName: upload.FileName, Questions: questions}, nil
}

func (s *SolverService) validateUpload(upload SolverUpload) error {
	if upload.Content == nil || upload.FileName == "" {
		return appErrors.Clone(appErrors.ErrValidation, "a PDF file is required")
	}
	if strings.ToLower(filepath.Ext(upload.FileName)) != ".pdf" {
		return appErrors.Clone(appErrors.ErrValidation, "only PDF uploads are accepted")
	}
	if upload.ContentType != "" && upload.ContentType != "application/pdf" {
		return appErrors.Clone(appErrors.ErrValidation, "only PDF uploads are accepted")
	}
	if upload.Size > s.opts.MaxFileSizeBytes {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("file exceeds the %dMB limit", s.opts.MaxFileSizeBytes/(1024*1024)))
	}
	if strings.TrimSpace(upload.Questions) == "" {
		return appErrors.Clone(appErrors.ErrValidation, "question text is required alongside the upload")
	}
	return nil
}

func (s *SolverService) buildPrompt(questions string) string {
	var b strings.Builder
	b.WriteString("Solve the following tutorial questions step by step:\n")
	b.WriteString(questions)
	b.WriteString("\nRespond with a JSON object keyed \"Q1\", \"Q2\" and so on, where each value has ")
	b.WriteString(`string fields "question" and "solution" plus a "links" array of reference URLs. `)
	b.WriteString("Do not include any other text.")
	return b.String()
}
