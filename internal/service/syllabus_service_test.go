package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/study-buddy/study-buddy-api/internal/dto"
	appErrors "github.com/study-buddy/study-buddy-api/pkg/errors"
)

func syllabusRequest() dto.SyllabusRequest {
	return dto.SyllabusRequest{
		CourseName: "Linear Algebra",
		Topics:     []string{"Vectors", "Matrices", "Eigenvalues"},
	}
}

func TestSyllabusGenerate(t *testing.T) {
	ai := &stubGenerator{raw: json.RawMessage(`[
		{"week":1,"topic":"Vectors","readings":["Chapter 1"]},
		{"week":2,"topic":"Matrices","readings":["Chapter 2"]},
		{"topic":"Determinants","readings":[]},
		{"week":4,"topic":"Eigenvalues","readings":["Chapter 5","Chapter 6"]}
	]`)}
	svc := NewSyllabusService(ai, nil, validator.New(), zap.NewNop())

	res, err := svc.Generate(context.Background(), syllabusRequest())
	require.NoError(t, err)
	require.Len(t, res.Weeks, 4)
	assert.Equal(t, "Linear Algebra", res.CourseName)
	// missing week numbers are backfilled from position
	assert.Equal(t, 3, res.Weeks[2].Week)
	assert.Contains(t, ai.prompt, "Eigenvalues")
}

func TestSyllabusGenerateValidation(t *testing.T) {
	svc := NewSyllabusService(&stubGenerator{}, nil, validator.New(), zap.NewNop())

	cases := []dto.SyllabusRequest{
		{CourseName: "", Topics: []string{"a", "b", "c"}},
		{CourseName: "Linear Algebra", Topics: []string{"a", "b"}},
		{CourseName: "Linear Algebra", Topics: []string{"a", "b", ""}},
	}
	for _, req := range cases {
		_, err := svc.Generate(context.Background(), req)
		require.Error(t, err)
		assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	}
}

func TestSyllabusGenerateMalformed(t *testing.T) {
	ai := &stubGenerator{raw: json.RawMessage(`"just a string"`)}
	svc := NewSyllabusService(ai, nil, validator.New(), zap.NewNop())

	_, err := svc.Generate(context.Background(), syllabusRequest())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrMalformedSchedule.Code, appErrors.FromError(err).Code)
}
