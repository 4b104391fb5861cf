package service

import (
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/study-buddy/study-buddy-api/pkg/export"
	"github.com/study-buddy/study-buddy-api/pkg/storage"
)

func newExportService(t *testing.T) *ExportService {
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	signer := storage.NewSignedURLSigner("test-secret", time.Minute)
	return NewExportService(store, signer, ExportConfig{APIPrefix: "/api/v1"}, zap.NewNop(), nil, nil)
}

func TestExportServiceGenerateTableCSV(t *testing.T) {
	svc := newExportService(t)

	dataset := export.Dataset{
		Headers: []string{"Time", "Monday"},
		Rows: []map[string]string{
			{"Time": "8:00 AM - 9:00 AM", "Monday": "Calculus I (MTH101)"},
		},
	}
	result, err := svc.GenerateTable("e1", "timetable", "Weekly Study Timetable", dataset, ExportFormatCSV)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(result.URL, "/api/v1/export/"))
	assert.True(t, strings.HasSuffix(result.RelativePath, ".csv"))

	exportID, relPath, _, err := svc.ParseToken(result.Token, false)
	require.NoError(t, err)
	assert.Equal(t, "e1", exportID)
	assert.Equal(t, result.RelativePath, relPath)

	f, err := svc.Open(relPath)
	require.NoError(t, err)
	defer f.Close()
	content, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Contains(t, string(content), "Calculus I (MTH101)")
}

func TestExportServiceGenerateDocumentPDF(t *testing.T) {
	svc := newExportService(t)

	result, err := svc.GenerateDocument("e2", "notes", "Study Notes: Derivatives", []export.Section{
		{Heading: "Definition", Body: "A derivative measures instantaneous change."},
	})
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(result.RelativePath, ".pdf"))

	f, err := svc.Open(result.RelativePath)
	require.NoError(t, err)
	defer f.Close()
	head := make([]byte, 4)
	_, err = io.ReadFull(f, head)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(head))
}

func TestExportServiceRejectsUnknownFormat(t *testing.T) {
	svc := newExportService(t)

	_, err := svc.GenerateTable("e3", "timetable", "Weekly", export.Dataset{Headers: []string{"Time"}}, ExportFormat("xml"))
	require.Error(t, err)
}
