package timetable

import (
	"encoding/json"

	"github.com/study-buddy/study-buddy-api/internal/models"
	appErrors "github.com/study-buddy/study-buddy-api/pkg/errors"
)

// Normalize decodes the raw scheduler payload into assignments.
//
// The top level must be a JSON array; anything else means the upstream
// contract was violated outright and yields ErrMalformedSchedule. Individual
// elements that are not objects or are missing any of the four required
// string fields are dropped silently. Non-canonical day/time values are
// retained here: they count toward statistics but never index a grid cell.
func Normalize(raw json.RawMessage) ([]models.Assignment, error) {
	var elements []json.RawMessage
	if err := json.Unmarshal(raw, &elements); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrMalformedSchedule.Code, appErrors.ErrMalformedSchedule.Status, appErrors.ErrMalformedSchedule.Message)
	}

	assignments := make([]models.Assignment, 0, len(elements))
	for _, element := range elements {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(element, &fields); err != nil {
			continue
		}

		day, ok := stringField(fields, "day")
		if !ok {
			continue
		}
		slot, ok := stringField(fields, "time")
		if !ok {
			continue
		}
		courseName, ok := stringField(fields, "courseName")
		if !ok {
			continue
		}
		courseCode, ok := stringField(fields, "courseCode")
		if !ok {
			continue
		}

		assignments = append(assignments, models.Assignment{
			Day:        day,
			Time:       slot,
			CourseName: courseName,
			CourseCode: courseCode,
		})
	}

	return assignments, nil
}

func stringField(fields map[string]json.RawMessage, key string) (string, bool) {
	raw, ok := fields[key]
	if !ok {
		return "", false
	}
	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		return "", false
	}
	return value, true
}
