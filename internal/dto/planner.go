package dto

import (
	"time"

	"github.com/study-buddy/study-buddy-api/internal/models"
)

// CourseInput is one user-entered course row.
type CourseInput struct {
	Name  string `json:"courseName" validate:"required,max=50"`
	Code  string `json:"courseCode" validate:"required,max=16"`
	Units int    `json:"units" validate:"required,min=1,max=6"`
}

// GenerateTimetableRequest asks for a fresh weekly study timetable. At least
// three courses are required before generation makes sense.
type GenerateTimetableRequest struct {
	Title   string        `json:"title" validate:"max=100"`
	Courses []CourseInput `json:"courses" validate:"required,min=3,dive"`
}

// DayHeader labels one weekday column.
type DayHeader struct {
	Name  string `json:"name"`
	Glyph string `json:"glyph"`
}

// SlotHeader labels one time-slot row.
type SlotHeader struct {
	Label string `json:"label"`
	Glyph string `json:"glyph"`
}

// TimetableCell is one rendered grid cell.
type TimetableCell struct {
	Occupied   bool   `json:"occupied"`
	CourseName string `json:"courseName,omitempty"`
	CourseCode string `json:"courseCode,omitempty"`
	Glyph      string `json:"glyph,omitempty"`
}

// TimetableResponse is the rendered weekly timetable with its stats. Cells
// are indexed [slot][day] matching the TimeSlots and Days headers.
type TimetableResponse struct {
	RosterID    string               `json:"rosterId"`
	Title       string               `json:"title,omitempty"`
	GeneratedAt time.Time            `json:"generatedAt"`
	Days        []DayHeader          `json:"days"`
	TimeSlots   []SlotHeader         `json:"timeSlots"`
	Cells       [][]TimetableCell    `json:"cells"`
	Stats       models.ScheduleStats `json:"stats"`
}
