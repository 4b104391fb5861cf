package models

// Assignment is one (day, time, course) triple produced by the scheduler.
// Day and Time are expected to come from the canonical vocabulary but are not
// trusted: non-canonical values survive normalization and simply never land
// in a grid cell.
type Assignment struct {
	Day        string `json:"day"`
	Time       string `json:"time"`
	CourseName string `json:"courseName"`
	CourseCode string `json:"courseCode"`
}

// GridCell is one cell of the weekly grid. Empty cells are present with
// Occupied=false so the rendering layer always sees a dense 7x12 matrix.
type GridCell struct {
	Day        string `json:"day"`
	Time       string `json:"time"`
	Occupied   bool   `json:"occupied"`
	CourseName string `json:"courseName,omitempty"`
	CourseCode string `json:"courseCode,omitempty"`
}

// WeeklyGrid is the dense day x time-slot view model. Rows follow the
// canonical time-slot order, columns the canonical day order.
type WeeklyGrid struct {
	Days      []string     `json:"days"`
	TimeSlots []string     `json:"timeSlots"`
	Cells     [][]GridCell `json:"cells"`
}

// ScheduleStats aggregates counts derived from the raw assignment list.
// TotalScheduledHours counts every raw assignment, including entries that
// never matched a grid cell.
type ScheduleStats struct {
	TotalScheduledHours int    `json:"totalScheduledHours"`
	BusiestDay          string `json:"busiestDay"`
	MostScheduledCourse string `json:"mostScheduledCourse"`
	MostScheduledCode   string `json:"mostScheduledCode"`
	MostScheduledHours  int    `json:"mostScheduledHours"`
	HoursPerDay         []int  `json:"hoursPerDay"`
}
