package timetable

import "github.com/study-buddy/study-buddy-api/internal/models"

// BuildGrid assembles the dense 7x12 weekly grid from a normalized
// assignment list. Every canonical (day, time) pair yields exactly one cell;
// unmatched cells are present with Occupied=false. When multiple assignments
// collide on the same pair, the first occurrence in input order wins and
// later duplicates are ignored for grid purposes. They still count in
// ComputeStats, which scans the raw list independently.
func BuildGrid(assignments []models.Assignment) models.WeeklyGrid {
	type slotKey struct {
		day  string
		time string
	}

	first := make(map[slotKey]models.Assignment, len(assignments))
	for _, a := range assignments {
		key := slotKey{day: a.Day, time: a.Time}
		if _, taken := first[key]; taken {
			continue
		}
		first[key] = a
	}

	cells := make([][]models.GridCell, len(TimeSlots))
	for row, slot := range TimeSlots {
		cells[row] = make([]models.GridCell, len(Days))
		for col, day := range Days {
			cell := models.GridCell{Day: day, Time: slot}
			if a, ok := first[slotKey{day: day, time: slot}]; ok {
				cell.Occupied = true
				cell.CourseName = a.CourseName
				cell.CourseCode = a.CourseCode
			}
			cells[row][col] = cell
		}
	}

	return models.WeeklyGrid{
		Days:      append([]string(nil), Days...),
		TimeSlots: append([]string(nil), TimeSlots...),
		Cells:     cells,
	}
}
