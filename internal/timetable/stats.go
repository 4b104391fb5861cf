package timetable

import "github.com/study-buddy/study-buddy-api/internal/models"

// ComputeStats derives schedule aggregates from the raw assignment list.
//
// TotalScheduledHours is the raw list length: duplicate (day, time) pairs and
// unknown course codes all count. BusiestDay scans per-day counters in
// canonical day order and only replaces the leader on a strictly greater
// count, so Monday wins all-equal ties. MostScheduledCourse walks counters in
// roster order with the same strictly-greater rule, seeded with the first
// roster course, so an empty assignment list still names a course. Assignments
// with codes outside the roster accumulate in dynamic counters that the
// leader scan never visits.
func ComputeStats(roster []models.Course, assignments []models.Assignment) models.ScheduleStats {
	perDay := make(map[string]int, len(Days))
	for _, day := range Days {
		perDay[day] = 0
	}

	perCourse := make(map[string]int, len(roster))
	for _, course := range roster {
		if _, seen := perCourse[course.Code]; !seen {
			perCourse[course.Code] = 0
		}
	}

	for _, a := range assignments {
		if _, canonical := perDay[a.Day]; canonical {
			perDay[a.Day]++
		}
		perCourse[a.CourseCode]++
	}

	stats := models.ScheduleStats{
		TotalScheduledHours: len(assignments),
		HoursPerDay:         make([]int, len(Days)),
	}

	busiest := Days[0]
	for i, day := range Days {
		stats.HoursPerDay[i] = perDay[day]
		if perDay[day] > perDay[busiest] {
			busiest = day
		}
	}
	stats.BusiestDay = busiest

	if len(roster) == 0 {
		return stats
	}

	leader := roster[0]
	seen := map[string]bool{leader.Code: true}
	for _, course := range roster[1:] {
		if seen[course.Code] {
			// Duplicate codes keep first-match semantics.
			continue
		}
		seen[course.Code] = true
		if perCourse[course.Code] > perCourse[leader.Code] {
			leader = course
		}
	}

	stats.MostScheduledCourse = leader.Name
	stats.MostScheduledCode = leader.Code
	stats.MostScheduledHours = perCourse[leader.Code]

	return stats
}
