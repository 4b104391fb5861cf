package timetable

// Canonical vocabulary for the weekly grid. The scheduler prompt embeds these
// exact strings and the grid is addressable only through them; anything else
// in a response is kept for statistics but never rendered.

// Days lists the seven canonical day names in rendering order. Monday first;
// tie-breaks over days resolve to the earliest entry here.
var Days = []string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

// TimeSlots lists the twelve canonical hourly bands in rendering order.
var TimeSlots = []string{
	"8:00 AM - 9:00 AM", "9:00 AM - 10:00 AM", "10:00 AM - 11:00 AM", "11:00 AM - 12:00 PM",
	"12:00 PM - 1:00 PM", "1:00 PM - 2:00 PM", "2:00 PM - 3:00 PM", "3:00 PM - 4:00 PM",
	"4:00 PM - 5:00 PM", "5:00 PM - 6:00 PM", "6:00 PM - 7:00 PM", "7:00 PM - 8:00 PM",
}

var dayIndex = buildIndex(Days)
var timeSlotIndex = buildIndex(TimeSlots)

func buildIndex(values []string) map[string]int {
	index := make(map[string]int, len(values))
	for i, v := range values {
		index[v] = i
	}
	return index
}

// IsCanonicalDay reports whether day is one of the seven canonical names.
func IsCanonicalDay(day string) bool {
	_, ok := dayIndex[day]
	return ok
}

// IsCanonicalTimeSlot reports whether slot is one of the twelve canonical bands.
func IsCanonicalTimeSlot(slot string) bool {
	_, ok := timeSlotIndex[slot]
	return ok
}
