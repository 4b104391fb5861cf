package timetable

import "strings"

// Display glyphs for the rendering layer. Day and time lookups are exact
// matches over the canonical vocabulary; course glyphs come from an ordered
// keyword scan against the lowercased course name, where the first matching
// keyword wins. The order below is load-bearing: "Computer Music" is a
// computer course because "computer" is checked before "music".

const defaultGlyph = "📚"

var dayGlyphs = map[string]string{
	"Monday":    "🌅",
	"Tuesday":   "📘",
	"Wednesday": "🐪",
	"Thursday":  "📙",
	"Friday":    "🎉",
	"Saturday":  "🌤️",
	"Sunday":    "😴",
}

var timeGlyphs = map[string]string{
	"8:00 AM - 9:00 AM":   "☕",
	"9:00 AM - 10:00 AM":  "🌄",
	"10:00 AM - 11:00 AM": "📖",
	"11:00 AM - 12:00 PM": "✍️",
	"12:00 PM - 1:00 PM":  "🍜",
	"1:00 PM - 2:00 PM":   "🌞",
	"2:00 PM - 3:00 PM":   "📝",
	"3:00 PM - 4:00 PM":   "🔁",
	"4:00 PM - 5:00 PM":   "🌇",
	"5:00 PM - 6:00 PM":   "🚶",
	"6:00 PM - 7:00 PM":   "🌆",
	"7:00 PM - 8:00 PM":   "🌙",
}

type courseKeyword struct {
	keyword string
	glyph   string
}

// Ordered by priority; first substring match wins.
var courseKeywords = []courseKeyword{
	{"math", "🧮"},
	{"calc", "🧮"},
	{"statist", "📊"},
	{"computer", "💻"},
	{"program", "💻"},
	{"software", "💻"},
	{"bio", "🧬"},
	{"chem", "⚗️"},
	{"phys", "🔭"},
	{"english", "📖"},
	{"literat", "📖"},
	{"hist", "🏛️"},
	{"econ", "📈"},
	{"account", "🧾"},
	{"law", "⚖️"},
	{"psych", "🧠"},
	{"music", "🎵"},
	{"art", "🎨"},
	{"engineer", "⚙️"},
}

// DayGlyph returns the display glyph for a canonical day name.
func DayGlyph(day string) string {
	if glyph, ok := dayGlyphs[day]; ok {
		return glyph
	}
	return defaultGlyph
}

// TimeGlyph returns the display glyph for a canonical time-slot label.
func TimeGlyph(slot string) string {
	if glyph, ok := timeGlyphs[slot]; ok {
		return glyph
	}
	return defaultGlyph
}

// CourseGlyph picks a glyph from the course name by keyword priority.
func CourseGlyph(courseName string) string {
	lowered := strings.ToLower(courseName)
	for _, entry := range courseKeywords {
		if strings.Contains(lowered, entry.keyword) {
			return entry.glyph
		}
	}
	return defaultGlyph
}
