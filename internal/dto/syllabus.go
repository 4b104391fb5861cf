package dto

// SyllabusRequest asks for a four-week study syllabus covering a course and
// exactly three seed topics.
type SyllabusRequest struct {
	CourseName string   `json:"courseName" validate:"required,max=100"`
	Topics     []string `json:"topics" validate:"required,len=3,dive,required,max=120"`
}

// SyllabusWeek is one week of the generated plan.
type SyllabusWeek struct {
	Week     int      `json:"week"`
	Topic    string   `json:"topic"`
	Readings []string `json:"readings"`
}

// SyllabusResponse is the generated four-week plan.
type SyllabusResponse struct {
	CourseName string         `json:"courseName"`
	Weeks      []SyllabusWeek `json:"weeks"`
}
