package dto

// NotesRequest asks for structured study notes on a topic. Source is
// optional pasted material the notes should be grounded in.
type NotesRequest struct {
	Topic  string `json:"topic" validate:"required,max=200"`
	Source string `json:"source" validate:"max=8000"`
}

// NoteSection is one heading plus its body text.
type NoteSection struct {
	Heading string `json:"heading"`
	Body    string `json:"body"`
}

// NotesResponse is the generated note set.
type NotesResponse struct {
	Topic    string        `json:"topic"`
	Sections []NoteSection `json:"sections"`
}
