package dto

// SolverQuestion is one worked question from an uploaded tutorial sheet.
type SolverQuestion struct {
	Question string   `json:"question"`
	Solution string   `json:"solution"`
	Links    []string `json:"links"`
}

// SolverResponse maps question labels ("Q1", "Q2", ...) to their solutions.
type SolverResponse struct {
	FileName  string                    `json:"fileName"`
	Questions map[string]SolverQuestion `json:"questions"`
}
