package dto

// ImportResultResponse reports what a restored backup contained
type ImportResultResponse struct {
	Habits      int `json:"habits"`
	Completions int `json:"completions"`
}
