package model

import "time"

// Submission is recorded when a solution is handed to the external judge.
// Grading itself happens outside this service; rows here back the
// per-problem submission counts shown on the dashboard.
type Submission struct {
	ID         string    `json:"id"`
	ProblemID  int64     `json:"problem_id"`
	UserID     string    `json:"user_id"`
	Language   string    `json:"language"`
	StatusCode int       `json:"status_code"` // External judge status code
	CreatedAt  time.Time `json:"created_at"`
}
