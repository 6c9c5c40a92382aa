package model

import "time"

type TestCase struct {
	ID        string    `json:"id"`
	ProblemID int64     `json:"problem_id"`
	Input     string    `json:"input"`
	Output    string    `json:"output"`
	CreatedAt time.Time `json:"created_at"`
}
