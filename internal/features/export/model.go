package export

import "time"

// Result summarizes one reporting export run.
type Result struct {
	Submissions int       `json:"submissions"`
	Clients     int       `json:"clients"`
	StartedAt   time.Time `json:"started_at"`
	FinishedAt  time.Time `json:"finished_at"`
}
