package entities

import "time"

type JobStatus string

const (
	JobPending    JobStatus = "pending"
	JobLoading    JobStatus = "loading"
	JobProcessing JobStatus = "processing"
	JobCompleted  JobStatus = "completed"
	JobFailed     JobStatus = "failed"
	JobCancelled  JobStatus = "cancelled"
)

func (s JobStatus) Finished() bool {
	return s == JobCompleted || s == JobFailed || s == JobCancelled
}

// Job — снимок состояния фоновой задачи.
type Job struct {
	ID            string      `json:"id"`
	Source        string      `json:"source"`
	BankPrefix    string      `json:"bank_prefix"`
	Status        JobStatus   `json:"status"`
	Progress      int         `json:"progress"`
	ProcessedRows int         `json:"processed_rows"`
	TotalRows     int         `json:"total_rows"`
	Report        *LoadReport `json:"report,omitempty"`
	ResultCount   int         `json:"result_count"`
	PhoneCount    int         `json:"phone_count"`
	Error         string      `json:"error,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`
	FinishedAt    *time.Time  `json:"finished_at,omitempty"`
}
