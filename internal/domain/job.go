package domain

// DefaultPriority is assigned to every newly analyzed job.
const DefaultPriority = 5

// Priority bounds enforced on SetPriority.
const (
	MinPriority = 1
	MaxPriority = 10
)

// DateLayout is the format of Job.DateAdded.
const DateLayout = "2006-01-02"

// Job is one tracked job posting. Its identity is the URL; there is no
// synthetic ID.
type Job struct {
	URL         string `json:"url"`
	CompanyName string `json:"company_name"`
	JobTitle    string `json:"job_title"`
	Location    string `json:"location"`
	JobSummary  string `json:"job_summary"`
	DateAdded   string `json:"date_added"`
	Priority    int    `json:"priority"`
}

// Posting holds the fields derived from a job posting page by the
// extraction service. Any of them may be empty.
type Posting struct {
	CompanyName string `json:"company_name"`
	JobTitle    string `json:"job_title"`
	Location    string `json:"location"`
	JobSummary  string `json:"job_summary"`
}
