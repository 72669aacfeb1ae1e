package domain

import "context"

// JobRepository is the driven port for job persistence. Append rejects
// URLs that are already tracked; Delete and UpdatePriority report
// whether a record matched. Implementations must serialize mutations.
type JobRepository interface {
	Append(ctx context.Context, job *Job) error
	List(ctx context.Context) ([]Job, error)
	Delete(ctx context.Context, url string) (bool, error)
	UpdatePriority(ctx context.Context, url string, priority int) (bool, error)
}

// PageFetcher is the driven port for retrieving the raw HTML of a job
// posting URL.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// TextNormalizer reduces raw HTML to a bounded plain-text excerpt
// suitable for the extraction service.
type TextNormalizer interface {
	Normalize(html []byte) (string, error)
}

// Extractor is the driven port for the structured-extraction service.
type Extractor interface {
	Extract(ctx context.Context, text string) (*Posting, error)
}
