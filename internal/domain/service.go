package domain

import (
	"context"
	"net/url"
	"strings"
	"time"
)

// JobService orchestrates the analysis pipeline and record operations.
type JobService struct {
	repo       JobRepository
	fetcher    PageFetcher
	normalizer TextNormalizer
	extractor  Extractor
	now        func() time.Time
}

// NewJobService creates a new JobService.
func NewJobService(repo JobRepository, fetcher PageFetcher, normalizer TextNormalizer, extractor Extractor) *JobService {
	return &JobService{
		repo:       repo,
		fetcher:    fetcher,
		normalizer: normalizer,
		extractor:  extractor,
		now:        time.Now,
	}
}

// Analyze runs the full pipeline for a job posting URL: duplicate check,
// fetch, normalize, extract, persist. The duplicate check happens before
// any network cost is spent. The record is appended only after every
// stage has succeeded.
func (s *JobService) Analyze(ctx context.Context, rawURL string) (*Job, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return nil, ErrEmptyURL
	}
	if _, err := url.ParseRequestURI(rawURL); err != nil {
		return nil, ErrInvalidURL
	}

	existing, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, job := range existing {
		if job.URL == rawURL {
			return nil, ErrDuplicateURL
		}
	}

	html, err := s.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	text, err := s.normalizer.Normalize(html)
	if err != nil {
		return nil, &FetchError{URL: rawURL, Err: err}
	}

	posting, err := s.extractor.Extract(ctx, text)
	if err != nil {
		return nil, err
	}

	job := &Job{
		URL:         rawURL,
		CompanyName: posting.CompanyName,
		JobTitle:    posting.JobTitle,
		Location:    posting.Location,
		JobSummary:  posting.JobSummary,
		DateAdded:   s.now().Format(DateLayout),
		Priority:    DefaultPriority,
	}

	if err := s.repo.Append(ctx, job); err != nil {
		return nil, err
	}
	return job, nil
}

// List returns all tracked jobs in store order.
func (s *JobService) List(ctx context.Context) ([]Job, error) {
	return s.repo.List(ctx)
}

// Delete removes the job with the given URL. Returns false if no job
// matched.
func (s *JobService) Delete(ctx context.Context, url string) (bool, error) {
	return s.repo.Delete(ctx, url)
}

// SetPriority updates the priority of the job with the given URL.
// The value must be within [MinPriority, MaxPriority].
func (s *JobService) SetPriority(ctx context.Context, url string, priority int) (bool, error) {
	if priority < MinPriority || priority > MaxPriority {
		return false, ErrPriorityRange
	}
	return s.repo.UpdatePriority(ctx, url, priority)
}
