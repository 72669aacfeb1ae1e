package domain

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockRepo implements JobRepository for testing.
type mockRepo struct {
	jobs      []Job
	appendErr error
	listErr   error
}

func (m *mockRepo) Append(ctx context.Context, job *Job) error {
	if m.appendErr != nil {
		return m.appendErr
	}
	for _, existing := range m.jobs {
		if existing.URL == job.URL {
			return ErrDuplicateURL
		}
	}
	m.jobs = append(m.jobs, *job)
	return nil
}

func (m *mockRepo) List(ctx context.Context) ([]Job, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.jobs, nil
}

func (m *mockRepo) Delete(ctx context.Context, url string) (bool, error) {
	for i, job := range m.jobs {
		if job.URL == url {
			m.jobs = append(m.jobs[:i], m.jobs[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (m *mockRepo) UpdatePriority(ctx context.Context, url string, priority int) (bool, error) {
	for i := range m.jobs {
		if m.jobs[i].URL == url {
			m.jobs[i].Priority = priority
			return true, nil
		}
	}
	return false, nil
}

// mockFetcher counts calls so tests can prove no fetch was attempted.
type mockFetcher struct {
	calls int
	html  []byte
	err   error
}

func (m *mockFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.html, nil
}

type mockNormalizer struct {
	text string
	err  error
}

func (m *mockNormalizer) Normalize(html []byte) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	if m.text != "" {
		return m.text, nil
	}
	return string(html), nil
}

type mockExtractor struct {
	calls   int
	posting *Posting
	err     error
}

func (m *mockExtractor) Extract(ctx context.Context, text string) (*Posting, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.posting, nil
}

func setupService() (*JobService, *mockRepo, *mockFetcher, *mockExtractor) {
	repo := &mockRepo{}
	fetcher := &mockFetcher{html: []byte("<html><body>  Senior Engineer  at  Acme   </body></html>")}
	extractor := &mockExtractor{posting: &Posting{
		CompanyName: "Acme",
		JobTitle:    "Senior Engineer",
		Location:    "Remote",
		JobSummary:  "Builds things.",
	}}
	svc := NewJobService(repo, fetcher, &mockNormalizer{}, extractor)
	return svc, repo, fetcher, extractor
}

func TestAnalyze_Success(t *testing.T) {
	svc, _, _, _ := setupService()
	svc.now = func() time.Time { return time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC) }

	job, err := svc.Analyze(context.Background(), "https://x/job1")
	require.NoError(t, err)

	assert.Equal(t, "https://x/job1", job.URL)
	assert.Equal(t, "Acme", job.CompanyName)
	assert.Equal(t, "Senior Engineer", job.JobTitle)
	assert.Equal(t, "Remote", job.Location)
	assert.Equal(t, DefaultPriority, job.Priority)
	assert.Equal(t, "2026-08-30", job.DateAdded)

	jobs, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, *job, jobs[0])
}

func TestAnalyze_EmptyURL(t *testing.T) {
	svc, _, fetcher, _ := setupService()

	_, err := svc.Analyze(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrEmptyURL)
	assert.Zero(t, fetcher.calls)
}

func TestAnalyze_InvalidURL(t *testing.T) {
	svc, _, fetcher, _ := setupService()

	_, err := svc.Analyze(context.Background(), "not a url")
	assert.ErrorIs(t, err, ErrInvalidURL)
	assert.Zero(t, fetcher.calls)
}

func TestAnalyze_DuplicateSkipsPipeline(t *testing.T) {
	svc, repo, fetcher, extractor := setupService()
	repo.jobs = []Job{{URL: "https://x/job1", Priority: DefaultPriority}}

	_, err := svc.Analyze(context.Background(), "https://x/job1")
	assert.ErrorIs(t, err, ErrDuplicateURL)
	assert.Zero(t, fetcher.calls)
	assert.Zero(t, extractor.calls)
	assert.Len(t, repo.jobs, 1)
}

func TestAnalyze_FetchFailureShortCircuits(t *testing.T) {
	svc, repo, fetcher, extractor := setupService()
	fetcher.err = &FetchError{URL: "https://x/job1", Status: 404}

	_, err := svc.Analyze(context.Background(), "https://x/job1")
	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, 404, fetchErr.Status)
	assert.Zero(t, extractor.calls)
	assert.Empty(t, repo.jobs)
}

func TestAnalyze_ExtractionFailureNotPersisted(t *testing.T) {
	svc, repo, _, extractor := setupService()
	extractor.err = &ParseError{Raw: "no json here"}

	_, err := svc.Analyze(context.Background(), "https://x/job1")
	var parseErr *ParseError
	assert.ErrorAs(t, err, &parseErr)
	assert.Empty(t, repo.jobs)
}

func TestAnalyze_ListFailure(t *testing.T) {
	svc, repo, fetcher, _ := setupService()
	repo.listErr = errors.New("disk gone")

	_, err := svc.Analyze(context.Background(), "https://x/job1")
	assert.Error(t, err)
	assert.Zero(t, fetcher.calls)
}

func TestSetPriority_Bounds(t *testing.T) {
	svc, repo, _, _ := setupService()
	repo.jobs = []Job{{URL: "https://x/job1", Priority: DefaultPriority}}

	for _, p := range []int{MinPriority - 1, 0, MaxPriority + 1, -3} {
		_, err := svc.SetPriority(context.Background(), "https://x/job1", p)
		assert.ErrorIs(t, err, ErrPriorityRange, "priority %d", p)
	}

	ok, err := svc.SetPriority(context.Background(), "https://x/job1", 9)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 9, repo.jobs[0].Priority)
}

func TestDelete(t *testing.T) {
	svc, repo, _, _ := setupService()
	repo.jobs = []Job{{URL: "https://x/job1"}, {URL: "https://x/job2"}}

	ok, err := svc.Delete(context.Background(), "https://x/job1")
	require.NoError(t, err)
	assert.True(t, ok)
	require.Len(t, repo.jobs, 1)
	assert.Equal(t, "https://x/job2", repo.jobs[0].URL)

	ok, err = svc.Delete(context.Background(), "https://x/job1")
	require.NoError(t, err)
	assert.False(t, ok)
}
