// Package logfile implements domain.JobRepository on a line-oriented
// log file. Each entry is one line: `[YYYY-MM-DD HH:MM:SS] <json>`.
// Lines that do not parse are skipped on read and carried through
// rewrites untouched, so one corrupt entry never costs unrelated data.
package logfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/ozgung/JobsAnalyzer/internal/domain"
)

const timestampLayout = "2006-01-02 15:04:05"

// entrySeparator splits the timestamp prefix from the JSON payload.
const entrySeparator = "] "

// Repository implements domain.JobRepository using a single append/rewrite
// log file. All mutations are serialized through one mutex, and rewrites
// replace the file atomically (temp file + rename).
type Repository struct {
	path string
	mu   sync.Mutex
}

// New creates a repository backed by the log file at path, creating the
// parent directory if needed. The file itself is created lazily on the
// first append.
func New(path string) (*Repository, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	return &Repository{path: path}, nil
}

// Append adds one entry to the end of the log, tagged with the current
// local timestamp. Returns domain.ErrDuplicateURL if the URL is already
// tracked; the check runs under the write lock so concurrent appends
// cannot both slip past it.
func (r *Repository) Append(ctx context.Context, job *domain.Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	lines, err := r.readLines()
	if err != nil {
		return err
	}
	for _, line := range lines {
		if existing, ok := parseEntry(line); ok && existing.URL == job.URL {
			return domain.ErrDuplicateURL
		}
	}

	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("encode job: %w", err)
	}

	f, err := os.OpenFile(r.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}

	entry := fmt.Sprintf("[%s] %s\n", time.Now().Format(timestampLayout), payload)
	if _, err := f.WriteString(entry); err != nil {
		f.Close()
		return fmt.Errorf("append job: %w", err)
	}
	return f.Close()
}

// List reads the entire log and returns every entry that parses, in
// file order. Blank lines, lines without a timestamp prefix, and
// entries with invalid JSON are skipped silently. A missing log file
// is an empty store.
func (r *Repository) List(ctx context.Context) ([]domain.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	lines, err := r.readLines()
	if err != nil {
		return nil, err
	}

	var jobs []domain.Job
	for _, line := range lines {
		if job, ok := parseEntry(line); ok {
			jobs = append(jobs, job)
		}
	}
	return jobs, nil
}

// Delete removes every parsable entry whose URL matches and rewrites
// the log with the survivors in their original order. All other lines,
// parsable or not, are kept byte for byte. Returns whether at least one
// entry was removed.
func (r *Repository) Delete(ctx context.Context, url string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	lines, err := r.readLines()
	if err != nil {
		return false, err
	}
	if lines == nil {
		return false, nil
	}

	kept := make([]string, 0, len(lines))
	deleted := false
	for _, line := range lines {
		if job, ok := parseEntry(line); ok && job.URL == url {
			deleted = true
			continue
		}
		kept = append(kept, line)
	}

	if !deleted {
		return false, nil
	}
	if err := r.rewrite(kept); err != nil {
		return false, err
	}
	return true, nil
}

// UpdatePriority replaces only the priority field of every parsable
// entry whose URL matches, leaving the timestamp prefix and the rest of
// the payload untouched. The payload is decoded as a plain JSON object
// so fields this version does not know about survive the rewrite.
// Returns whether at least one entry matched.
func (r *Repository) UpdatePriority(ctx context.Context, url string, priority int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	lines, err := r.readLines()
	if err != nil {
		return false, err
	}
	if lines == nil {
		return false, nil
	}

	updated := false
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		prefix, payload, ok := splitEntry(line)
		if ok {
			var fields map[string]any
			if err := json.Unmarshal([]byte(payload), &fields); err == nil {
				if u, _ := fields["url"].(string); u == url {
					fields["priority"] = priority
					rewritten, err := json.Marshal(fields)
					if err != nil {
						return false, fmt.Errorf("encode job: %w", err)
					}
					out = append(out, prefix+entrySeparator+string(rewritten))
					updated = true
					continue
				}
			}
		}
		out = append(out, line)
	}

	if !updated {
		return false, nil
	}
	if err := r.rewrite(out); err != nil {
		return false, err
	}
	return true, nil
}

// readLines returns the log's lines without trailing newlines. A
// missing file yields nil, nil.
func (r *Repository) readLines() ([]string, error) {
	data, err := os.ReadFile(r.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read store: %w", err)
	}

	content := strings.TrimSuffix(string(data), "\n")
	if content == "" {
		return []string{}, nil
	}
	return strings.Split(content, "\n"), nil
}

// rewrite replaces the log with the given lines via temp file + rename,
// so an interrupted write never leaves a half-written store behind.
func (r *Repository) rewrite(lines []string) error {
	tmp, err := os.CreateTemp(filepath.Dir(r.path), filepath.Base(r.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp store: %w", err)
	}
	defer os.Remove(tmp.Name())

	for _, line := range lines {
		if _, err := tmp.WriteString(line + "\n"); err != nil {
			tmp.Close()
			return fmt.Errorf("write temp store: %w", err)
		}
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp store: %w", err)
	}
	if err := os.Rename(tmp.Name(), r.path); err != nil {
		return fmt.Errorf("replace store: %w", err)
	}
	return nil
}

// splitEntry separates a log line into its timestamp prefix (up to but
// not including the separator) and JSON payload.
func splitEntry(line string) (prefix, payload string, ok bool) {
	if strings.TrimSpace(line) == "" {
		return "", "", false
	}
	idx := strings.Index(line, entrySeparator)
	if idx < 0 {
		return "", "", false
	}
	return line[:idx], strings.TrimSpace(line[idx+len(entrySeparator):]), true
}

// parseEntry decodes the record on a log line, reporting ok=false for
// any line that does not hold a valid entry.
func parseEntry(line string) (domain.Job, bool) {
	_, payload, ok := splitEntry(line)
	if !ok {
		return domain.Job{}, false
	}
	var job domain.Job
	if err := json.Unmarshal([]byte(payload), &job); err != nil {
		return domain.Job{}, false
	}
	return job, true
}
