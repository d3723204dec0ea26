// Package logging provides the console logger and per-run JSONL run logs.
package logging

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Event types written by the agent drivers.
const (
	EventRunStart      = "run_start"
	EventTaskCreated   = "task_created"
	EventCommentPosted = "comment_posted"
	EventWouldPost     = "would_post"
	EventWriteFailed   = "write_failed"
	EventRunEnd        = "run_end"
)

// Event is one line of a run log.
type Event struct {
	Time     time.Time      `json:"time"`
	RunID    string         `json:"run_id"`
	Agent    string         `json:"agent,omitempty"`
	Type     string         `json:"type"`
	TaskID   string         `json:"task_id,omitempty"`
	Category string         `json:"category,omitempty"`
	Message  string         `json:"message,omitempty"`
	Error    string         `json:"error,omitempty"`
	Counts   map[string]int `json:"counts,omitempty"`
	DryRun   bool           `json:"dry_run,omitempty"`
}

// RunLogger appends events for a single agent run to a JSONL file.
// A nil *RunLogger is valid and discards everything.
type RunLogger struct {
	Dir     string
	RunID   string
	LogPath string
	Agent   string

	mu   sync.Mutex
	file *os.File
	enc  *json.Encoder
}

// NewRunLogger creates the log directory for deployment and a fresh JSONL
// file for one run of agent.
func NewRunLogger(baseDir, deployment, agent string) (*RunLogger, error) {
	logDir, err := FindLogDir(baseDir, deployment)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}

	id := runID()
	name := id
	if agent != "" {
		name = fmt.Sprintf("%s-%s", id, sanitizeLabel(agent))
	}
	logPath := filepath.Join(logDir, name+".jsonl")
	file, err := os.Create(logPath)
	if err != nil {
		return nil, fmt.Errorf("create log file: %w", err)
	}

	return &RunLogger{
		Dir:     logDir,
		RunID:   id,
		LogPath: logPath,
		Agent:   agent,
		file:    file,
		enc:     json.NewEncoder(file),
	}, nil
}

// Log writes one event. RunID, Agent and Time are filled in when empty.
func (r *RunLogger) Log(event Event) error {
	if r == nil || r.file == nil {
		return nil
	}
	if event.RunID == "" {
		event.RunID = r.RunID
	}
	if event.Agent == "" {
		event.Agent = r.Agent
	}
	if event.Time.IsZero() {
		event.Time = time.Now().UTC()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.enc.Encode(event); err != nil {
		return fmt.Errorf("write run log: %w", err)
	}
	return nil
}

// Path returns the log file path, or "" for a nil logger.
func (r *RunLogger) Path() string {
	if r == nil {
		return ""
	}
	return r.LogPath
}

// Close closes the log file.
func (r *RunLogger) Close() error {
	if r == nil || r.file == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	err := r.file.Close()
	r.file = nil
	return err
}

// FindLogDir returns the run log directory used for deployment.
func FindLogDir(baseDir, deployment string) (string, error) {
	if baseDir == "" {
		return "", fmt.Errorf("log base dir is empty")
	}
	if abs, err := filepath.Abs(baseDir); err == nil {
		baseDir = abs
	}
	return filepath.Join(filepath.Clean(baseDir), deploymentSlug(deployment)), nil
}

// deploymentSlug names a deployment by its host plus a short hash of the
// full URL so two deployments on the same host do not share a directory.
func deploymentSlug(deployment string) string {
	deployment = strings.TrimSpace(deployment)
	if deployment == "" {
		return "default"
	}
	name := deployment
	if u, err := url.Parse(deployment); err == nil && u.Host != "" {
		name = u.Host
	}
	return fmt.Sprintf("%s-%s", slugify(name), hashPath(deployment))
}

func slugify(input string) string {
	if strings.TrimSpace(input) == "" {
		return "deployment"
	}

	var b strings.Builder
	lastUnderscore := false
	for i := 0; i < len(input); i++ {
		c := input[i]
		valid := (c >= 'A' && c <= 'Z') ||
			(c >= 'a' && c <= 'z') ||
			(c >= '0' && c <= '9') ||
			c == '.' || c == '_' || c == '-'
		if !valid {
			if !lastUnderscore {
				b.WriteByte('_')
				lastUnderscore = true
			}
			continue
		}
		b.WriteByte(c)
		lastUnderscore = false
	}

	slug := strings.Trim(b.String(), "_")
	if slug == "" {
		return "deployment"
	}
	return slug
}

func sanitizeLabel(input string) string {
	var b strings.Builder
	for i := 0; i < len(input); i++ {
		c := input[i]
		valid := (c >= 'A' && c <= 'Z') ||
			(c >= 'a' && c <= 'z') ||
			(c >= '0' && c <= '9') ||
			c == '_'
		if !valid {
			b.WriteByte('_')
			continue
		}
		b.WriteByte(c)
	}

	label := strings.Trim(b.String(), "_")
	if label == "" {
		return "run"
	}
	return label
}

func hashPath(input string) string {
	sum := sha1.Sum([]byte(input))
	return hex.EncodeToString(sum[:])[:8]
}

// runID is a sortable timestamp followed by a random suffix.
func runID() string {
	return fmt.Sprintf("%s-%s", time.Now().UTC().Format("20060102-150405"), uuid.NewString()[:8])
}

// FindLatestLog finds the latest JSONL log file in a directory.
func FindLatestLog(logDir string) (string, error) {
	runs, err := FindLogRuns(logDir)
	if err != nil {
		return "", err
	}
	if len(runs) == 0 {
		return "", nil
	}
	return runs[0].Path, nil
}

// LogRun describes one run log file.
type LogRun struct {
	RunID   string
	Agent   string
	Path    string
	ModTime time.Time
}

// FindLogRuns lists the run logs in a directory, newest first.
func FindLogRuns(logDir string) ([]LogRun, error) {
	entries, err := os.ReadDir(logDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read log dir: %w", err)
	}

	var runs []LogRun
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		id, agent, ok := parseLogName(name)
		if !ok {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		runs = append(runs, LogRun{
			RunID:   id,
			Agent:   agent,
			Path:    filepath.Join(logDir, name),
			ModTime: info.ModTime(),
		})
	}

	// Run IDs start with a UTC timestamp, so they break mod time ties.
	sort.Slice(runs, func(i, j int) bool {
		if !runs[i].ModTime.Equal(runs[j].ModTime) {
			return runs[i].ModTime.After(runs[j].ModTime)
		}
		return runs[i].RunID > runs[j].RunID
	})
	return runs, nil
}

// parseLogName splits <date>-<time>-<suffix>[-<agent>].jsonl.
func parseLogName(filename string) (id, agent string, ok bool) {
	if !strings.HasSuffix(filename, ".jsonl") {
		return "", "", false
	}
	base := strings.TrimSuffix(filename, ".jsonl")
	parts := strings.SplitN(base, "-", 4)
	if len(parts) < 3 {
		return "", "", false
	}
	id = strings.Join(parts[:3], "-")
	if len(parts) == 4 {
		agent = parts[3]
	}
	return id, agent, true
}
