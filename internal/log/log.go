// Package log keeps the activity log: upstream failures a user should see
// after the process has exited, written as one JSON file per session.
package log

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/Digital-Shane/kinopoisk-meta/internal/provider"
	"github.com/google/uuid"
)

type Event struct {
	ID            string    `json:"id"`
	Timestamp     time.Time `json:"timestamp"`
	Provider      string    `json:"provider"`
	Code          string    `json:"code"`
	Overview      string    `json:"overview"`
	ShortOverview string    `json:"short_overview"`
}

type SessionMetadata struct {
	CommandArgs []string  `json:"command_args"`
	Timestamp   time.Time `json:"timestamp"`
	SessionID   string    `json:"session_id"`
	TotalEvents int       `json:"total_events"`
}

type Session struct {
	Metadata SessionMetadata `json:"metadata"`
	Events   []Event         `json:"events"`
}

// ActivityLog collects the events of one command run
type ActivityLog struct {
	mu      sync.Mutex
	dir     string
	enabled bool
	now     func() time.Time
	session *Session
}

// New starts a session for command under dir. A disabled log drops every event.
func New(dir string, enabled bool, command string, args []string) *ActivityLog {
	l := &ActivityLog{dir: dir, enabled: enabled, now: time.Now}
	now := l.now()
	l.session = &Session{
		Metadata: SessionMetadata{
			CommandArgs: append([]string{command}, args...),
			Timestamp:   now,
			SessionID:   fmt.Sprintf("%s_%03d", now.Format("20060102_150405"), now.Nanosecond()/1000000),
		},
		Events: []Event{},
	}
	return l
}

// Record appends an upstream failure to the session
func (l *ActivityLog) Record(ev provider.ActivityEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.enabled {
		return
	}
	l.session.Events = append(l.session.Events, Event{
		ID:            uuid.NewString(),
		Timestamp:     l.now(),
		Provider:      ev.Provider,
		Code:          ev.Code,
		Overview:      ev.Overview,
		ShortOverview: ev.ShortOverview,
	})
}

// Events returns a copy of the events recorded so far
func (l *ActivityLog) Events() []Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Event(nil), l.session.Events...)
}

// Flush writes the session to a new file and returns its path. Sessions
// without events are not written.
func (l *ActivityLog) Flush() (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.enabled || len(l.session.Events) == 0 {
		return "", nil
	}
	l.session.Metadata.TotalEvents = len(l.session.Events)

	path, err := sessionPath(l.dir, l.session.Metadata.Timestamp)
	if err != nil {
		return "", err
	}
	if err := WriteSession(path, l.session); err != nil {
		return "", err
	}
	l.session.Events = []Event{}
	return path, nil
}

func sessionPath(dir string, ts time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create log directory: %w", err)
	}
	filename := fmt.Sprintf("%s.%03d.json", ts.Format("2006-01-02_150405"), ts.Nanosecond()/1000000)
	return filepath.Join(dir, filename), nil
}

func WriteSession(path string, session *Session) error {
	if session == nil {
		return nil
	}

	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write log file: %w", err)
	}
	return nil
}

func ReadSession(path string) (*Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read log file: %w", err)
	}

	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &session, nil
}

// sessionFiles lists the session files in dir, newest first
func sessionFiles(dir string) ([]string, error) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil, nil
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to list log files: %w", err)
	}
	// File names start with the timestamp
	sort.Sort(sort.Reverse(sort.StringSlice(files)))
	return files, nil
}

// ReadSessions returns up to limit sessions from dir, newest first. A limit
// of zero or less returns all of them; unreadable files are skipped.
func ReadSessions(dir string, limit int) ([]*Session, error) {
	files, err := sessionFiles(dir)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(files) > limit {
		files = files[:limit]
	}

	sessions := make([]*Session, 0, len(files))
	for _, file := range files {
		session, err := ReadSession(file)
		if err != nil {
			continue
		}
		sessions = append(sessions, session)
	}
	return sessions, nil
}

// Cleanup removes session files older than retentionDays and returns how
// many were removed. A retention of zero keeps everything.
func Cleanup(dir string, retentionDays int) (int, error) {
	if retentionDays <= 0 {
		return 0, nil
	}
	files, err := sessionFiles(dir)
	if err != nil {
		return 0, err
	}

	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	removed := 0
	var firstErr error
	for _, file := range files {
		info, err := os.Stat(file)
		if err != nil || !info.ModTime().Before(cutoff) {
			continue
		}
		if err := os.Remove(file); err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("failed to remove old log file %s: %w", file, err)
			}
			continue
		}
		removed++
	}
	return removed, firstErr
}
