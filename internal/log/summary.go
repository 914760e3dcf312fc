package log

import (
	"fmt"
	"time"

	"github.com/Digital-Shane/kinopoisk-meta/internal/provider"
)

type SessionSummary struct {
	Session      *Session
	FilePath     string
	RelativeTime string
	Icon         string
}

// Summaries returns up to limit sessions from dir, newest first, ready for display
func Summaries(dir string, limit int) ([]SessionSummary, error) {
	files, err := sessionFiles(dir)
	if err != nil {
		return nil, err
	}

	summaries := make([]SessionSummary, 0, len(files))
	for _, file := range files {
		if limit > 0 && len(summaries) == limit {
			break
		}
		session, err := ReadSession(file)
		if err != nil {
			continue
		}
		summaries = append(summaries, SessionSummary{
			Session:      session,
			FilePath:     file,
			RelativeTime: formatRelativeTime(session.Metadata.Timestamp),
			Icon:         sessionIcon(session),
		})
	}
	return summaries, nil
}

func formatRelativeTime(t time.Time) string {
	duration := time.Since(t)
	switch {
	case duration < time.Minute:
		return "just now"
	case duration < time.Hour:
		mins := int(duration.Minutes())
		return fmt.Sprintf("%d minute%s ago", mins, plural(mins))
	case duration < 24*time.Hour:
		hours := int(duration.Hours())
		return fmt.Sprintf("%d hour%s ago", hours, plural(hours))
	case duration < 7*24*time.Hour:
		days := int(duration.Hours() / 24)
		return fmt.Sprintf("%d day%s ago", days, plural(days))
	default:
		return t.Format("Jan 2, 2006")
	}
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

// sessionIcon marks a session by its most severe event
func sessionIcon(s *Session) string {
	icon := "📝"
	for _, ev := range s.Events {
		switch ev.Code {
		case provider.CodeAuthFailed:
			return "🔑"
		case provider.CodeQuotaExceeded:
			icon = "⛔"
		}
	}
	return icon
}
