package log

import (
	"fmt"
	"time"
)

type SessionSummary struct {
	Session      *LogSession
	FilePath     string
	RelativeTime string
	Icon         string
	Deleted      int
	DirsRemoved  int
	Failed       int
}

// GetSessionSummaries reads up to limit sessions (0 for all), newest first.
// Unreadable log files are skipped.
func GetSessionSummaries(limit int) ([]SessionSummary, error) {
	files, err := logFiles()
	if err != nil {
		return nil, err
	}
	summaries := make([]SessionSummary, 0, len(files))
	for _, file := range files {
		session, err := ReadSession(file)
		if err != nil {
			continue
		}
		summaries = append(summaries, summarize(session, file))
		if limit > 0 && len(summaries) == limit {
			break
		}
	}
	return summaries, nil
}

func summarize(session *LogSession, file string) SessionSummary {
	s := SessionSummary{
		Session:      session,
		FilePath:     file,
		RelativeTime: formatRelativeTime(session.Metadata.Timestamp),
		Icon:         getSessionIcon(session.Metadata),
	}
	for _, op := range session.Operations {
		switch {
		case !op.Success:
			s.Failed++
		case op.Type == OpDelete:
			s.Deleted++
		case op.Type == OpRemoveDir:
			s.DirsRemoved++
		}
	}
	return s
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

func getSessionIcon(meta SessionMetadata) string {
	if len(meta.CommandArgs) == 0 {
		return "❓"
	}
	if meta.DryRun {
		return "🔍"
	}
	switch meta.CommandArgs[0] {
	case "dedupe", "clean":
		return "🗑️"
	default:
		return "📝"
	}
}
