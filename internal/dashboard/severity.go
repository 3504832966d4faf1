package dashboard

import (
	"strings"

	"github.com/baharkarakas/authmonitor/internal/metrics"
	"github.com/baharkarakas/authmonitor/internal/models"
)

type Severity string

const (
	Important   Severity = "important"
	Severe      Severity = "severe"
	Unimportant Severity = "unimportant"
)

// Classify tags an audit description. Rules are checked in order and the
// first match wins, so an "actualizado ... cambios" entry is Important.
func Classify(description string) Severity {
	switch {
	case strings.Contains(description, "actualizado"):
		return Important
	case strings.Contains(description, "cambios"):
		return Severe
	default:
		return Unimportant
	}
}

// ClassifiedLog is an audit entry with its derived severity.
type ClassifiedLog struct {
	models.AuditLog
	Severity Severity `json:"severity"`
	Affected string   `json:"affected"`
}

func classifyAll(logs []models.AuditLog) []ClassifiedLog {
	out := make([]ClassifiedLog, 0, len(logs))
	for _, l := range logs {
		sev := Classify(l.Description)
		metrics.LogsClassified.WithLabelValues(string(sev)).Inc()
		out = append(out, ClassifiedLog{AuditLog: l, Severity: sev, Affected: l.AffectedUsernames()})
	}
	return out
}
