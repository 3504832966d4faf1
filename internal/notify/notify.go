// Package notify carries user-facing notices produced by the console
// controllers. Every remote failure, backend error and form rejection ends up
// as a Notice instead of propagating further.
package notify

import "encoding/json"

type Level string

const (
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

type Notice struct {
	Level   Level           `json:"level"`
	Message string          `json:"message"`
	Details json.RawMessage `json:"details,omitempty"`
}

func Success(msg string) Notice { return Notice{Level: LevelSuccess, Message: msg} }
func Info(msg string) Notice    { return Notice{Level: LevelInfo, Message: msg} }
func Error(msg string) Notice   { return Notice{Level: LevelError, Message: msg} }

// Warning attaches optional opaque details, e.g. the change set returned by
// the change detector.
func Warning(msg string, details json.RawMessage) Notice {
	return Notice{Level: LevelWarning, Message: msg, Details: details}
}

// HasErrors reports whether any notice is an error.
func HasErrors(ns []Notice) bool {
	for _, n := range ns {
		if n.Level == LevelError {
			return true
		}
	}
	return false
}
