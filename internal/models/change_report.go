package models

import "encoding/json"

// ChangeReport is the answer of the remote change detector. Alert is empty
// when nothing suspicious was found; Changes is passed through untouched.
type ChangeReport struct {
	Message string          `json:"mensaje"`
	Alert   string          `json:"alerta"`
	Changes json.RawMessage `json:"cambios,omitempty"`
}
