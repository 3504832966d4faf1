package models

import (
	"encoding/json"
	"strings"
	"time"
)

// AuditLog is one entry of the backend audit trail. Entries are immutable
// once fetched.
type AuditLog struct {
	Timestamp    time.Time        `json:"fecha"`
	Description  string           `json:"descripcion"`
	AffectedData []AffectedRecord `json:"datos_afectados"`
}

// AffectedRecord names the user touched by an audited change. Any other
// fields the backend attaches are kept verbatim in Extra.
type AffectedRecord struct {
	Username string
	Extra    map[string]json.RawMessage
}

func (a *AffectedRecord) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if v, ok := raw["usuario"]; ok {
		if err := json.Unmarshal(v, &a.Username); err != nil {
			return err
		}
		delete(raw, "usuario")
	}
	if len(raw) > 0 {
		a.Extra = raw
	}
	return nil
}

func (a AffectedRecord) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(a.Extra)+1)
	for k, v := range a.Extra {
		out[k] = v
	}
	name, err := json.Marshal(a.Username)
	if err != nil {
		return nil, err
	}
	out["usuario"] = name
	return json.Marshal(out)
}

// AffectedUsernames joins the affected usernames for display.
func (l AuditLog) AffectedUsernames() string {
	names := make([]string, 0, len(l.AffectedData))
	for _, d := range l.AffectedData {
		names = append(names, d.Username)
	}
	return strings.Join(names, ", ")
}
