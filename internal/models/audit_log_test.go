package models

import (
	"encoding/json"
	"testing"
)

func TestAuditLogDecode(t *testing.T) {
	body := `{
		"fecha": "2024-05-02T10:00:00Z",
		"descripcion": "Usuario actualizado",
		"datos_afectados": [{"usuario": "alice", "campo": "password"}, {"usuario": "bob"}]
	}`
	var l AuditLog
	if err := json.Unmarshal([]byte(body), &l); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if l.Description != "Usuario actualizado" {
		t.Fatalf("description = %q", l.Description)
	}
	if l.Timestamp.Year() != 2024 {
		t.Fatalf("timestamp = %v", l.Timestamp)
	}
	if got := l.AffectedUsernames(); got != "alice, bob" {
		t.Fatalf("affected = %q", got)
	}
	if string(l.AffectedData[0].Extra["campo"]) != `"password"` {
		t.Fatalf("extra field lost: %+v", l.AffectedData[0].Extra)
	}
	if l.AffectedData[1].Extra != nil {
		t.Fatalf("unexpected extra: %+v", l.AffectedData[1].Extra)
	}

	out, err := json.Marshal(l.AffectedData[0])
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	var back map[string]string
	if err := json.Unmarshal(out, &back); err != nil {
		t.Fatalf("re-decode: %v", err)
	}
	if back["usuario"] != "alice" || back["campo"] != "password" {
		t.Fatalf("encoded record = %s", out)
	}
}

func TestUserPasswordNeverDecoded(t *testing.T) {
	var u User
	if err := json.Unmarshal([]byte(`{"_id":"66a1","username":"alice","password":"$2b$10$hash"}`), &u); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if u.ID != "66a1" || u.Username != "alice" {
		t.Fatalf("user = %+v", u)
	}
	if u.Password != "" {
		t.Fatal("password must not be decoded")
	}
}
