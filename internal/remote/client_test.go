package remote

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/baharkarakas/authmonitor/internal/models"
	"github.com/baharkarakas/authmonitor/internal/remote/remotetest"
)

func TestClientUserLifecycle(t *testing.T) {
	srv := remotetest.NewServer()
	defer srv.Close()
	c := New(srv.BaseURL())
	ctx := context.Background()

	msg, err := c.Register(ctx, models.Credentials{Username: "alice", Password: "secret1"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if msg.Message == "" {
		t.Fatal("register should return a message")
	}

	if _, err := c.Login(ctx, models.Credentials{Username: "alice", Password: "secret1"}); err != nil {
		t.Fatalf("login: %v", err)
	}

	users, err := c.ListUsers(ctx)
	if err != nil {
		t.Fatalf("list users: %v", err)
	}
	if len(users) != 1 || users[0].Username != "alice" || users[0].ID == "" {
		t.Fatalf("users = %+v", users)
	}
	if users[0].Password != "" {
		t.Fatal("password must never be decoded")
	}

	if _, err := c.UpdateUser(ctx, users[0].ID, models.Credentials{Username: "alice2", Password: "secret2"}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if _, err := c.DeleteUser(ctx, users[0].ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	logs, err := c.ListLogs(ctx)
	if err != nil {
		t.Fatalf("list logs: %v", err)
	}
	if len(logs) != 3 {
		t.Fatalf("expected 3 audit entries, got %d", len(logs))
	}
	if logs[1].Description != "Usuario actualizado" || logs[1].AffectedUsernames() != "alice2" {
		t.Fatalf("unexpected update log: %+v", logs[1])
	}
}

func TestClientAPIError(t *testing.T) {
	srv := remotetest.NewServer()
	defer srv.Close()
	c := New(srv.BaseURL())

	_, err := c.Login(context.Background(), models.Credentials{Username: "ghost", Password: "nope"})
	var ae *APIError
	if !errors.As(err, &ae) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if ae.Status != http.StatusUnauthorized || ae.Message != "Credenciales inválidas" {
		t.Fatalf("unexpected error: %+v", ae)
	}
	if got := ErrorMessage(err, "request failed"); got != "Credenciales inválidas" {
		t.Fatalf("ErrorMessage = %q", got)
	}

	_, err = c.DeleteUser(context.Background(), "missing")
	if !IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestClientFallbackMessage(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream exploded", http.StatusBadGateway)
	}))
	defer ts.Close()

	_, err := New(ts.URL).ListUsers(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if got := ErrorMessage(err, "failed to load users"); got != "failed to load users" {
		t.Fatalf("non-JSON body should use fallback, got %q", got)
	}

	ts.Close()
	_, err = New(ts.URL).ListUsers(context.Background())
	if err == nil || !strings.Contains(err.Error(), "list_users") {
		t.Fatalf("transport error should name the op, got %v", err)
	}
	if got := ErrorMessage(err, "fallback"); got != "fallback" {
		t.Fatalf("transport error message = %q", got)
	}
}

func TestClientEscapesIDs(t *testing.T) {
	var gotPath string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"message":"ok"}`))
	}))
	defer ts.Close()

	if _, err := New(ts.URL+"/api/auth/").DeleteUser(context.Background(), "a/b"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if gotPath != "/api/auth/users/a%2Fb" {
		t.Fatalf("path = %q", gotPath)
	}
}

func TestDetectChanges(t *testing.T) {
	srv := remotetest.NewServer()
	defer srv.Close()
	c := New(srv.BaseURL())

	rep, err := c.DetectChanges(context.Background())
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if rep.Alert != "" || rep.Message == "" {
		t.Fatalf("quiet report = %+v", rep)
	}

	srv.SetAlert("Se detectaron cambios no autorizados", []byte(`[{"usuario":"mallory"}]`))
	rep, err = c.DetectChanges(context.Background())
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if rep.Alert == "" || !strings.Contains(string(rep.Changes), "mallory") {
		t.Fatalf("alert report = %+v", rep)
	}
}
