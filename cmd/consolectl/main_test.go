package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/baharkarakas/authmonitor/internal/remote/remotetest"
)

func run(t *testing.T, backend *remotetest.Server, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--api", backend.BaseURL()}, args...))
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestUsersList(t *testing.T) {
	backend := remotetest.NewServer()
	defer backend.Close()
	id := backend.AddUser("alice", "secret1")
	backend.AddUser("bob", "secret1")

	out, err := run(t, backend, "users", "list", "--q", "ALI", "--page", "1")
	if err != nil {
		t.Fatalf("users list: %v\n%s", err, out)
	}
	if !strings.Contains(out, id) || !strings.Contains(out, "alice") || strings.Contains(out, "bob") {
		t.Fatalf("output = %q", out)
	}
	if !strings.Contains(out, "page 1 of 1 (1 matching)") {
		t.Fatalf("footer missing: %q", out)
	}
}

func TestLogsListShowsSeverity(t *testing.T) {
	backend := remotetest.NewServer()
	defer backend.Close()
	backend.AddLog("Usuario actualizado", "alice")
	backend.AddLog("Se detectaron cambios", "bob")

	out, err := run(t, backend, "logs", "list", "--q", "", "--page", "1")
	if err != nil {
		t.Fatalf("logs list: %v\n%s", err, out)
	}
	if !strings.Contains(out, "IMPORTANT") || !strings.Contains(out, "SEVERE") {
		t.Fatalf("output = %q", out)
	}
}

func TestUsersDeleteUnknownFails(t *testing.T) {
	backend := remotetest.NewServer()
	defer backend.Close()

	out, err := run(t, backend, "users", "delete", "000000000000000000000000")
	if err == nil {
		t.Fatalf("expected failure, output = %q", out)
	}
	if !strings.Contains(out, "[error] Usuario no encontrado") {
		t.Fatalf("output = %q", out)
	}
}

func TestRegisterValidatesLocally(t *testing.T) {
	backend := remotetest.NewServer()
	defer backend.Close()

	if _, err := run(t, backend, "register", "-u", "", "-p", ""); err == nil {
		t.Fatal("expected validation error")
	}
	if backend.Calls("POST /register") != 0 {
		t.Fatal("invalid credentials reached the backend")
	}
	out, err := run(t, backend, "register", "-u", "dave", "-p", "secret1")
	if err != nil || !strings.Contains(out, "Usuario registrado con éxito") {
		t.Fatalf("register: %v %q", err, out)
	}
}

func TestUsersUpdateRejectsEmptyID(t *testing.T) {
	backend := remotetest.NewServer()
	defer backend.Close()

	out, err := run(t, backend, "users", "update", "", "-u", "renamed", "-p", "secret1")
	if err == nil || !strings.Contains(out, "user id required") {
		t.Fatalf("update with empty id: %v %q", err, out)
	}
	if backend.Calls("POST /register") != 0 || backend.Calls("PUT /users/{id}") != 0 {
		t.Fatal("empty id reached the backend")
	}
}
