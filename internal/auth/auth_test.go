package auth

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/baharkarakas/authmonitor/internal/dashboard"
	"github.com/baharkarakas/authmonitor/internal/models"
	"github.com/baharkarakas/authmonitor/internal/notify"
	"github.com/baharkarakas/authmonitor/internal/remote"
	"github.com/baharkarakas/authmonitor/internal/remote/remotetest"
	"github.com/baharkarakas/authmonitor/internal/session"
)

func newTestController(t *testing.T) (*Controller, *remotetest.Server) {
	t.Helper()
	srv := remotetest.NewServer()
	t.Cleanup(srv.Close)
	store := session.NewStore(time.Hour, func() *dashboard.Controller { return nil })
	tm := NewTokenManager("test-secret", "authmonitor-test", time.Hour)
	return NewController(remote.New(srv.BaseURL()), store, tm, nil), srv
}

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("s3cret", "iss", time.Minute)
	tok, exp, err := tm.Issue("sid-1", "alice")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if time.Until(exp) <= 0 {
		t.Fatal("expiry should be in the future")
	}
	claims, err := tm.Parse(tok)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.SessionID != "sid-1" || claims.Subject != "alice" {
		t.Fatalf("claims = %+v", claims)
	}

	other := NewTokenManager("different", "iss", time.Minute)
	if _, err := other.Parse(tok); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("foreign signature accepted: %v", err)
	}
	wrongIss := NewTokenManager("s3cret", "someone-else", time.Minute)
	if _, err := wrongIss.Parse(tok); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("foreign issuer accepted: %v", err)
	}
	expired := NewTokenManager("s3cret", "iss", -time.Minute)
	old, _, _ := expired.Issue("sid-2", "bob")
	if _, err := tm.Parse(old); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expired token accepted: %v", err)
	}
}

func TestParseMode(t *testing.T) {
	if m, _ := ParseMode(""); m != ModeLogin {
		t.Fatalf("default mode = %s", m)
	}
	if m, _ := ParseMode("register"); m != ModeRegister || m.Toggle() != ModeLogin {
		t.Fatalf("register mode = %s", m)
	}
	if _, err := ParseMode("sso"); err == nil {
		t.Fatal("unknown mode accepted")
	}
}

func TestRegisterDoesNotLogIn(t *testing.T) {
	c, _ := newTestController(t)
	out := c.Submit(context.Background(), ModeRegister, models.Credentials{Username: "alice", Password: "secret1"})
	if !out.OK || out.Session != nil || out.Token != "" || out.Redirect != "" {
		t.Fatalf("register outcome = %+v", out)
	}
	if c.Sessions().Len() != 0 {
		t.Fatal("register must not open a session")
	}

	out = c.Submit(context.Background(), ModeRegister, models.Credentials{Username: "alice", Password: "secret1"})
	if out.OK || out.Notices[0].Message != "El usuario ya existe" {
		t.Fatalf("duplicate register = %+v", out)
	}
}

func TestLoginOpensSession(t *testing.T) {
	c, srv := newTestController(t)
	srv.AddUser("alice", "secret1")

	out := c.Submit(context.Background(), ModeLogin, models.Credentials{Username: "alice", Password: "secret1"})
	if !out.OK || out.Redirect != DashboardPath || out.Token == "" {
		t.Fatalf("login outcome = %+v", out)
	}
	s, err := c.Resolve(out.Token)
	if err != nil || s.Username != "alice" || s.State() != session.LoggedIn {
		t.Fatalf("resolve: %v", err)
	}

	if err := c.Logout(out.Token); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := c.Resolve(out.Token); !errors.Is(err, session.ErrNotFound) {
		t.Fatalf("resolve after logout = %v", err)
	}
}

func TestLoginFailureStaysLoggedOut(t *testing.T) {
	c, srv := newTestController(t)
	srv.AddUser("alice", "secret1")

	out := c.Submit(context.Background(), ModeLogin, models.Credentials{Username: "alice", Password: "wrong"})
	if out.OK || out.Token != "" {
		t.Fatalf("bad login outcome = %+v", out)
	}
	if out.Notices[0].Level != notify.LevelError || out.Notices[0].Message != "Credenciales inválidas" {
		t.Fatalf("notice = %+v", out.Notices)
	}
	if c.Sessions().Len() != 0 {
		t.Fatal("failed login must not open a session")
	}

	srv.Close()
	out = c.Submit(context.Background(), ModeLogin, models.Credentials{Username: "alice", Password: "secret1"})
	if out.OK || out.Notices[0].Message != "request failed" {
		t.Fatalf("transport failure should use fallback: %+v", out)
	}
}

func TestEmptyCredentialsSkipNetwork(t *testing.T) {
	c, srv := newTestController(t)
	out := c.Submit(context.Background(), ModeLogin, models.Credentials{Username: "alice"})
	if out.OK || out.Fields["password"] == "" {
		t.Fatalf("outcome = %+v", out)
	}
	if srv.Calls("POST /login") != 0 {
		t.Fatal("empty form must not reach the backend")
	}
}

func TestTokenFromRequest(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	if TokenFromRequest(r) != "" {
		t.Fatal("no token expected")
	}
	r.Header.Set("Authorization", "Bearer abc")
	if TokenFromRequest(r) != "abc" {
		t.Fatal("bearer token not read")
	}

	w := httptest.NewRecorder()
	SetCookie(w, "from-cookie", time.Now().Add(time.Hour), false)
	r.AddCookie(w.Result().Cookies()[0])
	if TokenFromRequest(r) != "from-cookie" {
		t.Fatal("cookie should win over header")
	}
}
