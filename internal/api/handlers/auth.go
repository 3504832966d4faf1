// internal/api/handlers/auth.go
package handlers

import (
	"context"
	"net/http"

	"github.com/baharkarakas/authmonitor/internal/api/httpx"
	"github.com/baharkarakas/authmonitor/internal/auth"
	"github.com/baharkarakas/authmonitor/internal/models"
	"github.com/baharkarakas/authmonitor/internal/notify"
	"github.com/baharkarakas/authmonitor/internal/remote"
)

type AuthHandler struct {
	Auth         *auth.Controller
	SecureCookie bool
}

func NewAuthHandler(a *auth.Controller, secureCookie bool) *AuthHandler {
	return &AuthHandler{Auth: a, SecureCookie: secureCookie}
}

type authReq struct {
	Mode     string `json:"mode"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type entryScreen struct {
	Screen   string    `json:"screen"`
	Mode     auth.Mode `json:"mode"`
	LoggedIn bool      `json:"logged_in"`
	Redirect string    `json:"redirect,omitempty"`
}

// EntryScreen describes the auth form. ?mode=register selects the other form.
func (h *AuthHandler) EntryScreen(w http.ResponseWriter, r *http.Request) {
	mode, err := auth.ParseMode(r.URL.Query().Get("mode"))
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "bad_mode", err.Error(), nil)
		return
	}
	scr := entryScreen{Screen: "auth", Mode: mode}
	if _, err := h.Auth.Resolve(auth.TokenFromRequest(r)); err == nil {
		scr.LoggedIn = true
		scr.Redirect = auth.DashboardPath
	}
	httpx.WriteJSON(w, http.StatusOK, scr)
}

// Submit handles POST /auth with the mode in the body.
func (h *AuthHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req authReq
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "bad_request", "invalid request body", nil)
		return
	}
	mode, err := auth.ParseMode(req.Mode)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "bad_mode", err.Error(), nil)
		return
	}
	h.submit(w, r, mode, req)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	h.fixedMode(w, r, auth.ModeLogin)
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	h.fixedMode(w, r, auth.ModeRegister)
}

func (h *AuthHandler) fixedMode(w http.ResponseWriter, r *http.Request, mode auth.Mode) {
	var req authReq
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "bad_request", "invalid request body", nil)
		return
	}
	h.submit(w, r, mode, req)
}

func (h *AuthHandler) submit(w http.ResponseWriter, r *http.Request, mode auth.Mode, req authReq) {
	// remote calls are not cancelled when the client goes away
	ctx := context.WithoutCancel(r.Context())
	out := h.Auth.Submit(ctx, mode, models.Credentials{Username: req.Username, Password: req.Password})

	if len(out.Fields) > 0 {
		writeInvalid(w, out.Notices, out.Fields)
		return
	}
	if out.OK && out.Token != "" {
		auth.SetCookie(w, out.Token, out.ExpiresAt, h.SecureCookie)
	}
	httpx.WriteJSON(w, statusFor(out.OK, out.Err), out)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.Auth.Logout(auth.TokenFromRequest(r)); err != nil {
		httpx.WriteError(w, http.StatusUnauthorized, "unauthenticated", "no active session", nil)
		return
	}
	auth.ClearCookie(w, h.SecureCookie)
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"redirect": "/login"})
}

// statusFor maps an action outcome to a response status. Backend 4xx answers
// pass through; other remote failures are a bad gateway.
func statusFor(ok bool, err error) int {
	switch {
	case ok:
		return http.StatusOK
	case err != nil:
		return remote.Status(err)
	}
	return http.StatusBadRequest
}

func writeInvalid(w http.ResponseWriter, notices []notify.Notice, fields map[string]string) {
	msg := "validation failed"
	if len(notices) > 0 {
		msg = notices[0].Message
	}
	httpx.WriteError(w, http.StatusUnprocessableEntity, "validation_failed", msg, fields)
}
