package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/baharkarakas/authmonitor/internal/api/httpx"
	"github.com/baharkarakas/authmonitor/internal/dashboard"
	"github.com/baharkarakas/authmonitor/internal/middleware"
	"github.com/baharkarakas/authmonitor/internal/models"
	"github.com/baharkarakas/authmonitor/internal/notify"
)

// DashboardHandler serves the per-session dashboard. Every route sits behind
// the session gate.
type DashboardHandler struct{}

func NewDashboardHandler() *DashboardHandler { return &DashboardHandler{} }

type dashboardResp struct {
	OK       bool   `json:"ok"`
	Username string `json:"username,omitempty"`
	dashboard.Snapshot
	Notices []notify.Notice `json:"notices"`
}

type pageResp[T any] struct {
	dashboard.Page[T]
	Notices []notify.Notice `json:"notices"`
}

type actionResp struct {
	dashboard.Result
	Snapshot dashboard.Snapshot `json:"dashboard"`
}

type userReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type dialogReq struct {
	Kind string `json:"kind"`
}

func controllerFrom(w http.ResponseWriter, r *http.Request) *dashboard.Controller {
	s := middleware.SessionFrom(r.Context())
	if s == nil || s.Dashboard == nil {
		httpx.WriteError(w, http.StatusUnauthorized, "unauthenticated", "login required", nil)
		return nil
	}
	return s.Dashboard
}

// detached keeps remote calls running when the browser navigates away.
func detached(r *http.Request) context.Context {
	return context.WithoutCancel(r.Context())
}

// Show mounts the dashboard on first visit and returns its state.
func (h *DashboardHandler) Show(w http.ResponseWriter, r *http.Request) {
	c := controllerFrom(w, r)
	if c == nil {
		return
	}
	notices := c.Mount(detached(r))
	resp := dashboardResp{
		OK:       !notify.HasErrors(notices),
		Username: middleware.SessionFrom(r.Context()).Username,
		Snapshot: c.Snapshot(),
		Notices:  orEmpty(notices),
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

func (h *DashboardHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	c := controllerFrom(w, r)
	if c == nil {
		return
	}
	notices := c.Refresh(detached(r))
	httpx.WriteJSON(w, http.StatusOK, dashboardResp{
		OK:       !notify.HasErrors(notices),
		Snapshot: c.Snapshot(),
		Notices:  orEmpty(notices),
	})
}

func (h *DashboardHandler) Users(w http.ResponseWriter, r *http.Request) {
	c := controllerFrom(w, r)
	if c == nil {
		return
	}
	if !applyListQuery(w, r, c.SetUserQuery, c.GoToUserPage) {
		return
	}
	httpx.WriteJSON(w, http.StatusOK, pageResp[models.User]{Page: c.Users(), Notices: []notify.Notice{}})
}

func (h *DashboardHandler) Logs(w http.ResponseWriter, r *http.Request) {
	c := controllerFrom(w, r)
	if c == nil {
		return
	}
	if !applyListQuery(w, r, c.SetLogQuery, c.GoToLogPage) {
		return
	}
	httpx.WriteJSON(w, http.StatusOK, pageResp[dashboard.ClassifiedLog]{Page: c.Logs(), Notices: []notify.Notice{}})
}

// applyListQuery applies ?q= before ?page= so a combined request lands on the
// requested page of the new result set.
func applyListQuery(w http.ResponseWriter, r *http.Request, setQuery func(string), goTo func(int)) bool {
	q := r.URL.Query()
	if q.Has("q") {
		setQuery(q.Get("q"))
	}
	if v := q.Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			httpx.WriteError(w, http.StatusBadRequest, "bad_page", "page must be a positive integer", nil)
			return false
		}
		goTo(n)
	}
	return true
}

func (h *DashboardHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	c := controllerFrom(w, r)
	if c == nil {
		return
	}
	var req userReq
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "bad_request", "invalid request body", nil)
		return
	}
	res := c.CreateUser(detached(r), models.Credentials{Username: req.Username, Password: req.Password})
	writeAction(w, c, res)
}

func (h *DashboardHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	c := controllerFrom(w, r)
	if c == nil {
		return
	}
	var req userReq
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "bad_request", "invalid request body", nil)
		return
	}
	id := chi.URLParam(r, "id")
	res := c.UpdateUser(detached(r), id, models.Credentials{Username: req.Username, Password: req.Password})
	writeAction(w, c, res)
}

// EditUser opens the user form prefilled for id.
func (h *DashboardHandler) EditUser(w http.ResponseWriter, r *http.Request) {
	c := controllerFrom(w, r)
	if c == nil {
		return
	}
	if err := c.EditUser(chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, dashboard.ErrUnknownUser) {
			httpx.WriteError(w, http.StatusNotFound, "not_found", "user not loaded", nil)
			return
		}
		httpx.WriteError(w, http.StatusInternalServerError, "internal_error", err.Error(), nil)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, dashboardResp{OK: true, Snapshot: c.Snapshot(), Notices: []notify.Notice{}})
}

func (h *DashboardHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	c := controllerFrom(w, r)
	if c == nil {
		return
	}
	writeAction(w, c, c.DeleteUser(detached(r), chi.URLParam(r, "id")))
}

func (h *DashboardHandler) DetectChanges(w http.ResponseWriter, r *http.Request) {
	c := controllerFrom(w, r)
	if c == nil {
		return
	}
	writeAction(w, c, c.DetectChanges(detached(r)))
}

func (h *DashboardHandler) OpenDialog(w http.ResponseWriter, r *http.Request) {
	c := controllerFrom(w, r)
	if c == nil {
		return
	}
	var req dialogReq
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "bad_request", "invalid request body", nil)
		return
	}
	kind, err := dashboard.ParseDialogKind(req.Kind)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "bad_dialog", err.Error(), nil)
		return
	}
	c.OpenDialog(kind)
	httpx.WriteJSON(w, http.StatusOK, dashboardResp{OK: true, Snapshot: c.Snapshot(), Notices: []notify.Notice{}})
}

func (h *DashboardHandler) CloseDialog(w http.ResponseWriter, r *http.Request) {
	c := controllerFrom(w, r)
	if c == nil {
		return
	}
	c.CloseDialog()
	httpx.WriteJSON(w, http.StatusOK, dashboardResp{OK: true, Snapshot: c.Snapshot(), Notices: []notify.Notice{}})
}

func writeAction(w http.ResponseWriter, c *dashboard.Controller, res dashboard.Result) {
	if len(res.Fields) > 0 {
		writeInvalid(w, res.Notices, res.Fields)
		return
	}
	res.Notices = orEmpty(res.Notices)
	httpx.WriteJSON(w, statusFor(res.OK, res.Err), actionResp{Result: res, Snapshot: c.Snapshot()})
}

func orEmpty(ns []notify.Notice) []notify.Notice {
	if ns == nil {
		return []notify.Notice{}
	}
	return ns
}
