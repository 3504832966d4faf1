// Package dashboard holds the per-session state of the admin console: the
// fetched users and audit logs, search and paging for each list, the open
// dialog and the pending user form.
//
// Remote calls are made without holding the controller lock and their
// results applied under it. Every mutation is followed by a full re-fetch of
// both lists; nothing is patched locally.
package dashboard

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/baharkarakas/authmonitor/internal/api/validate"
	"github.com/baharkarakas/authmonitor/internal/models"
	"github.com/baharkarakas/authmonitor/internal/notify"
	"github.com/baharkarakas/authmonitor/internal/remote"
	"github.com/baharkarakas/authmonitor/internal/worker"
)

var ErrUnknownUser = errors.New("user not loaded")

// API is the slice of the remote admin API the dashboard needs.
type API interface {
	Register(ctx context.Context, c models.Credentials) (models.MessageResponse, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	UpdateUser(ctx context.Context, id string, c models.Credentials) (models.MessageResponse, error)
	DeleteUser(ctx context.Context, id string) (models.MessageResponse, error)
	ListLogs(ctx context.Context) ([]models.AuditLog, error)
	DetectChanges(ctx context.Context) (models.ChangeReport, error)
}

// Result is what an action hands back to the caller.
type Result struct {
	OK      bool              `json:"ok"`
	Notices []notify.Notice   `json:"notices"`
	Fields  map[string]string `json:"fields,omitempty"`
	// Err is the remote failure, if the action reached the backend and failed.
	Err error `json:"-"`
}

type listState struct {
	query string
	page  int
}

func (l *listState) setQuery(q string) {
	l.query = q
	l.page = 1
}

type Controller struct {
	api      API
	pool     *worker.Pool
	pageSize int
	log      *slog.Logger

	mu       sync.Mutex
	mounted  bool
	users    []models.User
	logs     []ClassifiedLog
	userList listState
	logList  listState
	dialog   Dialog
	form     models.Credentials
	formErrs map[string]string
}

func NewController(api API, pool *worker.Pool, pageSize int, log *slog.Logger) *Controller {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if log == nil {
		log = slog.Default()
	}
	return &Controller{
		api:      api,
		pool:     pool,
		pageSize: pageSize,
		log:      log,
		userList: listState{page: 1},
		logList:  listState{page: 1},
		dialog:   Dialog{Kind: DialogNone},
	}
}

// Mount loads both lists the first time the dashboard is shown.
func (c *Controller) Mount(ctx context.Context) []notify.Notice {
	c.mu.Lock()
	if c.mounted {
		c.mu.Unlock()
		return nil
	}
	c.mounted = true
	c.mu.Unlock()
	return c.Refresh(ctx)
}

// Refresh re-reads users and logs. A failed fetch leaves the previously
// loaded list in place and yields an error notice.
func (c *Controller) Refresh(ctx context.Context) []notify.Notice {
	var usersErr, logsErr error
	c.pool.Run(
		func() { usersErr = c.fetchUsers(ctx) },
		func() { logsErr = c.fetchLogs(ctx) },
	)
	var out []notify.Notice
	if usersErr != nil {
		out = append(out, notify.Error(remote.ErrorMessage(usersErr, "failed to load users")))
	}
	if logsErr != nil {
		out = append(out, notify.Error(remote.ErrorMessage(logsErr, "failed to load logs")))
	}
	return out
}

func (c *Controller) fetchUsers(ctx context.Context) error {
	users, err := c.api.ListUsers(ctx)
	if err != nil {
		return err
	}
	for i := range users {
		users[i].Password = ""
	}
	c.mu.Lock()
	c.users = users
	c.mu.Unlock()
	return nil
}

func (c *Controller) fetchLogs(ctx context.Context) error {
	logs, err := c.api.ListLogs(ctx)
	if err != nil {
		return err
	}
	classified := classifyAll(logs)
	c.mu.Lock()
	c.logs = classified
	c.mu.Unlock()
	return nil
}

func (c *Controller) Users() Page[models.User] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.usersPage()
}

func (c *Controller) Logs() Page[ClassifiedLog] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.logsPage()
}

func (c *Controller) usersPage() Page[models.User] {
	return View(c.users, c.userList.query, c.userList.page, c.pageSize,
		func(u models.User) string { return u.Username })
}

func (c *Controller) logsPage() Page[ClassifiedLog] {
	return View(c.logs, c.logList.query, c.logList.page, c.pageSize,
		func(l ClassifiedLog) string { return l.Description })
}

// SetUserQuery changes the user search and goes back to page 1.
func (c *Controller) SetUserQuery(q string) {
	c.mu.Lock()
	c.userList.setQuery(q)
	c.mu.Unlock()
}

// SetLogQuery changes the log search and goes back to page 1.
func (c *Controller) SetLogQuery(q string) {
	c.mu.Lock()
	c.logList.setQuery(q)
	c.mu.Unlock()
}

// GoToUserPage moves the user list only. Out-of-range pages render empty.
func (c *Controller) GoToUserPage(n int) {
	c.mu.Lock()
	c.userList.page = n
	c.mu.Unlock()
}

// GoToLogPage moves the log list only.
func (c *Controller) GoToLogPage(n int) {
	c.mu.Lock()
	c.logList.page = n
	c.mu.Unlock()
}

// OpenDialog shows a dialog, replacing whichever one was open. Opening the
// user form this way starts a fresh create.
func (c *Controller) OpenDialog(kind DialogKind) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dialog = Dialog{Kind: kind}
	if kind == DialogCreateUser {
		c.form = models.Credentials{}
		c.formErrs = nil
	}
}

func (c *Controller) CloseDialog() {
	c.mu.Lock()
	c.dialog = Dialog{Kind: DialogNone}
	c.mu.Unlock()
}

// EditUser opens the user form prefilled for a loaded user. The password is
// left blank and must be typed again.
func (c *Controller) EditUser(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, u := range c.users {
		if u.ID == id {
			c.form = models.Credentials{Username: u.Username}
			c.formErrs = nil
			c.dialog = Dialog{Kind: DialogCreateUser, EditingID: id}
			return nil
		}
	}
	return ErrUnknownUser
}

// CreateUser submits the form in create mode.
func (c *Controller) CreateUser(ctx context.Context, form models.Credentials) Result {
	c.mu.Lock()
	c.dialog = Dialog{Kind: DialogCreateUser}
	c.mu.Unlock()
	return c.save(ctx, "", form)
}

// UpdateUser submits the form in update mode for id. The id does not have to
// be in the loaded list; the backend decides whether it exists.
func (c *Controller) UpdateUser(ctx context.Context, id string, form models.Credentials) Result {
	if strings.TrimSpace(id) == "" {
		return Result{Notices: []notify.Notice{notify.Error("user id required")}}
	}
	c.mu.Lock()
	c.dialog = Dialog{Kind: DialogCreateUser, EditingID: id}
	c.mu.Unlock()
	return c.save(ctx, id, form)
}

// SaveUser submits the form for whatever the open dialog is editing: an
// update when a user is being edited, a create otherwise.
func (c *Controller) SaveUser(ctx context.Context, form models.Credentials) Result {
	c.mu.Lock()
	editing := ""
	if c.dialog.Editing() {
		editing = c.dialog.EditingID
	}
	c.mu.Unlock()
	return c.save(ctx, editing, form)
}

// save validates and then updates editingID, or registers when it is empty.
// Invalid forms never reach the network. The dialog and form are only reset
// if they still belong to this submission.
func (c *Controller) save(ctx context.Context, editingID string, form models.Credentials) Result {
	origin := Dialog{Kind: DialogCreateUser, EditingID: editingID}
	errs := validate.UserForm(form)

	c.mu.Lock()
	if c.dialog == origin {
		c.form = form
		c.formErrs = errs.Fields()
	}
	c.mu.Unlock()

	if len(errs) > 0 {
		return Result{
			Notices: []notify.Notice{notify.Error("please fix the form errors")},
			Fields:  errs.Fields(),
		}
	}

	var (
		resp models.MessageResponse
		err  error
	)
	if editingID != "" {
		resp, err = c.api.UpdateUser(ctx, editingID, form)
	} else {
		resp, err = c.api.Register(ctx, form)
	}
	if err != nil {
		c.log.Info("save user rejected", "editing", editingID, "err", err)
		return Result{Err: err, Notices: []notify.Notice{notify.Error(remote.ErrorMessage(err, "failed to save user"))}}
	}

	notices := []notify.Notice{notify.Success(messageOr(resp, "user saved"))}
	notices = append(notices, c.Refresh(ctx)...)

	c.mu.Lock()
	if c.dialog == origin {
		c.dialog = Dialog{Kind: DialogNone}
		c.form = models.Credentials{}
		c.formErrs = nil
	}
	c.mu.Unlock()

	return Result{OK: true, Notices: notices}
}

// DeleteUser removes an account remotely; the local list only changes via
// the re-fetch that follows a successful delete.
func (c *Controller) DeleteUser(ctx context.Context, id string) Result {
	resp, err := c.api.DeleteUser(ctx, id)
	if err != nil {
		c.log.Info("delete user rejected", "id", id, "err", err)
		return Result{Err: err, Notices: []notify.Notice{notify.Error(remote.ErrorMessage(err, "failed to delete user"))}}
	}
	notices := []notify.Notice{notify.Success(messageOr(resp, "user deleted"))}
	notices = append(notices, c.Refresh(ctx)...)
	return Result{OK: true, Notices: notices}
}

// DetectChanges asks the backend to compare current and audited state.
func (c *Controller) DetectChanges(ctx context.Context) Result {
	rep, err := c.api.DetectChanges(ctx)
	if err != nil {
		return Result{Err: err, Notices: []notify.Notice{notify.Error("failed to check changes")}}
	}
	if rep.Alert != "" {
		c.log.Warn("changes detected", "alert", rep.Alert, "changes", string(rep.Changes))
		return Result{OK: true, Notices: []notify.Notice{notify.Warning(rep.Alert, rep.Changes)}}
	}
	return Result{OK: true, Notices: []notify.Notice{notify.Success(rep.Message)}}
}

// FormView is the pending user form without the password.
type FormView struct {
	Username string            `json:"username"`
	Errors   map[string]string `json:"errors,omitempty"`
}

type Snapshot struct {
	Dialog Dialog              `json:"dialog"`
	Form   FormView            `json:"form"`
	Users  Page[models.User]   `json:"users"`
	Logs   Page[ClassifiedLog] `json:"logs"`
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{
		Dialog: c.dialog,
		Form:   FormView{Username: c.form.Username, Errors: c.formErrs},
		Users:  c.usersPage(),
		Logs:   c.logsPage(),
	}
}

func messageOr(r models.MessageResponse, fallback string) string {
	if r.Message != "" {
		return r.Message
	}
	return fallback
}
