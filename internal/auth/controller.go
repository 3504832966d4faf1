package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/baharkarakas/authmonitor/internal/api/validate"
	"github.com/baharkarakas/authmonitor/internal/models"
	"github.com/baharkarakas/authmonitor/internal/notify"
	"github.com/baharkarakas/authmonitor/internal/remote"
	"github.com/baharkarakas/authmonitor/internal/session"
)

// DashboardPath is where a successful login sends the user.
const DashboardPath = "/dashboard"

type Mode string

const (
	ModeLogin    Mode = "login"
	ModeRegister Mode = "register"
)

func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case ModeLogin, ModeRegister:
		return m, nil
	case "":
		return ModeLogin, nil
	}
	return "", fmt.Errorf("unknown auth mode %q", s)
}

// Toggle flips between the login and register forms.
func (m Mode) Toggle() Mode {
	if m == ModeRegister {
		return ModeLogin
	}
	return ModeRegister
}

// RemoteAuth is the part of the remote API used by the auth form.
type RemoteAuth interface {
	Register(ctx context.Context, c models.Credentials) (models.MessageResponse, error)
	Login(ctx context.Context, c models.Credentials) (json.RawMessage, error)
}

type Controller struct {
	remote   RemoteAuth
	sessions *session.Store
	tokens   *TokenManager
	log      *slog.Logger
}

func NewController(r RemoteAuth, sessions *session.Store, tokens *TokenManager, log *slog.Logger) *Controller {
	if log == nil {
		log = slog.Default()
	}
	return &Controller{remote: r, sessions: sessions, tokens: tokens, log: log}
}

func (c *Controller) Sessions() *session.Store { return c.sessions }
func (c *Controller) Tokens() *TokenManager    { return c.tokens }

// Outcome of an auth form submission. Session, Token and Redirect are only
// set after a successful login.
type Outcome struct {
	OK        bool              `json:"ok"`
	Mode      Mode              `json:"mode"`
	Notices   []notify.Notice   `json:"notices"`
	Fields    map[string]string `json:"fields,omitempty"`
	Redirect  string            `json:"redirect,omitempty"`
	Session   *session.Session  `json:"-"`
	Token     string            `json:"-"`
	ExpiresAt time.Time         `json:"-"`
	// Err is the remote failure behind a rejected submission, if any.
	Err error `json:"-"`
}

// Submit sends the credentials to the endpoint picked by mode. Registering
// never logs in; logging in opens a session.
func (c *Controller) Submit(ctx context.Context, mode Mode, creds models.Credentials) Outcome {
	out := Outcome{Mode: mode}
	if errs := validate.Credentials(creds); len(errs) > 0 {
		out.Fields = errs.Fields()
		out.Notices = []notify.Notice{notify.Error("username and password are required")}
		return out
	}

	switch mode {
	case ModeRegister:
		resp, err := c.remote.Register(ctx, creds)
		if err != nil {
			out.Err = err
			out.Notices = []notify.Notice{notify.Error(remote.ErrorMessage(err, "request failed"))}
			return out
		}
		msg := "registration successful"
		if resp.Message != "" {
			msg = resp.Message
		}
		out.OK = true
		out.Notices = []notify.Notice{notify.Success(msg)}
		return out

	case ModeLogin:
		if _, err := c.remote.Login(ctx, creds); err != nil {
			c.log.Info("login rejected", "user", creds.Username, "err", err)
			out.Err = err
			out.Notices = []notify.Notice{notify.Error(remote.ErrorMessage(err, "request failed"))}
			return out
		}
		s := c.sessions.Login(creds.Username)
		token, exp, err := c.tokens.Issue(s.ID, s.Username)
		if err != nil {
			c.log.Error("issue session token", "err", err)
			_ = c.sessions.Logout(s.ID)
			out.Err = err
			out.Notices = []notify.Notice{notify.Error("request failed")}
			return out
		}
		out.OK = true
		out.Session = s
		out.Token = token
		out.ExpiresAt = exp
		out.Redirect = DashboardPath
		out.Notices = []notify.Notice{notify.Success("login successful")}
		return out
	}

	out.Notices = []notify.Notice{notify.Error("unknown auth mode")}
	return out
}

// Logout ends the session behind token, if any.
func (c *Controller) Logout(token string) error {
	claims, err := c.tokens.Parse(token)
	if err != nil {
		return err
	}
	return c.sessions.Logout(claims.SessionID)
}

// Resolve maps a token to its LoggedIn session.
func (c *Controller) Resolve(token string) (*session.Session, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}
	claims, err := c.tokens.Parse(token)
	if err != nil {
		return nil, err
	}
	return c.sessions.Get(claims.SessionID)
}
