package validate

import (
	"strings"
	"unicode/utf8"

	"github.com/baharkarakas/authmonitor/internal/models"
)

type ErrField struct {
	Field string `json:"field"`
	Msg   string `json:"msg"`
}

type Errs []ErrField

func (e Errs) Error() string { // error interface
	var b strings.Builder
	for i, ef := range e {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(ef.Field + ": " + ef.Msg)
	}
	return b.String()
}

// Fields returns the field -> message mapping; nil when there are no errors.
func (e Errs) Fields() map[string]string {
	if len(e) == 0 {
		return nil
	}
	m := make(map[string]string, len(e))
	for _, ef := range e {
		if _, seen := m[ef.Field]; !seen {
			m[ef.Field] = ef.Msg
		}
	}
	return m
}

// add appends a non-nil field error
func (e Errs) add(ef *ErrField) Errs {
	if ef == nil {
		return e
	}
	return append(e, *ef)
}

// Helpers
func Required(field, value string) *ErrField {
	if strings.TrimSpace(value) == "" {
		return &ErrField{Field: field, Msg: field + " required"}
	}
	return nil
}

// NonEmpty is Required without trimming; whitespace is a valid password.
func NonEmpty(field, value string) *ErrField {
	if value == "" {
		return &ErrField{Field: field, Msg: field + " required"}
	}
	return nil
}

// MinLen counts characters, not bytes.
func MinLen(field, value string, min int) *ErrField {
	if utf8.RuneCountInString(value) < min {
		return &ErrField{Field: field, Msg: field + " too short"}
	}
	return nil
}

const MinPasswordLen = 6

// UserForm checks a pending create/update submission. All failing fields are
// reported together.
func UserForm(c models.Credentials) Errs {
	var errs Errs
	errs = errs.add(Required("username", c.Username))
	if ef := NonEmpty("password", c.Password); ef != nil {
		errs = errs.add(ef)
	} else {
		errs = errs.add(MinLen("password", c.Password, MinPasswordLen))
	}
	return errs
}

// Credentials is the lighter check of the auth form: both inputs present.
func Credentials(c models.Credentials) Errs {
	var errs Errs
	errs = errs.add(Required("username", c.Username))
	errs = errs.add(NonEmpty("password", c.Password))
	return errs
}
