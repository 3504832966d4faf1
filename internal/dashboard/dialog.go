package dashboard

import "fmt"

type DialogKind string

const (
	DialogNone       DialogKind = "none"
	DialogCreateUser DialogKind = "create_user"
	DialogUsersList  DialogKind = "users_list"
	DialogLogs       DialogKind = "logs"
)

// Dialog is the single visible dialog. EditingID is only meaningful for
// DialogCreateUser and switches the user form to update mode.
type Dialog struct {
	Kind      DialogKind `json:"kind"`
	EditingID string     `json:"editing_id,omitempty"`
}

func (d Dialog) Editing() bool { return d.Kind == DialogCreateUser && d.EditingID != "" }

func ParseDialogKind(s string) (DialogKind, error) {
	switch k := DialogKind(s); k {
	case DialogNone, DialogCreateUser, DialogUsersList, DialogLogs:
		return k, nil
	case "":
		return DialogNone, nil
	}
	return "", fmt.Errorf("unknown dialog %q", s)
}
