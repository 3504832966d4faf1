package validate

import (
	"testing"

	"github.com/baharkarakas/authmonitor/internal/models"
)

func TestUserForm(t *testing.T) {
	cases := []struct {
		name string
		in   models.Credentials
		want map[string]string
	}{
		{"missing username", models.Credentials{Username: "", Password: "abcdef"}, map[string]string{"username": "username required"}},
		{"blank username", models.Credentials{Username: "   ", Password: "abcdef"}, map[string]string{"username": "username required"}},
		{"short password", models.Credentials{Username: "bob", Password: "12345"}, map[string]string{"password": "password too short"}},
		{"missing password", models.Credentials{Username: "bob"}, map[string]string{"password": "password required"}},
		{"both invalid", models.Credentials{}, map[string]string{"username": "username required", "password": "password required"}},
		{"short multibyte password", models.Credentials{Username: "bob", Password: "ñññ"}, map[string]string{"password": "password too short"}},
		{"valid", models.Credentials{Username: "bob", Password: "123456"}, nil},
		{"valid multibyte", models.Credentials{Username: "bob", Password: "ññññññ"}, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := UserForm(tc.in).Fields()
			if len(got) != len(tc.want) {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
			for k, v := range tc.want {
				if got[k] != v {
					t.Fatalf("field %s: got %q, want %q", k, got[k], v)
				}
			}
		})
	}
}

func TestErrsError(t *testing.T) {
	errs := UserForm(models.Credentials{})
	if errs.Error() != "username: username required; password: password required" {
		t.Fatalf("unexpected message %q", errs.Error())
	}
}

func TestCredentials(t *testing.T) {
	if errs := Credentials(models.Credentials{Username: "bob", Password: "1"}); len(errs) != 0 {
		t.Fatalf("short password is fine for login: %v", errs)
	}
	if errs := Credentials(models.Credentials{Username: "bob"}); len(errs) != 1 {
		t.Fatalf("expected password error, got %v", errs)
	}
}
