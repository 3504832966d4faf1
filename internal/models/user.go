package models

// User is an account as listed by the remote admin API. The backend keys
// documents by "_id"; the password is write-only and never decoded back.
type User struct {
	ID       string `json:"_id"`
	Username string `json:"username"`
	Password string `json:"-"`
}

// Credentials is the request body for register, login and user updates.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
