// Package remotetest runs an in-memory stand-in for the remote auth/admin
// API, with the same routes, payload shapes and audit trail descriptions.
package remotetest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/baharkarakas/authmonitor/internal/models"
)

type user struct {
	id       string
	username string
	hash     []byte
}

// hashPassword stores passwords the way the real backend does. MinCost keeps
// tests fast.
func hashPassword(pw string) []byte {
	h, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	return h
}

type Server struct {
	*httptest.Server

	mu      sync.Mutex
	users   []user
	logs    []models.AuditLog
	calls   map[string]int
	fail    map[string]bool
	alert   string
	changes json.RawMessage
}

// NewServer starts the fake API. Close it when done.
func NewServer() *Server {
	s := &Server{
		calls: map[string]int{},
		fail:  map[string]bool{},
	}
	r := chi.NewRouter()
	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", s.count("POST /register", s.register))
		r.Post("/login", s.count("POST /login", s.login))
		r.Get("/users", s.count("GET /users", s.listUsers))
		r.Put("/users/{id}", s.count("PUT /users/{id}", s.updateUser))
		r.Delete("/users/{id}", s.count("DELETE /users/{id}", s.deleteUser))
		r.Get("/logs", s.count("GET /logs", s.listLogs))
		r.Get("/verificar-cambios", s.count("GET /verificar-cambios", s.detectChanges))
	})
	s.Server = httptest.NewServer(r)
	return s
}

// BaseURL is what a remote.Client should be pointed at.
func (s *Server) BaseURL() string { return s.URL + "/api/auth" }

// Calls returns how many times a route ("GET /users", "PUT /users/{id}") was hit.
func (s *Server) Calls(route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[route]
}

// Fail makes a route answer 500 until cleared with Fail(route, false).
func (s *Server) Fail(route string, on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail[route] = on
}

// SetAlert configures the next change-detection answers.
func (s *Server) SetAlert(alert string, changes json.RawMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.alert, s.changes = alert, changes
}

// AddUser seeds an account without writing an audit entry.
func (s *Server) AddUser(username, password string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := newID()
	s.users = append(s.users, user{id: id, username: username, hash: hashPassword(password)})
	return id
}

// AddLog seeds an audit entry.
func (s *Server) AddLog(description string, usernames ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.appendLog(description, usernames...)
}

func (s *Server) count(route string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.calls[route]++
		failing := s.fail[route]
		s.mu.Unlock()
		if failing {
			writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Error interno del servidor"})
			return
		}
		h(w, r)
	}
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var c models.Credentials
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil || c.Username == "" || c.Password == "" {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Usuario y contraseña son obligatorios"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findByName(c.Username) >= 0 {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "El usuario ya existe"})
		return
	}
	s.users = append(s.users, user{id: newID(), username: c.Username, hash: hashPassword(c.Password)})
	s.appendLog("Usuario registrado", c.Username)
	writeJSON(w, http.StatusCreated, models.MessageResponse{Message: "Usuario registrado con éxito"})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var c models.Credentials
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Solicitud inválida"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.findByName(c.Username)
	if i < 0 || bcrypt.CompareHashAndPassword(s.users[i].hash, []byte(c.Password)) != nil {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Credenciales inválidas"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Inicio de sesión exitoso", "token": "opaque"})
}

func (s *Server) listUsers(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]map[string]string, 0, len(s.users))
	for _, u := range s.users {
		// the real backend leaks the stored hash; clients must ignore it
		out = append(out, map[string]string{"_id": u.id, "username": u.username, "password": string(u.hash)})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) updateUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var c models.Credentials
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Solicitud inválida"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.findByID(id)
	if i < 0 {
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Usuario no encontrado"})
		return
	}
	if c.Username != "" {
		s.users[i].username = c.Username
	}
	if c.Password != "" {
		s.users[i].hash = hashPassword(c.Password)
	}
	s.appendLog("Usuario actualizado", s.users[i].username)
	writeJSON(w, http.StatusOK, models.MessageResponse{Message: "Usuario actualizado con éxito"})
}

func (s *Server) deleteUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.findByID(id)
	if i < 0 {
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Usuario no encontrado"})
		return
	}
	name := s.users[i].username
	s.users = append(s.users[:i], s.users[i+1:]...)
	s.appendLog("Usuario eliminado", name)
	writeJSON(w, http.StatusOK, models.MessageResponse{Message: "Usuario eliminado con éxito"})
}

func (s *Server) listLogs(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.AuditLog, len(s.logs))
	copy(out, s.logs)
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) detectChanges(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.alert != "" {
		writeJSON(w, http.StatusOK, map[string]any{"mensaje": "", "alerta": s.alert, "cambios": s.changes})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"mensaje": "No se detectaron cambios", "alerta": nil, "cambios": []any{}})
}

func (s *Server) appendLog(description string, usernames ...string) {
	l := models.AuditLog{Timestamp: time.Now().UTC(), Description: description}
	for _, u := range usernames {
		l.AffectedData = append(l.AffectedData, models.AffectedRecord{Username: u})
	}
	s.logs = append(s.logs, l)
}

func (s *Server) findByName(name string) int {
	for i, u := range s.users {
		if u.username == name {
			return i
		}
	}
	return -1
}

func (s *Server) findByID(id string) int {
	for i, u := range s.users {
		if u.id == id {
			return i
		}
	}
	return -1
}

// newID mimics a 24-hex Mongo ObjectID.
func newID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:24]
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
