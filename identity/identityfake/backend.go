// Package identityfake is an in-memory implementation of the identity service API
// for tests and local development.
package identityfake

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"

	"github.com/Sajjadhussain197/umsfront/identity"
	"github.com/Sajjadhussain197/umsfront/users"
	"github.com/google/uuid"
)

const roleAdmin = "admin"

var knownRoles = []string{"admin", "user"}

type account struct {
	user         users.User
	passwordHash string
}

// Backend serves the identity API from memory. It is safe for concurrent use.
type Backend struct {
	mu      sync.RWMutex
	users   map[string]*account // user id -> account
	emails  map[string]string   // lower-cased email -> user id
	access  map[string]string   // access token -> user id
	refresh map[string]string   // refresh token -> user id
	mux     *http.ServeMux
}

var _ http.Handler = (*Backend)(nil)

// Option configures a Backend
type Option func(*Backend) error

// WithUser seeds an account. An empty ID is generated.
func WithUser(user users.User, password string) Option {
	return func(b *Backend) error {
		_, err := b.AddUser(user, password)
		return err
	}
}

// New creates a backend seeded by opts
func New(opts ...Option) (*Backend, error) {
	b := &Backend{
		users:   make(map[string]*account),
		emails:  make(map[string]string),
		access:  make(map[string]string),
		refresh: make(map[string]string),
		mux:     http.NewServeMux(),
	}
	for _, opt := range opts {
		if err := opt(b); err != nil {
			return nil, fmt.Errorf("[identityfake New] %w", err)
		}
	}

	b.mux.HandleFunc("POST "+identity.PathLogin, b.login)
	b.mux.HandleFunc("POST "+identity.PathRegister, b.requireAdmin(b.register))
	b.mux.HandleFunc("GET "+identity.PathListUsers, b.requireAdmin(b.listUsers))
	b.mux.HandleFunc("GET "+identity.PathGetUser+"{id}", b.requireToken(b.getUser))
	b.mux.HandleFunc("PATCH "+identity.PathUpdateAccount, b.requireToken(b.updateAccount))
	b.mux.HandleFunc("PATCH "+identity.PathUpdateUser+"{id}", b.requireAdmin(b.updateUser))
	b.mux.HandleFunc("POST "+identity.PathChangePassword, b.requireToken(b.changePassword))
	b.mux.HandleFunc("DELETE "+identity.PathDeleteUser+"{id}", b.requireToken(b.deleteUser))
	return b, nil
}

func (b *Backend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mux.ServeHTTP(w, r)
}

// AddUser stores an account with a bcrypt hash of password
func (b *Backend) AddUser(user users.User, password string) (users.User, error) {
	if err := users.ValidateEmail(user.Email); err != nil {
		return users.User{}, err
	}
	if password == "" {
		return users.User{}, errors.New("password is required")
	}
	hash, err := users.HashPassword(password)
	if err != nil {
		return users.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	key := strings.ToLower(user.Email)
	if _, ok := b.emails[key]; ok {
		return users.User{}, fmt.Errorf("email %s already registered", user.Email)
	}
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	b.users[user.ID] = &account{user: user, passwordHash: hash}
	b.emails[key] = user.ID
	return user, nil
}

// Users returns a snapshot of all accounts sorted by email
func (b *Backend) Users() []users.User {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.sortedUsers()
}

// RevokeTokens invalidates every access and refresh token of userID
func (b *Backend) RevokeTokens(userID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.revokeLocked(userID)
}

func (b *Backend) login(w http.ResponseWriter, r *http.Request) {
	var req identity.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	id, ok := b.emails[strings.ToLower(strings.TrimSpace(req.Email))]
	if !ok {
		writeError(w, http.StatusUnauthorized, "No user found")
		return
	}
	acct := b.users[id]
	if !users.CheckPasswordHash(req.Password, acct.passwordHash) {
		writeError(w, http.StatusUnauthorized, "Invalid user credentials")
		return
	}

	accessToken := uuid.New().String()
	refreshToken := uuid.New().String()
	b.access[accessToken] = id
	b.refresh[refreshToken] = id

	writeData(w, http.StatusOK, "User logged in successfully", identity.LoginData{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         acct.user,
	})
}

func (b *Backend) register(w http.ResponseWriter, r *http.Request, _ *users.User) {
	var req users.CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	req = req.Normalize()
	if err := req.Validate(knownRoles); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := b.AddUser(users.User{
		FullName: req.FullName,
		Username: req.Username,
		Email:    req.Email,
		Role:     req.Role,
	}, req.Password)
	if err != nil {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	writeData(w, http.StatusCreated, "User registered successfully", user)
}

func (b *Backend) listUsers(w http.ResponseWriter, _ *http.Request, _ *users.User) {
	writeData(w, http.StatusOK, "Users fetched successfully", b.Users())
}

func (b *Backend) getUser(w http.ResponseWriter, r *http.Request, caller *users.User) {
	id := r.PathValue("id")
	if caller.ID != id && caller.Role != roleAdmin {
		writeError(w, http.StatusForbidden, "not allowed")
		return
	}

	b.mu.RLock()
	acct, ok := b.users[id]
	b.mu.RUnlock()
	if !ok {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	writeData(w, http.StatusOK, "User fetched successfully", acct.user)
}

func (b *Backend) updateAccount(w http.ResponseWriter, r *http.Request, caller *users.User) {
	var req users.UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	req = req.Normalize()
	req.Role = ""
	b.update(w, caller.ID, req)
}

func (b *Backend) updateUser(w http.ResponseWriter, r *http.Request, _ *users.User) {
	var req users.UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	b.update(w, r.PathValue("id"), req.Normalize())
}

func (b *Backend) update(w http.ResponseWriter, id string, req users.UpdateRequest) {
	if err := req.Validate(knownRoles); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	acct, ok := b.users[id]
	if !ok {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	newKey := strings.ToLower(req.Email)
	if owner, taken := b.emails[newKey]; taken && owner != id {
		writeError(w, http.StatusConflict, "email already registered")
		return
	}

	delete(b.emails, strings.ToLower(acct.user.Email))
	acct.user.Apply(req)
	b.emails[newKey] = id
	writeData(w, http.StatusOK, "Account details updated successfully", acct.user)
}

func (b *Backend) changePassword(w http.ResponseWriter, r *http.Request, caller *users.User) {
	var req users.ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if err := users.ValidatePasswordStrength(req.NewPassword); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	hash, err := users.HashPassword(req.NewPassword)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to hash password")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	acct, ok := b.users[caller.ID]
	if !ok {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	if !users.CheckPasswordHash(req.OldPassword, acct.passwordHash) {
		writeError(w, http.StatusBadRequest, "Invalid old password")
		return
	}
	acct.passwordHash = hash
	writeData(w, http.StatusOK, "Password changed successfully", nil)
}

func (b *Backend) deleteUser(w http.ResponseWriter, r *http.Request, caller *users.User) {
	id := r.PathValue("id")
	if caller.ID != id && caller.Role != roleAdmin {
		writeError(w, http.StatusForbidden, "not allowed")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	acct, ok := b.users[id]
	if !ok {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	delete(b.emails, strings.ToLower(acct.user.Email))
	delete(b.users, id)
	b.revokeLocked(id)
	writeData(w, http.StatusOK, "User deleted successfully", nil)
}

type authedHandler func(w http.ResponseWriter, r *http.Request, caller *users.User)

func (b *Backend) requireToken(next authedHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := b.caller(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, "Unauthorized request")
			return
		}
		next(w, r, caller)
	}
}

func (b *Backend) requireAdmin(next authedHandler) http.HandlerFunc {
	return b.requireToken(func(w http.ResponseWriter, r *http.Request, caller *users.User) {
		if caller.Role != roleAdmin {
			writeError(w, http.StatusForbidden, "Admin access required")
			return
		}
		next(w, r, caller)
	})
}

// caller resolves the bearer token to a copy of its account
func (b *Backend) caller(r *http.Request) (*users.User, bool) {
	parts := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
		return nil, false
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	id, ok := b.access[parts[1]]
	if !ok {
		return nil, false
	}
	acct, ok := b.users[id]
	if !ok {
		return nil, false
	}
	user := acct.user
	return &user, true
}

func (b *Backend) revokeLocked(userID string) {
	for token, id := range b.access {
		if id == userID {
			delete(b.access, token)
		}
	}
	for token, id := range b.refresh {
		if id == userID {
			delete(b.refresh, token)
		}
	}
}

func (b *Backend) sortedUsers() []users.User {
	list := make([]users.User, 0, len(b.users))
	for _, acct := range b.users {
		list = append(list, acct.user)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].Email < list[j].Email
	})
	return list
}

func writeData(w http.ResponseWriter, status int, message string, data any) {
	var raw json.RawMessage
	if data != nil {
		encoded, err := json.Marshal(data)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to encode response")
			return
		}
		raw = encoded
	}
	writeJSON(w, status, identity.Response{Success: true, StatusCode: status, Message: message, Data: raw})
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, identity.Response{Success: false, StatusCode: status, Message: message})
}

func writeJSON(w http.ResponseWriter, status int, body identity.Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
