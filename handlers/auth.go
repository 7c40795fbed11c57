package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/kevinaaaquil/books-api/middleware"
	"github.com/kevinaaaquil/books-api/models"
	"github.com/kevinaaaquil/books-api/store"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type AuthHandler struct {
	DB        UserStore
	JWTSecret string
	Log       *zap.Logger
	// BcryptCost defaults to bcrypt.DefaultCost when zero.
	BcryptCost int
}

type RegisterResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type LoginResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
}

func (h *AuthHandler) readCredentials(w http.ResponseWriter, r *http.Request) (models.CredentialsRequest, bool) {
	var req models.CredentialsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return req, false
	}
	req.Username = strings.TrimSpace(req.Username)
	if err := models.Validate(req); err != nil {
		writeError(w, http.StatusBadRequest, "username and password required")
		return req, false
	}
	return req, true
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	req, ok := h.readCredentials(w, r)
	if !ok {
		return
	}
	existing, err := h.DB.UserByUsername(r.Context(), req.Username)
	if err != nil {
		serverError(h.Log, w, r, "registration failed", err)
		return
	}
	if existing != nil {
		writeError(w, http.StatusConflict, "username already exists")
		return
	}
	hash, err := HashPassword(req.Password, h.BcryptCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		writeError(w, http.StatusBadRequest, "password is too long")
		return
	}
	if err != nil {
		serverError(h.Log, w, r, "registration failed", err)
		return
	}
	user := &models.User{Username: req.Username, Password: hash, CreatedAt: time.Now().UTC()}
	id, err := h.DB.CreateUser(r.Context(), user)
	if errors.Is(err, store.ErrDuplicate) {
		writeError(w, http.StatusConflict, "username already exists")
		return
	}
	if err != nil {
		serverError(h.Log, w, r, "registration failed", err)
		return
	}
	h.Log.Info("user registered", zap.String("username", user.Username), zap.String("id", id.Hex()))
	writeJSON(w, http.StatusCreated, RegisterResponse{ID: id.Hex(), Username: user.Username})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	req, ok := h.readCredentials(w, r)
	if !ok {
		return
	}
	user, err := h.DB.UserByUsername(r.Context(), req.Username)
	if err != nil {
		serverError(h.Log, w, r, "login failed", err)
		return
	}
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		writeError(w, http.StatusUnauthorized, "invalid username or password")
		return
	}
	token, err := middleware.SignToken(h.JWTSecret, user.ID, user.Username, time.Now())
	if err != nil {
		serverError(h.Log, w, r, "could not create token", err)
		return
	}
	writeJSON(w, http.StatusOK, LoginResponse{Token: token, Username: user.Username})
}

// Logout only acknowledges the call. Tokens are not tracked server side, so
// the client drops its copy and the token lapses at expiry.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
}

// HashPassword bcrypt-hashes password; cost 0 means bcrypt.DefaultCost.
func HashPassword(password string, cost int) (string, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
