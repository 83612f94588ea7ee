package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"edubot-backend/internal/models"
	"edubot-backend/internal/store"
	"edubot-backend/internal/util"

	"github.com/gin-gonic/gin"
)

// UserFinder is the slice of the credential store the auth endpoints need.
type UserFinder interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Insert(ctx context.Context, user *models.User) error
}

// AuthHandler serves /register and /login.
type AuthHandler struct {
	Users      UserFinder
	JWTSecret  string
	TokenTTL   time.Duration
	BcryptCost int
}

func NewAuthHandler(users UserFinder, jwtSecret string, ttlHours, bcryptCost int) *AuthHandler {
	if ttlHours <= 0 {
		ttlHours = 24
	}
	return &AuthHandler{
		Users:      users,
		JWTSecret:  jwtSecret,
		TokenTTL:   time.Duration(ttlHours) * time.Hour,
		BcryptCost: bcryptCost,
	}
}

type registerReq struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, "username, email, and password are required")
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)

	if req.Username == "" || req.Email == "" || req.Password == "" {
		util.Error(c, http.StatusBadRequest, "username, email, and password are required")
		return
	}
	if err := util.ValidateUsername(req.Username); err != nil {
		util.Error(c, http.StatusBadRequest, "invalid username")
		return
	}
	if err := util.ValidateEmail(req.Email); err != nil {
		util.Error(c, http.StatusBadRequest, "invalid email")
		return
	}

	// Pre-check for the friendly message; the unique index on email is the
	// real guarantee under concurrent registration.
	_, err := h.Users.FindByEmail(c.Request.Context(), req.Email)
	switch {
	case err == nil:
		util.Error(c, http.StatusBadRequest, "user already exists")
		return
	case !errors.Is(err, store.ErrNotFound):
		log.Printf("register: find user: %v", err)
		util.Error(c, http.StatusInternalServerError, "internal server error")
		return
	}

	hash, err := util.HashPassword(req.Password, h.BcryptCost)
	if err != nil {
		log.Printf("register: hash password: %v", err)
		util.Error(c, http.StatusInternalServerError, "internal server error")
		return
	}

	user := &models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := h.Users.Insert(c.Request.Context(), user); err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			// lost the race between pre-check and insert
			util.Error(c, http.StatusBadRequest, "user already exists")
			return
		}
		log.Printf("register: insert user: %v", err)
		util.Error(c, http.StatusInternalServerError, "internal server error")
		return
	}

	util.Success(c, http.StatusCreated, util.Response{
		"message": "User registered successfully",
	})
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusUnauthorized, "invalid credentials")
		return
	}

	req.Email = strings.TrimSpace(req.Email)

	user, err := h.Users.FindByEmail(c.Request.Context(), req.Email)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			log.Printf("login: find user: %v", err)
		}
		// unknown email and wrong password are indistinguishable to callers
		util.Error(c, http.StatusUnauthorized, "invalid credentials")
		return
	}

	if !util.CheckPassword(req.Password, user.PasswordHash) {
		util.Error(c, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := util.GenerateToken(h.JWTSecret, user.Email, h.TokenTTL)
	if err != nil {
		log.Printf("login: generate token: %v", err)
		util.Error(c, http.StatusInternalServerError, "internal server error")
		return
	}

	util.Success(c, http.StatusOK, util.Response{
		"token":    token,
		"username": user.Username,
	})
}
