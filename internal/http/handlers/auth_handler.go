// Auth HTTP handlers.
//
// This file exposes REST endpoints for user accounts and sessions:
//   - POST /auth/register   (create an account)
//   - POST /auth/login      (exchange credentials for a JWT pair)
//   - POST /auth/refresh    (exchange a refresh token for a new pair)
//
// Handlers are transport-thin: they validate input, call AuthService, and
// translate results into HTTP responses. Credentials never reach logs.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-search-backend/internal/services"
)

//
// DTOs
//

// RegisterRequest is the JSON payload for creating an account.
type RegisterRequest struct {
	// Username identifies the account; matched case-sensitively.
	Username string `json:"username" binding:"required,min=1,max=64" example:"tbourn"`
	// Email is optional contact information.
	Email string `json:"email" binding:"omitempty,email" example:"user@example.com"`
	// Password must be at least 8 characters.
	Password string `json:"password" binding:"required,min=8" example:"correct horse battery staple"`
}

// RegisterResponse echoes the created account without credential material.
type RegisterResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
}

// LoginRequest is the JSON payload for logging in.
type LoginRequest struct {
	Username string `json:"username" binding:"required" example:"tbourn"`
	Password string `json:"password" binding:"required" example:"correct horse battery staple"`
}

// RefreshRequest is the JSON payload for refreshing a session.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

//
// Handlers
//

// Register godoc
// @ID          register
// @Summary     Create an account
// @Description Registers a new user. Usernames are unique; passwords are stored as bcrypt hashes.
// @Tags        Auth
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.RegisterRequest  true  "Registration payload"
//
// @Success     201  {object}  handlers.RegisterResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     409  {object}  handlers.ErrorResponse  "Username taken"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /auth/register [post]
func (h *Handlers) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "username and password (min 8 chars) required")
		return
	}

	user, err := h.authSvc.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		switch err {
		case services.ErrUserExists:
			fail(c, http.StatusConflict, ErrCodeConflict, "username already exists")
		case services.ErrWeakPassword, services.ErrInvalidCredentials:
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "username and password (min 8 chars) required")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeRegisterFailed, err.Error())
		}
		return
	}

	ok(c, http.StatusCreated, RegisterResponse{ID: user.ID, Username: user.Username, Email: user.Email})
}

// Login godoc
// @ID          login
// @Summary     Log in
// @Description Verifies credentials and returns an access/refresh token pair.
// @Tags        Auth
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.LoginRequest  true  "Credentials"
//
// @Success     200  {object}  services.TokenPair
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     401  {object}  handlers.ErrorResponse  "Invalid credentials"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /auth/login [post]
func (h *Handlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "username and password required")
		return
	}

	pair, err := h.authSvc.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if err == services.ErrInvalidCredentials {
			fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "invalid credentials")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}

	ok(c, http.StatusOK, pair)
}

// Refresh godoc
// @ID          refresh
// @Summary     Refresh a session
// @Description Exchanges a valid refresh token for a new access/refresh pair.
// @Tags        Auth
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.RefreshRequest  true  "Refresh payload"
//
// @Success     200  {object}  services.TokenPair
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     401  {object}  handlers.ErrorResponse  "Invalid or expired token"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /auth/refresh [post]
func (h *Handlers) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "refresh_token required")
		return
	}

	pair, err := h.authSvc.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		switch err {
		case services.ErrInvalidToken, services.ErrUserNotFound:
			fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "invalid or expired refresh token")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		}
		return
	}

	ok(c, http.StatusOK, pair)
}
