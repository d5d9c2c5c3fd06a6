package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"carrental/internal/app"
	"carrental/internal/transport/http/middleware"
	"carrental/internal/transport/http/response"
)

const (
	msgRegisterFailed = "Error during registration. Please try again."
	msgLoginFailed    = "Error during login. Please try again."
)

type CookieOptions struct {
	Name   string
	Secure bool
	MaxAge time.Duration
}

type AuthHandler struct {
	authService *app.AuthService
	cookie      CookieOptions
}

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func NewAuthHandler(authService *app.AuthService, cookie CookieOptions) *AuthHandler {
	return &AuthHandler{authService: authService, cookie: cookie}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.MsgBadPayload)
		return
	}

	err := h.authService.Register(c.Request.Context(), app.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeError(c, err, http.StatusBadRequest, msgRegisterFailed)
		return
	}

	response.OK(c, http.StatusCreated, "Registration successful! Please login.", nil)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.MsgBadPayload)
		return
	}

	result, err := h.authService.Login(c.Request.Context(), app.LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		writeError(c, err, http.StatusBadRequest, msgLoginFailed)
		return
	}

	h.setTokenCookie(c, result.Token, h.cookie.MaxAge)
	response.OK(c, http.StatusOK, "Login successful", gin.H{
		"user":  result.User.Public(),
		"token": result.Token,
	})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	h.setTokenCookie(c, "", -1)
	response.OK(c, http.StatusOK, "", nil)
}

func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.MsgUnauthorized)
		return
	}

	user, err := h.authService.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		if kind, known := app.KindOf(err); known && kind == app.KindNotFound {
			// token outlived its account
			response.Error(c, http.StatusUnauthorized, response.MsgUnauthorized)
			return
		}
		writeError(c, err, http.StatusBadRequest, "fetch current user failed")
		return
	}

	response.OK(c, http.StatusOK, "", gin.H{"user": user.Public()})
}

func (h *AuthHandler) setTokenCookie(c *gin.Context, token string, maxAge time.Duration) {
	if h.cookie.Name == "" {
		return
	}
	seconds := int(maxAge / time.Second)
	if maxAge < 0 {
		seconds = -1
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, token, seconds, "/", "", h.cookie.Secure, true)
}
