package handlers

import (
	"context"
	"net/http"

	"yonexus/internal/application/auth"
	"yonexus/internal/domain"

	"github.com/gin-gonic/gin"
)

const (
	refreshCookie = "refresh_token"
	refreshMaxAge = 7 * 24 * 60 * 60
)

type AuthService interface {
	Register(ctx context.Context, in auth.RegisterInput) (*domain.Account, *domain.Character, error)
	Login(ctx context.Context, login, password string) (*auth.Tokens, error)
	Refresh(ctx context.Context, refreshToken string) (*auth.Tokens, error)
	Logout(ctx context.Context, refreshToken string) error
}

type AuthHandler struct {
	auth         AuthService
	secureCookie bool
}

func NewAuthHandler(auth AuthService, secureCookie bool) *AuthHandler {
	return &AuthHandler{auth: auth, secureCookie: secureCookie}
}

type registerReq struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	profileReq
}

type loginReq struct {
	Login    string `json:"login" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type refreshReq struct {
	RefreshToken string `json:"refresh_token"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	account, character, err := h.auth.Register(c, auth.RegisterInput{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		Character: req.profileInput(),
	})
	if err != nil {
		writeError(c, err, false)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"account_id": account.ID, "character": character})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	tokens, err := h.auth.Login(c, req.Login, req.Password)
	if err != nil {
		writeError(c, err, false)
		return
	}

	h.setRefreshCookie(c, tokens.RefreshToken, refreshMaxAge)
	c.JSON(http.StatusOK, tokens)
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	refreshToken := h.refreshToken(c)
	if refreshToken == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Refresh token not found", "code": "session_expired"})
		return
	}

	tokens, err := h.auth.Refresh(c, refreshToken)
	if err != nil {
		writeError(c, err, false)
		return
	}

	h.setRefreshCookie(c, tokens.RefreshToken, refreshMaxAge)
	c.JSON(http.StatusOK, tokens)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if refreshToken := h.refreshToken(c); refreshToken != "" {
		if err := h.auth.Logout(c, refreshToken); err != nil {
			writeError(c, err, false)
			return
		}
	}

	h.setRefreshCookie(c, "", -1)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// refreshToken reads the cookie set at login, or the JSON body for clients
// that do not keep cookies.
func (h *AuthHandler) refreshToken(c *gin.Context) string {
	if token, err := c.Cookie(refreshCookie); err == nil && token != "" {
		return token
	}
	var req refreshReq
	_ = c.ShouldBindJSON(&req)
	return req.RefreshToken
}

func (h *AuthHandler) setRefreshCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(refreshCookie, value, maxAge, "/api/v1/auth", "", h.secureCookie, true)
}
