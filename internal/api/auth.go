package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/mealplanner/backend/internal/service"
	"github.com/pageza/mealplanner/backend/internal/types"
)

// CookieSettings controls the session cookie written on login.
type CookieSettings struct {
	Name   string
	MaxAge int
	Secure bool
}

// AuthHandler issues and clears the session cookie.
type AuthHandler struct {
	auth   service.IAuthService
	cookie CookieSettings
	log    *zap.Logger
}

func NewAuthHandler(auth service.IAuthService, cookie CookieSettings, log *zap.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, cookie: cookie, log: log.Named("auth_handler")}
}

// RegisterRoutes mounts login and logout. loginGuards run before Login.
func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup, loginGuards ...gin.HandlerFunc) {
	router.POST("/login", append(loginGuards, h.Login)...)
	router.POST("/logout", h.Logout)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req types.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, h.log, bindError("auth.login", err))
		return
	}

	token, err := h.auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		Error(c, h.log, err)
		return
	}

	h.setCookie(c, token, h.cookie.MaxAge)
	h.log.Info("user logged in", zap.String("username", req.Username), zap.String("ip", c.ClientIP()))
	Success(c, http.StatusOK, gin.H{"username": req.Username}, nil)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	h.setCookie(c, "", -1)
	Success(c, http.StatusOK, nil, nil)
}

func (h *AuthHandler) setCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(h.cookie.Name, value, maxAge, "/", "", h.cookie.Secure, true)
}
