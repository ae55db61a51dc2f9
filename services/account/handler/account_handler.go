package handler

import (
	"context"
	"net/http"
	"time"

	"auction-marketplace/internal/models"
	"auction-marketplace/services/account/helpers"
	"auction-marketplace/utils"

	"github.com/gin-gonic/gin"
)

type AccountServiceInterface interface {
	Register(ctx context.Context, in models.NewAccount) (models.User, error)
	Authenticate(ctx context.Context, username, password string) (models.User, error)
	IssueSession(user models.User) (string, error)
	SessionTTL() time.Duration
}

// CookieSettings controls the session cookie written on login
type CookieSettings struct {
	Name   string
	Secure bool
}

type AccountHandler struct {
	service AccountServiceInterface
	cookie  CookieSettings
}

func NewAccountHandler(service AccountServiceInterface, cookie CookieSettings) *AccountHandler {
	return &AccountHandler{service: service, cookie: cookie}
}

// LoginFormHandler handles GET /login
func (h *AccountHandler) LoginFormHandler(c *gin.Context) {
	utils.HTMLResponse(c, http.StatusOK, "login.html", gin.H{
		"Title":    "Log In",
		"Next":     helpers.SafeNext(c.Query("next")),
		"Username": "",
	})
}

// LoginHandler handles POST /login
func (h *AccountHandler) LoginHandler(c *gin.Context) {
	var req helpers.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		utils.HTMLError(c, http.StatusBadRequest, "invalid form submission")
		return
	}

	next := helpers.SafeNext(req.Next)
	user, err := h.service.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		helpers.LogFailure("LoginHandler", "login rejected", status, map[string]any{
			"username": req.Username,
			"error":    err.Error(),
		})
		utils.HTMLResponse(c, status, "login.html", gin.H{
			"Title":    "Log In",
			"Message":  message,
			"Next":     next,
			"Username": req.Username,
		})
		return
	}

	if !h.startSession(c, "LoginHandler", user) {
		return
	}
	utils.Redirect(c, next)
}

// LogoutHandler handles GET and POST /logout
func (h *AccountHandler) LogoutHandler(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, "", -1, "/", "", h.cookie.Secure, true)
	utils.Redirect(c, "/")
}

// RegisterFormHandler handles GET /register
func (h *AccountHandler) RegisterFormHandler(c *gin.Context) {
	utils.HTMLResponse(c, http.StatusOK, "register.html", gin.H{
		"Title":    "Register",
		"Username": "",
		"Email":    "",
	})
}

// RegisterHandler handles POST /register and logs the new user in
func (h *AccountHandler) RegisterHandler(c *gin.Context) {
	var req helpers.RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		utils.HTMLError(c, http.StatusBadRequest, "invalid form submission")
		return
	}

	user, err := h.service.Register(c.Request.Context(), req.ToNewAccount())
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		helpers.LogFailure("RegisterHandler", "registration rejected", status, map[string]any{
			"username": req.Username,
			"error":    err.Error(),
		})
		utils.HTMLResponse(c, status, "register.html", gin.H{
			"Title":    "Register",
			"Message":  message,
			"Username": req.Username,
			"Email":    req.Email,
		})
		return
	}

	utils.Info("RegisterHandler: user registered", map[string]any{
		"user_id":  user.UserID,
		"username": user.Username,
	})
	if !h.startSession(c, "RegisterHandler", user) {
		return
	}
	utils.Redirect(c, "/")
}

func (h *AccountHandler) startSession(c *gin.Context, handlerName string, user models.User) bool {
	token, err := h.service.IssueSession(user)
	if err != nil {
		helpers.LogFailure(handlerName, "failed to issue session", http.StatusInternalServerError, map[string]any{
			"user_id": user.UserID,
			"error":   err.Error(),
		})
		utils.HTMLError(c, http.StatusInternalServerError, "internal server error")
		return false
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, token, int(h.service.SessionTTL().Seconds()), "/", "", h.cookie.Secure, true)
	return true
}
