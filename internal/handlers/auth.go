package handlers

import (
	"net/http"
	"updoot/internal/middleware"
	"updoot/internal/services"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	users *services.UserService
}

func NewAuthHandler(users *services.UserService) *AuthHandler {
	return &AuthHandler{users: users}
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	user, fieldErrs, err := h.users.Register(req.Username, req.Email, req.Password)
	if err != nil {
		Fail(c, err)
		return
	}
	if fieldErrs != nil {
		FieldErrors(c, fieldErrs)
		return
	}

	// 注册成功即登录
	session := sessions.Default(c)
	session.Set(middleware.SessionUserKey, user.ID)
	session.Save()

	c.JSON(http.StatusOK, gin.H{"user": user})
}

type loginRequest struct {
	UsernameOrEmail string `json:"username_or_email"`
	Password        string `json:"password"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	user, fieldErrs, err := h.users.Login(req.UsernameOrEmail, req.Password)
	if err != nil {
		Fail(c, err)
		return
	}
	if fieldErrs != nil {
		FieldErrors(c, fieldErrs)
		return
	}

	session := sessions.Default(c)
	session.Set(middleware.SessionUserKey, user.ID)
	session.Save()

	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Options(sessions.Options{MaxAge: -1, Path: "/"}) // 同时作废 cookie
	session.Save()
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Me 返回当前登录用户，未登录返回 null
func (h *AuthHandler) Me(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusOK, gin.H{"user": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

// ForgotPassword 无论邮箱是否存在都返回 ok，不暴露账号信息
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.users.ForgotPassword(req.Email); err != nil {
		Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

type changePasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	user, fieldErrs, err := h.users.ChangePassword(req.Token, req.NewPassword)
	if err != nil {
		Fail(c, err)
		return
	}
	if fieldErrs != nil {
		FieldErrors(c, fieldErrs)
		return
	}

	// 重置成功后自动登录
	session := sessions.Default(c)
	session.Set(middleware.SessionUserKey, user.ID)
	session.Save()

	c.JSON(http.StatusOK, gin.H{"user": user})
}
