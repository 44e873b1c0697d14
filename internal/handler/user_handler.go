package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"Karma_Forum/internal/middleware"
	"Karma_Forum/internal/service"
)

type UserHandler struct {
	svc *service.UserService
}

type RegisterReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
	Code     string `json:"code"`
}

type LoginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type ResetReq struct {
	Email       string `json:"email"`
	Code        string `json:"code"`
	NewPassword string `json:"new_password"`
}

type ChangePasswordReq struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

type RefreshReq struct {
	RefreshToken string `json:"refresh_token"`
}

func NewUserHandler(svc *service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

func (h *UserHandler) Register(c *gin.Context) {
	var req RegisterReq
	if err := c.ShouldBindJSON(&req); err != nil || req.Username == "" || req.Password == "" || req.Email == "" {
		respondBadRequest(c, "invalid params")
		return
	}
	if err := h.svc.Register(req.Username, req.Password, req.Email, req.Code); err != nil {
		respondErr(c, err)
		return
	}
	respondOK(c, http.StatusCreated, gin.H{"username": req.Username})
}

func (h *UserHandler) Login(c *gin.Context) {
	var req LoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid params")
		return
	}
	pair, err := h.svc.Login(req.Username, req.Password)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"token": pair})
}

func (h *UserHandler) Logout(c *gin.Context) {
	uid, _ := c.Get(middleware.ContextUserIDKey)
	if err := h.svc.Logout(uid.(uint64)); err != nil {
		respondErr(c, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"logout": true})
}

func (h *UserHandler) ResetPassword(c *gin.Context) {
	var req ResetReq
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" || req.NewPassword == "" {
		respondBadRequest(c, "invalid params")
		return
	}
	if err := h.svc.ResetPassword(req.Email, req.Code, req.NewPassword); err != nil {
		respondErr(c, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"reset": true})
}

func (h *UserHandler) ChangePassword(c *gin.Context) {
	uid, _ := c.Get(middleware.ContextUserIDKey)
	var req ChangePasswordReq
	if err := c.ShouldBindJSON(&req); err != nil || req.NewPassword == "" {
		respondBadRequest(c, "invalid params")
		return
	}
	if err := h.svc.ChangePassword(uid.(uint64), req.OldPassword, req.NewPassword); err != nil {
		respondErr(c, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"changed": true})
}

func (h *UserHandler) TokenRefresh(c *gin.Context) {
	var req RefreshReq
	if err := c.ShouldBindJSON(&req); err != nil || req.RefreshToken == "" {
		respondBadRequest(c, "invalid params")
		return
	}
	pair, err := h.svc.Refresh(req.RefreshToken)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"token": pair})
}

// Profile 当前用户信息，含karma
func (h *UserHandler) Profile(c *gin.Context) {
	uid, _ := c.Get(middleware.ContextUserIDKey)
	user, err := h.svc.Profile(uid.(uint64))
	if err != nil {
		respondErr(c, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{
		"id":       user.ID,
		"username": user.Username,
		"email":    user.Email,
		"karma":    user.Karma,
	})
}
