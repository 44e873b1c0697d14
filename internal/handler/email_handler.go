package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"Karma_Forum/internal/service"
)

type EmailHandler struct {
	svc *service.EmailService
}

type SendCodeReq struct {
	Email string `json:"email"`
}

func NewEmailHandler(svc *service.EmailService) *EmailHandler {
	return &EmailHandler{svc: svc}
}

// SendCode scope 取 register / reset
func (h *EmailHandler) SendCode(c *gin.Context) {
	scope := c.Param("scope")
	if scope != "register" && scope != "reset" {
		respondBadRequest(c, "invalid scope")
		return
	}
	var req SendCodeReq
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" {
		respondBadRequest(c, "invalid params")
		return
	}
	if err := h.svc.SendCode(scope, req.Email); err != nil {
		respondErr(c, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"sent": true})
}
