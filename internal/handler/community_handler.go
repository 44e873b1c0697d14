package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"Karma_Forum/internal/middleware"
	"Karma_Forum/internal/service"
)

type CommunityHandler struct {
	svc *service.CommunityService
}

type CommunityCreateReq struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type BanReq struct {
	UserID uint64 `json:"user_id"`
}

func NewCommunityHandler(svc *service.CommunityService) *CommunityHandler {
	return &CommunityHandler{svc: svc}
}

func (h *CommunityHandler) Create(c *gin.Context) {
	uid, _ := c.Get(middleware.ContextUserIDKey)

	var req CommunityCreateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid params")
		return
	}

	community, err := h.svc.CreateCommunity(c.Request.Context(), uid.(uint64), req.Name, req.Description)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondOK(c, http.StatusCreated, gin.H{"community": community})
}

func (h *CommunityHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	community, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"community": community})
}

func (h *CommunityHandler) Ban(c *gin.Context) {
	uid, _ := c.Get(middleware.ContextUserIDKey)
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req BanReq
	if err := c.ShouldBindJSON(&req); err != nil || req.UserID == 0 {
		respondBadRequest(c, "invalid params")
		return
	}
	community, err := h.svc.Ban(c.Request.Context(), uid.(uint64), id, req.UserID)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"community": community})
}

func (h *CommunityHandler) Unban(c *gin.Context) {
	uid, _ := c.Get(middleware.ContextUserIDKey)
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req BanReq
	if err := c.ShouldBindJSON(&req); err != nil || req.UserID == 0 {
		respondBadRequest(c, "invalid params")
		return
	}
	community, err := h.svc.Unban(c.Request.Context(), uid.(uint64), id, req.UserID)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"community": community})
}

func (h *CommunityHandler) Subscribe(c *gin.Context) {
	uid, _ := c.Get(middleware.ContextUserIDKey)
	id, ok := parseID(c)
	if !ok {
		return
	}
	user, err := h.svc.Subscribe(c.Request.Context(), uid.(uint64), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"user": user})
}

func (h *CommunityHandler) Unsubscribe(c *gin.Context) {
	uid, _ := c.Get(middleware.ContextUserIDKey)
	id, ok := parseID(c)
	if !ok {
		return
	}
	user, err := h.svc.Unsubscribe(c.Request.Context(), uid.(uint64), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"user": user})
}

func (h *CommunityHandler) List(c *gin.Context) {
	page := queryInt(c, "page")
	size := queryInt(c, "size")

	list, err := h.svc.ListCommunities(page, size)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"list": list})
}
