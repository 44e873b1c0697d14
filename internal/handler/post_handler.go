package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"Karma_Forum/internal/middleware"
	"Karma_Forum/internal/service"
)

type PostHandler struct {
	svc *service.PostService
}

type PostCreateReq struct {
	CommunityID uint64 `json:"community_id"`
	Title       string `json:"title"`
	Content     string `json:"content"`
}

func NewPostHandler(svc *service.PostService) *PostHandler {
	return &PostHandler{svc: svc}
}

func (h *PostHandler) Create(c *gin.Context) {
	uid, _ := c.Get(middleware.ContextUserIDKey)

	var req PostCreateReq
	if err := c.ShouldBindJSON(&req); err != nil || req.CommunityID == 0 {
		respondBadRequest(c, "invalid params")
		return
	}

	post, err := h.svc.CreatePost(c.Request.Context(), uid.(uint64), req.CommunityID, req.Title, req.Content)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondOK(c, http.StatusCreated, gin.H{"post": post})
}

func (h *PostHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	post, err := h.svc.Get(id)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"post": post})
}

// ListByCommunity 页码分页；带 last_id 参数时走游标分页
func (h *PostHandler) ListByCommunity(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if c.Query("last_id") != "" || c.Query("cursor") == "1" {
		lastID := uint64(queryInt(c, "last_id"))
		list, nextID, err := h.svc.ListByCommunityCursor(id, lastID, queryInt(c, "size"))
		if err != nil {
			respondErr(c, err)
			return
		}
		respondOK(c, http.StatusOK, gin.H{"list": list, "next_last_id": nextID})
		return
	}

	list, err := h.svc.ListByCommunity(id, queryInt(c, "page"), queryInt(c, "size"))
	if err != nil {
		respondErr(c, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"list": list})
}

func (h *PostHandler) Delete(c *gin.Context) {
	uid, _ := c.Get(middleware.ContextUserIDKey)
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.svc.DeletePost(c.Request.Context(), uid.(uint64), id); err != nil {
		respondErr(c, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"deleted": id})
}
