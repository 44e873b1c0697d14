package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"Karma_Forum/internal/middleware"
	"Karma_Forum/internal/service"
)

type CommentHandler struct {
	svc *service.CommentService
}

type CommentCreateReq struct {
	PostID  uint64 `json:"post_id"`
	Content string `json:"content"`
}

func NewCommentHandler(svc *service.CommentService) *CommentHandler {
	return &CommentHandler{svc: svc}
}

func (h *CommentHandler) Create(c *gin.Context) {
	uid, _ := c.Get(middleware.ContextUserIDKey)

	var req CommentCreateReq
	if err := c.ShouldBindJSON(&req); err != nil || req.PostID == 0 {
		respondBadRequest(c, "invalid params")
		return
	}

	comment, err := h.svc.CreateComment(c.Request.Context(), uid.(uint64), req.PostID, req.Content)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondOK(c, http.StatusCreated, gin.H{"comment": comment})
}

func (h *CommentHandler) ListByPost(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	list, err := h.svc.ListByPost(id, queryInt(c, "page"), queryInt(c, "size"))
	if err != nil {
		respondErr(c, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"list": list})
}

func (h *CommentHandler) Delete(c *gin.Context) {
	uid, _ := c.Get(middleware.ContextUserIDKey)
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.svc.DeleteComment(c.Request.Context(), uid.(uint64), id); err != nil {
		respondErr(c, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"deleted": id})
}
