package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"Karma_Forum/internal/middleware"
	"Karma_Forum/internal/model"
	"Karma_Forum/internal/service"
)

type VoteHandler struct {
	svc *service.VoteService
}

func NewVoteHandler(svc *service.VoteService) *VoteHandler {
	return &VoteHandler{svc: svc}
}

// Apply 把 (kind, intent) 绑定成一个gin处理函数，路由上按帖子/评论分别注册
func (h *VoteHandler) Apply(kind model.TargetKind, intent model.VoteIntent) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, _ := c.Get(middleware.ContextUserIDKey)
		id, ok := parseID(c)
		if !ok {
			return
		}
		doc, err := h.svc.Apply(c.Request.Context(), intent, uid.(uint64), id, kind)
		if err != nil {
			respondErr(c, err)
			return
		}
		respondOK(c, http.StatusOK, gin.H{"document": doc})
	}
}

// State 当前用户对目标的投票状态
func (h *VoteHandler) State(kind model.TargetKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, _ := c.Get(middleware.ContextUserIDKey)
		id, ok := parseID(c)
		if !ok {
			return
		}
		st, err := h.svc.State(c.Request.Context(), uid.(uint64), id, kind)
		if err != nil {
			respondErr(c, err)
			return
		}
		respondOK(c, http.StatusOK, gin.H{"state": st.String()})
	}
}

// Score 目标双计数和得分
func (h *VoteHandler) Score(kind model.TargetKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}
		up, down, err := h.svc.Counts(c.Request.Context(), id, kind)
		if err != nil {
			respondErr(c, err)
			return
		}
		respondOK(c, http.StatusOK, gin.H{
			"upvotes":   up,
			"downvotes": down,
			"score":     up - down,
		})
	}
}
