package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"Karma_Forum/internal/pkg"
)

// respondOK 统一成功信封
func respondOK(c *gin.Context, code int, data gin.H) {
	c.JSON(code, gin.H{"status": "success", "data": data})
}

// respondErr 业务错误返回 fail + 原始message；非预期错误统一 error + 兜底文案
func respondErr(c *gin.Context, err error) {
	status := pkg.StatusOf(err)
	if status >= http.StatusInternalServerError {
		msg := "internal server error"
		if pkg.IsAppError(err) {
			msg = err.Error()
		}
		c.JSON(status, gin.H{"status": "error", "message": msg})
		return
	}
	c.JSON(status, gin.H{"status": "fail", "message": err.Error()})
}

func respondBadRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"status": "fail", "message": msg})
}

// parseID 取路径里的 :id
func parseID(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		respondBadRequest(c, "invalid id")
		return 0, false
	}
	return id, true
}

func queryInt(c *gin.Context, key string) int {
	v, _ := strconv.Atoi(c.Query(key))
	return v
}
