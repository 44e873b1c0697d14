package pkg

import (
	"errors"
	"net/http"
)

// AppError 业务可预期错误，携带对外的HTTP状态码
type AppError struct {
	Status  int
	Message string
}

func (e *AppError) Error() string { return e.Message }

func NewAppError(status int, msg string) *AppError {
	return &AppError{Status: status, Message: msg}
}

var (
	ErrUserNotFound      = NewAppError(http.StatusNotFound, "user not found")
	ErrPostNotFound      = NewAppError(http.StatusNotFound, "post not found")
	ErrCommentNotFound   = NewAppError(http.StatusNotFound, "comment not found")
	ErrCommunityNotFound = NewAppError(http.StatusNotFound, "community not found")

	ErrAlreadyVoted      = NewAppError(http.StatusBadRequest, "already voted on this document")
	ErrNotVoted          = NewAppError(http.StatusBadRequest, "no vote to remove on this document")
	ErrAlreadyBanned     = NewAppError(http.StatusBadRequest, "user is already banned")
	ErrNotBanned         = NewAppError(http.StatusBadRequest, "user is not banned")
	ErrAlreadySubscribed = NewAppError(http.StatusBadRequest, "already subscribed to this community")
	ErrNotSubscribed     = NewAppError(http.StatusBadRequest, "not subscribed to this community")
	ErrInsufficientKarma = NewAppError(http.StatusBadRequest, "not enough karma to create a community")
	ErrCommunityName     = NewAppError(http.StatusBadRequest, "community name must match ^\\w+$")
	ErrBanCreator        = NewAppError(http.StatusBadRequest, "cannot ban the community creator")

	ErrNotModerator = NewAppError(http.StatusUnauthorized, "not a moderator of this community")
	ErrBanned       = NewAppError(http.StatusForbidden, "banned from this community")

	// 同一对象同时出现在两个方向的投票集合里，属于数据损坏，
	// 不做静默修复，按服务端内部错误上抛
	ErrVoteCorrupted = NewAppError(http.StatusInternalServerError, "vote state corrupted")
)

// StatusOf 取错误对应的HTTP状态码，未知错误一律500
func StatusOf(err error) int {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Status
	}
	return http.StatusInternalServerError
}

// IsAppError 是否业务可预期错误。非预期错误对外不透出细节。
func IsAppError(err error) bool {
	var ae *AppError
	return errors.As(err, &ae)
}
