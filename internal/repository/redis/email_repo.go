package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	DefaultEmailCodeTTL = 5 * time.Minute
	ResendInterval      = time.Minute
	EmailCodePrefix     = "email:code"
	EmailResendPrefix   = "email:resend"
)

var (
	ErrEmailCodeNotFound  = errors.New("email code not found")
	ErrEmailCodeSetFailed = errors.New("email code set failed")
	ErrEmailCodeDelFailed = errors.New("email code delete failed")
	ErrResendTooSoon      = errors.New("code requested too soon")
)

// EmailRepository 验证码键按 scope（register/reset）区分
type EmailRepository struct{}

func (e *EmailRepository) codeKey(scope, email string) string {
	return fmt.Sprintf("%s:%s:%s", EmailCodePrefix, scope, email)
}

func (e *EmailRepository) resendKey(scope, email string) string {
	return fmt.Sprintf("%s:%s:%s", EmailResendPrefix, scope, email)
}

// SetCode 写验证码并打重发间隔标记，间隔内重复请求报错
func (e *EmailRepository) SetCode(scope, email, code string) error {
	ok, err := Client.SetNX(context.Background(), e.resendKey(scope, email), 1, ResendInterval).Result()
	if err != nil {
		return ErrEmailCodeSetFailed
	}
	if !ok {
		return ErrResendTooSoon
	}
	if err := Client.Set(context.Background(), e.codeKey(scope, email), code, DefaultEmailCodeTTL).Err(); err != nil {
		return ErrEmailCodeSetFailed
	}
	return nil
}

func (e *EmailRepository) GetCode(scope, email string) (string, error) {
	val, err := Client.Get(context.Background(), e.codeKey(scope, email)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrEmailCodeNotFound
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

// DeleteCode 校验通过后删除，一码一用
func (e *EmailRepository) DeleteCode(scope, email string) error {
	if err := Client.Del(context.Background(), e.codeKey(scope, email)).Err(); err != nil {
		return ErrEmailCodeDelFailed
	}
	return nil
}
