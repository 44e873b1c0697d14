package service

import (
	"net/http"

	"Karma_Forum/internal/pkg"
	rds "Karma_Forum/internal/repository/redis"
)

type EmailService struct {
	emailCfg pkg.SMTPConfig
	rds      *rds.EmailRepository
}

func NewEmailService(cfg pkg.SMTPConfig) *EmailService {
	return &EmailService{emailCfg: cfg, rds: &rds.EmailRepository{}}
}

// SendCode 发送验证码，scope 为 register / reset
func (s *EmailService) SendCode(scope, email string) error {
	code, err := pkg.RandDigits(6)
	if err != nil {
		return err
	}
	if err := s.rds.SetCode(scope, email, code); err != nil {
		return pkg.NewAppError(http.StatusBadRequest, err.Error())
	}
	body := pkg.EmailCodeHTML(scope, code, rds.DefaultEmailCodeTTL)
	return pkg.SendEmail(s.emailCfg, email, "验证码", body)
}

// VerifyCode 校验并消费验证码
func (s *EmailService) VerifyCode(scope, email, code string) (bool, error) {
	stored, err := s.rds.GetCode(scope, email)
	if err != nil {
		return false, pkg.NewAppError(http.StatusBadRequest, "verification code expired or missing")
	}
	if stored != code {
		return false, pkg.NewAppError(http.StatusBadRequest, "verification code mismatch")
	}
	// 一码一用
	_ = s.rds.DeleteCode(scope, email)
	return true, nil
}
