package service

import (
	"net/http"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"Karma_Forum/internal/model"
	"Karma_Forum/internal/pkg"
	"Karma_Forum/internal/repository/mysql"
	rds "Karma_Forum/internal/repository/redis"
)

type UserService struct {
	repo     *mysql.UserRepository
	rUser    *rds.UserRepository
	emailSvc *EmailService
}

func NewUserService(db *gorm.DB, emailSvc *EmailService) *UserService {
	return &UserService{
		repo:     &mysql.UserRepository{DB: db},
		rUser:    &rds.UserRepository{},
		emailSvc: emailSvc,
	}
}

func (s *UserService) Register(username, password, email, code string) error {
	// 验证code是否正确
	if _, err := s.emailSvc.VerifyCode("register", email, code); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user := &model.User{
		Username: username,
		Password: string(hash),
		Email:    email,
	}
	return s.repo.Create(user)
}

func (s *UserService) Login(username, password string) (*pkg.Pair, error) {
	user, err := s.repo.FindByUsername(username)
	if err != nil {
		return nil, notFound(err, pkg.ErrUserNotFound)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, pkg.NewAppError(http.StatusBadRequest, "invalid password")
	}
	token, err := pkg.GeneratePair(user.ID, user.Role)
	if err != nil {
		return nil, err
	}
	// 单点登录：token写进redis，旧的被顶掉
	if err := s.rUser.AddUserToken(user.ID, token.AccessToken); err != nil {
		return nil, err
	}
	return token, nil
}

func (s *UserService) Logout(usrID uint64) error {
	return s.rUser.DeleteUserToken(usrID)
}

// ResetPassword 邮箱验证码重置密码
func (s *UserService) ResetPassword(email, code, newPassword string) error {
	ok, err := s.emailSvc.VerifyCode("reset", email, code)
	if err != nil || !ok {
		return pkg.NewAppError(http.StatusBadRequest, "verification failed")
	}

	user, err := s.repo.FindByEmail(email)
	if err != nil {
		return notFound(err, pkg.ErrUserNotFound)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.repo.UpdatePassword(user, string(hash))
}

func (s *UserService) Refresh(refreshToken string) (*pkg.Pair, error) {
	return pkg.Refresh(refreshToken)
}

// ChangePassword 登录态修改密码，改完踢下线
func (s *UserService) ChangePassword(usrID uint64, oldPassword, newPassword string) error {
	user, err := s.repo.FindByID(usrID)
	if err != nil {
		return notFound(err, pkg.ErrUserNotFound)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(oldPassword)); err != nil {
		return pkg.NewAppError(http.StatusBadRequest, "old password is incorrect")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := s.repo.UpdatePassword(user, string(hash)); err != nil {
		return err
	}
	return s.Logout(usrID)
}

// Profile 用户信息（含karma）
func (s *UserService) Profile(usrID uint64) (*model.User, error) {
	user, err := s.repo.FindByID(usrID)
	if err != nil {
		return nil, notFound(err, pkg.ErrUserNotFound)
	}
	return user, nil
}
