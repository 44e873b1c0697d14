package model

import "time"

type User struct {
	ID        uint64 `gorm:"primaryKey"`
	Username  string `gorm:"uniqueIndex;size:32;not null"`
	Password  string `gorm:"size:255;not null"`
	Role      int    `gorm:"default:0"` // 0=普通用户 1=管理员
	Email     string `gorm:"uniqueIndex;size:64;not null"`
	Karma     int64  `gorm:"not null;default:0"` // 声望分，仅由投票迁移维护
	CreatedAt time.Time
	UpdatedAt time.Time
}

const RoleAdmin = 1

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
