package model

import "time"

type Community struct {
	ID          uint64 `gorm:"primaryKey"`
	Name        string `gorm:"uniqueIndex;size:64;not null"`
	Description string `gorm:"type:text"`
	CreatorID   uint64 `gorm:"not null;index"`
	Subscribers int64  `gorm:"not null;default:0"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CommunityModerator 社区版主关系表。创建者在建社区的事务里写入，保证恒为版主。
type CommunityModerator struct {
	ID          uint64 `gorm:"primaryKey"`
	CommunityID uint64 `gorm:"not null;index;uniqueIndex:uk_mod_community_user"`
	UserID      uint64 `gorm:"not null;index;uniqueIndex:uk_mod_community_user"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (CommunityModerator) TableName() string { return "community_moderators" }

// CommunityBan 封禁关系表，存在行即视为被封禁
type CommunityBan struct {
	ID          uint64 `gorm:"primaryKey"`
	CommunityID uint64 `gorm:"not null;index;uniqueIndex:uk_ban_community_user"`
	UserID      uint64 `gorm:"not null;index;uniqueIndex:uk_ban_community_user"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (CommunityBan) TableName() string { return "community_bans" }

type Subscription struct {
	ID          uint64 `gorm:"primaryKey"`
	CommunityID uint64 `gorm:"not null;index;uniqueIndex:uk_sub_community_user"`
	UserID      uint64 `gorm:"not null;index;uniqueIndex:uk_sub_community_user"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Subscription) TableName() string { return "subscriptions" }
