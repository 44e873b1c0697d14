package model

import "time"

type Comment struct {
	ID        uint64    `gorm:"primaryKey"`
	PostID    uint64    `gorm:"not null;index:idx_comment_post_time,priority:1"`
	AuthorID  uint64    `gorm:"not null;index"`
	Content   string    `gorm:"type:text;not null"`
	Status    int       `gorm:"not null;default:0"` // 0=normal 1=deleted
	UpVotes   int64     `gorm:"not null;default:0"`
	DownVotes int64     `gorm:"not null;default:0"`
	// 冗余社区ID，封禁检查和删帖鉴权不用再回查帖子
	CommunityID uint64    `gorm:"not null;index"`
	CreatedAt   time.Time `gorm:"index:idx_comment_post_time,priority:2,sort:desc"`
	UpdatedAt   time.Time
}

func (c *Comment) Target() Target {
	return Target{
		ID:          c.ID,
		Kind:        KindComment,
		AuthorID:    c.AuthorID,
		CommunityID: c.CommunityID,
	}
}

func (c *Comment) Score() int64 {
	return c.UpVotes - c.DownVotes
}
