package model

import "time"

type Post struct {
	ID          uint64    `gorm:"primaryKey"`
	CommunityID uint64    `gorm:"not null;index:idx_post_community_time,priority:1"`
	AuthorID    uint64    `gorm:"not null;index:idx_post_author_time"`
	Title       string    `gorm:"size:200;not null"`
	Content     string    `gorm:"type:text"`
	Status      int       `gorm:"not null;default:0"` // 0=normal 1=deleted 2=banned
	UpVotes     int64     `gorm:"not null;default:0"`
	DownVotes   int64     `gorm:"not null;default:0"`
	CreatedAt   time.Time `gorm:"index:idx_post_community_time,priority:2,sort:desc"`
	UpdatedAt   time.Time
}

// Target 返回投票引擎使用的归一化视图
func (p *Post) Target() Target {
	return Target{
		ID:          p.ID,
		Kind:        KindPost,
		AuthorID:    p.AuthorID,
		CommunityID: p.CommunityID,
	}
}

func (p *Post) Score() int64 {
	return p.UpVotes - p.DownVotes
}
