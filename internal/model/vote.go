package model

import "time"

// TargetKind 区分两类可投票对象，决定投票落在哪一组集合里
type TargetKind int8

const (
	KindPost    TargetKind = 1
	KindComment TargetKind = 2
)

func (k TargetKind) String() string {
	switch k {
	case KindPost:
		return "post"
	case KindComment:
		return "comment"
	}
	return "unknown"
}

// VoteState 用户对某个对象的当前投票状态
type VoteState int8

const (
	StateNone      VoteState = 0
	StateUpvoted   VoteState = 1
	StateDownvoted VoteState = -1
)

func (s VoteState) String() string {
	switch s {
	case StateUpvoted:
		return "upvoted"
	case StateDownvoted:
		return "downvoted"
	}
	return "none"
}

// VoteIntent 调用方请求的四种状态迁移
type VoteIntent int8

const (
	IntentUpvote VoteIntent = iota + 1
	IntentDownvote
	IntentRemoveUpvote
	IntentRemoveDownvote
)

func (i VoteIntent) String() string {
	switch i {
	case IntentUpvote:
		return "upvote"
	case IntentDownvote:
		return "downvote"
	case IntentRemoveUpvote:
		return "remove_upvote"
	case IntentRemoveDownvote:
		return "remove_downvote"
	}
	return "unknown"
}

const (
	VoteUp   int8 = 1
	VoteDown int8 = -1
)

// Vote 一行即一条集合成员关系：(user, target, kind) 由 Value 区分方向。
// 唯一索引保证同一对象最多一行，两个方向互斥。
type Vote struct {
	ID        uint64     `gorm:"primaryKey"`
	UserID    uint64     `gorm:"not null;index;uniqueIndex:uk_vote_user_target"`
	TargetID  uint64     `gorm:"not null;index;uniqueIndex:uk_vote_user_target"`
	Kind      TargetKind `gorm:"not null;uniqueIndex:uk_vote_user_target"`
	Value     int8       `gorm:"not null"` // 1=upvote -1=downvote
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Vote) TableName() string { return "votes" }

// Target 投票引擎看到的归一化对象（帖子或评论），避免按字段名做动态选择
type Target struct {
	ID          uint64
	Kind        TargetKind
	AuthorID    uint64
	CommunityID uint64
}

// VoteOutbox 投票事件外发表
type VoteOutbox struct {
	ID        uint64     `gorm:"primaryKey"`
	EventType string     `gorm:"size:16;not null"` // upvote / downvote / remove_upvote / remove_downvote
	UserID    uint64     `gorm:"not null"`
	TargetID  uint64     `gorm:"not null"`
	Kind      TargetKind `gorm:"not null"`
	Payload   string     `gorm:"type:json;not null"`
	Status    int8       `gorm:"not null;default:0;comment:'0=pending,1=sent,2=failed'"`
	Retry     int        `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (VoteOutbox) TableName() string { return "vote_outbox" }
