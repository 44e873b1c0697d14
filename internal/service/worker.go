package service

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"Karma_Forum/internal/model"
	"Karma_Forum/internal/pkg"
	"Karma_Forum/internal/repository/mysql"
)

// Sender 投递一条outbox事件
type Sender func(ctx context.Context, ob *model.VoteOutbox) error

// OutboxRelayer 周期性地把投票事件从outbox表搬到kafka
type OutboxRelayer struct {
	repo      *mysql.OutboxRepository
	batchSize int
	interval  time.Duration
	maxRetry  int
	sender    Sender
}

func NewOutboxRelayer(db *gorm.DB, sender Sender) *OutboxRelayer {
	return &OutboxRelayer{
		repo:      &mysql.OutboxRepository{DB: db},
		batchSize: 200,
		interval:  time.Second,
		maxRetry:  5,
		sender:    sender,
	}
}

// KafkaSender 把outbox事件投到kafka，按目标ID做分区key保序
func KafkaSender(producer *pkg.KafkaProducer) Sender {
	return func(ctx context.Context, ob *model.VoteOutbox) error {
		return producer.Send(ctx, pkg.MakeKeyFromID(ob.TargetID), []byte(ob.Payload))
	}
}

func (r *OutboxRelayer) Run(ctx context.Context) {
	t := time.NewTicker(r.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			r.DrainOnce(ctx)
		}
	}
}

// DrainOnce 捞一批待投递事件逐条发送，失败累计重试次数
func (r *OutboxRelayer) DrainOnce(ctx context.Context) {
	rows, err := r.repo.ListPending(ctx, r.batchSize)
	if err != nil {
		log.WithError(err).Error("outbox query failed")
		return
	}
	for i := range rows {
		ob := rows[i]
		if err := r.sender(ctx, &ob); err != nil {
			log.WithError(err).WithField("outbox_id", ob.ID).Warn("outbox send failed")
			if err := r.repo.MarkRetry(ctx, ob.ID, r.maxRetry); err != nil {
				log.WithError(err).Error("outbox retry update failed")
			}
			continue
		}
		if err := r.repo.MarkSent(ctx, ob.ID); err != nil {
			log.WithError(err).Error("outbox mark sent failed")
		}
	}
}

// KarmaReconciler 周期性从投票表实数，修正帖子/评论计数和用户karma的漂移
type KarmaReconciler struct {
	repo      *mysql.ReconcilerRepository
	batchSize int
	interval  time.Duration
}

func NewKarmaReconciler(db *gorm.DB) *KarmaReconciler {
	return &KarmaReconciler{
		repo:      &mysql.ReconcilerRepository{DB: db},
		batchSize: 500,
		interval:  5 * time.Minute,
	}
}

func (r *KarmaReconciler) Run(ctx context.Context) {
	t := time.NewTicker(r.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			r.ReconcileOnce(ctx)
		}
	}
}

// ReconcileOnce 全量扫一轮：帖子、评论、用户karma
func (r *KarmaReconciler) ReconcileOnce(ctx context.Context) {
	for from := uint64(0); ; {
		next, err := r.repo.ReconcilePosts(ctx, from, r.batchSize)
		if err != nil {
			log.WithError(err).Error("post counter reconcile failed")
			return
		}
		if next == from {
			break
		}
		from = next
	}
	for from := uint64(0); ; {
		next, err := r.repo.ReconcileComments(ctx, from, r.batchSize)
		if err != nil {
			log.WithError(err).Error("comment counter reconcile failed")
			return
		}
		if next == from {
			break
		}
		from = next
	}
	for from := uint64(0); ; {
		next, err := r.repo.ReconcileKarma(ctx, from, r.batchSize)
		if err != nil {
			log.WithError(err).Error("karma reconcile failed")
			return
		}
		if next == from {
			break
		}
		from = next
	}
}
