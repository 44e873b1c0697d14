package main

import (
	"context"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"

	"Karma_Forum/internal/config"
	"Karma_Forum/internal/model"
	"Karma_Forum/internal/pkg"
	"Karma_Forum/internal/repository/mysql"
	"Karma_Forum/internal/repository/redis"
	"Karma_Forum/internal/router"
	"Karma_Forum/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("config load failed")
	}

	if lvl, err := log.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(lvl)
	}

	pkg.InitJWTSecrets(cfg.JWTAccessSecret, cfg.JWTRefreshSecret)

	if err := mysql.InitDB(cfg.MySQLDSN); err != nil {
		log.WithError(err).Fatal("mysql init failed")
	}

	if err := redis.Init(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB); err != nil {
		log.WithError(err).Fatal("redis init failed")
	}
	defer redis.Close()

	// 自动建表（开发阶段 OK）
	if err := mysql.DB.AutoMigrate(
		&model.User{},
		&model.Community{},
		&model.CommunityModerator{},
		&model.CommunityBan{},
		&model.Subscription{},
		&model.Post{},
		&model.Comment{},
		&model.Vote{},
		&model.VoteOutbox{},
	); err != nil {
		log.WithError(err).Fatal("auto migrate failed")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// outbox 投递器
	producer, err := pkg.NewKafkaProducer(pkg.KafkaConfig{
		Brokers: cfg.KafkaBrokers,
		Topic:   cfg.KafkaTopic,
	})
	if err != nil {
		log.WithError(err).Fatal("kafka producer init failed")
	}
	defer producer.Close()
	go service.NewOutboxRelayer(mysql.DB, service.KafkaSender(producer)).Run(ctx)

	// karma/计数对账
	go service.NewKarmaReconciler(mysql.DB).Run(ctx)

	r := router.InitRouter(cfg, mysql.DB)
	log.WithField("addr", cfg.HTTPAddr).Info("server starting")
	if err := r.Run(cfg.HTTPAddr); err != nil {
		log.WithError(err).Fatal("server exited")
	}
}
