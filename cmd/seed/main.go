package main

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"conduit-api/internal/config"
	"conduit-api/internal/logger"
	mysqlClient "conduit-api/internal/platform/mysql"
	"conduit-api/internal/repository"
	"conduit-api/internal/seed"
)

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("load config failed")
	}
	logger.Init(cfg.Log.Level, cfg.Log.Format)

	db, err := mysqlClient.New(ctx, cfg.MySQLDSN(), false)
	if err != nil {
		logrus.WithError(err).Fatal("open mysql failed")
	}
	defer func() {
		if err := mysqlClient.Close(db); err != nil {
			logrus.WithError(err).Error("close mysql failed")
		}
	}()
	if err := mysqlClient.Migrate(db); err != nil {
		logrus.WithError(err).Fatal("migrate failed")
	}

	seeder := seed.NewSeeder(
		repository.NewUserRepository(db),
		repository.NewTagRepository(db),
		repository.NewArticleRepository(db),
		repository.NewCommentRepository(db),
		repository.NewFavoriteRepository(db),
		cfg.Auth.BcryptCost,
	)
	summary, err := seeder.Run(ctx, seed.DemoAccounts)
	if err != nil {
		logrus.WithError(err).Error("seed failed")
		return
	}

	logrus.WithFields(logrus.Fields{
		"users":     summary.Users,
		"tags":      summary.Tags,
		"articles":  summary.Articles,
		"comments":  summary.Comments,
		"favorites": summary.Favorites,
	}).Info("seed complete")
}
