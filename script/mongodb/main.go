package main

import (
	"context"
	"flag"
	"log"
	"time"

	"go.uber.org/zap"

	"github.com/linlinbupt123-crypto/lumos_service/config"
	"github.com/linlinbupt123-crypto/lumos_service/db"
	"github.com/linlinbupt123-crypto/lumos_service/logger"
)

// 创建 users / positions / waitlist 的索引, 可重复执行
func main() {
	configPath := flag.String("config", "config/config.yaml", "path to the YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	zl, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatal(err)
	}
	defer zl.Sync() //nolint:errcheck

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	repo, err := db.NewMongoRepo(ctx, cfg.Mongo)
	if err != nil {
		zl.Fatal("MongoDB connect error", zap.Error(err))
	}
	defer func() {
		if err := repo.Close(context.Background()); err != nil {
			zl.Warn("MongoDB disconnect error", zap.Error(err))
		}
	}()

	if err := db.EnsureIndexes(ctx, repo.DB); err != nil {
		zl.Fatal("init indexes failed", zap.Error(err))
	}
	for _, ci := range db.RequiredIndexes() {
		zl.Info("indexes ready", zap.String("collection", ci.Collection), zap.Int("count", len(ci.Indexes)))
	}
}
