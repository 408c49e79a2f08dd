package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/linlinbupt123-crypto/lumos_service/api"
	"github.com/linlinbupt123-crypto/lumos_service/config"
	"github.com/linlinbupt123-crypto/lumos_service/db"
	"github.com/linlinbupt123-crypto/lumos_service/logger"
	"github.com/linlinbupt123-crypto/lumos_service/repository"
	"github.com/linlinbupt123-crypto/lumos_service/service"
)

type stores struct {
	accounts  service.AccountStore
	positions service.PositionStore
	waitlist  service.WaitlistStore
	ping      func(ctx context.Context) error
	close     func(ctx context.Context) error
}

func main() {
	// 1. 配置 + 日志
	cfg, err := config.Load("config/config.yaml")
	if err != nil {
		log.Fatal(err)
	}
	zl, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatal(err)
	}
	defer zl.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 2. 存储
	st, err := openStores(ctx, cfg, zl)
	if err != nil {
		zl.Fatal("storage init failed", zap.String("driver", cfg.Storage.Driver), zap.Error(err))
	}

	// 3. 服务 + 路由
	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := api.NewRouter(api.Deps{
		Accounts:     service.NewAccountService(st.accounts, zl.Named("accounts")),
		Positions:    service.NewPositionService(st.positions, zl.Named("positions")),
		Waitlist:     service.NewWaitlistService(st.waitlist, zl.Named("waitlist")),
		Verifier:     api.NewStaticTokenVerifier(cfg.APISecretToken),
		Ping:         st.ping,
		AllowOrigins: cfg.CORS.AllowOrigins,
		Log:          zl.Named("http"),
	})
	srv := &http.Server{
		Addr:    cfg.Addr(),
		Handler: router,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		zl.Info("server listening", zap.String("addr", srv.Addr), zap.String("storage", cfg.Storage.Driver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		zl.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if st.close != nil {
			return st.close(shutdownCtx)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		zl.Error("server stopped with error", zap.Error(err))
	}
}

func openStores(ctx context.Context, cfg *config.Config, zl *zap.Logger) (*stores, error) {
	if cfg.Storage.Driver == config.DriverMemory {
		zl.Warn("using in-memory storage, data is lost on restart")
		return &stores{
			accounts:  repository.NewMemoryAccountStore(),
			positions: repository.NewMemoryPositionStore(),
			waitlist:  repository.NewMemoryWaitlistStore(),
		}, nil
	}

	repo, err := db.NewMongoRepo(ctx, cfg.Mongo)
	if err != nil {
		return nil, err
	}
	if cfg.Mongo.EnsureIndexes {
		if err := db.EnsureIndexes(ctx, repo.DB); err != nil {
			_ = repo.Close(context.Background())
			return nil, err
		}
	}
	storeLog := zl.Named("store")
	return &stores{
		accounts:  repository.NewAccountRepo(repo.UserColl, storeLog),
		positions: repository.NewPositionRepo(repo.PositionColl, storeLog),
		waitlist:  repository.NewWaitlistRepo(repo.WaitlistColl, storeLog),
		ping:      repo.Ping,
		close:     repo.Close,
	}, nil
}
