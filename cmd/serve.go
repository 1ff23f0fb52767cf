package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"fintrack/database"
	"fintrack/logger"
	"fintrack/router"
	"fintrack/service"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newServeCmd(rt *app) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:     "serve",
		Short:   "启动 HTTP 服务",
		PreRunE: rt.load,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if port != "" {
				// 自动添加冒号前缀
				if !strings.HasPrefix(port, ":") {
					port = ":" + port
				}
				rt.cfg.Server.Port = port
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return rt.serve(ctx)
		},
	}
	cmd.Flags().StringVarP(&port, "port", "p", "", "监听端口，如: 8080 或 :8080")
	return cmd
}

func (rt *app) serve(ctx context.Context) error {
	cfg, log := rt.cfg, rt.logger
	cfg.PrintConfig(log)

	db, err := database.Open(&cfg.Database)
	if err != nil {
		return fmt.Errorf("数据库初始化失败: %w", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}
	if err := database.Migrate(db); err != nil {
		return fmt.Errorf("数据库迁移失败: %w", err)
	}

	deps := router.Dependencies{DB: db, Logger: log}
	if cfg.AMQP.Enabled {
		publisher, err := service.NewAMQPPublisher(cfg.AMQP, log)
		if err != nil {
			// 消息队列不可用时继续提供服务，只是不投递超支事件
			log.Warn("AMQP 初始化失败，超支事件不会投递", logger.FieldError, err)
		} else {
			defer publisher.Close()
			deps.Publisher = publisher
		}
	}

	srv := &http.Server{
		Addr:              cfg.Server.Port,
		Handler:           router.SetupRouter(cfg, deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("服务已启动",
			"addr", cfg.Server.Port,
			"swagger", fmt.Sprintf("http://localhost%s/swagger/index.html", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("正在关闭服务")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout(cfg.Server.ShutdownTimeout))
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func shutdownTimeout(d time.Duration) time.Duration {
	if d <= 0 {
		return 10 * time.Second
	}
	return d
}
