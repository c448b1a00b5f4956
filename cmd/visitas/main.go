package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"visitas-store/internal/config"
	"visitas-store/internal/logging"
	"visitas-store/internal/server"
	"visitas-store/internal/store"
)

var (
	port    = flag.Int("port", 0, "服务端口 (config.toml / VISITAS_PORT 优先；仅当未显式配置 port 时生效)")
	devMode = flag.Bool("dev", false, "开发模式")
	dataDir = flag.String("dataDir", "", "数据目录 (覆盖配置文件)")
)

func main() {
	flag.Parse()

	// 加载配置
	cfg, info, err := config.LoadConfigWithInfo()
	if err != nil {
		log.Printf("加载配置失败，使用默认配置: %v", err)
		cfg = config.DefaultConfig()
		info = config.LoadConfigInfo{}
	}

	// 命令行参数覆盖配置
	if *port > 0 && !info.PortSpecified {
		cfg.Server.Port = *port
	}
	if *devMode {
		cfg.Server.DevMode = true
	}
	if *dataDir != "" {
		cfg.Data.DataDir = *dataDir
	}

	logger, err := logging.New(logging.Config{
		Development: cfg.Server.DevMode,
		Encoding:    cfg.Log.Format,
		Level:       cfg.Log.Level,
	})
	if err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, info, logger); err != nil {
		logger.Fatal("服务异常退出", zap.Error(err))
	}
}

func run(cfg *config.AppConfig, info config.LoadConfigInfo, logger *zap.Logger) error {
	// 确保数据目录存在
	dir, err := config.EnsureDataDir(cfg)
	if err != nil {
		return fmt.Errorf("创建数据目录失败: %w", err)
	}

	st, err := store.New(config.DBPath(cfg))
	if err != nil {
		return fmt.Errorf("初始化数据库失败: %w", err)
	}
	defer st.Close()

	logger.Info("Visitas Store 商品目录服务",
		zap.String("config", info.Path),
		zap.String("data_dir", dir),
		zap.Int("port", cfg.Server.Port),
		zap.Bool("dev_mode", cfg.Server.DevMode),
	)

	srv := server.NewServer(cfg, st, logger)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("服务启动中", zap.String("addr", srv.Addr()))
		errCh <- srv.Run()
	}()

	// 等待信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logger.Info("正在关闭服务", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("关闭服务失败: %w", err)
	}
	return <-errCh
}
