package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/fleshka4/amm-validator/internal/amm"
	"github.com/fleshka4/amm-validator/internal/config"
	"github.com/fleshka4/amm-validator/internal/service"
	transporthttp "github.com/fleshka4/amm-validator/internal/transport/http"
)

const defaultConfigPath = "cfg/config.yaml"

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, params, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc := service.NewValidatorService(amm.NewValidator(params), logger)
	srv := transporthttp.NewServer(svc, cfg.Server, logger)

	logger.Info("server start",
		zap.String("listen_addr", cfg.Server.ListenAddr),
		zap.Duration("request_timeout", cfg.Server.RequestTimeout),
		zap.Int64("max_body_bytes", cfg.Server.MaxBodyBytes),
		zap.Uint64("order_capacity", params.OrderCapacity),
	)

	if err := srv.Run(ctx, cfg.Server.ListenAddr); err != nil {
		return errors.Wrap(err, "srv.Run")
	}
	logger.Info("server stopped")
	return nil
}

func loadConfig(cmd *cobra.Command) (config.Config, amm.Params, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	if path == "" {
		path = defaultConfigPath
	}

	cfg, err := config.Load(path, cmd.Flags())
	if err != nil {
		return config.Config{}, amm.Params{}, errors.Wrap(err, "config.Load")
	}

	params, err := cfg.Params()
	if err != nil {
		return config.Config{}, amm.Params{}, errors.Wrap(err, "cfg.Params")
	}
	return cfg, params, nil
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, errors.Wrap(err, "parse log level")
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}
