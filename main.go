package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"essence-site/internal/config"
	"essence-site/internal/database"
	"essence-site/internal/handlers"
	"essence-site/internal/hub"
	"essence-site/internal/jwt"
	"essence-site/internal/keyValue"
	"essence-site/internal/models"
	"essence-site/internal/snowflake"
	"essence-site/internal/storage"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

func setupLogger(cfg models.LogConfig) (*zap.SugaredLogger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	encoder := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	cores := []zapcore.Core{
		zapcore.NewCore(encoder, zapcore.Lock(os.Stdout), level),
	}

	if cfg.ToFile {
		fileWriter := zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
		})
		cores = append(cores, zapcore.NewCore(encoder, fileWriter, level))
	}

	logger := zap.New(zapcore.NewTee(cores...), zap.AddCaller())
	return logger.Sugar(), nil
}

func setupRedis(cfg models.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := rdb.Ping(ctx).Err()
	if err != nil {
		return nil, err
	}

	return rdb, nil
}

func run(ctx context.Context, configPath string) error {
	fmt.Println("Reading config file...")
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	fmt.Println("Setting up logger...")
	sugar, err := setupLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer sugar.Sync()

	if cfg.Session.Secret == config.DefaultSessionSecret {
		sugar.Warn("Using the default session secret, set session.secret before exposing this server")
	}
	if cfg.AllowRegistration {
		sugar.Warn("Registration is open and every account can edit the site, set allowregistration: false once an admin exists")
	}

	sugar.Info("Setting up database...")
	db, dialect, err := database.Setup(cfg, sugar)
	if err != nil {
		return err
	}
	defer db.Close()
	sugar.Infof("Using %s database", dialect)

	store := storage.New(db)

	seeded, err := store.Seed(ctx)
	if err != nil {
		return err
	}
	if seeded {
		sugar.Info("Seeded site content")
	}

	if cfg.Admin.Username != "" {
		admin, created, err := handlers.BootstrapAdmin(ctx, store, cfg.Admin.Username, cfg.Admin.Password)
		if err != nil {
			return err
		}
		if created {
			sugar.Infof("Created admin account [%s] with ID [%d]", admin.Username, admin.ID)
		}
	}

	var redisClient *redis.Client
	if !cfg.SelfContained {
		sugar.Info("Connecting to redis...")
		redisClient, err = setupRedis(cfg.Redis)
		if err != nil {
			return err
		}
		defer redisClient.Close()
	}

	keyValue.Setup(sugar, redisClient, cfg.SelfContained)

	isHttps := cfg.Server.TlsCert != "" && cfg.Server.TlsKey != ""
	jwt.Setup(cfg.Session.Secret, isHttps || cfg.Server.BehindProxy, time.Duration(cfg.Session.TTLHours)*time.Hour)

	idGenerator, err := snowflake.New(cfg.SnowflakeWorkerID)
	if err != nil {
		return err
	}

	hub.Setup(sugar, redisClient, cfg.SelfContained, idGenerator)

	return handlers.Setup(ctx, cfg, sugar, store)
}

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:          "essence-site",
		Short:        "Serves the essence bot website and its content API",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return run(ctx, configPath)
		},
	}
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "config.yaml", "path to the config file")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
