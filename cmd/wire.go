package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/bnema/bilive-keeper/internal/adapters/api"
	"github.com/bnema/bilive-keeper/internal/adapters/captcha"
	statusadapter "github.com/bnema/bilive-keeper/internal/adapters/render/status"
	tomlrepo "github.com/bnema/bilive-keeper/internal/adapters/repo/toml"
	chainstore "github.com/bnema/bilive-keeper/internal/adapters/secrets/chain"
	"github.com/bnema/bilive-keeper/internal/application"
	"github.com/bnema/bilive-keeper/internal/ports"
)

type app struct {
	service        *application.Service
	rooms          ports.RoomRepository
	accounts       ports.AccountRepository
	resolver       *application.SessionResolver
	client         ports.LiveClient
	solver         ports.CaptchaSolver
	keeperCfg      application.KeeperConfig
	logger         *slog.Logger
	statusRenderer func([]application.Status) (string, error)
	now            func() time.Time
}

func wireApp() (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	accountRepo, err := tomlrepo.NewRepository(viper.New())
	if err != nil {
		return nil, fmt.Errorf("wire account repository: %w", err)
	}

	roomRepo, err := tomlrepo.NewRoomRepository(viper.New())
	if err != nil {
		return nil, fmt.Errorf("wire room repository: %w", err)
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}

	secretStore, err := chainstore.NewPassFirstWithFileFallback(filepath.Join(homeDir, ".bilive-keeper", "secrets"))
	if err != nil {
		return nil, fmt.Errorf("wire secret store chain: %w", err)
	}

	client, err := api.NewClient(api.Config{
		BaseURL:         cfg.GetString("api.base_url"),
		AppKey:          cfg.GetString("api.app_key"),
		AppSecret:       cfg.GetString("api.app_secret"),
		HeartbeatRoomID: cfg.GetInt64("api.heartbeat_room"),
	})
	if err != nil {
		return nil, fmt.Errorf("wire live client: %w", err)
	}

	return &app{
		service:        application.NewService(accountRepo, secretStore, ports.SystemClock{}),
		rooms:          roomRepo,
		accounts:       accountRepo,
		resolver:       application.NewSessionResolver(secretStore),
		client:         client,
		solver:         newCaptchaSolver(cfg),
		keeperCfg:      keeperConfig(cfg),
		logger:         newLogger(cfg),
		statusRenderer: statusadapter.Render,
		now:            time.Now,
	}, nil
}

// loadConfig reads ~/.bilive-keeper/config.toml; every key can be overridden
// through the environment (api.base_url -> BK_API_BASE_URL and so on).
func loadConfig() (*viper.Viper, error) {
	cfg := viper.New()
	cfg.SetConfigName("config")
	cfg.SetConfigType("toml")

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}
	cfg.AddConfigPath(filepath.Join(homeDir, ".bilive-keeper"))

	cfg.SetEnvPrefix("BK")
	cfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	cfg.AutomaticEnv()

	if err := cfg.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	return cfg, nil
}

func newCaptchaSolver(cfg *viper.Viper) ports.CaptchaSolver {
	endpoint := cfg.GetString("captcha.solver_url")
	if endpoint == "" {
		return captcha.DisabledSolver{}
	}

	return &captcha.RemoteSolver{Endpoint: endpoint}
}

func keeperConfig(cfg *viper.Viper) application.KeeperConfig {
	return application.KeeperConfig{
		HeartbeatInterval: cfg.GetDuration("heartbeat.interval"),
		DailyInterval:     cfg.GetDuration("daily.interval"),
		Claim: application.ClaimPolicy{
			MaxAttempts: cfg.GetInt("claim.max_attempts"),
			BaseBackoff: cfg.GetDuration("claim.base_backoff"),
			MaxBackoff:  cfg.GetDuration("claim.max_backoff"),
		},
	}
}

func newLogger(cfg *viper.Viper) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.GetString("log.level") {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
