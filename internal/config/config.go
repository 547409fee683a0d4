package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Storage backends for group documents.
const (
	StorageRedis  = "redis"
	StorageFile   = "file"
	StorageMemory = "memory"
)

const defaultBoardImageURL = "https://backscattering.de/web-boardimage/board.png"

type AppConfig struct {
	IrisBaseURL string
	IrisWSURL   string

	IrisHTTPAttempts int
	IrisMaxConns     int

	BotPrefix string

	XUserID    string
	XUserEmail string
	XSessionID string

	RedisURL    string
	DatabaseURL string

	AllowedRooms []string

	Storage    string
	StorageDir string

	BoardImageURL   string
	FetchBoardImage bool

	MessagesDir string

	EgressMode   string
	EgressDryRun bool
}

func Load() (*AppConfig, error) {
	cfg := &AppConfig{
		StorageDir:      "storage",
		BoardImageURL:   defaultBoardImageURL,
		FetchBoardImage: true,
		EgressMode:      "http",

		IrisHTTPAttempts: 3,
		IrisMaxConns:     64,
	}

	cfg.IrisBaseURL = strings.TrimSpace(os.Getenv("IRIS_BASE_URL"))
	cfg.IrisWSURL = strings.TrimSpace(os.Getenv("IRIS_WS_URL"))
	cfg.BotPrefix = strings.TrimSpace(os.Getenv("BOT_PREFIX"))
	if v := strings.TrimSpace(os.Getenv("IRIS_HTTP_ATTEMPTS")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("invalid IRIS_HTTP_ATTEMPTS %q", v)
		}
		cfg.IrisHTTPAttempts = n
	}
	if v := strings.TrimSpace(os.Getenv("IRIS_MAX_CONNS")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("invalid IRIS_MAX_CONNS %q", v)
		}
		cfg.IrisMaxConns = n
	}

	cfg.XUserID = strings.TrimSpace(os.Getenv("X_USER_ID"))
	cfg.XUserEmail = strings.TrimSpace(os.Getenv("X_USER_EMAIL"))
	cfg.XSessionID = strings.TrimSpace(os.Getenv("X_SESSION_ID"))

	cfg.RedisURL = strings.TrimSpace(os.Getenv("REDIS_URL"))
	cfg.DatabaseURL = strings.TrimSpace(os.Getenv("DATABASE_URL"))

	cfg.AllowedRooms = splitList(os.Getenv("ALLOWED_ROOMS"))
	if len(cfg.AllowedRooms) == 0 {
		cfg.AllowedRooms = splitList(os.Getenv("CHESS_ALLOWED_ROOMS"))
	}

	cfg.Storage = strings.ToLower(strings.TrimSpace(os.Getenv("CHESS_STORAGE")))
	if cfg.Storage == "" {
		cfg.Storage = StorageFile
		if cfg.RedisURL != "" {
			cfg.Storage = StorageRedis
		}
	}
	if v := strings.TrimSpace(os.Getenv("CHESS_STORAGE_DIR")); v != "" {
		cfg.StorageDir = v
	}

	if v := strings.TrimSpace(os.Getenv("CHESS_BOARD_IMAGE_URL")); v != "" {
		cfg.BoardImageURL = v
	}
	if v := strings.TrimSpace(os.Getenv("CHESS_FETCH_BOARD_IMAGE")); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.FetchBoardImage = b
		}
	}
	cfg.MessagesDir = strings.TrimSpace(os.Getenv("MESSAGES_DIR"))

	if v := strings.ToLower(strings.TrimSpace(os.Getenv("EGRESS_MODE"))); v != "" {
		cfg.EgressMode = v
	}
	if v := strings.TrimSpace(os.Getenv("EGRESS_DRYRUN")); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.EgressDryRun = b
		}
	}

	if cfg.IrisBaseURL == "" {
		return nil, errors.New("IRIS_BASE_URL is required")
	}
	if cfg.IrisWSURL == "" {
		return nil, errors.New("IRIS_WS_URL is required")
	}
	if cfg.BotPrefix == "" {
		return nil, errors.New("BOT_PREFIX is required")
	}
	switch cfg.Storage {
	case StorageRedis:
		if cfg.RedisURL == "" {
			return nil, errors.New("REDIS_URL is required for CHESS_STORAGE=redis")
		}
	case StorageFile, StorageMemory:
	default:
		return nil, fmt.Errorf("unknown CHESS_STORAGE %q", cfg.Storage)
	}
	switch cfg.EgressMode {
	case "http", "ws", "auto":
	default:
		return nil, fmt.Errorf("unknown EGRESS_MODE %q", cfg.EgressMode)
	}

	return cfg, nil
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
