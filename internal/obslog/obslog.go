package obslog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// 로그 포맷
const (
	FormatLegacy  = "legacy"
	FormatJSON    = "json"
	FormatConsole = "console"
)

const defaultLogFile = "logs/chess-bot.log"

var global atomic.Pointer[zap.Logger]

// L는 전역 로거를 반환. 초기화 전에는 no-op.
func L() *zap.Logger {
	if l := global.Load(); l != nil {
		return l
	}
	return zap.NewNop()
}

// Set replaces the global logger; nil resets it to a no-op logger.
func Set(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	global.Store(l)
}

// Options describes where and how the bot logs.
type Options struct {
	Level   zapcore.Level
	Console bool
	File    string // empty disables the file sink
	Format  string
	Caller  bool
}

// OptionsFromEnv reads LOG_LEVEL, LOG_TO_CONSOLE, LOG_TO_FILE, LOG_FILE,
// LOG_FORMAT and LOG_CALLER. Unknown values fall back to the defaults.
func OptionsFromEnv() Options {
	o := Options{
		Level:   zapcore.InfoLevel,
		Console: envBool("LOG_TO_CONSOLE", true),
		Format:  FormatLegacy,
		Caller:  envBool("LOG_CALLER", false),
	}
	if lvl, err := zapcore.ParseLevel(normalizeLevel(os.Getenv("LOG_LEVEL"))); err == nil {
		o.Level = lvl
	}
	switch f := strings.ToLower(strings.TrimSpace(os.Getenv("LOG_FORMAT"))); f {
	case FormatJSON, FormatConsole:
		o.Format = f
	}
	if envBool("LOG_TO_FILE", true) {
		o.File = defaultLogFile
		if v := strings.TrimSpace(os.Getenv("LOG_FILE")); v != "" {
			o.File = v
		}
	}
	return o
}

// InitFromEnv는 환경설정으로 전역 로거를 초기화.
func InitFromEnv() error {
	l, err := New(OptionsFromEnv())
	if err != nil {
		return err
	}
	Set(l)
	return nil
}

// New builds a logger that tees to stdout and/or the log file.
func New(o Options) (*zap.Logger, error) {
	enc := newEncoder(o.Format)
	var cores []zapcore.Core
	if o.Console {
		cores = append(cores, zapcore.NewCore(enc, zapcore.Lock(os.Stdout), o.Level))
	}
	if o.File != "" {
		if dir := filepath.Dir(o.File); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create log dir: %w", err)
			}
		}
		f, err := os.OpenFile(o.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		cores = append(cores, zapcore.NewCore(enc.Clone(), zapcore.AddSync(f), o.Level))
	}
	if len(cores) == 0 {
		// 출력이 모두 꺼져 있으면 개발용 콘솔로
		dev := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
		cores = append(cores, zapcore.NewCore(dev, zapcore.Lock(os.Stdout), o.Level))
	}

	opts := []zap.Option{zap.AddStacktrace(zapcore.ErrorLevel)}
	if o.Caller || o.Format == FormatLegacy {
		opts = append(opts, zap.AddCaller())
	}
	return zap.New(zapcore.NewTee(cores...), opts...), nil
}

// 포맷별 인코더 선택
func newEncoder(format string) zapcore.Encoder {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	switch format {
	case FormatJSON:
		cfg.EncodeLevel = zapcore.LowercaseLevelEncoder
		return zapcore.NewJSONEncoder(cfg)
	case FormatConsole:
		cfg.EncodeLevel = zapcore.CapitalLevelEncoder
		return zapcore.NewConsoleEncoder(cfg)
	default:
		cfg.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05")
		cfg.EncodeLevel = zapcore.CapitalLevelEncoder
		cfg.ConsoleSeparator = " | "
		return zapcore.NewConsoleEncoder(cfg)
	}
}

func normalizeLevel(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "warning" {
		return "warn"
	}
	return s
}

func envBool(k string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	return strings.EqualFold(v, "true") || v == "1"
}
