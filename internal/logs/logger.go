package logs

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/northlane-software/updatewing/internal/config"
)

// Level names accepted by parseLevel and config.LogConfig.Level.
const (
	LogLevelTrace = "trace"
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
)

var levelsByName = map[string]zapcore.Level{
	LogLevelTrace: zap.DebugLevel, // zap has no level finer than debug
	LogLevelDebug: zap.DebugLevel,
	LogLevelInfo:  zap.InfoLevel,
	LogLevelWarn:  zap.WarnLevel,
	LogLevelError: zap.ErrorLevel,
}

func parseLevel(name string) zapcore.Level {
	if lvl, ok := levelsByName[name]; ok {
		return lvl
	}
	return zap.InfoLevel
}

// DefaultLogConfig is a console-only, human-readable configuration at info
// level — the defaults a developer running the binary locally would want.
func DefaultLogConfig() *config.LogConfig {
	return &config.LogConfig{
		Level:         LogLevelInfo,
		EnableConsole: true,
		EnableFile:    false,
		Filename:      "updatewing.log",
		MaxSize:       10,
		MaxBackups:    5,
		MaxAge:        30,
		Compress:      true,
		JSONFormat:    false,
	}
}

// SetupLogger builds a zap.Logger from cfg, tee-ing console and/or file
// cores as enabled. At least one output must be enabled.
func SetupLogger(cfg *config.LogConfig) (*zap.Logger, error) {
	if cfg == nil {
		cfg = DefaultLogConfig()
	}
	level := parseLevel(cfg.Level)

	var cores []zapcore.Core
	if cfg.EnableConsole {
		cores = append(cores, zapcore.NewCore(getConsoleEncoder(), zapcore.AddSync(os.Stderr), level))
	}
	if cfg.EnableFile {
		fileCore, err := createFileCore(cfg, level)
		if err != nil {
			return nil, fmt.Errorf("create file core: %w", err)
		}
		cores = append(cores, fileCore)
	}
	if len(cores) == 0 {
		return nil, fmt.Errorf("logs: no outputs configured (enable console, file, or both)")
	}

	return zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddCallerSkip(1)), nil
}

// SetupCommandLogger builds a logger for a CLI subcommand. runCommand
// selects the default level when logLevel is empty: the long-running "run"
// and "serve-metrics" subcommands default to info, one-shot subcommands
// ("check", "download", "validate") default to warn so they stay quiet
// unless something needs attention. logToFile and logDir mirror the
// persistent --log-to-file/--log-dir flags.
func SetupCommandLogger(runCommand bool, logLevel string, logToFile bool, logDir string) (*zap.Logger, error) {
	level := LogLevelWarn
	if runCommand {
		level = LogLevelInfo
	}
	if logLevel != "" {
		level = logLevel
	}

	return SetupLogger(&config.LogConfig{
		Level:         level,
		EnableConsole: true,
		EnableFile:    logToFile,
		LogDir:        logDir,
		Filename:      "updatewing.log",
		MaxSize:       10,
		MaxBackups:    5,
		MaxAge:        30,
		Compress:      true,
	})
}

// createFileCore builds a rotating-file core for cfg via lumberjack.
func createFileCore(cfg *config.LogConfig, level zapcore.Level) (zapcore.Core, error) {
	path, err := GetLogFilePathWithDir(cfg.LogDir, cfg.Filename)
	if err != nil {
		return nil, fmt.Errorf("resolve log file path: %w", err)
	}

	rotator := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAge,
		Compress:   cfg.Compress,
	}

	encoder := getFileEncoder()
	if cfg.JSONFormat {
		encoder = getJSONEncoder()
	}
	return zapcore.NewCore(encoder, zapcore.AddSync(rotator), level), nil
}

func getConsoleEncoder() zapcore.Encoder {
	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05")
	cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.EncodeCaller = zapcore.ShortCallerEncoder
	return zapcore.NewConsoleEncoder(cfg)
}

func getFileEncoder() zapcore.Encoder {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02T15:04:05.000Z07:00")
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	cfg.EncodeCaller = zapcore.ShortCallerEncoder
	cfg.ConsoleSeparator = " | "
	return zapcore.NewConsoleEncoder(cfg)
}

func getJSONEncoder() zapcore.Encoder {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.TimeEncoderOfLayout(time.RFC3339)
	cfg.EncodeLevel = zapcore.LowercaseLevelEncoder
	cfg.EncodeCaller = zapcore.ShortCallerEncoder
	return zapcore.NewJSONEncoder(cfg)
}

// LoggerInfo snapshots the configuration a logger was (or would be) built
// with, for diagnostic commands to print.
type LoggerInfo struct {
	LogDir        string    `json:"log_dir"`
	LogFile       string    `json:"log_file"`
	Level         string    `json:"level"`
	EnableFile    bool      `json:"enable_file"`
	EnableConsole bool      `json:"enable_console"`
	MaxSize       int       `json:"max_size"`
	MaxBackups    int       `json:"max_backups"`
	MaxAge        int       `json:"max_age"`
	Compress      bool      `json:"compress"`
	JSONFormat    bool      `json:"json_format"`
	CreatedAt     time.Time `json:"created_at"`
}

// GetLoggerInfo reports where cfg would write logs on the running
// platform, without constructing a logger.
func GetLoggerInfo(cfg *config.LogConfig) (*LoggerInfo, error) {
	if cfg == nil {
		cfg = DefaultLogConfig()
	}

	file, err := GetLogFilePathWithDir(cfg.LogDir, cfg.Filename)
	if err != nil {
		return nil, err
	}
	dir := filepath.Dir(file)

	return &LoggerInfo{
		LogDir:        dir,
		LogFile:       file,
		Level:         cfg.Level,
		EnableFile:    cfg.EnableFile,
		EnableConsole: cfg.EnableConsole,
		MaxSize:       cfg.MaxSize,
		MaxBackups:    cfg.MaxBackups,
		MaxAge:        cfg.MaxAge,
		Compress:      cfg.Compress,
		JSONFormat:    cfg.JSONFormat,
		CreatedAt:     time.Now(),
	}, nil
}

// CreateTestWriter opens a temp file that serves as both the io.Writer a
// test logger writes to and the *os.File a test can later inspect.
func CreateTestWriter() (io.Writer, *os.File, error) {
	f, err := os.CreateTemp("", "updatewing-test-*.log")
	if err != nil {
		return nil, nil, err
	}
	return f, f, nil
}

// CleanupTestWriter closes and removes a file created by CreateTestWriter.
func CleanupTestWriter(f *os.File) error {
	if f == nil {
		return nil
	}
	name := f.Name()
	f.Close()
	return os.Remove(name)
}
