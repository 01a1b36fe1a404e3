// Package logging builds the zap loggers used by the server and the CLI.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

const timeFmt = "2006/01/02 15:04:05.000"

type Mode string

const (
	Dev  Mode = "dev"
	Prod Mode = "prod"
)

// Config selects the log level and whether rotating files are written.
// Prod mode always writes files.
type Config struct {
	Mode  Mode   `yaml:"mode" json:"mode"`
	Level string `yaml:"level" json:"level"`
	App   string `yaml:"app" json:"app"`
	Dir   string `yaml:"dir" json:"dir"`
	File  bool   `yaml:"file" json:"file"`
}

// New creates a zap logger from config. A nil config yields a development
// logger at debug level.
func New(cfg *Config) *zap.Logger {
	if cfg == nil {
		cfg = &Config{Mode: Dev, Level: "debug"}
	}
	app := cfg.App
	if app == "" {
		app = "wheel"
	}
	lv, ok := ParseLevel(cfg.Level)
	if !ok {
		_, _ = fmt.Fprintf(os.Stderr, "logger: invalid log level %q, defaulting to DEBUG\n", cfg.Level)
	}

	cores := []zapcore.Core{
		zapcore.NewCore(
			zapcore.NewConsoleEncoder(encCfg(false)),
			zapcore.Lock(os.Stdout),
			lv,
		),
	}
	if cfg.File || cfg.Mode == Prod {
		name := filepath.Join(cfg.Dir, app)
		cores = append(cores, fileCore(name+".log", lv))
		cores = append(cores, fileCore(name+"_error.log", zap.ErrorLevel))
	}
	return zap.New(zapcore.NewTee(cores...), zap.AddCaller()).Named(app)
}

// ParseLevel parses a level name. Unknown names give debug and false.
func ParseLevel(text string) (zap.AtomicLevel, bool) {
	lv := zap.NewAtomicLevel()
	if err := lv.UnmarshalText([]byte(text)); err != nil {
		lv.SetLevel(zap.DebugLevel)
		return lv, false
	}
	return lv, true
}

func fileCore(file string, lv zapcore.LevelEnabler) zapcore.Core {
	w := &lumberjack.Logger{
		Filename:   file,
		MaxSize:    100,
		MaxBackups: 7,
		MaxAge:     10,
		Compress:   true,
	}
	return zapcore.NewCore(
		zapcore.NewConsoleEncoder(encCfg(true)),
		zapcore.AddSync(w),
		lv,
	)
}

func encCfg(file bool) zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString("[" + t.Format(timeFmt) + "]")
	}
	cfg.EncodeCaller = zapcore.ShortCallerEncoder
	cfg.ConsoleSeparator = " "
	if file {
		cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	} else {
		cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	return cfg
}
