// Copyright 2022 Corvus DB
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package logutil

import (
	"os"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

// LogConfig describes how the global logger writes its output.
type LogConfig struct {
	// Level is the minimum enabled level: debug, info, warn, error, fatal.
	Level string `toml:"level"`
	// Format is the encoder format, json or console.
	Format string `toml:"format"`
	// Filename is the log file; empty means stderr.
	Filename string `toml:"filename"`
	// MaxSize is the maximum size in MB of a log file before rotation.
	MaxSize int `toml:"max-size"`
	// MaxDays is the maximum number of days to retain rotated files.
	MaxDays int `toml:"max-days"`
	// MaxBackups is the maximum number of rotated files to retain.
	MaxBackups int `toml:"max-backups"`
}

var globalLogger atomic.Value

// SetupLogger initializes the global logger from conf. It is called once
// at process start; later calls replace the logger wholesale.
func SetupLogger(conf *LogConfig) {
	logger := newLogger(conf)
	globalLogger.Store(logger)
}

// GetGlobalLogger returns the global logger, initializing it with defaults
// on first use.
func GetGlobalLogger() *zap.Logger {
	if l := globalLogger.Load(); l != nil {
		return l.(*zap.Logger)
	}
	SetupLogger(&LogConfig{Level: "info", Format: "console"})
	return globalLogger.Load().(*zap.Logger)
}

// Adjust fills the zero fields of conf with usable defaults.
func (cfg *LogConfig) Adjust() {
	if cfg.Level == "" {
		cfg.Level = "info"
	}
	if cfg.Format == "" {
		cfg.Format = "console"
	}
	if cfg.MaxSize == 0 {
		cfg.MaxSize = 512
	}
}

func newLogger(cfg *LogConfig) *zap.Logger {
	cfg.Adjust()
	core := zapcore.NewCore(cfg.getEncoder(), cfg.getSyncer(), cfg.getLevel())
	return zap.New(core, cfg.getOptions()...)
}

func (cfg *LogConfig) getLevel() zap.AtomicLevel {
	level := zap.NewAtomicLevel()
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level.SetLevel(zapcore.InfoLevel)
	}
	return level
}

func (cfg *LogConfig) getOptions() []zap.Option {
	return []zap.Option{zap.AddStacktrace(zapcore.FatalLevel), zap.AddCaller()}
}

func (cfg *LogConfig) getSyncer() zapcore.WriteSyncer {
	if cfg.Filename != "" {
		return zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.Filename,
			MaxSize:    cfg.MaxSize,
			MaxAge:     cfg.MaxDays,
			MaxBackups: cfg.MaxBackups,
		})
	}
	return getConsoleSyncer()
}

func getConsoleSyncer() zapcore.WriteSyncer {
	return zapcore.Lock(os.Stderr)
}

func (cfg *LogConfig) getEncoder() zapcore.Encoder {
	return getLoggerEncoder(cfg.Format)
}

func getLoggerEncoder(format string) zapcore.Encoder {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	if format == "json" {
		return zapcore.NewJSONEncoder(encoderConfig)
	}
	return zapcore.NewConsoleEncoder(encoderConfig)
}
