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
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestLogConfigGetter(t *testing.T) {
	cfg := &LogConfig{
		Level:  "debug",
		Format: "console",
	}
	require.Equal(t, zap.NewAtomicLevelAt(zap.DebugLevel), cfg.getLevel())
	require.Equal(t, 2, len(cfg.getOptions()))
	require.Equal(t, getConsoleSyncer(), cfg.getSyncer())

	entry := zapcore.Entry{Level: zapcore.DebugLevel, Message: "console msg"}
	wantMsg, _ := getLoggerEncoder("console").EncodeEntry(entry, nil)
	gotMsg, _ := cfg.getEncoder().EncodeEntry(entry, nil)
	require.Equal(t, wantMsg.String(), gotMsg.String())
}

func TestLogConfigBadLevel(t *testing.T) {
	cfg := &LogConfig{Level: "no-such-level"}
	require.Equal(t, zapcore.InfoLevel, cfg.getLevel().Level())
}

func TestAdjust(t *testing.T) {
	cfg := &LogConfig{}
	cfg.Adjust()
	require.Equal(t, "info", cfg.Level)
	require.Equal(t, "console", cfg.Format)
	require.Equal(t, 512, cfg.MaxSize)
}

func TestSetupLogger(t *testing.T) {
	SetupLogger(&LogConfig{Level: "debug", Format: "json"})
	require.NotNil(t, GetGlobalLogger())
	Info("logger ready", zap.String("format", "json"))
}
