/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

// Package log holds the process-wide structured logger used by objx
// packages.
package log

import (
	"log/slog"
	"os"
	"sync/atomic"
)

var logger atomic.Pointer[slog.Logger]

func init() {
	logger.Store(defaultLogger())
}

// Logger returns the current logger.
func Logger() *slog.Logger {
	return logger.Load()
}

// SetLogger replaces the process-wide logger. Passing nil restores the
// default stderr text logger at Info level.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = defaultLogger()
	}
	logger.Store(l)
}

func defaultLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
}
