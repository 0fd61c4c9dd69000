// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sonata

import (
	"os"

	"github.com/charmbracelet/log"
)

// logger is the package logger.  Quiet by default so the library does
// not chatter in callers' programs; raise the level with SetLogLevel for
// build diagnostics.
var logger = newLogger()

func newLogger() *log.Logger {
	l := log.New(os.Stderr)
	l.SetTimeFormat("")
	l.SetPrefix("sonata")
	l.SetLevel(log.WarnLevel)
	return l
}

// SetLogger replaces the package logger.
func SetLogger(l *log.Logger) {
	if l != nil {
		logger = l
	}
}

// SetLogLevel adjusts the package logger's level.
func SetLogLevel(lvl log.Level) {
	logger.SetLevel(lvl)
}
