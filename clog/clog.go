// Copyright 2020 thinkgos (thinkgo@aliyun.com).  All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

// Package clog is the leveled logging facade threaded through every
// connection: a LogProvider backend behind an atomically adjustable level.
package clog

import (
	"log"
	"os"
	"sync/atomic"
)

// LogProvider is the backend interface, RFC 5424 style levels.
type LogProvider interface {
	Critical(format string, v ...interface{})
	Error(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Debug(format string, v ...interface{})
}

// Level is the logging severity.
// Ordering: Off < Critical < Error < Warn < Debug; setting a level enables
// that level and all more critical ones.
type Level uint32

const (
	LevelOff Level = iota
	LevelCritical
	LevelError
	LevelWarn
	LevelDebug
)

// Clog gates a LogProvider behind a level, adjustable at runtime.
type Clog struct {
	provider LogProvider
	level    uint32 // atomic
}

// NewLogger returns a Clog writing to stdout with the given prefix.
// The initial level is Off.
func NewLogger(prefix string) Clog {
	return Clog{
		defaultLogger{
			log.New(os.Stdout, prefix, log.LstdFlags),
		},
		uint32(LevelOff),
	}
}

// SetLogLevel sets the logging level. LevelOff disables all output.
func (sf *Clog) SetLogLevel(lvl Level) {
	atomic.StoreUint32(&sf.level, uint32(lvl))
}

// SetLogProvider replaces the backend; a nil p is ignored.
func (sf *Clog) SetLogProvider(p LogProvider) {
	if p != nil {
		sf.provider = p
	}
}

func (sf Clog) allowed(required Level) bool {
	return atomic.LoadUint32(&sf.level) >= uint32(required)
}

// Critical logs a CRITICAL level message.
func (sf Clog) Critical(format string, v ...interface{}) {
	if sf.allowed(LevelCritical) {
		sf.provider.Critical(format, v...)
	}
}

// Error logs an ERROR level message.
func (sf Clog) Error(format string, v ...interface{}) {
	if sf.allowed(LevelError) {
		sf.provider.Error(format, v...)
	}
}

// Warn logs a WARN level message.
func (sf Clog) Warn(format string, v ...interface{}) {
	if sf.allowed(LevelWarn) {
		sf.provider.Warn(format, v...)
	}
}

// Debug logs a DEBUG level message.
func (sf Clog) Debug(format string, v ...interface{}) {
	if sf.allowed(LevelDebug) {
		sf.provider.Debug(format, v...)
	}
}

// defaultLogger adapts the standard library logger as a LogProvider.
type defaultLogger struct {
	*log.Logger
}

var _ LogProvider = (*defaultLogger)(nil)

func (sf defaultLogger) Critical(format string, v ...interface{}) {
	sf.Printf("[C]: "+format, v...)
}

func (sf defaultLogger) Error(format string, v ...interface{}) {
	sf.Printf("[E]: "+format, v...)
}

func (sf defaultLogger) Warn(format string, v ...interface{}) {
	sf.Printf("[W]: "+format, v...)
}

func (sf defaultLogger) Debug(format string, v ...interface{}) {
	sf.Printf("[D]: "+format, v...)
}
