// Copyright 2020 thinkgos (thinkgo@aliyun.com).  All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

package clog

import (
	log "github.com/sirupsen/logrus"
)

// logrusProvider adapts a *logrus.Logger (or logrus.Entry) to LogProvider,
// so every connection's structured fields (peer address, connection id)
// flow through the same logging surface the link state machine already
// calls Critical/Error/Warn/Debug on.
type logrusProvider struct {
	entry *log.Entry
}

var _ LogProvider = (*logrusProvider)(nil)

// NewLogrusProvider wraps logger (with any fields already attached via
// WithFields) as a clog.LogProvider.
func NewLogrusProvider(logger *log.Logger) LogProvider {
	return &logrusProvider{entry: log.NewEntry(logger)}
}

// NewLogrusProviderWithFields is NewLogrusProvider plus fixed fields
// (e.g. a session id) included on every line it emits.
func NewLogrusProviderWithFields(logger *log.Logger, fields log.Fields) LogProvider {
	return &logrusProvider{entry: log.NewEntry(logger).WithFields(fields)}
}

// Critical logs at logrus' Fatal-adjacent Error level with a "critical" field;
// logrus has no dedicated CRITICAL level and Fatal would terminate the process,
// which a single connection failure must not do.
func (p *logrusProvider) Critical(format string, v ...interface{}) {
	p.entry.WithField("severity", "critical").Errorf(format, v...)
}

// Error logs at logrus' Error level.
func (p *logrusProvider) Error(format string, v ...interface{}) {
	p.entry.Errorf(format, v...)
}

// Warn logs at logrus' Warn level.
func (p *logrusProvider) Warn(format string, v ...interface{}) {
	p.entry.Warnf(format, v...)
}

// Debug logs at logrus' Debug level.
func (p *logrusProvider) Debug(format string, v ...interface{}) {
	p.entry.Debugf(format, v...)
}
