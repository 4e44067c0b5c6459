// SPDX-License-Identifier: MIT
// Copyright (c) 2025 go-iecp5 contributors.

package cs104

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/scadalink/iec104proxy/asdu"
	"github.com/scadalink/iec104proxy/clog"
)

// ServerSpecial is the proxy-slave endpoint: it originates the TCP/TLS
// connection like a client, then plays the controlled (server) station
// role of the protocol dialogue on it.
type ServerSpecial interface {
	asdu.Connect

	IsConnected() bool
	IsClosed() bool
	Start(ctx context.Context) error
	Close() error

	SetConnStateHandler(f func(c asdu.Connect, s ConnState))
	SetInterrogationHandler(f InterrogationHandler)
	SetCounterInterrogationHandler(f CounterInterrogationHandler)
	SetReadHandler(f ReadHandler)
	SetClockSyncHandler(f ClockSyncHandler)
	SetResetProcessHandler(f ResetProcessHandler)
	SetDelayAcquisitionHandler(f DelayAcquisitionHandler)
	SetRawMessageHandler(f RawMessageHandler)

	SetLogLevel(level clog.Level)
	SetLogProvider(p clog.LogProvider)
}

type serverSpec struct {
	SrvSession
	option      ClientOption
	closeCancel context.CancelFunc
}

// NewServerSpecial returns a dial-out controlled station with the given
// catch-all handler and options.
func NewServerSpecial(handler asdu.Handler, o *ClientOption) ServerSpecial {
	return &serverSpec{
		SrvSession: SrvSession{
			config:  &o.config,
			params:  &o.params,
			handler: handler,

			rcvASDU:  make(chan []byte, 1024),
			sendASDU: make(chan []byte, 1024),
			rcvRaw:   make(chan []byte, 1024),
			sendRaw:  make(chan []byte, 1024), // may not block!

			Clog: clog.NewLogger("cs104 serverSpec => "),
		},
		option: *o,
	}
}

// SetConnStateHandler sets the connection lifecycle handler.
func (sf *serverSpec) SetConnStateHandler(f func(c asdu.Connect, s ConnState)) {
	sf.connState = f
}

// Start dials the configured remote master and runs the controlled-station
// state machine on the resulting connection until it fails or Close is
// called.
func (sf *serverSpec) Start(ctx context.Context) error {
	sf.rwMux.Lock()
	if !atomic.CompareAndSwapUint32(&sf.status, initial, disconnected) {
		sf.rwMux.Unlock()
		return errors.New("server already started")
	}
	ctx, sf.closeCancel = context.WithCancel(ctx)
	sf.rwMux.Unlock()
	defer sf.setConnectStatus(initial)

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	sf.Debug("connecting server %+v", sf.option.server)
	conn, err := openConnection(ctx, sf.option.server, sf.option.TLSConfig, sf.option.dialTimeout(), sf.option.DialContext)
	if err != nil {
		sf.Error("connect failed, %v", err)
		return err
	}
	sf.Debug("connect success")
	sf.conn = conn
	err = sf.run(ctx)
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		sf.Debug("disconnected, %v", err)
	} else {
		sf.Error("run failed, %v", err)
	}
	sf.Debug("disconnected server %+v", sf.option.server)
	return err
}

// IsClosed reports whether the endpoint is stopped and can be started again.
func (sf *serverSpec) IsClosed() bool {
	return sf.connectStatus() == initial
}

// Close requests an orderly shutdown; the run loop observes the
// cancellation at its next iteration.
func (sf *serverSpec) Close() error {
	sf.rwMux.Lock()
	if sf.closeCancel != nil {
		sf.closeCancel()
	}
	sf.rwMux.Unlock()
	return nil
}
