// SPDX-License-Identifier: MIT
// Copyright (c) 2025 go-iecp5 contributors.

// Command proxyd is the command-line entrypoint for a CS104 proxy slave
// endpoint: it dials a configured remote master, then plays the
// IEC 60870-5-104 controlled-station role on that one connection,
// answering interrogations, commands and clock sync against an in-memory
// process image.
package main

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/scadalink/iec104proxy/asdu"
	"github.com/scadalink/iec104proxy/clog"
	"github.com/scadalink/iec104proxy/cs104"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

type flags struct {
	configFile string
	remote     string
	logLevel   string
	logJSON    bool
}

func main() {
	f := &flags{}

	root := &cobra.Command{
		Use:           "proxyd",
		Short:         "IEC 60870-5-104 proxy slave endpoint",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), f)
		},
	}
	root.Flags().StringVar(&f.configFile, "config", "", "path to the .ini configuration file (see cs104.LoadConfigFile)")
	root.Flags().StringVar(&f.remote, "remote", "", "remote master address (tcp://host:port); overrides [remote].server in --config")
	root.Flags().StringVar(&f.logLevel, "log-level", "warn", "one of: off, critical, error, warn, debug")
	root.Flags().BoolVar(&f.logJSON, "log-json", false, "emit logs as JSON instead of text")

	root.AddCommand(versionCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "proxyd:", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "print version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Printf("proxyd %s (commit %s, built %s)\n", version, commit, date)
			return nil
		},
	}
}

func run(ctx context.Context, f *flags) error {
	logger := newLogger(f.logLevel, f.logJSON)

	var fc *cs104.FileConfig
	if f.configFile != "" {
		loaded, err := cs104.LoadConfigFile(f.configFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		fc = loaded
	} else {
		fc = &cs104.FileConfig{StationAddr: 1, Config: cs104.DefaultConfig(), Params: *asdu.ParamsWide}
	}
	if f.remote != "" {
		fc.RemoteServer = f.remote
	}
	if fc.RemoteServer == "" {
		return fmt.Errorf("no remote master configured: pass --remote or set [remote].server in --config")
	}

	opt := cs104.NewOption().SetConfig(fc.Config).SetParams(&fc.Params)
	if err := opt.AddRemoteServer(fc.RemoteServer); err != nil {
		return fmt.Errorf("invalid remote %q: %w", fc.RemoteServer, err)
	}
	if fc.TLSCertFile != "" {
		tlsConfig, err := loadTLS(fc)
		if err != nil {
			return fmt.Errorf("load TLS material: %w", err)
		}
		opt.SetTLSConfig(tlsConfig)
	}

	st := newStation(fc.StationAddr, logger)
	server := cs104.NewServerSpecial(st, opt)
	server.SetLogProvider(clog.NewLogrusProvider(logger))
	server.SetLogLevel(logLevelFor(f.logLevel))

	server.SetInterrogationHandler(st.interrogation)
	server.SetCounterInterrogationHandler(st.counterInterrogation)
	server.SetReadHandler(st.read)
	server.SetClockSyncHandler(st.clockSync)
	server.SetResetProcessHandler(st.resetProcess)
	server.SetDelayAcquisitionHandler(st.delayAcquisition)
	server.SetRawMessageHandler(func(s *cs104.SrvSession, data []byte, sent bool) {
		dir := "rx"
		if sent {
			dir = "tx"
		}
		logger.WithFields(log.Fields{"dir": dir, "session": s.ID()}).Debugf("% x", data)
	})
	server.SetConnStateHandler(func(c asdu.Connect, s cs104.ConnState) {
		logger.WithField("state", s).Info("connection state changed")
		if s == cs104.ConnStateActivated {
			if err := asdu.EndOfInitialization(c,
				asdu.CauseOfTransmission{Cause: asdu.Initialized}, st.ca,
				asdu.InfoObjAddrIrrelevant,
				asdu.CauseOfInitial{Cause: asdu.COILocalPowerOn}); err != nil {
				logger.WithError(err).Warn("end of initialization not sent")
			}
		}
	})

	logger.WithField("remote", fc.RemoteServer).Info("starting proxy slave")
	err := server.Start(ctx)
	if err != nil && ctx.Err() == nil {
		return fmt.Errorf("server stopped: %w", err)
	}
	return nil
}

func loadTLS(fc *cs104.FileConfig) (*tls.Config, error) {
	cert, err := tls.LoadX509KeyPair(fc.TLSCertFile, fc.TLSKeyFile)
	if err != nil {
		return nil, fmt.Errorf("load key pair: %w", err)
	}
	cfg := &tls.Config{Certificates: []tls.Certificate{cert}, MinVersion: tls.VersionTLS12}
	if fc.TLSCAFile != "" {
		ca, err := os.ReadFile(fc.TLSCAFile)
		if err != nil {
			return nil, fmt.Errorf("read CA file: %w", err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(ca) {
			return nil, fmt.Errorf("no certificates parsed from %s", fc.TLSCAFile)
		}
		cfg.RootCAs = pool
	}
	return cfg, nil
}

func newLogger(level string, asJSON bool) *log.Logger {
	logger := log.New()
	if asJSON {
		logger.SetFormatter(&log.JSONFormatter{})
	}
	switch level {
	case "off":
		logger.SetOutput(os.Stderr)
		logger.SetLevel(log.PanicLevel)
	case "debug":
		logger.SetLevel(log.DebugLevel)
	case "error", "critical":
		logger.SetLevel(log.ErrorLevel)
	default:
		logger.SetLevel(log.WarnLevel)
	}
	return logger
}

func logLevelFor(level string) clog.Level {
	switch level {
	case "off":
		return clog.LevelOff
	case "critical":
		return clog.LevelCritical
	case "error":
		return clog.LevelError
	case "debug":
		return clog.LevelDebug
	default:
		return clog.LevelWarn
	}
}

// station is the in-memory process image the proxy serves: a handful of
// switch states, analogue measurements and counters that interrogations
// read and commands write. It doubles as the catch-all asdu.Handler for
// the command types without a dedicated handler slot.
type station struct {
	ca  asdu.CommonAddr
	log *log.Logger

	mu       sync.Mutex
	switches map[asdu.InfoObjAddr]bool
	analogs  map[asdu.InfoObjAddr]float32
	counters map[asdu.InfoObjAddr]int32
	countSeq byte
	delayMs  uint16
}

func newStation(ca asdu.CommonAddr, logger *log.Logger) *station {
	return &station{
		ca:  ca,
		log: logger,
		switches: map[asdu.InfoObjAddr]bool{
			1001: false,
			1002: true,
		},
		analogs: map[asdu.InfoObjAddr]float32{
			2001: 230.0,
			2002: 49.98,
		},
		counters: map[asdu.InfoObjAddr]int32{
			3001: 0,
		},
	}
}

func (st *station) interrogation(c asdu.Connect, ca asdu.CommonAddr, qoi asdu.QualifierOfInterrogation) error {
	if qoi < asdu.QOIStation || qoi > asdu.QOIGroup16 {
		return cs104.ErrHandlerDeclined
	}

	st.mu.Lock()
	points := make([]asdu.SinglePointInfo, 0, len(st.switches))
	for ioa, on := range st.switches {
		points = append(points, asdu.SinglePointInfo{Ioa: ioa, Value: on, Qds: asdu.QDSGood})
	}
	values := make([]asdu.MeasuredValueFloatInfo, 0, len(st.analogs))
	for ioa, v := range st.analogs {
		values = append(values, asdu.MeasuredValueFloatInfo{Ioa: ioa, Value: v, Qds: asdu.QDSGood})
	}
	st.mu.Unlock()
	sort.Slice(points, func(i, j int) bool { return points[i].Ioa < points[j].Ioa })
	sort.Slice(values, func(i, j int) bool { return values[i].Ioa < values[j].Ioa })

	// the reply cause mirrors the qualifier: 20 for station
	// interrogation, 21-36 for the group interrogations
	coa := asdu.CauseOfTransmission{Cause: asdu.Cause(qoi)}
	if err := asdu.Single(c, false, coa, ca, points...); err != nil {
		return err
	}
	return asdu.MeasuredValueFloat(c, false, coa, ca, values...)
}

func (st *station) counterInterrogation(c asdu.Connect, ca asdu.CommonAddr, qcc asdu.QualifierCountCall) error {
	var cause asdu.Cause
	switch qcc.Request {
	case asdu.QCCTotal:
		cause = asdu.RequestByGeneralCounter
	case asdu.QCCGroup1:
		cause = asdu.RequestByGroup1Counter
	case asdu.QCCGroup2:
		cause = asdu.RequestByGroup2Counter
	case asdu.QCCGroup3:
		cause = asdu.RequestByGroup3Counter
	case asdu.QCCGroup4:
		cause = asdu.RequestByGroup4Counter
	default:
		return cs104.ErrHandlerDeclined
	}

	st.mu.Lock()
	st.countSeq = (st.countSeq + 1) & 0x1f
	infos := make([]asdu.BinaryCounterReadingInfo, 0, len(st.counters))
	for ioa, v := range st.counters {
		infos = append(infos, asdu.BinaryCounterReadingInfo{
			Ioa:   ioa,
			Value: asdu.BinaryCounterReading{CounterReading: v, SeqNumber: st.countSeq},
		})
	}
	st.mu.Unlock()
	sort.Slice(infos, func(i, j int) bool { return infos[i].Ioa < infos[j].Ioa })

	return asdu.IntegratedTotals(c, false, asdu.CauseOfTransmission{Cause: cause}, ca, infos...)
}

func (st *station) read(c asdu.Connect, ca asdu.CommonAddr, ioa asdu.InfoObjAddr) error {
	st.mu.Lock()
	v, okAnalog := st.analogs[ioa]
	on, okSwitch := st.switches[ioa]
	st.mu.Unlock()

	coa := asdu.CauseOfTransmission{Cause: asdu.Request}
	switch {
	case okAnalog:
		return asdu.MeasuredValueFloat(c, false, coa, ca,
			asdu.MeasuredValueFloatInfo{Ioa: ioa, Value: v, Qds: asdu.QDSGood})
	case okSwitch:
		return asdu.Single(c, false, coa, ca,
			asdu.SinglePointInfo{Ioa: ioa, Value: on, Qds: asdu.QDSGood})
	default:
		return cs104.ErrHandlerDeclined
	}
}

func (st *station) clockSync(c asdu.Connect, ca asdu.CommonAddr, t time.Time) error {
	st.log.WithFields(log.Fields{"peer_time": t, "offset": time.Until(t)}).Info("clock synchronized")
	return nil
}

func (st *station) resetProcess(c asdu.Connect, ca asdu.CommonAddr, qrp asdu.QualifierOfResetProcessCmd) error {
	if qrp != asdu.QRPGeneralReset {
		return cs104.ErrHandlerDeclined
	}
	st.mu.Lock()
	for ioa := range st.counters {
		st.counters[ioa] = 0
	}
	st.mu.Unlock()
	st.log.Info("process reset")
	return nil
}

func (st *station) delayAcquisition(c asdu.Connect, ca asdu.CommonAddr, msec uint16) error {
	st.mu.Lock()
	st.delayMs = msec
	st.mu.Unlock()
	st.log.WithField("delay_ms", msec).Debug("transmission delay acquired")
	return nil
}

// Handle is the catch-all for ASDU types without a dedicated handler
// slot: the process commands writing the station image. Anything else is
// declined so the dispatcher answers with a negative UNKNOWN_TYPE_ID.
func (st *station) Handle(c asdu.Connect, msg asdu.Message) error {
	switch m := msg.(type) {
	case *asdu.SingleCommandMsg:
		return st.execute(c, m.Header(), m.Cmd.Qoc.InSelect, func() {
			st.switches[m.Cmd.Ioa] = m.Cmd.Value
		})
	case *asdu.DoubleCommandMsg:
		if m.Cmd.Value != asdu.DCOOn && m.Cmd.Value != asdu.DCOOff {
			return st.reject(c, m.Header())
		}
		return st.execute(c, m.Header(), m.Cmd.Qoc.InSelect, func() {
			st.switches[m.Cmd.Ioa] = m.Cmd.Value == asdu.DCOOn
		})
	case *asdu.SetpointFloatMsg:
		return st.execute(c, m.Header(), m.Cmd.Qos.InSelect, func() {
			st.analogs[m.Cmd.Ioa] = m.Cmd.Value
		})
	case *asdu.SetpointNormalMsg:
		return st.execute(c, m.Header(), m.Cmd.Qos.InSelect, func() {
			st.analogs[m.Cmd.Ioa] = float32(m.Cmd.Value.Float64())
		})
	default:
		header := msg.Header()
		st.log.WithFields(log.Fields{
			"type_id": header.Identifier.Type,
			"cause":   header.Identifier.Coa.Cause,
			"ca":      header.Identifier.CommonAddr,
		}).Debug("unhandled ASDU")
		return asdu.ErrCmdCause
	}
}

// execute answers a select-before-operate or direct-operate command:
// a select gets only the positive confirmation, an execute applies the
// mutation and terminates the activation sequence.
func (st *station) execute(c asdu.Connect, h asdu.Header, isSelect bool, apply func()) error {
	mirror := h.ASDU()
	if mirror == nil {
		return asdu.ErrParam
	}
	if h.Identifier.Coa.Cause != asdu.Activation {
		return st.reject(c, h)
	}
	if isSelect {
		return mirror.SendReplyMirror(c, asdu.ActivationCon)
	}
	st.mu.Lock()
	apply()
	st.mu.Unlock()
	if err := mirror.SendReplyMirror(c, asdu.ActivationCon); err != nil {
		return err
	}
	return mirror.SendReplyMirror(c, asdu.ActivationTerm)
}

// reject sends a negative ACTIVATION_CON mirroring the offending command.
func (st *station) reject(c asdu.Connect, h asdu.Header) error {
	mirror := h.ASDU()
	if mirror == nil {
		return asdu.ErrParam
	}
	reply := mirror.Reply(asdu.ActivationCon, h.Identifier.CommonAddr)
	reply.Coa.IsNegative = true
	return c.Send(reply)
}
