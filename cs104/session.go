// SPDX-License-Identifier: MIT
// Copyright (c) 2025 go-iecp5 contributors.

package cs104

import (
	"context"
	"io"
	"net"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/scadalink/iec104proxy/asdu"
	"github.com/scadalink/iec104proxy/clog"
)

// SrvSession is one accepted connection on which this endpoint plays the
// controlled (slave) station role of IEC 60870-5-104: it answers
// STARTDT_ACT/STOPDT_ACT, never originates either, and dispatches inbound
// ASDUs to the installed handler table.
type SrvSession struct {
	id      uuid.UUID
	config  *Config
	params  *asdu.Params
	handler asdu.Handler
	conn    net.Conn

	rcvASDU  chan []byte
	sendASDU chan []byte
	rcvRaw   chan []byte
	sendRaw  chan []byte

	seqNoSend uint16
	ackNoSend uint16
	seqNoRcv  uint16
	ackNoRcv  uint16
	kbuf      kBuffer
	clock     Clock

	status   uint32
	rwMux    sync.RWMutex
	isActive uint32

	connState func(asdu.Connect, ConnState)

	interrogationHandler        InterrogationHandler
	counterInterrogationHandler CounterInterrogationHandler
	readHandler                 ReadHandler
	clockSyncHandler            ClockSyncHandler
	resetProcessHandler         ResetProcessHandler
	delayAcquisitionHandler     DelayAcquisitionHandler
	rawMessageHandler           RawMessageHandler

	clog.Clog

	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
}

// SetInterrogationHandler installs the handler invoked for C_IC_NA_1.
func (sf *SrvSession) SetInterrogationHandler(f InterrogationHandler) {
	sf.interrogationHandler = f
}

// SetCounterInterrogationHandler installs the handler invoked for C_CI_NA_1.
func (sf *SrvSession) SetCounterInterrogationHandler(f CounterInterrogationHandler) {
	sf.counterInterrogationHandler = f
}

// SetReadHandler installs the handler invoked for C_RD_NA_1.
func (sf *SrvSession) SetReadHandler(f ReadHandler) {
	sf.readHandler = f
}

// SetClockSyncHandler installs the handler invoked for C_CS_NA_1.
func (sf *SrvSession) SetClockSyncHandler(f ClockSyncHandler) {
	sf.clockSyncHandler = f
}

// SetResetProcessHandler installs the handler invoked for C_RP_NA_1.
func (sf *SrvSession) SetResetProcessHandler(f ResetProcessHandler) {
	sf.resetProcessHandler = f
}

// SetDelayAcquisitionHandler installs the handler invoked for C_CD_NA_1.
func (sf *SrvSession) SetDelayAcquisitionHandler(f DelayAcquisitionHandler) {
	sf.delayAcquisitionHandler = f
}

// SetRawMessageHandler installs an observer fired for every raw APDU sent
// or received on this session, direction indicated by sent.
func (sf *SrvSession) SetRawMessageHandler(f RawMessageHandler) {
	sf.rawMessageHandler = f
}

// ID returns the session's log-correlation identifier.
func (sf *SrvSession) ID() uuid.UUID { return sf.id }

func (sf *SrvSession) recvLoop() {
	sf.Debug("recvLoop started")
	defer func() {
		sf.cancel()
		sf.wg.Done()
		sf.Debug("recvLoop stopped")
	}()

	for {
		rawData := make([]byte, APDUSizeMax)
		for rdCnt, length := 0, 2; rdCnt < length; {
			byteCount, err := io.ReadFull(sf.conn, rawData[rdCnt:length])
			if err != nil {
				if err != io.EOF && err != io.ErrClosedPipe ||
					strings.Contains(err.Error(), "use of closed network connection") {
					sf.Error("receive failed, %v", err)
					return
				}
				if e, ok := err.(net.Error); ok && !e.Temporary() {
					sf.Error("receive failed, %v", err)
					return
				}
				if err == io.ErrClosedPipe || rdCnt == 0 && err == io.EOF {
					sf.Error("remote connect closed, %v", err)
					return
				}
			}

			rdCnt += byteCount
			if rdCnt == 0 {
				continue
			} else if rdCnt == 1 {
				if rawData[0] != startFrame {
					rdCnt = 0
					continue
				}
			} else {
				if rawData[0] != startFrame {
					rdCnt, length = 0, 2
					continue
				}
				length = int(rawData[1]) + 2
				if length < APCICtlFieldSize+2 || length > APDUSizeMax {
					rdCnt, length = 0, 2
					continue
				}
				if rdCnt == length {
					apdu := rawData[:length]
					sf.Debug("RX Raw[% x]", apdu)
					if sf.rawMessageHandler != nil {
						sf.rawMessageHandler(sf, apdu, false)
					}
					sf.rcvRaw <- apdu
				}
			}
		}
	}
}

func (sf *SrvSession) sendLoop() {
	sf.Debug("sendLoop started")
	defer func() {
		sf.cancel()
		sf.wg.Done()
		sf.Debug("sendLoop stopped")
	}()
	for {
		select {
		case <-sf.ctx.Done():
			return
		case apdu := <-sf.sendRaw:
			sf.Debug("TX Raw[% x]", apdu)
			if sf.rawMessageHandler != nil {
				sf.rawMessageHandler(sf, apdu, true)
			}
			for wrCnt := 0; len(apdu) > wrCnt; {
				byteCount, err := sf.conn.Write(apdu[wrCnt:])
				if err != nil {
					if err != io.EOF && err != io.ErrClosedPipe ||
						strings.Contains(err.Error(), "use of closed network connection") {
						sf.Error("sendRaw failed, %v", err)
						return
					}
					if e, ok := err.(net.Error); !ok || !e.Temporary() {
						sf.Error("sendRaw failed, %v", err)
						return
					}
				}
				wrCnt += byteCount
			}
		}
	}
}

// run drives the per-connection link state machine: a slave-role mirror
// of Client.run that answers, but never originates, STARTDT/STOPDT.
func (sf *SrvSession) run(ctx context.Context) error {
	sf.Debug("run started!")
	sf.id = uuid.New()
	if sf.clock == nil {
		sf.clock = systemClock{}
	}
	sf.kbuf = newKBuffer(sf.config.SendUnAckLimitK)
	sf.cleanUp()

	sf.ctx, sf.cancel = context.WithCancel(ctx)
	sf.setConnectStatus(connected)
	sf.notifyState(ConnStateConnected)
	sf.wg.Add(3)
	go sf.recvLoop()
	go sf.sendLoop()
	go sf.handlerLoop()

	checkTicker := time.NewTicker(timeoutResolution)
	willNotTimeout := sf.clock.Now().Add(time.Hour * 24 * 365 * 100)

	unAckRcvSince := willNotTimeout
	idleTimeout3Since := sf.clock.Now()
	testFrAliveSendSince := willNotTimeout

	sendSFrame := func(rcvSN uint16) {
		sf.Debug("TX sFrame %v", sAPCI{rcvSN})
		sf.sendRaw <- newSFrame(rcvSN)
	}

	sendIFrame := func(payload []byte) {
		seqNo := sf.seqNoSend
		iframe, err := newIFrame(seqNo, sf.seqNoRcv, payload)
		if err != nil {
			return
		}
		sf.ackNoRcv = sf.seqNoRcv
		sf.kbuf.append(seqNo, sf.clock.Now())
		sf.seqNoSend = (seqNo + 1) & 32767

		sf.Debug("TX iFrame %v", iAPCI{seqNo, sf.seqNoRcv})
		sf.sendRaw <- iframe
	}

	defer func() {
		atomic.StoreUint32(&sf.isActive, inactive)
		sf.setConnectStatus(disconnected)
		sf.notifyState(ConnStateDisconnected)
		checkTicker.Stop()
		_ = sf.conn.Close()
		sf.wg.Wait()
		sf.Debug("run stopped!")
	}()

	for {
		// stop pulling new ASDUs once k I-frames are outstanding
		if atomic.LoadUint32(&sf.isActive) == active && !sf.kbuf.isFull() {
			select {
			case o := <-sf.sendASDU:
				sendIFrame(o)
				idleTimeout3Since = sf.clock.Now()
				continue
			case <-sf.ctx.Done():
				return sf.ctx.Err()
			default:
			}
		}
		select {
		case <-sf.ctx.Done():
			return sf.ctx.Err()
		case <-checkTicker.C:
			// the tick only paces evaluation; deadlines are computed
			// against the injected clock
			now := sf.clock.Now()
			// system clock jumped backwards: re-anchor so no timer stalls
			if idleTimeout3Since.After(now) {
				idleTimeout3Since = now
			}
			if testFrAliveSendSince != willNotTimeout && testFrAliveSendSince.After(now) {
				testFrAliveSendSince = now
			}
			if unAckRcvSince != willNotTimeout && unAckRcvSince.After(now) {
				unAckRcvSince = now
			}
			if now.Sub(testFrAliveSendSince) >= sf.config.SendUnAckTimeout1 {
				sf.Error("test frame alive confirm timeout t1")
				return ErrTimerT1
			}
			if !sf.kbuf.isEmpty() && now.Sub(sf.kbuf.oldestSentTime()) >= sf.config.SendUnAckTimeout1 {
				sf.Error("fatal transmission timeout t1")
				return ErrTimerT1
			}
			if sf.ackNoRcv != sf.seqNoRcv &&
				(now.Sub(unAckRcvSince) >= sf.config.RecvUnAckTimeout2 ||
					now.Sub(idleTimeout3Since) >= timeoutResolution) {
				sendSFrame(sf.seqNoRcv)
				sf.ackNoRcv = sf.seqNoRcv
				unAckRcvSince = willNotTimeout
				idleTimeout3Since = sf.clock.Now()
			}
			if now.Sub(idleTimeout3Since) >= sf.config.IdleTimeout3 {
				sf.sendUFrame(uTestFrActive)
				testFrAliveSendSince = sf.clock.Now()
				idleTimeout3Since = testFrAliveSendSince
			}

		case apdu := <-sf.rcvRaw:
			idleTimeout3Since = sf.clock.Now()
			apci, asduVal := parse(apdu)
			switch head := apci.(type) {
			case sAPCI:
				sf.Debug("RX sFrame %v", head)
				if !sf.kbuf.confirmUpTo(head.rcvSN, sf.seqNoSend) {
					sf.Error("fatal incoming acknowledge out of window")
					return ErrSequence
				}
				sf.ackNoSend = head.rcvSN

			case iAPCI:
				sf.Debug("RX iFrame %v", head)
				if atomic.LoadUint32(&sf.isActive) == inactive {
					sf.Warn("station not active")
					break
				}
				if !sf.kbuf.confirmUpTo(head.rcvSN, sf.seqNoSend) || head.sendSN != sf.seqNoRcv {
					sf.Error("fatal incoming acknowledge out of window")
					return ErrSequence
				}
				sf.ackNoSend = head.rcvSN

				sf.rcvASDU <- asduVal
				if sf.ackNoRcv == sf.seqNoRcv {
					unAckRcvSince = sf.clock.Now()
				}

				sf.seqNoRcv = (sf.seqNoRcv + 1) & 32767
				if seqNoCount(sf.ackNoRcv, sf.seqNoRcv) >= sf.config.RecvUnAckLimitW {
					sendSFrame(sf.seqNoRcv)
					sf.ackNoRcv = sf.seqNoRcv
				}

			case uAPCI:
				sf.Debug("RX uFrame %v", head)
				switch head.function {
				case uStartDtActive:
					sf.sendUFrame(uStartDtConfirm)
					atomic.StoreUint32(&sf.isActive, active)
					sf.notifyState(ConnStateActivated)
				case uStopDtActive:
					if sf.ackNoRcv != sf.seqNoRcv {
						sendSFrame(sf.seqNoRcv)
						sf.ackNoRcv = sf.seqNoRcv
					}
					unAckRcvSince = willNotTimeout
					sf.sendUFrame(uStopDtConfirm)
					atomic.StoreUint32(&sf.isActive, inactive)
					sf.notifyState(ConnStateDeactivated)
				case uTestFrActive:
					sf.sendUFrame(uTestFrConfirm)
				case uTestFrConfirm:
					testFrAliveSendSince = willNotTimeout
				default:
					sf.Error("illegal U-Frame function[0x%02x] ignored", head.function)
				}
			}
		}
	}
}

func (sf *SrvSession) handlerLoop() {
	sf.Debug("handlerLoop started")
	defer func() {
		sf.wg.Done()
		sf.Debug("handlerLoop stopped")
	}()

	for {
		select {
		case <-sf.ctx.Done():
			return
		case rawAsdu := <-sf.rcvASDU:
			asduPack := asdu.NewEmptyASDU(sf.params)
			if err := asduPack.UnmarshalBinary(rawAsdu); err != nil {
				// a corrupt payload is not survivable: the peer's counters
				// advanced over a unit we cannot interpret
				sf.Error("asdu decode failed, %+v", err)
				sf.cancel()
				return
			}
			if err := sf.serverHandler(asduPack); err != nil {
				sf.Warn("failed handling I frame, error: %v", err)
			}
		}
	}
}

func (sf *SrvSession) setConnectStatus(status uint32) {
	sf.rwMux.Lock()
	atomic.StoreUint32(&sf.status, status)
	sf.rwMux.Unlock()
}

func (sf *SrvSession) connectStatus() uint32 {
	sf.rwMux.RLock()
	status := atomic.LoadUint32(&sf.status)
	sf.rwMux.RUnlock()
	return status
}

func (sf *SrvSession) notifyState(s ConnState) {
	if sf.connState != nil {
		sf.connState(sf, s)
	}
}

func (sf *SrvSession) cleanUp() {
	sf.ackNoRcv = 0
	sf.ackNoSend = 0
	sf.seqNoRcv = 0
	sf.seqNoSend = 0
	sf.kbuf.reset()
loop:
	for {
		select {
		case <-sf.sendRaw:
		case <-sf.rcvRaw:
		case <-sf.rcvASDU:
		case <-sf.sendASDU:
		default:
			break loop
		}
	}
}

func (sf *SrvSession) sendUFrame(which byte) {
	sf.Debug("TX uFrame %v", uAPCI{which})
	sf.sendRaw <- newUFrame(which)
}

// IsConnected reports the TCP/TLS connection state.
func (sf *SrvSession) IsConnected() bool {
	return sf.connectStatus() == connected
}

// IsActive reports whether data transfer is active (STARTDT_ACT answered).
func (sf *SrvSession) IsActive() bool {
	return atomic.LoadUint32(&sf.isActive) == active
}

// Params imp interface asdu.Connect
func (sf *SrvSession) Params() *asdu.Params { return sf.params }

// Send imp interface asdu.Connect
func (sf *SrvSession) Send(a *asdu.ASDU) error {
	if sf.connectStatus() != connected {
		return ErrUseClosedConnection
	}
	if atomic.LoadUint32(&sf.isActive) == inactive {
		return ErrNotActive
	}
	data, err := a.MarshalBinary()
	if err != nil {
		return err
	}
	select {
	case sf.sendASDU <- data:
	default:
		return ErrBufferFulled
	}
	return nil
}

// UnderlyingConn imp interface asdu.Connect
func (sf *SrvSession) UnderlyingConn() net.Conn {
	return sf.conn
}

// Close closes the session's connection, unblocking its goroutines.
func (sf *SrvSession) Close() error {
	if sf.conn != nil {
		return sf.conn.Close()
	}
	return nil
}
