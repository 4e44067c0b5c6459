// SPDX-License-Identifier: MIT
// Copyright (c) 2025 go-iecp5 contributors.

package cs104

import (
	"context"
	"errors"
	"io"
	"net"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/scadalink/iec104proxy/asdu"
	"github.com/scadalink/iec104proxy/clog"
)

const (
	inactive = iota
	active
)

// Client plays the controlling (master) station role of IEC 60870-5-104:
// it originates STARTDT/STOPDT and issues system commands. The proxy
// itself never uses it; it exists to drive a controlled station from the
// other end of the dialogue, in tests and in symmetric deployments.
type Client struct {
	option  ClientOption
	conn    net.Conn
	handler Handler

	rcvASDU  chan []byte // received ASDU payloads
	sendASDU chan []byte // ASDU payloads queued for transmission
	rcvRaw   chan []byte // complete APDUs from recvLoop
	sendRaw  chan []byte // complete APDUs for sendLoop

	seqNoSend uint16 // sequence number of next outbound I-frame
	ackNoSend uint16 // oldest outbound sequence number not yet confirmed
	seqNoRcv  uint16 // sequence number expected on the next inbound I-frame
	ackNoRcv  uint16 // oldest inbound sequence number not yet acknowledged

	// outbound I-frames awaiting confirmation, in transmission order
	pending []seqPending

	startDtActiveSendSince atomic.Value // deadline anchor while a STARTDT con is outstanding
	stopDtActiveSendSince  atomic.Value // deadline anchor while a STOPDT con is outstanding

	status   uint32
	rwMux    sync.RWMutex
	isActive uint32

	clog.Clog

	wg          sync.WaitGroup
	ctx         context.Context
	cancel      context.CancelFunc
	closeCancel context.CancelFunc

	onConnect        func(c *Client)
	onConnectionLost func(c *Client)
	onActivated      func(c *Client)
	onDeactivated    func(c *Client)
}

// NewClient returns a master with the given catch-all handler and options.
func NewClient(handler Handler, o *ClientOption) *Client {
	return &Client{
		option:           *o,
		handler:          handler,
		rcvASDU:          make(chan []byte, o.config.RecvUnAckLimitW<<4),
		sendASDU:         make(chan []byte, o.config.SendUnAckLimitK<<4),
		rcvRaw:           make(chan []byte, o.config.RecvUnAckLimitW<<5),
		sendRaw:          make(chan []byte, o.config.SendUnAckLimitK<<5), // may not block!
		Clog:             clog.NewLogger("cs104 client => "),
		onConnect:        func(*Client) {},
		onConnectionLost: func(*Client) {},
		onActivated:      func(*Client) {},
		onDeactivated:    func(*Client) {},
	}
}

// SetOnConnectHandler installs a callback fired once the TCP/TLS
// connection is up, before data transfer is started.
func (sf *Client) SetOnConnectHandler(f func(c *Client)) *Client {
	if f != nil {
		sf.onConnect = f
	}
	return sf
}

// SetConnectionLostHandler installs a callback fired when the connection drops.
func (sf *Client) SetConnectionLostHandler(f func(c *Client)) *Client {
	if f != nil {
		sf.onConnectionLost = f
	}
	return sf
}

// SetOnActivatedHandler installs a callback fired when the peer confirms STARTDT.
func (sf *Client) SetOnActivatedHandler(f func(c *Client)) *Client {
	if f != nil {
		sf.onActivated = f
	}
	return sf
}

// SetOnDeactivatedHandler installs a callback fired when the peer confirms STOPDT.
func (sf *Client) SetOnDeactivatedHandler(f func(c *Client)) *Client {
	if f != nil {
		sf.onDeactivated = f
	}
	return sf
}

// Start dials the configured server and runs the link state machine until
// the connection fails or ctx is cancelled.
func (sf *Client) Start(ctx context.Context) error {
	sf.rwMux.Lock()
	if !atomic.CompareAndSwapUint32(&sf.status, initial, disconnected) {
		sf.rwMux.Unlock()
		return errors.New("client already started")
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
	return err
}

func (sf *Client) recvLoop() {
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
				// See: https://github.com/golang/go/issues/4373
				if err != io.EOF && err != io.ErrClosedPipe ||
					strings.Contains(err.Error(), "use of closed network connection") {
					sf.Error("receive failed, %v", err)
					return
				}
				if e, ok := err.(net.Error); ok && !e.Temporary() {
					sf.Error("receive failed, %v", err)
					return
				}
				if rdCnt == 0 && err == io.EOF {
					sf.Error("remote connect closed, %v", err)
					return
				}
			}

			rdCnt += byteCount
			if rdCnt == 0 {
				continue
			} else if rdCnt == 1 {
				// resync: scan forward to the next start octet
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
					sf.rcvRaw <- apdu
				}
			}
		}
	}
}

func (sf *Client) sendLoop() {
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
			for wrCnt := 0; len(apdu) > wrCnt; {
				byteCount, err := sf.conn.Write(apdu[wrCnt:])
				if err != nil {
					// See: https://github.com/golang/go/issues/4373
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

// run drives the master-side link state machine: the mirror image of
// SrvSession.run, originating STARTDT/STOPDT/TESTFR instead of answering
// them.
func (sf *Client) run(ctx context.Context) error {
	sf.Debug("run started!")
	sf.cleanUp()

	sf.ctx, sf.cancel = context.WithCancel(ctx)
	sf.setConnectStatus(connected)
	sf.wg.Add(3)
	go sf.recvLoop()
	go sf.sendLoop()
	go sf.handlerLoop()

	checkTicker := time.NewTicker(timeoutResolution)
	willNotTimeout := time.Now().Add(time.Hour * 24 * 365 * 100)

	unAckRcvSince := willNotTimeout
	idleTimeout3Since := time.Now()        // idle checkpoint for initiating TESTFR act
	testFrAliveSendSince := willNotTimeout // anchor while a TESTFR con is outstanding

	sf.startDtActiveSendSince.Store(willNotTimeout)
	sf.stopDtActiveSendSince.Store(willNotTimeout)

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
		sf.seqNoSend = (seqNo + 1) & 32767
		sf.pending = append(sf.pending, seqPending{seqNo, time.Now()})

		sf.Debug("TX iFrame %v", iAPCI{seqNo, sf.seqNoRcv})
		sf.sendRaw <- iframe
	}

	defer func() {
		atomic.StoreUint32(&sf.isActive, inactive)
		sf.setConnectStatus(disconnected)
		checkTicker.Stop()
		_ = sf.conn.Close() // unblocks recvLoop/sendLoop
		sf.wg.Wait()
		sf.onConnectionLost(sf)
		sf.Debug("run stopped!")
	}()

	sf.onConnect(sf)
	for {
		if atomic.LoadUint32(&sf.isActive) == active && seqNoCount(sf.ackNoSend, sf.seqNoSend) < sf.option.config.SendUnAckLimitK {
			select {
			case o := <-sf.sendASDU:
				sendIFrame(o)
				idleTimeout3Since = time.Now()
				continue
			case <-sf.ctx.Done():
				return sf.ctx.Err()
			default: // don't block on an empty send queue
			}
		}
		select {
		case <-sf.ctx.Done():
			return sf.ctx.Err()
		case now := <-checkTicker.C:
			if now.Sub(testFrAliveSendSince) >= sf.option.config.SendUnAckTimeout1 ||
				now.Sub(sf.startDtActiveSendSince.Load().(time.Time)) >= sf.option.config.SendUnAckTimeout1 ||
				now.Sub(sf.stopDtActiveSendSince.Load().(time.Time)) >= sf.option.config.SendUnAckTimeout1 {
				sf.Error("U-frame confirm timeout t1")
				return ErrTimerT1
			}
			if sf.ackNoSend != sf.seqNoSend &&
				now.Sub(sf.pending[0].sendTime) >= sf.option.config.SendUnAckTimeout1 {
				sf.Error("fatal transmission timeout t1")
				return ErrTimerT1
			}

			// pending receive acknowledgement, t2 or forced after idle
			if sf.ackNoRcv != sf.seqNoRcv &&
				(now.Sub(unAckRcvSince) >= sf.option.config.RecvUnAckTimeout2 ||
					now.Sub(idleTimeout3Since) >= timeoutResolution) {
				sendSFrame(sf.seqNoRcv)
				sf.ackNoRcv = sf.seqNoRcv
			}

			// idle: probe the link with TESTFR act
			if now.Sub(idleTimeout3Since) >= sf.option.config.IdleTimeout3 {
				sf.sendUFrame(uTestFrActive)
				testFrAliveSendSince = time.Now()
				idleTimeout3Since = testFrAliveSendSince
			}

		case apdu := <-sf.rcvRaw:
			// any inbound I, S or U frame resets the idle timer t3
			idleTimeout3Since = time.Now()
			apci, asduVal := parse(apdu)
			switch head := apci.(type) {
			case sAPCI:
				sf.Debug("RX sFrame %v", head)
				if !sf.updateAckNoOut(head.rcvSN) {
					sf.Error("fatal incoming acknowledge out of window")
					return ErrSequence
				}

			case iAPCI:
				sf.Debug("RX iFrame %v", head)
				if atomic.LoadUint32(&sf.isActive) == inactive {
					sf.Warn("station not active")
					break // discard apdu until data transfer is started
				}
				if !sf.updateAckNoOut(head.rcvSN) || head.sendSN != sf.seqNoRcv {
					sf.Error("fatal incoming acknowledge out of window")
					return ErrSequence
				}

				sf.rcvASDU <- asduVal
				if sf.ackNoRcv == sf.seqNoRcv { // first unacknowledged inbound
					unAckRcvSince = time.Now()
				}

				sf.seqNoRcv = (sf.seqNoRcv + 1) & 32767
				if seqNoCount(sf.ackNoRcv, sf.seqNoRcv) >= sf.option.config.RecvUnAckLimitW {
					sendSFrame(sf.seqNoRcv)
					sf.ackNoRcv = sf.seqNoRcv
				}

			case uAPCI:
				sf.Debug("RX uFrame %v", head)
				switch head.function {
				case uStartDtConfirm:
					atomic.StoreUint32(&sf.isActive, active)
					sf.startDtActiveSendSince.Store(willNotTimeout)
					sf.onActivated(sf)
				case uStopDtConfirm:
					atomic.StoreUint32(&sf.isActive, inactive)
					sf.stopDtActiveSendSince.Store(willNotTimeout)
					sf.onDeactivated(sf)
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

func (sf *Client) handlerLoop() {
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
			asduPack := asdu.NewEmptyASDU(&sf.option.params)
			if err := asduPack.UnmarshalBinary(rawAsdu); err != nil {
				sf.Warn("asdu UnmarshalBinary failed, %+v", err)
				continue
			}
			if err := sf.clientHandler(asduPack); err != nil {
				sf.Warn("failed handling I frame, error: %v", err)
			}
		}
	}
}

func (sf *Client) setConnectStatus(status uint32) {
	sf.rwMux.Lock()
	atomic.StoreUint32(&sf.status, status)
	sf.rwMux.Unlock()
}

func (sf *Client) connectStatus() uint32 {
	sf.rwMux.RLock()
	status := atomic.LoadUint32(&sf.status)
	sf.rwMux.RUnlock()
	return status
}

func (sf *Client) cleanUp() {
	sf.ackNoRcv = 0
	sf.ackNoSend = 0
	sf.seqNoRcv = 0
	sf.seqNoSend = 0
	sf.pending = nil
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

func (sf *Client) sendUFrame(which byte) {
	sf.Debug("TX uFrame %v", uAPCI{which})
	sf.sendRaw <- newUFrame(which)
}

// updateAckNoOut processes an incoming N_R: every pending I-frame up to
// and including ackNo-1 is confirmed. An N_R ahead of seqNoSend, or behind
// the already-confirmed window, is invalid.
func (sf *Client) updateAckNoOut(ackNo uint16) (ok bool) {
	if ackNo == sf.ackNoSend {
		return true
	}
	if seqNoCount(sf.ackNoSend, sf.seqNoSend) < seqNoCount(ackNo, sf.seqNoSend) {
		return false
	}

	for i, v := range sf.pending {
		if v.seq == (ackNo-1)&32767 {
			sf.pending = sf.pending[i+1:]
			break
		}
	}

	sf.ackNoSend = ackNo
	return true
}

// IsConnected reports the TCP/TLS connection state.
func (sf *Client) IsConnected() bool {
	return sf.connectStatus() == connected
}

// IsActive reports whether data transfer is active (STARTDT confirmed).
func (sf *Client) IsActive() bool {
	return atomic.LoadUint32(&sf.isActive) == active
}

func (sf *Client) clientHandler(asduPack *asdu.ASDU) error {
	sf.Debug("ASDU %+v", asduPack)
	msg, err := asdu.ParseASDU(asduPack)
	if err != nil {
		return err
	}
	return sf.handler.Handle(sf, msg)
}

// Params imp interface asdu.Connect
func (sf *Client) Params() *asdu.Params {
	return &sf.option.params
}

// Send imp interface asdu.Connect
func (sf *Client) Send(a *asdu.ASDU) error {
	if !sf.IsConnected() {
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
func (sf *Client) UnderlyingConn() net.Conn {
	return sf.conn
}

// Close cancels the client's run loop and tears the connection down.
func (sf *Client) Close() error {
	sf.rwMux.Lock()
	if sf.closeCancel != nil {
		sf.closeCancel()
	}
	sf.rwMux.Unlock()
	return nil
}

// SendStartDt starts data transmission on this connection.
func (sf *Client) SendStartDt() {
	sf.startDtActiveSendSince.Store(time.Now())
	sf.sendUFrame(uStartDtActive)
}

// SendStopDt stops data transmission on this connection.
func (sf *Client) SendStopDt() {
	sf.stopDtActiveSendSince.Store(time.Now())
	sf.sendUFrame(uStopDtActive)
}

// InterrogationCmd wraps asdu.InterrogationCmd.
func (sf *Client) InterrogationCmd(coa asdu.CauseOfTransmission, ca asdu.CommonAddr, qoi asdu.QualifierOfInterrogation) error {
	return asdu.InterrogationCmd(sf, coa, ca, qoi)
}

// CounterInterrogationCmd wraps asdu.CounterInterrogationCmd.
func (sf *Client) CounterInterrogationCmd(coa asdu.CauseOfTransmission, ca asdu.CommonAddr, qcc asdu.QualifierCountCall) error {
	return asdu.CounterInterrogationCmd(sf, coa, ca, qcc)
}

// ReadCmd wraps asdu.ReadCmd.
func (sf *Client) ReadCmd(coa asdu.CauseOfTransmission, ca asdu.CommonAddr, ioa asdu.InfoObjAddr) error {
	return asdu.ReadCmd(sf, coa, ca, ioa)
}

// ClockSynchronizationCmd wraps asdu.ClockSynchronizationCmd.
func (sf *Client) ClockSynchronizationCmd(coa asdu.CauseOfTransmission, ca asdu.CommonAddr, t time.Time) error {
	return asdu.ClockSynchronizationCmd(sf, coa, ca, t)
}

// ResetProcessCmd wraps asdu.ResetProcessCmd.
func (sf *Client) ResetProcessCmd(coa asdu.CauseOfTransmission, ca asdu.CommonAddr, qrp asdu.QualifierOfResetProcessCmd) error {
	return asdu.ResetProcessCmd(sf, coa, ca, qrp)
}

// DelayAcquireCommand wraps asdu.DelayAcquireCommand.
func (sf *Client) DelayAcquireCommand(coa asdu.CauseOfTransmission, ca asdu.CommonAddr, msec uint16) error {
	return asdu.DelayAcquireCommand(sf, coa, ca, msec)
}

// TestCommand wraps asdu.TestCommand.
func (sf *Client) TestCommand(coa asdu.CauseOfTransmission, ca asdu.CommonAddr) error {
	return asdu.TestCommand(sf, coa, ca)
}
