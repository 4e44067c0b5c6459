// SPDX-License-Identifier: MIT
// Copyright (c) 2025 go-iecp5 contributors.

package cs104

import (
	"time"

	"github.com/scadalink/iec104proxy/asdu"
)

// InterrogationHandler answers a C_IC_NA_1 (general interrogation) request.
// The positive ACTIVATION_CON is sent before the handler runs; a non-nil
// error is only logged, and neither ACTIVATION_TERM nor a negative reply
// follows.
type InterrogationHandler func(asdu.Connect, asdu.CommonAddr, asdu.QualifierOfInterrogation) error

// CounterInterrogationHandler answers a C_CI_NA_1 (counter interrogation) request.
type CounterInterrogationHandler func(asdu.Connect, asdu.CommonAddr, asdu.QualifierCountCall) error

// ReadHandler answers a C_RD_NA_1 (read) request for a single information object.
type ReadHandler func(asdu.Connect, asdu.CommonAddr, asdu.InfoObjAddr) error

// ClockSyncHandler answers a C_CS_NA_1 (clock synchronization) request.
type ClockSyncHandler func(asdu.Connect, asdu.CommonAddr, time.Time) error

// ResetProcessHandler answers a C_RP_NA_1 (reset process) request.
type ResetProcessHandler func(asdu.Connect, asdu.CommonAddr, asdu.QualifierOfResetProcessCmd) error

// DelayAcquisitionHandler answers a C_CD_NA_1 (delay acquisition) request.
type DelayAcquisitionHandler func(asdu.Connect, asdu.CommonAddr, uint16) error

// RawMessageHandler observes every raw APDU exchanged on a session.
// sent is true for outbound frames, false for inbound ones.
type RawMessageHandler func(session *SrvSession, data []byte, sent bool)

// sendActCon replies to the activation request a with a positive or
// negative ACTIVATION_CON, reusing a's original information object bytes.
func (sf *SrvSession) sendActCon(a *asdu.ASDU, positive bool) error {
	reply := a.Reply(asdu.ActivationCon, a.CommonAddr)
	reply.Coa.IsNegative = !positive
	return sf.Send(reply)
}

// sendActTerm replies to the activation request a with ACTIVATION_TERM.
func (sf *SrvSession) sendActTerm(a *asdu.ASDU) error {
	reply := a.Reply(asdu.ActivationTerm, a.CommonAddr)
	return sf.Send(reply)
}

// sendUnknownCOT replies to a with a negative response carrying COT =
// UnknownCOT, sent when an ASDU's cause of transmission is not one its
// TypeID accepts, or no handler claims it.
func (sf *SrvSession) sendUnknownCOT(a *asdu.ASDU) error {
	reply := a.Reply(asdu.UnknownCOT, a.CommonAddr)
	reply.Coa.IsNegative = true
	return sf.Send(reply)
}

// sendUnknownTypeID replies to a with a negative response carrying COT =
// UnknownTypeID, used when no catch-all handler claims an unrecognized
// TypeID.
func (sf *SrvSession) sendUnknownTypeID(a *asdu.ASDU) error {
	reply := a.Reply(asdu.UnknownTypeID, a.CommonAddr)
	reply.Coa.IsNegative = true
	return sf.Send(reply)
}

// cotAccepted reports whether cause is one of the accepted causes for a
// command type.
func cotAccepted(cause asdu.Cause, accepted ...asdu.Cause) bool {
	for _, c := range accepted {
		if cause == c {
			return true
		}
	}
	return false
}

// serverHandler decodes a and routes it to the installed handler table,
// synthesizing the confirmations IEC 60870-5-104 companion standard 101
// subclause 6.8 (activation sequences) requires. A type with no specific
// handler installed, or an ASDU whose cause of transmission is not one the
// TypeID accepts, gets a negative UnknownCOT reply. A type with no table
// entry at all falls back to the generic catch-all handler; if that
// handler does not claim the ASDU either, it gets a negative
// UnknownTypeID reply.
func (sf *SrvSession) serverHandler(a *asdu.ASDU) error {
	sf.Debug("ASDU %+v", a)

	msg, err := asdu.ParseASDU(a)
	if err != nil {
		return err
	}
	cause := a.Coa.Cause

	switch m := msg.(type) {
	case *asdu.InterrogationCmdMsg:
		if sf.interrogationHandler == nil || !cotAccepted(cause, asdu.Activation, asdu.Deactivation) {
			return sf.sendUnknownCOT(a)
		}
		// ACT_CON precedes the interrogated data, ACT_TERM closes the
		// sequence; see companion standard 101 subclause 6.8
		if err := sf.sendActCon(a, true); err != nil {
			return err
		}
		if err := sf.interrogationHandler(sf, a.CommonAddr, m.QOI); err != nil {
			sf.Warn("interrogation handler failed after confirmation: %v", err)
			return nil
		}
		return sf.sendActTerm(a)

	case *asdu.CounterInterrogationCmdMsg:
		if sf.counterInterrogationHandler == nil || !cotAccepted(cause, asdu.Activation, asdu.Deactivation) {
			return sf.sendUnknownCOT(a)
		}
		if err := sf.sendActCon(a, true); err != nil {
			return err
		}
		if err := sf.counterInterrogationHandler(sf, a.CommonAddr, m.QCC); err != nil {
			sf.Warn("counter interrogation handler failed after confirmation: %v", err)
			return nil
		}
		return sf.sendActTerm(a)

	case *asdu.ReadCmdMsg:
		if sf.readHandler == nil || !cotAccepted(cause, asdu.Request) {
			return sf.sendUnknownCOT(a)
		}
		return sf.readHandler(sf, a.CommonAddr, m.IOA)

	case *asdu.ClockSyncCmdMsg:
		if sf.clockSyncHandler == nil || !cotAccepted(cause, asdu.Activation) {
			return sf.sendUnknownCOT(a)
		}
		err := sf.clockSyncHandler(sf, a.CommonAddr, m.Time)
		return sf.sendActCon(a, err == nil)

	case *asdu.ResetProcessCmdMsg:
		if sf.resetProcessHandler == nil || !cotAccepted(cause, asdu.Activation) {
			return sf.sendUnknownCOT(a)
		}
		err := sf.resetProcessHandler(sf, a.CommonAddr, m.QRP)
		return sf.sendActCon(a, err == nil)

	case *asdu.DelayAcquireCmdMsg:
		if sf.delayAcquisitionHandler == nil || !cotAccepted(cause, asdu.Activation, asdu.Spontaneous) {
			return sf.sendUnknownCOT(a)
		}
		return sf.delayAcquisitionHandler(sf, a.CommonAddr, m.Msec)

	case *asdu.TestCmdMsg:
		if !cotAccepted(cause, asdu.Activation) {
			return sf.sendUnknownCOT(a)
		}
		return a.SendReplyMirror(sf, asdu.ActivationCon)

	case *asdu.TestCmdCP56Msg:
		if !cotAccepted(cause, asdu.Activation) {
			return sf.sendUnknownCOT(a)
		}
		return a.SendReplyMirror(sf, asdu.ActivationCon)

	default:
		if sf.handler == nil {
			return sf.sendUnknownTypeID(a)
		}
		if err := sf.handler.Handle(sf, msg); err != nil {
			sf.Debug("catch-all handler declined TypeID %v: %v", a.Identifier.Type, err)
			return sf.sendUnknownTypeID(a)
		}
		return nil
	}
}
