// SPDX-License-Identifier: MIT
// Copyright (c) 2025 go-iecp5 contributors.

package asdu

import "time"

// Parsed message forms of the supported type identifications. ParseASDU
// produces one of these per inbound ASDU; each keeps the raw Header so a
// handler can rebuild and mirror the original unit.

// Header carries ASDU identification and raw payload.
type Header struct {
	Params     *Params
	Identifier Identifier
	RawInfoObj []byte
}

// ASDU recreates an ASDU that mirrors the original header and payload.
func (h Header) ASDU() *ASDU {
	if h.Params == nil {
		return nil
	}
	a := NewASDU(h.Params, h.Identifier)
	a.infoObj = append(a.infoObj, h.RawInfoObj...)
	return a
}

// Message is a parsed ASDU payload that supports type assertions.
type Message interface {
	Header() Header
	TypeID() TypeID
	String() string
}

// UnknownMsg is returned for unsupported or unknown TypeIDs.
type UnknownMsg struct {
	H Header
}

// Header returns the ASDU header.
func (m *UnknownMsg) Header() Header { return m.H }

// TypeID returns the ASDU TypeID.
func (m *UnknownMsg) TypeID() TypeID { return m.H.Identifier.Type }

// Monitoring direction messages.
type SinglePointMsg struct {
	H     Header
	Items []SinglePointInfo
}

func (m *SinglePointMsg) Header() Header { return m.H }
func (m *SinglePointMsg) TypeID() TypeID { return m.H.Identifier.Type }

type DoublePointMsg struct {
	H     Header
	Items []DoublePointInfo
}

func (m *DoublePointMsg) Header() Header { return m.H }
func (m *DoublePointMsg) TypeID() TypeID { return m.H.Identifier.Type }

type StepPositionMsg struct {
	H     Header
	Items []StepPositionInfo
}

func (m *StepPositionMsg) Header() Header { return m.H }
func (m *StepPositionMsg) TypeID() TypeID { return m.H.Identifier.Type }

type BitString32Msg struct {
	H     Header
	Items []BitString32Info
}

func (m *BitString32Msg) Header() Header { return m.H }
func (m *BitString32Msg) TypeID() TypeID { return m.H.Identifier.Type }

type MeasuredValueNormalMsg struct {
	H     Header
	Items []MeasuredValueNormalInfo
}

func (m *MeasuredValueNormalMsg) Header() Header { return m.H }
func (m *MeasuredValueNormalMsg) TypeID() TypeID { return m.H.Identifier.Type }

type MeasuredValueScaledMsg struct {
	H     Header
	Items []MeasuredValueScaledInfo
}

func (m *MeasuredValueScaledMsg) Header() Header { return m.H }
func (m *MeasuredValueScaledMsg) TypeID() TypeID { return m.H.Identifier.Type }

type MeasuredValueFloatMsg struct {
	H     Header
	Items []MeasuredValueFloatInfo
}

func (m *MeasuredValueFloatMsg) Header() Header { return m.H }
func (m *MeasuredValueFloatMsg) TypeID() TypeID { return m.H.Identifier.Type }

type IntegratedTotalsMsg struct {
	H     Header
	Items []BinaryCounterReadingInfo
}

func (m *IntegratedTotalsMsg) Header() Header { return m.H }
func (m *IntegratedTotalsMsg) TypeID() TypeID { return m.H.Identifier.Type }

type EventOfProtectionMsg struct {
	H     Header
	Items []EventOfProtectionEquipmentInfo
}

func (m *EventOfProtectionMsg) Header() Header { return m.H }
func (m *EventOfProtectionMsg) TypeID() TypeID { return m.H.Identifier.Type }

type PackedStartEventsMsg struct {
	H    Header
	Item PackedStartEventsOfProtectionEquipmentInfo
}

func (m *PackedStartEventsMsg) Header() Header { return m.H }
func (m *PackedStartEventsMsg) TypeID() TypeID { return m.H.Identifier.Type }

type PackedOutputCircuitMsg struct {
	H    Header
	Item PackedOutputCircuitInfoInfo
}

func (m *PackedOutputCircuitMsg) Header() Header { return m.H }
func (m *PackedOutputCircuitMsg) TypeID() TypeID { return m.H.Identifier.Type }

type PackedSinglePointWithSCDMsg struct {
	H     Header
	Items []PackedSinglePointWithSCDInfo
}

func (m *PackedSinglePointWithSCDMsg) Header() Header { return m.H }
func (m *PackedSinglePointWithSCDMsg) TypeID() TypeID { return m.H.Identifier.Type }

type EndOfInitMsg struct {
	H   Header
	IOA InfoObjAddr
	COI CauseOfInitial
}

func (m *EndOfInitMsg) Header() Header { return m.H }
func (m *EndOfInitMsg) TypeID() TypeID { return m.H.Identifier.Type }

// Control direction messages.
type SingleCommandMsg struct {
	H   Header
	Cmd SingleCommandInfo
}

func (m *SingleCommandMsg) Header() Header { return m.H }
func (m *SingleCommandMsg) TypeID() TypeID { return m.H.Identifier.Type }

type DoubleCommandMsg struct {
	H   Header
	Cmd DoubleCommandInfo
}

func (m *DoubleCommandMsg) Header() Header { return m.H }
func (m *DoubleCommandMsg) TypeID() TypeID { return m.H.Identifier.Type }

type StepCommandMsg struct {
	H   Header
	Cmd StepCommandInfo
}

func (m *StepCommandMsg) Header() Header { return m.H }
func (m *StepCommandMsg) TypeID() TypeID { return m.H.Identifier.Type }

type SetpointNormalMsg struct {
	H   Header
	Cmd SetpointCommandNormalInfo
}

func (m *SetpointNormalMsg) Header() Header { return m.H }
func (m *SetpointNormalMsg) TypeID() TypeID { return m.H.Identifier.Type }

type SetpointScaledMsg struct {
	H   Header
	Cmd SetpointCommandScaledInfo
}

func (m *SetpointScaledMsg) Header() Header { return m.H }
func (m *SetpointScaledMsg) TypeID() TypeID { return m.H.Identifier.Type }

type SetpointFloatMsg struct {
	H   Header
	Cmd SetpointCommandFloatInfo
}

func (m *SetpointFloatMsg) Header() Header { return m.H }
func (m *SetpointFloatMsg) TypeID() TypeID { return m.H.Identifier.Type }

type BitsString32CmdMsg struct {
	H   Header
	Cmd BitsString32CommandInfo
}

func (m *BitsString32CmdMsg) Header() Header { return m.H }
func (m *BitsString32CmdMsg) TypeID() TypeID { return m.H.Identifier.Type }

// Parameter messages.
type ParameterNormalMsg struct {
	H     Header
	Param ParameterNormalInfo
}

func (m *ParameterNormalMsg) Header() Header { return m.H }
func (m *ParameterNormalMsg) TypeID() TypeID { return m.H.Identifier.Type }

type ParameterScaledMsg struct {
	H     Header
	Param ParameterScaledInfo
}

func (m *ParameterScaledMsg) Header() Header { return m.H }
func (m *ParameterScaledMsg) TypeID() TypeID { return m.H.Identifier.Type }

type ParameterFloatMsg struct {
	H     Header
	Param ParameterFloatInfo
}

func (m *ParameterFloatMsg) Header() Header { return m.H }
func (m *ParameterFloatMsg) TypeID() TypeID { return m.H.Identifier.Type }

type ParameterActivationMsg struct {
	H     Header
	Param ParameterActivationInfo
}

func (m *ParameterActivationMsg) Header() Header { return m.H }
func (m *ParameterActivationMsg) TypeID() TypeID { return m.H.Identifier.Type }

// System command messages.
type InterrogationCmdMsg struct {
	H   Header
	IOA InfoObjAddr
	QOI QualifierOfInterrogation
}

func (m *InterrogationCmdMsg) Header() Header { return m.H }
func (m *InterrogationCmdMsg) TypeID() TypeID { return m.H.Identifier.Type }

type CounterInterrogationCmdMsg struct {
	H   Header
	IOA InfoObjAddr
	QCC QualifierCountCall
}

func (m *CounterInterrogationCmdMsg) Header() Header { return m.H }
func (m *CounterInterrogationCmdMsg) TypeID() TypeID { return m.H.Identifier.Type }

type ReadCmdMsg struct {
	H   Header
	IOA InfoObjAddr
}

func (m *ReadCmdMsg) Header() Header { return m.H }
func (m *ReadCmdMsg) TypeID() TypeID { return m.H.Identifier.Type }

type ClockSyncCmdMsg struct {
	H    Header
	IOA  InfoObjAddr
	Time time.Time
}

func (m *ClockSyncCmdMsg) Header() Header { return m.H }
func (m *ClockSyncCmdMsg) TypeID() TypeID { return m.H.Identifier.Type }

type TestCmdMsg struct {
	H    Header
	IOA  InfoObjAddr
	Test bool
}

func (m *TestCmdMsg) Header() Header { return m.H }
func (m *TestCmdMsg) TypeID() TypeID { return m.H.Identifier.Type }

type ResetProcessCmdMsg struct {
	H   Header
	IOA InfoObjAddr
	QRP QualifierOfResetProcessCmd
}

func (m *ResetProcessCmdMsg) Header() Header { return m.H }
func (m *ResetProcessCmdMsg) TypeID() TypeID { return m.H.Identifier.Type }

type DelayAcquireCmdMsg struct {
	H    Header
	IOA  InfoObjAddr
	Msec uint16
}

func (m *DelayAcquireCmdMsg) Header() Header { return m.H }
func (m *DelayAcquireCmdMsg) TypeID() TypeID { return m.H.Identifier.Type }

type TestCmdCP56Msg struct {
	H    Header
	IOA  InfoObjAddr
	Test bool
	Time time.Time
}

func (m *TestCmdCP56Msg) Header() Header { return m.H }
func (m *TestCmdCP56Msg) TypeID() TypeID { return m.H.Identifier.Type }
