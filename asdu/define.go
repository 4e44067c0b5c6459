// Copyright 2020 thinkgos (thinkgo@aliyun.com).  All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

package asdu

import (
	"errors"
	"time"
)

// Errors returned by the ASDU codec and the command constructors.
var (
	ErrParam            = errors.New("asdu: invalid parameter")
	ErrCauseZero        = errors.New("asdu: cause of transmission not set")
	ErrCommonAddrZero   = errors.New("asdu: common address not set")
	ErrCommonAddrFit    = errors.New("asdu: common address exceeds configured width")
	ErrOriginAddrFit    = errors.New("asdu: originator address requires 2-octet cause of transmission")
	ErrInfoObjAddrFit   = errors.New("asdu: information object address exceeds configured width")
	ErrInfoObjIndexFit  = errors.New("asdu: information object count out of range")
	ErrCmdCause         = errors.New("asdu: cause of transmission not valid for this command")
	ErrLengthOutOfRange = errors.New("asdu: length out of range")
	ErrNotAnyObjInfo    = errors.New("asdu: no information object present")
	ErrTypeIDNotMatch   = errors.New("asdu: type identification does not match")
)

// TypeID is the type identification, See companion standard 101, subclass 7.2.1.1.
type TypeID uint8

// Type identification, See companion standard 101, subclass 7.2.1.1.
const (
	_ TypeID = iota
	M_SP_NA_1
	M_SP_TA_1
	M_DP_NA_1
	M_DP_TA_1
	M_ST_NA_1
	M_ST_TA_1
	M_BO_NA_1
	M_BO_TA_1
	M_ME_NA_1
	M_ME_TA_1
	M_ME_NB_1
	M_ME_TB_1
	M_ME_NC_1
	M_ME_TC_1
	M_IT_NA_1
	M_IT_TA_1
	M_EP_TA_1
	M_EP_TB_1
	M_EP_TC_1
	M_PS_NA_1
	M_ME_ND_1
)

const (
	M_SP_TB_1 TypeID = iota + 30
	M_DP_TB_1
	M_ST_TB_1
	M_BO_TB_1
	M_ME_TD_1
	M_ME_TE_1
	M_ME_TF_1
	M_IT_TB_1
	M_EP_TD_1
	M_EP_TE_1
	M_EP_TF_1
)

const (
	M_EI_NA_1 TypeID = 70
)

const (
	C_SC_NA_1 TypeID = iota + 45
	C_DC_NA_1
	C_RC_NA_1
	C_SE_NA_1
	C_SE_NB_1
	C_SE_NC_1
	C_BO_NA_1
)

const (
	C_SC_TA_1 TypeID = iota + 58
	C_DC_TA_1
	C_RC_TA_1
	C_SE_TA_1
	C_SE_TB_1
	C_SE_TC_1
	C_BO_TA_1
)

const (
	C_IC_NA_1 TypeID = iota + 100
	C_CI_NA_1
	C_RD_NA_1
	C_CS_NA_1
	C_TS_NA_1
	C_RP_NA_1
	C_CD_NA_1
	C_TS_TA_1
)

const (
	P_ME_NA_1 TypeID = iota + 110
	P_ME_NB_1
	P_ME_NC_1
	P_AC_NA_1
)

var typeIDName = map[TypeID]string{
	M_SP_NA_1: "M_SP_NA_1", M_SP_TA_1: "M_SP_TA_1", M_SP_TB_1: "M_SP_TB_1",
	M_DP_NA_1: "M_DP_NA_1", M_DP_TA_1: "M_DP_TA_1", M_DP_TB_1: "M_DP_TB_1",
	M_ST_NA_1: "M_ST_NA_1", M_ST_TA_1: "M_ST_TA_1", M_ST_TB_1: "M_ST_TB_1",
	M_BO_NA_1: "M_BO_NA_1", M_BO_TA_1: "M_BO_TA_1", M_BO_TB_1: "M_BO_TB_1",
	M_ME_NA_1: "M_ME_NA_1", M_ME_TA_1: "M_ME_TA_1", M_ME_TD_1: "M_ME_TD_1", M_ME_ND_1: "M_ME_ND_1",
	M_ME_NB_1: "M_ME_NB_1", M_ME_TB_1: "M_ME_TB_1", M_ME_TE_1: "M_ME_TE_1",
	M_ME_NC_1: "M_ME_NC_1", M_ME_TC_1: "M_ME_TC_1", M_ME_TF_1: "M_ME_TF_1",
	M_IT_NA_1: "M_IT_NA_1", M_IT_TA_1: "M_IT_TA_1", M_IT_TB_1: "M_IT_TB_1",
	M_EP_TA_1: "M_EP_TA_1", M_EP_TD_1: "M_EP_TD_1",
	M_EP_TB_1: "M_EP_TB_1", M_EP_TE_1: "M_EP_TE_1",
	M_EP_TC_1: "M_EP_TC_1", M_EP_TF_1: "M_EP_TF_1",
	M_PS_NA_1: "M_PS_NA_1",
	M_EI_NA_1: "M_EI_NA_1",
	C_SC_NA_1: "C_SC_NA_1", C_SC_TA_1: "C_SC_TA_1",
	C_DC_NA_1: "C_DC_NA_1", C_DC_TA_1: "C_DC_TA_1",
	C_RC_NA_1: "C_RC_NA_1", C_RC_TA_1: "C_RC_TA_1",
	C_SE_NA_1: "C_SE_NA_1", C_SE_TA_1: "C_SE_TA_1",
	C_SE_NB_1: "C_SE_NB_1", C_SE_TB_1: "C_SE_TB_1",
	C_SE_NC_1: "C_SE_NC_1", C_SE_TC_1: "C_SE_TC_1",
	C_BO_NA_1: "C_BO_NA_1", C_BO_TA_1: "C_BO_TA_1",
	C_IC_NA_1: "C_IC_NA_1", C_CI_NA_1: "C_CI_NA_1", C_RD_NA_1: "C_RD_NA_1",
	C_CS_NA_1: "C_CS_NA_1", C_TS_NA_1: "C_TS_NA_1", C_RP_NA_1: "C_RP_NA_1",
	C_CD_NA_1: "C_CD_NA_1", C_TS_TA_1: "C_TS_TA_1",
	P_ME_NA_1: "P_ME_NA_1", P_ME_NB_1: "P_ME_NB_1", P_ME_NC_1: "P_ME_NC_1", P_AC_NA_1: "P_AC_NA_1",
}

// String implements fmt.Stringer.
func (t TypeID) String() string {
	if name, ok := typeIDName[t]; ok {
		return name
	}
	return "unknown type"
}

// infoObjSize is the fixed per-element size of an information object, excluding
// the information object address. See companion standard 101, subclass 7.3.
var infoObjSize = map[TypeID]int{
	M_SP_NA_1: 1, M_SP_TA_1: 4, M_SP_TB_1: 8,
	M_DP_NA_1: 1, M_DP_TA_1: 4, M_DP_TB_1: 8,
	M_ST_NA_1: 2, M_ST_TA_1: 5, M_ST_TB_1: 9,
	M_BO_NA_1: 5, M_BO_TA_1: 8, M_BO_TB_1: 12,
	M_ME_NA_1: 3, M_ME_TA_1: 6, M_ME_TD_1: 10, M_ME_ND_1: 2,
	M_ME_NB_1: 3, M_ME_TB_1: 6, M_ME_TE_1: 10,
	M_ME_NC_1: 5, M_ME_TC_1: 8, M_ME_TF_1: 12,
	M_IT_NA_1: 5, M_IT_TA_1: 8, M_IT_TB_1: 12,
	M_EP_TA_1: 6, M_EP_TD_1: 10,
	M_EP_TB_1: 7, M_EP_TE_1: 11,
	M_EP_TC_1: 7, M_EP_TF_1: 11,
	M_PS_NA_1: 5,
	M_EI_NA_1: 1,
	C_SC_NA_1: 1, C_SC_TA_1: 8,
	C_DC_NA_1: 1, C_DC_TA_1: 8,
	C_RC_NA_1: 1, C_RC_TA_1: 8,
	C_SE_NA_1: 3, C_SE_TA_1: 10,
	C_SE_NB_1: 3, C_SE_TB_1: 10,
	C_SE_NC_1: 5, C_SE_TC_1: 12,
	C_BO_NA_1: 4, C_BO_TA_1: 11,
	C_IC_NA_1: 1,
	C_CI_NA_1: 1,
	C_RD_NA_1: 0,
	C_CS_NA_1: 7,
	C_TS_NA_1: 2,
	C_RP_NA_1: 1,
	C_CD_NA_1: 2,
	C_TS_TA_1: 9,
	P_ME_NA_1: 3,
	P_ME_NB_1: 3,
	P_ME_NC_1: 5,
	P_AC_NA_1: 1,
}

// GetInfoObjSize returns the fixed size, in octets, of a single information
// object element for the given type, excluding its address.
func GetInfoObjSize(id TypeID) (int, error) {
	size, ok := infoObjSize[id]
	if !ok {
		return 0, ErrTypeIDNotMatch
	}
	return size, nil
}

// CommonAddr is the address of the ASDU, See companion standard 101, subclass 7.2.4.
// Zero is not used. The width on the wire is controlled by Params.CommonAddrSize.
type CommonAddr uint16

const (
	// InvalidCommonAddr is the reserved "not used" value.
	InvalidCommonAddr CommonAddr = 0
	// GlobalCommonAddr addresses every station, See companion standard 101, subclass 7.2.4.
	GlobalCommonAddr CommonAddr = 0xffff
)

// OriginAddr is the originator address, See companion standard 101, subclass 7.2.5.
// Value 0 is the default, values [1, 255] identify an individual originator.
type OriginAddr uint8

// VariableStruct is the variable structure qualifier, See companion standard 101, subclass 7.2.2.
type VariableStruct struct {
	// IsSequence reports whether the information objects share one leading
	// address and increment it implicitly (SQ = 1).
	IsSequence bool
	// Number of information objects or elements, [0, 127].
	Number byte
}

// Value returns the wire representation of the variable structure qualifier.
func (v VariableStruct) Value() byte {
	n := v.Number
	if v.IsSequence {
		n |= 0x80
	}
	return n
}

// ParseVariableStruct decodes a variable structure qualifier octet.
func ParseVariableStruct(b byte) VariableStruct {
	return VariableStruct{IsSequence: b&0x80 == 0x80, Number: b & 0x7f}
}

// String implements fmt.Stringer.
func (v VariableStruct) String() string {
	if v.IsSequence {
		return "SQ"
	}
	return "discrete"
}

// Cause is the cause of transmission, See companion standard 101, subclass 7.2.3.
type Cause uint8

// Cause of transmission values, See companion standard 101, subclass 7.2.3, table 14.
const (
	Unused Cause = iota
	Periodic
	Background
	Spontaneous
	Initialized
	Request
	Activation
	ActivationCon
	Deactivation
	DeactivationCon
	ActivationTerm
	ReturnInfoRemote
	ReturnInfoLocal
)

// Cause of transmission values used for interrogation replies.
const (
	InterrogatedByStation Cause = iota + 20
	InterrogatedByGroup1
	InterrogatedByGroup2
	InterrogatedByGroup3
	InterrogatedByGroup4
	InterrogatedByGroup5
	InterrogatedByGroup6
	InterrogatedByGroup7
	InterrogatedByGroup8
	InterrogatedByGroup9
	InterrogatedByGroup10
	InterrogatedByGroup11
	InterrogatedByGroup12
	InterrogatedByGroup13
	InterrogatedByGroup14
	InterrogatedByGroup15
	InterrogatedByGroup16
)

// Cause of transmission values used for counter interrogation replies.
const (
	RequestByGeneralCounter Cause = iota + 37
	RequestByGroup1Counter
	RequestByGroup2Counter
	RequestByGroup3Counter
	RequestByGroup4Counter
)

// Cause of transmission negative-outcome values, See companion standard 101, subclass 7.2.3.
const (
	UnknownTypeID Cause = iota + 44
	UnknownCOT
	UnknownCA
	UnknownIOA
)

var causeName = map[Cause]string{
	Unused: "unused", Periodic: "periodic", Background: "background", Spontaneous: "spontaneous",
	Initialized: "initialized", Request: "request", Activation: "activation",
	ActivationCon: "activation-con", Deactivation: "deactivation", DeactivationCon: "deactivation-con",
	ActivationTerm: "activation-term", ReturnInfoRemote: "return-info-remote", ReturnInfoLocal: "return-info-local",
	InterrogatedByStation:   "interrogated-by-station",
	RequestByGeneralCounter: "request-by-general-counter",
	RequestByGroup1Counter:  "request-by-group1-counter",
	RequestByGroup2Counter:  "request-by-group2-counter",
	RequestByGroup3Counter:  "request-by-group3-counter",
	RequestByGroup4Counter:  "request-by-group4-counter",
	UnknownTypeID:           "unknown-type-id",
	UnknownCOT:              "unknown-cot",
	UnknownCA:               "unknown-ca",
	UnknownIOA:              "unknown-ioa",
}

// String implements fmt.Stringer.
func (c Cause) String() string {
	if c >= InterrogatedByStation && c <= InterrogatedByGroup16 {
		if c == InterrogatedByStation {
			return "interrogated-by-station"
		}
		return "interrogated-by-group"
	}
	if name, ok := causeName[c]; ok {
		return name
	}
	return "unknown"
}

// CauseOfTransmission is the full cause of transmission octet(s),
// See companion standard 101, subclass 7.2.3.
type CauseOfTransmission struct {
	Cause      Cause
	IsTest     bool
	IsNegative bool
}

// Value returns the wire representation of the cause of transmission.
func (c CauseOfTransmission) Value() byte {
	v := byte(c.Cause) & 0x3f
	if c.IsNegative {
		v |= 0x40
	}
	if c.IsTest {
		v |= 0x80
	}
	return v
}

// ParseCauseOfTransmission decodes a cause of transmission octet.
func ParseCauseOfTransmission(b byte) CauseOfTransmission {
	return CauseOfTransmission{
		Cause:      Cause(b & 0x3f),
		IsNegative: b&0x40 == 0x40,
		IsTest:     b&0x80 == 0x80,
	}
}

// String implements fmt.Stringer.
func (c CauseOfTransmission) String() string {
	if c.IsNegative {
		return c.Cause.String() + "(neg)"
	}
	return c.Cause.String()
}

// AppendBytes appends raw bytes to the information object.
func (sf *ASDU) AppendBytes(b ...byte) *ASDU { return sf.appendBytes(b...) }

// DecodeByte decodes and consumes a byte from the information object.
func (sf *ASDU) DecodeByte() byte { return sf.decodeByte() }

// AppendUint16 appends a little-endian uint16 to the information object.
func (sf *ASDU) AppendUint16(b uint16) *ASDU { return sf.appendUint16(b) }

// DecodeUint16 decodes and consumes a little-endian uint16.
func (sf *ASDU) DecodeUint16() uint16 { return sf.decodeUint16() }

// AppendInfoObjAddr appends an information object address.
func (sf *ASDU) AppendInfoObjAddr(addr InfoObjAddr) error { return sf.appendInfoObjAddr(addr) }

// DecodeInfoObjAddr decodes and consumes an information object address.
func (sf *ASDU) DecodeInfoObjAddr() InfoObjAddr { return sf.decodeInfoObjAddr() }

// AppendNormalize appends a normalized value.
func (sf *ASDU) AppendNormalize(n Normalize) *ASDU { return sf.appendNormalize(n) }

// DecodeNormalize decodes and consumes a normalized value.
func (sf *ASDU) DecodeNormalize() Normalize { return sf.decodeNormalize() }

// AppendScaled appends a scaled value.
func (sf *ASDU) AppendScaled(i int16) *ASDU { return sf.appendScaled(i) }

// DecodeScaled decodes and consumes a scaled value.
func (sf *ASDU) DecodeScaled() int16 { return sf.decodeScaled() }

// AppendFloat32 appends a short floating point value.
func (sf *ASDU) AppendFloat32(f float32) *ASDU { return sf.appendFloat32(f) }

// DecodeFloat32 decodes and consumes a short floating point value.
func (sf *ASDU) DecodeFloat32() float32 { return sf.decodeFloat32() }

// AppendBitsString32 appends a 32-bit bitstring value.
func (sf *ASDU) AppendBitsString32(v uint32) *ASDU { return sf.appendBitsString32(v) }

// DecodeBitsString32 decodes and consumes a 32-bit bitstring value.
func (sf *ASDU) DecodeBitsString32() uint32 { return sf.decodeBitsString32() }

// AppendCP56Time2a appends a seven-octet binary time.
func (sf *ASDU) AppendCP56Time2a(t time.Time, loc *time.Location) *ASDU {
	return sf.appendCP56Time2a(t, loc)
}

// DecodeCP56Time2a decodes and consumes a seven-octet binary time.
func (sf *ASDU) DecodeCP56Time2a() time.Time { return sf.decodeCP56Time2a() }

// AppendCP16Time2a appends a two-octet millisecond time.
func (sf *ASDU) AppendCP16Time2a(msec uint16) *ASDU { return sf.appendCP16Time2a(msec) }

// DecodeCP16Time2a decodes and consumes a two-octet millisecond time.
func (sf *ASDU) DecodeCP16Time2a() uint16 { return sf.decodeCP16Time2a() }
