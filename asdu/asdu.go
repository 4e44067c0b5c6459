// Copyright 2020 thinkgos (thinkgo@aliyun.com).  All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

// Package asdu implements the application service data unit of
// IEC 60870-5-101/104: the data unit identifier, the information object
// codecs, and typed constructors and accessors per type identification.
package asdu

import (
	"fmt"
	"io"
	"math/bits"
	"time"
)

// ASDUSizeMax is the largest ASDU the 104 profile allows on the wire.
const (
	ASDUSizeMax = 249
)

// ASDU wire layout:
//
//	      | data unit identification | information object <1..n> |
//
//	      | <------------  data unit identification ------------>|
//	      | typeID | variable struct | cause  |  common address  |
//	bytes |    1   |      1          | [1,2]  |      [1,2]       |
//	      | <------------  information object ------------------>|
//	      | object address | element set  |  object time scale   |
//	bytes |     [1,2,3]    |              |                      |

var (
	// ParamsNarrow is the smallest configuration.
	ParamsNarrow = &Params{CauseSize: 1, CommonAddrSize: 1, InfoObjAddrSize: 1, InfoObjTimeZone: time.UTC}
	// ParamsWide is the largest configuration.
	ParamsWide = &Params{CauseSize: 2, CommonAddrSize: 2, InfoObjAddrSize: 3, InfoObjTimeZone: time.UTC}
)

// Params fixes the variable-width fields of the data unit identifier for a
// session. See companion standard 101, subclass 7.1.
type Params struct {
	// CauseSize is the cause of transmission octet count.
	// The standard requires "b" in [1, 2]; 2 activates the originator address.
	CauseSize int
	// OrigAddress is the originator address, [1, 255] or 0 for the default.
	// Only carried on the wire when CauseSize is 2.
	OrigAddress OriginAddr
	// CommonAddrSize is the common (station) address octet count.
	// The standard requires "a" in [1, 2].
	CommonAddrSize int
	// InfoObjAddrSize is the information object address octet count.
	// The standard requires "c" in [1, 3].
	InfoObjAddrSize int
	// InfoObjTimeZone controls the time tag interpretation.
	// The standard fails to mention this one.
	InfoObjTimeZone *time.Location
}

// Valid reports whether every field is within its permitted range.
func (sf Params) Valid() error {
	if (sf.CauseSize < 1 || sf.CauseSize > 2) ||
		(sf.CommonAddrSize < 1 || sf.CommonAddrSize > 2) ||
		(sf.InfoObjAddrSize < 1 || sf.InfoObjAddrSize > 3) ||
		(sf.InfoObjTimeZone == nil) {
		return ErrParam
	}
	return nil
}

// ValidCommonAddr reports whether addr fits the configured width and is
// not the reserved zero value.
func (sf Params) ValidCommonAddr(addr CommonAddr) error {
	if addr == InvalidCommonAddr {
		return ErrCommonAddrZero
	}
	if bits.Len(uint(addr)) > sf.CommonAddrSize*8 {
		return ErrCommonAddrFit
	}
	return nil
}

// IdentifierSize returns the data unit identifier size under these params.
func (sf Params) IdentifierSize() int {
	return 2 + int(sf.CauseSize) + int(sf.CommonAddrSize)
}

// Identifier is the data unit identifier of an ASDU.
type Identifier struct {
	// Type is the type identification.
	Type TypeID
	// Variable is the variable structure qualifier.
	Variable VariableStruct
	// Coa is the cause of transmission.
	Coa CauseOfTransmission
	// OrigAddr is the originator address, [1, 255] or 0 for the default.
	// Only carried when Params.CauseSize is 2.
	OrigAddr OriginAddr
	// CommonAddr is the station address. Zero is not used.
	// See companion standard 101, subclass 7.2.4.
	CommonAddr CommonAddr
}

// String returns e.g. "TID<M_SP_NA_1> COT<spontaneous> @1".
func (id Identifier) String() string {
	if id.OrigAddr == 0 {
		return fmt.Sprintf("TID<%s> COT<%s> @%d", id.Type, id.Coa, id.CommonAddr)
	}
	return fmt.Sprintf("TID<%s> COT<%s> %d@%d ", id.Type, id.Coa, id.OrigAddr, id.CommonAddr)
}

// ASDU is one application service data unit: the identifier plus the raw
// information object octets.
type ASDU struct {
	*Params
	Identifier
	infoObj   []byte            // information object serial
	bootstrap [ASDUSizeMax]byte // prevents Info malloc
}

// NewEmptyASDU returns an ASDU with the given params and no payload.
func NewEmptyASDU(p *Params) *ASDU {
	a := &ASDU{Params: p}
	lenDUI := a.IdentifierSize()
	a.infoObj = a.bootstrap[lenDUI:lenDUI]
	return a
}

// NewASDU returns an empty ASDU with the given params and identifier.
func NewASDU(p *Params, identifier Identifier) *ASDU {
	a := NewEmptyASDU(p)
	a.Identifier = identifier
	return a
}

// Clone returns a deep copy of the ASDU.
func (sf *ASDU) Clone() *ASDU {
	r := NewASDU(sf.Params, sf.Identifier)
	r.infoObj = append(r.infoObj, sf.infoObj...)
	return r
}

// SetVariableNumber sets the information object count.
// See companion standard 101, subclass 7.2.2.
func (sf *ASDU) SetVariableNumber(n int) error {
	if n >= 128 {
		return ErrInfoObjIndexFit
	}
	sf.Variable.Number = byte(n)
	return nil
}

// Reply returns a new responding ASDU addressing addr, with cause c and a
// copy of this ASDU's information objects.
func (sf *ASDU) Reply(c Cause, addr CommonAddr) *ASDU {
	sf.CommonAddr = addr
	r := NewASDU(sf.Params, sf.Identifier)
	r.Coa.Cause = c
	r.infoObj = append(r.infoObj, sf.infoObj...)
	return r
}

// SendReplyMirror sends a mirror of this ASDU on c with only the cause
// changed.
func (sf *ASDU) SendReplyMirror(c Connect, cause Cause) error {
	r := NewASDU(sf.Params, sf.Identifier)
	r.Coa.Cause = cause
	r.infoObj = append(r.infoObj, sf.infoObj...)
	return c.Send(r)
}

// String returns a compact description of the ASDU header and payload
// size. Per-type element formatting lives on the parsed Message types.
func (sf *ASDU) String() string {
	if sf == nil {
		return "<nil>"
	}
	n := int(sf.Variable.Number)
	if n == 0 {
		n = 1
	}
	return fmt.Sprintf("%s VSQ<%s> items=%d payload=%dB",
		sf.Identifier.String(), sf.Variable.String(), n, len(sf.infoObj))
}

// MarshalBinary honors the encoding.BinaryMarshaler interface.
func (sf *ASDU) MarshalBinary() (data []byte, err error) {
	switch {
	case sf.Coa.Cause == Unused:
		return nil, ErrCauseZero
	case !(sf.CauseSize == 1 || sf.CauseSize == 2):
		return nil, ErrParam
	case sf.CauseSize == 1 && sf.OrigAddr != 0:
		return nil, ErrOriginAddrFit
	case sf.CommonAddr == InvalidCommonAddr:
		return nil, ErrCommonAddrZero
	case !(sf.CommonAddrSize == 1 || sf.CommonAddrSize == 2):
		return nil, ErrParam
	case sf.CommonAddrSize == 1 && sf.CommonAddr != GlobalCommonAddr && sf.CommonAddr >= 255:
		return nil, ErrParam
	}

	raw := sf.bootstrap[:(sf.IdentifierSize() + len(sf.infoObj))]
	raw[0] = byte(sf.Type)
	raw[1] = sf.Variable.Value()
	raw[2] = sf.Coa.Value()
	offset := 3
	if sf.CauseSize == 2 {
		raw[offset] = byte(sf.OrigAddr)
		offset++
	}
	if sf.CommonAddrSize == 1 {
		if sf.CommonAddr == GlobalCommonAddr {
			raw[offset] = 255
		} else {
			raw[offset] = byte(sf.CommonAddr)
		}
	} else { // 2
		raw[offset] = byte(sf.CommonAddr)
		offset++
		raw[offset] = byte(sf.CommonAddr >> 8)
	}
	return raw, nil
}

// UnmarshalBinary honors the encoding.BinaryUnmarshaler interface.
// Params must be set in advance; all other fields are initialized.
func (sf *ASDU) UnmarshalBinary(rawAsdu []byte) error {
	if !(sf.CauseSize == 1 || sf.CauseSize == 2) ||
		!(sf.CommonAddrSize == 1 || sf.CommonAddrSize == 2) {
		return ErrParam
	}

	lenDUI := sf.IdentifierSize()
	if lenDUI > len(rawAsdu) {
		return io.EOF
	}

	sf.Type = TypeID(rawAsdu[0])
	sf.Variable = ParseVariableStruct(rawAsdu[1])
	sf.Coa = ParseCauseOfTransmission(rawAsdu[2])
	if sf.CauseSize == 1 {
		sf.OrigAddr = 0
	} else {
		sf.OrigAddr = OriginAddr(rawAsdu[3])
	}
	if sf.CommonAddrSize == 1 {
		sf.CommonAddr = CommonAddr(rawAsdu[lenDUI-1])
		if sf.CommonAddr == 255 { // map the 8-bit broadcast variant to the 16-bit equivalent
			sf.CommonAddr = GlobalCommonAddr
		}
	} else { // 2
		sf.CommonAddr = CommonAddr(rawAsdu[lenDUI-2]) | CommonAddr(rawAsdu[lenDUI-1])<<8
	}
	sf.infoObj = append(sf.bootstrap[lenDUI:lenDUI], rawAsdu[lenDUI:]...)
	return sf.fixInfoObjSize()
}

// fixInfoObjSize truncates the information object bytes to the size the
// variable structure qualifier declares, and rejects a short payload.
// An unrecognized type identification keeps its payload opaque, so the
// dispatcher can still mirror the ASDU back with an unknown-type cause.
func (sf *ASDU) fixInfoObjSize() error {
	objSize, err := GetInfoObjSize(sf.Type)
	if err != nil {
		return nil
	}

	var size int
	if sf.Variable.IsSequence {
		size = sf.InfoObjAddrSize + int(sf.Variable.Number)*objSize
	} else {
		size = int(sf.Variable.Number) * (sf.InfoObjAddrSize + objSize)
	}

	switch {
	case size == 0:
		return ErrInfoObjIndexFit
	case size > len(sf.infoObj):
		return io.EOF
	case size < len(sf.infoObj): // surplus octets are not explicitly prohibited
		sf.infoObj = sf.infoObj[:size]
	}

	return nil
}
