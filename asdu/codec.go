// SPDX-License-Identifier: MIT
// Copyright (c) 2025 go-iecp5 contributors.

package asdu

import (
	"encoding/binary"
	"math"
	"time"
)

// Low-level append/decode of information elements on the ASDU's payload.
// Decoders consume their octets from the front of infoObj; callers are
// responsible for bounds, which fixInfoObjSize established at unmarshal
// time.

func (sf *ASDU) appendBytes(b ...byte) *ASDU {
	sf.infoObj = append(sf.infoObj, b...)
	return sf
}

func (sf *ASDU) decodeByte() byte {
	v := sf.infoObj[0]
	sf.infoObj = sf.infoObj[1:]
	return v
}

func (sf *ASDU) appendUint16(b uint16) *ASDU {
	sf.infoObj = append(sf.infoObj, byte(b&0xff), byte((b>>8)&0xff))
	return sf
}

func (sf *ASDU) decodeUint16() uint16 {
	v := binary.LittleEndian.Uint16(sf.infoObj)
	sf.infoObj = sf.infoObj[2:]
	return v
}

// appendInfoObjAddr appends an information object address at the
// configured width, rejecting an address that does not fit.
func (sf *ASDU) appendInfoObjAddr(addr InfoObjAddr) error {
	switch sf.InfoObjAddrSize {
	case 1:
		if addr > 255 {
			return ErrInfoObjAddrFit
		}
		sf.infoObj = append(sf.infoObj, byte(addr))
	case 2:
		if addr > 65535 {
			return ErrInfoObjAddrFit
		}
		sf.infoObj = append(sf.infoObj, byte(addr), byte(addr>>8))
	case 3:
		if addr > 16777215 {
			return ErrInfoObjAddrFit
		}
		sf.infoObj = append(sf.infoObj, byte(addr), byte(addr>>8), byte(addr>>16))
	default:
		return ErrParam
	}
	return nil
}

func (sf *ASDU) decodeInfoObjAddr() InfoObjAddr {
	var ioa InfoObjAddr
	switch sf.InfoObjAddrSize {
	case 1:
		ioa = InfoObjAddr(sf.infoObj[0])
		sf.infoObj = sf.infoObj[1:]
	case 2:
		ioa = InfoObjAddr(sf.infoObj[0]) | (InfoObjAddr(sf.infoObj[1]) << 8)
		sf.infoObj = sf.infoObj[2:]
	case 3:
		ioa = InfoObjAddr(sf.infoObj[0]) | (InfoObjAddr(sf.infoObj[1]) << 8) | (InfoObjAddr(sf.infoObj[2]) << 16)
		sf.infoObj = sf.infoObj[3:]
	default:
		panic(ErrParam)
	}
	return ioa
}

func (sf *ASDU) appendNormalize(n Normalize) *ASDU {
	sf.infoObj = append(sf.infoObj, byte(n), byte(n>>8))
	return sf
}

func (sf *ASDU) decodeNormalize() Normalize {
	n := Normalize(binary.LittleEndian.Uint16(sf.infoObj))
	sf.infoObj = sf.infoObj[2:]
	return n
}

// See companion standard 101, subclass 7.2.6.7.
func (sf *ASDU) appendScaled(i int16) *ASDU {
	sf.infoObj = append(sf.infoObj, byte(i), byte(i>>8))
	return sf
}

func (sf *ASDU) decodeScaled() int16 {
	s := int16(binary.LittleEndian.Uint16(sf.infoObj))
	sf.infoObj = sf.infoObj[2:]
	return s
}

// See companion standard 101, subclass 7.2.6.8.
func (sf *ASDU) appendFloat32(f float32) *ASDU {
	bits := math.Float32bits(f)
	sf.infoObj = append(sf.infoObj, byte(bits), byte(bits>>8), byte(bits>>16), byte(bits>>24))
	return sf
}

func (sf *ASDU) decodeFloat32() float32 {
	f := math.Float32frombits(binary.LittleEndian.Uint32(sf.infoObj))
	sf.infoObj = sf.infoObj[4:]
	return f
}

// See companion standard 101, subclass 7.2.6.9.
func (sf *ASDU) appendBinaryCounterReading(v BinaryCounterReading) *ASDU {
	value := v.SeqNumber & 0x1f
	if v.HasCarry {
		value |= 0x20
	}
	if v.IsAdjusted {
		value |= 0x40
	}
	if v.IsInvalid {
		value |= 0x80
	}
	sf.infoObj = append(sf.infoObj, byte(v.CounterReading), byte(v.CounterReading>>8),
		byte(v.CounterReading>>16), byte(v.CounterReading>>24), value)
	return sf
}

func (sf *ASDU) decodeBinaryCounterReading() BinaryCounterReading {
	v := int32(binary.LittleEndian.Uint32(sf.infoObj))
	b := sf.infoObj[4]
	sf.infoObj = sf.infoObj[5:]
	return BinaryCounterReading{
		v,
		b & 0x1f,
		b&0x20 == 0x20,
		b&0x40 == 0x40,
		b&0x80 == 0x80,
	}
}

// See companion standard 101, subclass 7.2.6.13.
func (sf *ASDU) appendBitsString32(v uint32) *ASDU {
	sf.infoObj = append(sf.infoObj, byte(v), byte(v>>8), byte(v>>16), byte(v>>24))
	return sf
}

func (sf *ASDU) decodeBitsString32() uint32 {
	v := binary.LittleEndian.Uint32(sf.infoObj)
	sf.infoObj = sf.infoObj[4:]
	return v
}

func (sf *ASDU) appendCP56Time2a(t time.Time, loc *time.Location) *ASDU {
	sf.infoObj = append(sf.infoObj, CP56Time2a(t, loc)...)
	return sf
}

func (sf *ASDU) decodeCP56Time2a() time.Time {
	t := ParseCP56Time2a(sf.infoObj, sf.InfoObjTimeZone)
	sf.infoObj = sf.infoObj[7:]
	return t
}

func (sf *ASDU) appendCP24Time2a(t time.Time, loc *time.Location) *ASDU {
	sf.infoObj = append(sf.infoObj, CP24Time2a(t, loc)...)
	return sf
}

func (sf *ASDU) decodeCP24Time2a() time.Time {
	t := ParseCP24Time2a(sf.infoObj, sf.Params.InfoObjTimeZone)
	sf.infoObj = sf.infoObj[3:]
	return t
}

func (sf *ASDU) appendCP16Time2a(msec uint16) *ASDU {
	sf.infoObj = append(sf.infoObj, CP16Time2a(msec)...)
	return sf
}

func (sf *ASDU) decodeCP16Time2a() uint16 {
	t := ParseCP16Time2a(sf.infoObj)
	sf.infoObj = sf.infoObj[2:]
	return t
}

// See companion standard 101, subclass 7.2.6.40.
func (sf *ASDU) appendStatusAndStatusChangeDetection(scd StatusAndStatusChangeDetection) *ASDU {
	sf.infoObj = append(sf.infoObj, byte(scd), byte(scd>>8), byte(scd>>16), byte(scd>>24))
	return sf
}

func (sf *ASDU) decodeStatusAndStatusChangeDetection() StatusAndStatusChangeDetection {
	s := StatusAndStatusChangeDetection(binary.LittleEndian.Uint32(sf.infoObj))
	sf.infoObj = sf.infoObj[4:]
	return s
}
