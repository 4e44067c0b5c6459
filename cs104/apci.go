// SPDX-License-Identifier: MIT
// Copyright (c) 2025 go-iecp5 contributors.

package cs104

import (
	"fmt"

	"github.com/scadalink/iec104proxy/asdu"
)

// startFrame is the fixed first octet of every APDU.
const startFrame byte = 0x68

// An APDU is at most 255 octets on the wire:
//
//	| start 0x68 | length L | control field (4) | ASDU (0..249) |
//
// L counts the control field plus the ASDU, so the on-wire size is L+2.
const (
	APCICtlFieldSize = 4

	APDUSizeMax      = 255
	APDUFieldSizeMax = APCICtlFieldSize + asdu.ASDUSizeMax
)

// U-frame function bits, carried in the first control octet.
// Exactly one may be set; bits 0-1 are the frame-type discriminator.
const (
	uStartDtActive  byte = 4 << iota // 0x04 STARTDT act
	uStartDtConfirm                  // 0x08 STARTDT con
	uStopDtActive                    // 0x10 STOPDT act
	uStopDtConfirm                   // 0x20 STOPDT con
	uTestFrActive                    // 0x40 TESTFR act
	uTestFrConfirm                   // 0x80 TESTFR con
)

// iAPCI is the control field of an I-frame: numbered information
// transfer, carrying both sequence counters and an ASDU payload.
type iAPCI struct {
	sendSN, rcvSN uint16
}

func (sf iAPCI) String() string {
	return fmt.Sprintf("I[sendNO: %d, recvNO: %d]", sf.sendSN, sf.rcvSN)
}

// sAPCI is the control field of an S-frame: a bare supervisory
// acknowledgement of received I-frames.
type sAPCI struct {
	rcvSN uint16
}

func (sf sAPCI) String() string {
	return fmt.Sprintf("S[recvNO: %d]", sf.rcvSN)
}

// uAPCI is the control field of a U-frame: unnumbered control
// information, one of the six STARTDT/STOPDT/TESTFR functions.
type uAPCI struct {
	function byte
}

func (sf uAPCI) String() string {
	var s string
	switch sf.function {
	case uStartDtActive:
		s = "StartDtActive"
	case uStartDtConfirm:
		s = "StartDtConfirm"
	case uStopDtActive:
		s = "StopDtActive"
	case uStopDtConfirm:
		s = "StopDtConfirm"
	case uTestFrActive:
		s = "TestFrActive"
	case uTestFrConfirm:
		s = "TestFrConfirm"
	default:
		s = "Unknown"
	}
	return fmt.Sprintf("U[function: %s]", s)
}

// newIFrame assembles an I-frame APDU around asdus. The 15-bit counters
// occupy the upper bits of each little-endian pair; bit 0 of the first
// octet is the frame-type discriminator and stays 0.
func newIFrame(sendSN, rcvSN uint16, asdus []byte) ([]byte, error) {
	if len(asdus) > asdu.ASDUSizeMax {
		return nil, fmt.Errorf("ASDU size %d exceeds max %d", len(asdus), asdu.ASDUSizeMax)
	}

	b := make([]byte, len(asdus)+6)
	b[0] = startFrame
	b[1] = byte(len(asdus) + APCICtlFieldSize)
	b[2] = byte(sendSN << 1)
	b[3] = byte(sendSN >> 7)
	b[4] = byte(rcvSN << 1)
	b[5] = byte(rcvSN >> 7)
	copy(b[6:], asdus)
	return b, nil
}

// newSFrame assembles an S-frame APDU acknowledging everything before rcvSN.
func newSFrame(rcvSN uint16) []byte {
	return []byte{startFrame, 4, 0x01, 0x00, byte(rcvSN << 1), byte(rcvSN >> 7)}
}

// newUFrame assembles a U-frame APDU for the given function bit.
func newUFrame(which byte) []byte {
	return []byte{startFrame, 4, which | 0x03, 0x00, 0x00, 0x00}
}

// parse splits a framed APDU into its typed control field and the
// remaining ASDU bytes. The frame kind is discriminated by the low bits
// of the first control octet: xxxxxxx0 I, xxxxxx01 S, xxxxxx11 U.
// Callers have already validated the start octet and length.
func parse(apdu []byte) (interface{}, []byte) {
	ctr1, ctr2, ctr3, ctr4 := apdu[2], apdu[3], apdu[4], apdu[5]
	switch {
	case ctr1&0x01 == 0:
		return iAPCI{
			sendSN: uint16(ctr1)>>1 + uint16(ctr2)<<7,
			rcvSN:  uint16(ctr3)>>1 + uint16(ctr4)<<7,
		}, apdu[6:]
	case ctr1&0x03 == 0x01:
		return sAPCI{
			rcvSN: uint16(ctr3)>>1 + uint16(ctr4)<<7,
		}, apdu[6:]
	default: // ctr1&0x03 == 0x03
		return uAPCI{function: ctr1 & 0xfc}, apdu[6:]
	}
}
