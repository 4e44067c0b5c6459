// SPDX-License-Identifier: MIT
// Copyright (c) 2025 go-iecp5 contributors.

package cs104

import (
	"errors"
)

// error defined
var (
	ErrUseClosedConnection = errors.New("use of closed connection")
	ErrBufferFulled        = errors.New("buffer is full")
	ErrNotActive           = errors.New("server is not active")
	ErrServerClosed        = errors.New("server closed")

	// ErrFraming reports a malformed APCI header (bad start byte or length).
	ErrFraming = errors.New("malformed apci frame")
	// ErrSequence reports an invalid or out-of-window acknowledgement number.
	ErrSequence = errors.New("invalid sequence number")
	// ErrDecode reports an ASDU payload that failed to decode.
	ErrDecode = errors.New("asdu decode failed")
	// ErrHandlerDeclined is returned by an installed handler to signal a negative confirmation.
	ErrHandlerDeclined = errors.New("handler declined request")
	// ErrTimerT1 reports that t1 (send/ack-wait timeout) expired, a fatal condition.
	ErrTimerT1 = errors.New("ack timeout t1 expired")
)
