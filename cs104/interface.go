// SPDX-License-Identifier: MIT
// Copyright (c) 2025 go-iecp5 contributors.

package cs104

import "github.com/scadalink/iec104proxy/asdu"

// Handler is the catch-all application handler a Client dispatches parsed
// ASDUs to. The controlled-station side uses asdu.Handler plus the typed
// handler slots on SrvSession.
type Handler interface {
	Handle(asdu.Connect, asdu.Message) error
}
