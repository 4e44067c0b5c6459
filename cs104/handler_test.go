package cs104

import (
	"testing"

	"github.com/scadalink/iec104proxy/asdu"
	"github.com/scadalink/iec104proxy/clog"
)

type captureHandler struct {
	msgs []asdu.Message
}

func (h *captureHandler) Handle(c asdu.Connect, msg asdu.Message) error {
	h.msgs = append(h.msgs, msg)
	return nil
}

func TestClientHandlerDispatch(t *testing.T) {
	opt := NewOption()
	opt.SetParams(asdu.ParamsNarrow)

	h := &captureHandler{}
	c := NewClient(h, opt)

	raw := []byte{
		byte(asdu.M_SP_NA_1),
		0x01, // VSQ number=1
		byte(asdu.Spontaneous),
		0x01, // common addr
		0x01, // IOA
		0x01, // value on
	}
	a := asdu.NewEmptyASDU(asdu.ParamsNarrow)
	if err := a.UnmarshalBinary(raw); err != nil {
		t.Fatalf("UnmarshalBinary failed: %v", err)
	}

	if err := c.clientHandler(a); err != nil {
		t.Fatalf("clientHandler failed: %v", err)
	}
	if len(h.msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(h.msgs))
	}
	if _, ok := h.msgs[0].(*asdu.SinglePointMsg); !ok {
		t.Fatalf("unexpected message type: %T", h.msgs[0])
	}
}

// TestServerHandlerDispatch verifies that a system command type with its
// own dedicated handler slot is routed there, not to the catch-all, when
// that handler is installed.
func TestServerHandlerDispatch(t *testing.T) {
	h := &captureHandler{}
	claimed := false
	sess := &SrvSession{
		params:  asdu.ParamsNarrow,
		handler: h,
		interrogationHandler: func(c asdu.Connect, ca asdu.CommonAddr, qoi asdu.QualifierOfInterrogation) error {
			claimed = true
			return nil
		},
		sendASDU: make(chan []byte, 4),
		Clog:     clog.NewLogger("test"),
		status:   connected,
		isActive: active,
	}

	raw := []byte{
		byte(asdu.C_IC_NA_1),
		0x01, // VSQ number=1
		byte(asdu.Activation),
		0x01, // common addr
		0x00, // IOA
		byte(asdu.QOIStation),
	}
	a := asdu.NewEmptyASDU(asdu.ParamsNarrow)
	if err := a.UnmarshalBinary(raw); err != nil {
		t.Fatalf("UnmarshalBinary failed: %v", err)
	}

	if err := sess.serverHandler(a); err != nil {
		t.Fatalf("serverHandler failed: %v", err)
	}
	if !claimed {
		t.Fatalf("interrogationHandler was not invoked")
	}
	if len(h.msgs) != 0 {
		t.Fatalf("catch-all handler should not run when a specialized handler is installed, got %d msgs", len(h.msgs))
	}
	// ACT_CON then ACT_TERM, both positive.
	for i, wantNeg := range []bool{false, false} {
		select {
		case raw := <-sess.sendASDU:
			reply := asdu.NewEmptyASDU(asdu.ParamsNarrow)
			if err := reply.UnmarshalBinary(raw); err != nil {
				t.Fatalf("reply %d: UnmarshalBinary failed: %v", i, err)
			}
			if reply.Coa.IsNegative != wantNeg {
				t.Fatalf("reply %d: IsNegative = %v, want %v", i, reply.Coa.IsNegative, wantNeg)
			}
		default:
			t.Fatalf("reply %d: expected a queued response", i)
		}
	}
}

// TestServerHandlerMissingHandlerIsUnknownCOT verifies that a command
// TypeID with a dedicated handler slot but no installed handler gets a
// negative UnknownCOT reply, not a silent fall-through to the catch-all.
func TestServerHandlerMissingHandlerIsUnknownCOT(t *testing.T) {
	h := &captureHandler{}
	sess := &SrvSession{
		params:   asdu.ParamsNarrow,
		handler:  h,
		sendASDU: make(chan []byte, 4),
		Clog:     clog.NewLogger("test"),
		status:   connected,
		isActive: active,
	}

	raw := []byte{
		byte(asdu.C_IC_NA_1),
		0x01,
		byte(asdu.Activation),
		0x01,
		0x00,
		byte(asdu.QOIStation),
	}
	a := asdu.NewEmptyASDU(asdu.ParamsNarrow)
	if err := a.UnmarshalBinary(raw); err != nil {
		t.Fatalf("UnmarshalBinary failed: %v", err)
	}

	if err := sess.serverHandler(a); err != nil {
		t.Fatalf("serverHandler failed: %v", err)
	}
	if len(h.msgs) != 0 {
		t.Fatalf("catch-all must not run for a TypeID with its own table entry, got %d msgs", len(h.msgs))
	}
	select {
	case raw := <-sess.sendASDU:
		reply := asdu.NewEmptyASDU(asdu.ParamsNarrow)
		if err := reply.UnmarshalBinary(raw); err != nil {
			t.Fatalf("UnmarshalBinary failed: %v", err)
		}
		if !reply.Coa.IsNegative || reply.Coa.Cause != asdu.UnknownCOT {
			t.Fatalf("got cause %v negative=%v, want UnknownCOT negative", reply.Coa.Cause, reply.Coa.IsNegative)
		}
	default:
		t.Fatalf("expected a queued UnknownCOT reply")
	}
}

// TestServerHandlerCatchAllOnUnknownType verifies that a TypeID with no
// dedicated handler slot reaches the generic catch-all handler, and gets
// a negative UnknownTypeID reply when the catch-all declines it.
func TestServerHandlerCatchAllOnUnknownType(t *testing.T) {
	h := &decliningHandler{}
	sess := &SrvSession{
		params:   asdu.ParamsNarrow,
		handler:  h,
		sendASDU: make(chan []byte, 4),
		Clog:     clog.NewLogger("test"),
		status:   connected,
		isActive: active,
	}

	raw := []byte{
		200, // TypeID with no dedicated table entry
		0x01,
		byte(asdu.Activation),
		0x01,
		0x00,
		0x00,
	}
	a := asdu.NewEmptyASDU(asdu.ParamsNarrow)
	if err := a.UnmarshalBinary(raw); err != nil {
		t.Fatalf("UnmarshalBinary failed: %v", err)
	}

	if err := sess.serverHandler(a); err != nil {
		t.Fatalf("serverHandler failed: %v", err)
	}
	if !h.called {
		t.Fatalf("catch-all handler was not invoked for an unrecognized TypeID")
	}
	select {
	case raw := <-sess.sendASDU:
		reply := asdu.NewEmptyASDU(asdu.ParamsNarrow)
		if err := reply.UnmarshalBinary(raw); err != nil {
			t.Fatalf("UnmarshalBinary failed: %v", err)
		}
		if !reply.Coa.IsNegative || reply.Coa.Cause != asdu.UnknownTypeID {
			t.Fatalf("got cause %v negative=%v, want UnknownTypeID negative", reply.Coa.Cause, reply.Coa.IsNegative)
		}
	default:
		t.Fatalf("expected a queued UnknownTypeID reply")
	}
}

type decliningHandler struct {
	called bool
}

func (h *decliningHandler) Handle(c asdu.Connect, msg asdu.Message) error {
	h.called = true
	return asdu.ErrCmdCause
}
