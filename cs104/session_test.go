// SPDX-License-Identifier: MIT
// Copyright (c) 2025 go-iecp5 contributors.

package cs104

import (
	"bytes"
	"context"
	"io"
	"net"
	"testing"
	"time"

	"github.com/scadalink/iec104proxy/asdu"
	"github.com/scadalink/iec104proxy/clog"
)

// startTestSession runs a SrvSession over one end of a net.Pipe and
// returns the master-side conn driving it with raw APDU bytes.
func startTestSession(t *testing.T, handler asdu.Handler) (net.Conn, context.CancelFunc) {
	return startTestSessionWithConfig(t, handler, DefaultConfig(), nil)
}

func startTestSessionWithConfig(t *testing.T, handler asdu.Handler, cfg Config, clk Clock) (net.Conn, context.CancelFunc) {
	t.Helper()
	masterConn, slaveConn := net.Pipe()
	sess := &SrvSession{
		config:   &cfg,
		params:   asdu.ParamsWide,
		handler:  handler,
		conn:     slaveConn,
		rcvASDU:  make(chan []byte, 64),
		sendASDU: make(chan []byte, 64),
		rcvRaw:   make(chan []byte, 64),
		sendRaw:  make(chan []byte, 64),
		clock:    clk,
		Clog:     clog.NewLogger("test session => "),
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = sess.run(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		_ = masterConn.Close()
		select {
		case <-done:
		case <-time.After(3 * time.Second):
			t.Errorf("session did not stop")
		}
	})
	return masterConn, cancel
}

// readAPDU reads exactly one framed APDU from conn.
func readAPDU(t *testing.T, conn net.Conn) []byte {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	head := make([]byte, 2)
	if _, err := io.ReadFull(conn, head); err != nil {
		t.Fatalf("read APDU header: %v", err)
	}
	if head[0] != startFrame {
		t.Fatalf("bad start octet 0x%02x", head[0])
	}
	body := make([]byte, int(head[1]))
	if _, err := io.ReadFull(conn, body); err != nil {
		t.Fatalf("read APDU body: %v", err)
	}
	return append(head, body...)
}

func writeRaw(t *testing.T, conn net.Conn, b []byte) {
	t.Helper()
	_ = conn.SetWriteDeadline(time.Now().Add(2 * time.Second))
	if _, err := conn.Write(b); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestSessionStartDialog(t *testing.T) {
	master, _ := startTestSession(t, nil)

	// STARTDT act is answered with STARTDT con and nothing else.
	writeRaw(t, master, []byte{0x68, 0x04, 0x07, 0x00, 0x00, 0x00})
	got := readAPDU(t, master)
	want := []byte{0x68, 0x04, 0x0b, 0x00, 0x00, 0x00}
	if !bytes.Equal(got, want) {
		t.Fatalf("STARTDT con = [% x], want [% x]", got, want)
	}
}

func TestSessionTestFrameExchange(t *testing.T) {
	master, _ := startTestSession(t, nil)

	// TESTFR works without data transfer being started.
	writeRaw(t, master, []byte{0x68, 0x04, 0x43, 0x00, 0x00, 0x00})
	got := readAPDU(t, master)
	want := []byte{0x68, 0x04, 0x83, 0x00, 0x00, 0x00}
	if !bytes.Equal(got, want) {
		t.Fatalf("TESTFR con = [% x], want [% x]", got, want)
	}
}

func TestSessionStopDTIsIdempotent(t *testing.T) {
	master, _ := startTestSession(t, nil)

	writeRaw(t, master, []byte{0x68, 0x04, 0x07, 0x00, 0x00, 0x00})
	_ = readAPDU(t, master) // STARTDT con

	for i := 0; i < 2; i++ {
		writeRaw(t, master, []byte{0x68, 0x04, 0x13, 0x00, 0x00, 0x00})
		got := readAPDU(t, master)
		want := []byte{0x68, 0x04, 0x23, 0x00, 0x00, 0x00}
		if !bytes.Equal(got, want) {
			t.Fatalf("STOPDT con %d = [% x], want [% x]", i, got, want)
		}
	}
}

func TestSessionSequenceErrorClosesConnection(t *testing.T) {
	master, _ := startTestSession(t, nil)

	writeRaw(t, master, []byte{0x68, 0x04, 0x07, 0x00, 0x00, 0x00})
	_ = readAPDU(t, master) // STARTDT con

	// I-frame with N_S = 6 while the session expects 0.
	writeRaw(t, master, []byte{0x68, 0x04, 0x0c, 0x00, 0x00, 0x00})

	_ = master.SetReadDeadline(time.Now().Add(3 * time.Second))
	buf := make([]byte, 1)
	if _, err := master.Read(buf); err == nil {
		t.Fatalf("expected the connection to be closed after a sequence error")
	}
}

func TestSessionTestCommandMirrorAndAck(t *testing.T) {
	master, _ := startTestSession(t, nil)

	writeRaw(t, master, []byte{0x68, 0x04, 0x07, 0x00, 0x00, 0x00})
	_ = readAPDU(t, master) // STARTDT con

	// I-frame N_S=0 N_R=0 carrying C_TS_NA_1 activation (ParamsWide layout).
	writeRaw(t, master, []byte{
		0x68, 0x0f, 0x00, 0x00, 0x00, 0x00,
		0x68,       // C_TS_NA_1
		0x01,       // VSQ, one object
		0x06, 0x00, // COT activation, originator 0
		0x01, 0x00, // common address 1
		0x00, 0x00, 0x00, // IOA 0
		0xaa, 0x55, // FBP test word
	})

	// The mirror comes back as an I-frame with sendSN 0 and rcvSN 1, the
	// piggybacked acknowledgement of our frame.
	got := readAPDU(t, master)
	want := []byte{
		0x68, 0x0f, 0x00, 0x00, 0x02, 0x00,
		0x68,
		0x01,
		0x07, 0x00, // COT activation con
		0x01, 0x00,
		0x00, 0x00, 0x00,
		0xaa, 0x55,
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("test command mirror = [% x], want [% x]", got, want)
	}

	// Acknowledge the session's I-frame; the link must stay healthy.
	writeRaw(t, master, []byte{0x68, 0x04, 0x01, 0x00, 0x02, 0x00})
	writeRaw(t, master, []byte{0x68, 0x04, 0x43, 0x00, 0x00, 0x00})
	got = readAPDU(t, master)
	if !bytes.Equal(got, []byte{0x68, 0x04, 0x83, 0x00, 0x00, 0x00}) {
		t.Fatalf("TESTFR con after ack = [% x]", got)
	}
}

func TestSessionUnknownTypeNegativeReply(t *testing.T) {
	master, _ := startTestSession(t, nil)

	writeRaw(t, master, []byte{0x68, 0x04, 0x07, 0x00, 0x00, 0x00})
	_ = readAPDU(t, master) // STARTDT con

	// TypeID 200 is unknown to the dispatcher and no catch-all handler is
	// installed: expect the same ASDU back, negative, COT unknown type id.
	writeRaw(t, master, []byte{
		0x68, 0x0d, 0x00, 0x00, 0x00, 0x00,
		200,        // unrecognized TypeID
		0x01,       // VSQ, one object
		0x06, 0x00, // COT activation
		0x01, 0x00, // common address 1
		0x00, 0x00, 0x00, // IOA 0
	})

	got := readAPDU(t, master)
	if got[6] != 200 {
		t.Fatalf("reply TypeID = %d, want 200", got[6])
	}
	if got[8] != byte(asdu.UnknownTypeID)|0x40 {
		t.Fatalf("reply COT = 0x%02x, want negative unknown-type-id", got[8])
	}
	if got[2] != 0x00 || got[4] != 0x02 {
		t.Fatalf("reply I-frame counters = [% x], want sendSN 0 rcvSN 1", got[2:6])
	}
}

func TestSessionAckAfterWReceivedIFrames(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RecvUnAckLimitW = 1
	master, _ := startTestSessionWithConfig(t, nil, cfg, nil)

	writeRaw(t, master, []byte{0x68, 0x04, 0x07, 0x00, 0x00, 0x00})
	_ = readAPDU(t, master) // STARTDT con

	// With w = 1 a single received I-frame forces an immediate S-frame
	// carrying the advanced receive counter, ahead of the mirrored reply.
	writeRaw(t, master, []byte{
		0x68, 0x0f, 0x00, 0x00, 0x00, 0x00,
		0x68, 0x01, 0x06, 0x00, 0x01, 0x00,
		0x00, 0x00, 0x00,
		0xaa, 0x55,
	})

	got := readAPDU(t, master)
	want := []byte{0x68, 0x04, 0x01, 0x00, 0x02, 0x00}
	if !bytes.Equal(got, want) {
		t.Fatalf("S-frame = [% x], want [% x]", got, want)
	}
}

func TestSessionIdleProbeAndT1Timeout(t *testing.T) {
	clk := newFakeClock(time.Now())
	master, _ := startTestSessionWithConfig(t, nil, DefaultConfig(), clk)

	writeRaw(t, master, []byte{0x68, 0x04, 0x07, 0x00, 0x00, 0x00})
	_ = readAPDU(t, master) // STARTDT con

	// After t3 of idle the session probes the link with TESTFR act.
	clk.Advance(21 * time.Second)
	got := readAPDU(t, master)
	want := []byte{0x68, 0x04, 0x43, 0x00, 0x00, 0x00}
	if !bytes.Equal(got, want) {
		t.Fatalf("TESTFR act = [% x], want [% x]", got, want)
	}

	// No TESTFR con within t1: the session must give up the connection.
	clk.Advance(16 * time.Second)
	_ = master.SetReadDeadline(time.Now().Add(3 * time.Second))
	buf := make([]byte, 1)
	if _, err := master.Read(buf); err == nil {
		t.Fatalf("expected the connection to be closed after t1 expiry")
	}
}
