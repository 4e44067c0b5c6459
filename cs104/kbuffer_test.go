// SPDX-License-Identifier: MIT
// Copyright (c) 2025 go-iecp5 contributors.

package cs104

import (
	"testing"
	"time"
)

func TestKBufferEmptyAckMustMatchNextSend(t *testing.T) {
	b := newKBuffer(4)
	if !b.confirmUpTo(0, 0) {
		t.Fatalf("empty buffer should accept ack == nextSendNo")
	}
	if b.confirmUpTo(1, 0) {
		t.Fatalf("empty buffer should reject ack != nextSendNo")
	}
}

func TestKBufferBound(t *testing.T) {
	b := newKBuffer(2)
	if b.isFull() {
		t.Fatalf("fresh buffer should not be full")
	}
	b.append(0, time.Now())
	if b.isFull() {
		t.Fatalf("buffer with 1/2 entries should not be full")
	}
	b.append(1, time.Now())
	if !b.isFull() {
		t.Fatalf("buffer with 2/2 entries should be full")
	}
}

func TestKBufferAckCumulative(t *testing.T) {
	b := newKBuffer(8)
	for i := uint16(0); i < 5; i++ {
		b.append(i, time.Now())
	}
	// N_R = 2 confirms frames 0 and 1; frames 2,3,4 remain outstanding.
	if !b.confirmUpTo(2, 5) {
		t.Fatalf("expected ack of 2 to be accepted")
	}
	if b.len() != 3 {
		t.Fatalf("expected 3 entries remaining, got %d", b.len())
	}
	if b.oldest() != 2 {
		t.Fatalf("expected oldest == 2, got %d", b.oldest())
	}
	// N_R = nextSendNo confirms everything outstanding.
	if !b.confirmUpTo(5, 5) {
		t.Fatalf("expected ack of nextSendNo to be accepted")
	}
	if !b.isEmpty() {
		t.Fatalf("expected buffer empty after full ack, len=%d", b.len())
	}
}

func TestKBufferReAckOfLastConfirmedIsNoOp(t *testing.T) {
	b := newKBuffer(8)
	b.append(5, time.Now())
	b.append(6, time.Now())
	// oldestSeq == 5, so the "already confirmed" re-ack value is 4.
	if !b.confirmUpTo(4, 7) {
		t.Fatalf("re-ack of oldestSeq-1 should be accepted as a no-op")
	}
	if b.len() != 2 {
		t.Fatalf("re-ack no-op must not remove any entries, len=%d", b.len())
	}
}

func TestKBufferReAckOfLastConfirmedWrapsAtZero(t *testing.T) {
	b := newKBuffer(8)
	b.append(0, time.Now())
	// oldestSeq == 0, so the no-op re-ack value wraps to 32767.
	if !b.confirmUpTo(32767, 1) {
		t.Fatalf("re-ack of 32767 (== 0-1 mod 32768) should be accepted as a no-op")
	}
	if b.len() != 1 {
		t.Fatalf("re-ack no-op must not remove any entries, len=%d", b.len())
	}
}

func TestKBufferWrapCorrectness(t *testing.T) {
	b := newKBuffer(4)
	start := uint16(32765)
	for i := 0; i < 4; i++ {
		b.append((start+uint16(i))&32767, time.Now())
	}
	next := (start + 4) & 32767 // wrapped next-to-send, == 1
	// ack each frame in order with N_R = seq+1; all entries removed and
	// the buffer ends empty.
	for i := 0; i < 4; i++ {
		ack := (start + uint16(i) + 1) & 32767
		if !b.confirmUpTo(ack, next) {
			t.Fatalf("wrapped ack %d should be accepted", ack)
		}
	}
	if !b.isEmpty() {
		t.Fatalf("expected buffer empty after acking every wrapped entry, len=%d", b.len())
	}
	if b.oldest() != -1 {
		t.Fatalf("expected oldest()==-1 on empty buffer, got %d", b.oldest())
	}
}

func TestKBufferOutOfRangeAckRejected(t *testing.T) {
	b := newKBuffer(8)
	b.append(10, time.Now())
	b.append(11, time.Now())
	if b.confirmUpTo(20, 12) {
		t.Fatalf("ack far outside [oldest,newest] must be rejected")
	}
	if b.len() != 2 {
		t.Fatalf("a rejected ack must not mutate the buffer")
	}
}
