// SPDX-License-Identifier: MIT
// Copyright (c) 2025 go-iecp5 contributors.

package cs104

import "time"

// kBuffer holds the unacknowledged outbound I-frames of a connection, in
// order of transmission. It mirrors the sent-but-unconfirmed window
// described by IEC 60870-5-104 subclause 5.5 ("k"): at most limit entries
// may be outstanding at once. Each entry records the N_S actually written
// on the wire, so the sequence numbers stored run from the oldest
// unconfirmed frame through nextSendNo-1.
type kBuffer struct {
	entries []seqPending
	limit   uint16
}

func newKBuffer(limit uint16) kBuffer {
	return kBuffer{limit: limit}
}

// isFull reports whether k unacknowledged I-frames are already outstanding.
func (b *kBuffer) isFull() bool {
	return uint16(len(b.entries)) >= b.limit
}

// append records a newly sent I-frame's sequence number.
func (b *kBuffer) append(seq uint16, sentAt time.Time) {
	b.entries = append(b.entries, seqPending{seq: seq, sendTime: sentAt})
}

// oldest returns the sequence number of the oldest unacknowledged I-frame,
// or -1 if the buffer is empty.
func (b *kBuffer) oldest() int32 {
	if len(b.entries) == 0 {
		return -1
	}
	return int32(b.entries[0].seq)
}

// oldestSentTime returns the send time of the oldest unacknowledged I-frame.
// Callers must check isEmpty first.
func (b *kBuffer) oldestSentTime() time.Time {
	return b.entries[0].sendTime
}

func (b *kBuffer) isEmpty() bool {
	return len(b.entries) == 0
}

// confirmUpTo implements the acknowledgement check of IEC 60870-5-104
// subclause 5.5: an incoming N_R (ackNo) names the next frame the peer
// expects, cumulatively confirming every outstanding I-frame with a
// sequence number strictly before it. It reports whether ackNo was a
// valid acknowledgement.
//
// Three cases, checked in order:
//  1. Buffer empty: valid iff ackNo == nextSendNo (everything sent is
//     already confirmed).
//  2. ackNo == (oldestSeq-1) mod 32768: a stale duplicate of an earlier
//     acknowledgement. Accepted as a no-op; the buffer is left untouched.
//  3. Otherwise valid iff ackNo lies in the cyclic range [oldestSeq,
//     nextSendNo], accounting for 15-bit wraparound; ackNo == oldestSeq
//     confirms nothing new, ackNo == nextSendNo drains the window.
func (b *kBuffer) confirmUpTo(ackNo, nextSendNo uint16) bool {
	if len(b.entries) == 0 {
		return ackNo == nextSendNo
	}
	oldestSeq := b.entries[0].seq

	if ackNo == seqNoPrev(oldestSeq) {
		return true // stale re-ack of the already-confirmed predecessor
	}

	inRange := false
	if oldestSeq <= nextSendNo {
		inRange = ackNo >= oldestSeq && ackNo <= nextSendNo
	} else {
		inRange = ackNo >= oldestSeq || ackNo <= nextSendNo
	}
	if !inRange {
		return false
	}

	// drop every entry before ackNo; the frame numbered ackNo itself has
	// not been acknowledged and stays
	i := 0
	for ; i < len(b.entries); i++ {
		if b.entries[i].seq == ackNo {
			break
		}
	}
	b.entries = b.entries[i:]
	return true
}

// reset discards all entries, used on reconnect.
func (b *kBuffer) reset() {
	b.entries = nil
}

// len returns the number of unacknowledged I-frames outstanding.
func (b *kBuffer) len() int {
	return len(b.entries)
}
