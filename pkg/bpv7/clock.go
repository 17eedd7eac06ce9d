// SPDX-FileCopyrightText: 2019, 2020 Alvar Penning
//
// SPDX-License-Identifier: GPL-3.0-or-later

package bpv7

import (
	"sync/atomic"

	log "github.com/sirupsen/logrus"
)

// Clock hands out CreationTimestamps for newly created Bundles.
type Clock interface {
	// Now returns a CreationTimestamp which is ordered after each one
	// previously returned by this Clock.
	Now() CreationTimestamp
}

// sequencerState is the last issued millisecond and the next sequence number
// to issue for it. A state is never modified after being published.
type sequencerState struct {
	time DtnTime
	next uint64
}

// Sequencer is a lock-free Clock. Within one millisecond the sequence numbers
// count upwards from zero and are reset for each new millisecond.
//
// Time and sequence number are advanced together by a single compare-and-swap
// of the whole state. Thus, concurrent callers can neither both reset the
// sequence number for the same new millisecond nor receive the same tuple.
// If the time source goes backwards, the last issued millisecond is kept and
// its sequence number continues to increase.
//
// The zero value is ready to use and is driven by DtnTimeNow.
type Sequencer struct {
	timeSource func() DtnTime
	state      atomic.Pointer[sequencerState]
}

// NewSequencer creates a Sequencer driven by the given time source. A nil
// time source falls back to DtnTimeNow.
func NewSequencer(timeSource func() DtnTime) *Sequencer {
	return &Sequencer{timeSource: timeSource}
}

func (s *Sequencer) currentTime() DtnTime {
	if s.timeSource == nil {
		return DtnTimeNow()
	}
	return s.timeSource()
}

// Now returns the next CreationTimestamp.
func (s *Sequencer) Now() CreationTimestamp {
	for {
		current := s.currentTime()
		old := s.state.Load()

		next := &sequencerState{time: current, next: 1}
		if old != nil && current <= old.time {
			if current < old.time {
				log.WithFields(log.Fields{
					"last":    old.time,
					"current": current,
				}).Debug("Sequencer's time source went backwards, keeping last time")
			}

			next = &sequencerState{time: old.time, next: old.next + 1}
		}

		if s.state.CompareAndSwap(old, next) {
			return NewCreationTimestamp(next.time, next.next-1)
		}
	}
}

// defaultClock is shared by the whole process.
var defaultClock Sequencer

// DefaultClock returns the process-wide Clock, driven by the system clock.
func DefaultClock() Clock {
	return &defaultClock
}

// CreationTimestampNow returns the next CreationTimestamp of the DefaultClock.
func CreationTimestampNow() CreationTimestamp {
	return defaultClock.Now()
}
