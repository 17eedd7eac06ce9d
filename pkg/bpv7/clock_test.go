// SPDX-FileCopyrightText: 2020 Alvar Penning
//
// SPDX-License-Identifier: GPL-3.0-or-later

package bpv7

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedTime is a manually advanced time source.
type fixedTime struct {
	now atomic.Uint64
}

func (ft *fixedTime) source() DtnTime {
	return DtnTime(ft.now.Load())
}

func TestSequencerSameMillisecond(t *testing.T) {
	ft := &fixedTime{}
	ft.now.Store(1000)
	s := NewSequencer(ft.source)

	for i := uint64(0); i < 5; i++ {
		assert.Equal(t, NewCreationTimestamp(1000, i), s.Now())
	}
}

func TestSequencerNewMillisecond(t *testing.T) {
	ft := &fixedTime{}
	ft.now.Store(1000)
	s := NewSequencer(ft.source)

	assert.Equal(t, NewCreationTimestamp(1000, 0), s.Now())
	assert.Equal(t, NewCreationTimestamp(1000, 1), s.Now())

	ft.now.Store(1001)
	assert.Equal(t, NewCreationTimestamp(1001, 0), s.Now())
	assert.Equal(t, NewCreationTimestamp(1001, 1), s.Now())
}

func TestSequencerBackwards(t *testing.T) {
	ft := &fixedTime{}
	ft.now.Store(1000)
	s := NewSequencer(ft.source)

	assert.Equal(t, NewCreationTimestamp(1000, 0), s.Now())

	ft.now.Store(900)
	assert.Equal(t, NewCreationTimestamp(1000, 1), s.Now())
	assert.Equal(t, NewCreationTimestamp(1000, 2), s.Now())

	ft.now.Store(1200)
	assert.Equal(t, NewCreationTimestamp(1200, 0), s.Now())
}

func TestSequencerConcurrent(t *testing.T) {
	const (
		workers = 16
		rounds  = 500
	)

	ft := &fixedTime{}
	ft.now.Store(1)
	s := NewSequencer(ft.source)

	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		all = make(map[CreationTimestamp]bool)
	)

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()

			var last CreationTimestamp
			for r := 0; r < rounds; r++ {
				if w == 0 && r%50 == 0 {
					ft.now.Add(1)
				}

				ct := s.Now()
				if r > 0 {
					assert.True(t, last.Before(ct), "%v is not before %v", last, ct)
				}
				last = ct

				mu.Lock()
				all[ct] = true
				mu.Unlock()
			}
		}(w)
	}
	wg.Wait()

	require.Len(t, all, workers*rounds)
}

func TestDefaultClock(t *testing.T) {
	ct1 := CreationTimestampNow()
	ct2 := DefaultClock().Now()

	assert.True(t, ct1.Before(ct2))
	assert.False(t, ct2.IsZeroTime())
}
