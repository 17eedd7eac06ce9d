// SPDX-FileCopyrightText: 2018, 2019, 2020 Alvar Penning
//
// SPDX-License-Identifier: GPL-3.0-or-later

package bpv7

import (
	"encoding/json"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
)

// DtnTime is an integer representation of milliseconds since the start of the year 2000 (UTC).
type DtnTime uint64

const (
	// SecondsFrom1970To2k is the offset between the Unix and the DTN epoch.
	SecondsFrom1970To2k = 946684800

	milliseconds1970To2k = SecondsFrom1970To2k * 1000

	milliToSec int64 = 1000

	// DtnTimeEpoch represents the zero timestamp/epoch.
	DtnTimeEpoch DtnTime = 0
)

// unixMilliseconds returns the DntTime's milliseconds since Unix epoch.
func (t DtnTime) unixMilliseconds() int64 {
	return int64(t) + milliseconds1970To2k
}

// UnixTimestamp returns the seconds since Unix epoch.
func (t DtnTime) UnixTimestamp() uint64 {
	return uint64(t)/uint64(milliToSec) + SecondsFrom1970To2k
}

// Time returns a UTC-based time.Time for this DtnTime.
func (t DtnTime) Time() time.Time {
	return time.UnixMilli(t.unixMilliseconds()).UTC()
}

// String returns this DtnTime's string representation.
func (t DtnTime) String() string {
	return t.Time().Format("2006-01-02 15:04:05.000")
}

// RFC3339 returns this DtnTime formatted as RFC 3339 with milliseconds.
func (t DtnTime) RFC3339() string {
	return t.Time().Format("2006-01-02T15:04:05.000Z07:00")
}

// DtnTimeFromTime returns the DtnTime for the time.Time. Times before the
// DTN epoch are not representable and result in an error.
func DtnTimeFromTime(t time.Time) (DtnTime, error) {
	ms := t.UnixMilli() - milliseconds1970To2k
	if ms < 0 {
		return DtnTimeEpoch, newError(DtnTimeError, "%v is before the DTN epoch", t.UTC())
	}
	return DtnTime(ms), nil
}

// DtnTimeNow returns the current (UTC) time as DtnTime.
func DtnTimeNow() DtnTime {
	t, err := DtnTimeFromTime(time.Now())
	if err != nil {
		log.WithError(err).Warn("System clock is before the DTN epoch, using the epoch")
	}
	return t
}

// CreationTimestamp is a tuple of a DtnTime and a sequence number (to differ
// bundles with the same DtnTime from the same endpoint). It is specified in
// section 4.2.7.
type CreationTimestamp struct {
	Time           DtnTime
	SequenceNumber uint64
}

// NewCreationTimestamp creates a new creation timestamp from a given DTN time
// and a sequence number, resulting in a hopefully unique tuple.
func NewCreationTimestamp(time DtnTime, sequence uint64) CreationTimestamp {
	return CreationTimestamp{Time: time, SequenceNumber: sequence}
}

// IsZeroTime returns if the time part is set to zero, indicating the lack of
// an accurate clock.
func (ct CreationTimestamp) IsZeroTime() bool {
	return ct.Time == DtnTimeEpoch
}

// Before orders CreationTimestamps lexicographically by time and sequence number.
func (ct CreationTimestamp) Before(other CreationTimestamp) bool {
	if ct.Time != other.Time {
		return ct.Time < other.Time
	}
	return ct.SequenceNumber < other.SequenceNumber
}

func (ct CreationTimestamp) String() string {
	return fmt.Sprintf("(%v, %d)", ct.Time, ct.SequenceNumber)
}

// MarshalJSON creates a JSON object representing this CreationTimestamp.
func (ct CreationTimestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Date string `json:"date"`
		Seq  uint64 `json:"sequenceNo"`
	}{
		Date: ct.Time.String(),
		Seq:  ct.SequenceNumber,
	})
}
