// SPDX-FileCopyrightText: 2019, 2020, 2021 Alvar Penning
//
// SPDX-License-Identifier: GPL-3.0-or-later

package bpv7

import (
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
)

// BundleBuilder is a simple framework to create bundles by method chaining.
//
//	bndl, err := bpv7.Builder().
//	  CRC(bpv7.CRC32).
//	  Source("dtn://src/").
//	  Destination("dtn://dest/").
//	  CreationTimestampNow().
//	  Lifetime("30m").
//	  HopCountBlock(64).
//	  PayloadBlock([]byte("hello world!")).
//	  Build()
//
// The first error stops all further steps and is returned by Build.
type BundleBuilder struct {
	err error

	clock      Clock
	primary    PrimaryBlockBuilder
	reportTo   bool
	adminRec   bool
	canonicals []CanonicalBlock
	crcType    CRCType
}

// Builder creates a new BundleBuilder, drawing creation timestamps from the DefaultClock.
func Builder() *BundleBuilder {
	return &BundleBuilder{
		clock:   DefaultClock(),
		primary: NewPrimaryBlockBuilder(),
		crcType: CRCNo,
	}
}

// Error returns the first error which occurred, if any.
func (bldr *BundleBuilder) Error() error {
	return bldr.err
}

// Clock replaces the Clock used by CreationTimestampNow.
func (bldr *BundleBuilder) Clock(clock Clock) *BundleBuilder {
	if bldr.err == nil {
		bldr.clock = clock
	}
	return bldr
}

// CRC sets the CRC type for all blocks.
func (bldr *BundleBuilder) CRC(crcType CRCType) *BundleBuilder {
	if bldr.err == nil {
		bldr.crcType = crcType
	}
	return bldr
}

// Build the Bundle. The Payload Block is moved to the end, all other blocks
// are numbered in their given order, starting with two. Afterwards, the CRC
// values are calculated and the Bundle is validated.
func (bldr *BundleBuilder) Build() (bndl Bundle, err error) {
	if bldr.err != nil {
		err = bldr.err
		return
	}

	primary := bldr.primary
	if !bldr.reportTo {
		primary = primary.ReportTo(primary.pb.SourceNode)
	}
	if bldr.adminRec {
		primary = primary.BundleControlFlags(primary.pb.BundleControlFlags | AdministrativeRecordPayload)
	}

	pb, err := primary.Build()
	if err != nil {
		return
	}

	bndl = MustNewBundle(pb, nil)
	var payloads []CanonicalBlock
	for _, cb := range bldr.canonicals {
		if cb.BlockType == ExtBlockTypePayloadBlock {
			payloads = append(payloads, cb)
		} else {
			bndl.AddExtensionBlock(cb)
		}
	}
	bndl.CanonicalBlocks = append(bndl.CanonicalBlocks, payloads...)

	bndl.SetCRCType(bldr.crcType)
	if err = bndl.CalculateCRC(); err != nil {
		return
	}

	if err = bndl.CheckValid(); err != nil {
		log.WithFields(log.Fields{
			"bundle": bndl.String(),
			"error":  err,
		}).Debug("Built Bundle is invalid")
	}
	return
}

// Helper functions

// bldrParseEndpoint returns an EndpointID for a given EndpointID or a string,
// representing an endpoint identifier as an URI.
func bldrParseEndpoint(eid interface{}) (e EndpointID, err error) {
	switch eid := eid.(type) {
	case EndpointID:
		e = eid
	case string:
		e, err = NewEndpointID(eid)
	default:
		err = newError(EndpointIDError, "%T is neither an EndpointID nor a string", eid)
	}
	return
}

// bldrParseLifetime returns milliseconds for a given amount of milliseconds,
// a time.Duration or a duration string, which will be parsed.
func bldrParseLifetime(duration interface{}) (ms uint64, err error) {
	var dur time.Duration

	switch duration := duration.(type) {
	case uint64:
		return duration, nil
	case uint:
		return uint64(duration), nil
	case int:
		if duration < 0 {
			return 0, fmt.Errorf("lifetime %d < 0", duration)
		}
		return uint64(duration), nil
	case time.Duration:
		dur = duration
	case string:
		if dur, err = time.ParseDuration(duration); err != nil {
			return
		}
	default:
		return 0, fmt.Errorf("%T is neither a number nor a duration", duration)
	}

	if dur <= 0 {
		return 0, fmt.Errorf("lifetime's duration %v <= 0", dur)
	}
	return uint64(dur.Milliseconds()), nil
}

// bldrBlockControlFlags returns the optional BlockControlFlags argument.
func bldrBlockControlFlags(bcfs []BlockControlFlags) BlockControlFlags {
	var bcf BlockControlFlags
	for _, f := range bcfs {
		bcf |= f
	}
	return bcf
}

// PrimaryBlock related methods

func (bldr *BundleBuilder) endpoint(eid interface{}, set func(EndpointID)) *BundleBuilder {
	if bldr.err != nil {
		return bldr
	}

	if e, err := bldrParseEndpoint(eid); err != nil {
		bldr.err = err
	} else {
		set(e)
	}
	return bldr
}

// Destination sets the destination, either an EndpointID or a string.
func (bldr *BundleBuilder) Destination(eid interface{}) *BundleBuilder {
	return bldr.endpoint(eid, func(e EndpointID) { bldr.primary = bldr.primary.Destination(e) })
}

// Source sets the source node, either an EndpointID or a string.
func (bldr *BundleBuilder) Source(eid interface{}) *BundleBuilder {
	return bldr.endpoint(eid, func(e EndpointID) { bldr.primary = bldr.primary.Source(e) })
}

// ReportTo sets the report-to endpoint. Otherwise, the source node is used.
func (bldr *BundleBuilder) ReportTo(eid interface{}) *BundleBuilder {
	return bldr.endpoint(eid, func(e EndpointID) {
		bldr.primary = bldr.primary.ReportTo(e)
		bldr.reportTo = true
	})
}

func (bldr *BundleBuilder) creationTimestamp(ct CreationTimestamp) *BundleBuilder {
	if bldr.err == nil {
		bldr.primary = bldr.primary.CreationTimestamp(ct)
	}
	return bldr
}

// CreationTimestampEpoch sets a zero creation time, used by nodes without an accurate clock.
func (bldr *BundleBuilder) CreationTimestampEpoch() *BundleBuilder {
	return bldr.creationTimestamp(NewCreationTimestamp(DtnTimeEpoch, 0))
}

// CreationTimestampNow takes the next creation timestamp from the Clock.
func (bldr *BundleBuilder) CreationTimestampNow() *BundleBuilder {
	if bldr.err != nil {
		return bldr
	}
	return bldr.creationTimestamp(bldr.clock.Now())
}

// CreationTimestampTime sets the creation time to the given time.
func (bldr *BundleBuilder) CreationTimestampTime(t time.Time) *BundleBuilder {
	if bldr.err != nil {
		return bldr
	}

	dt, err := DtnTimeFromTime(t)
	if err != nil {
		bldr.err = err
		return bldr
	}
	return bldr.creationTimestamp(NewCreationTimestamp(dt, 0))
}

// Lifetime sets the lifetime, either milliseconds as a number, a time.Duration
// or a duration string as "10m".
func (bldr *BundleBuilder) Lifetime(duration interface{}) *BundleBuilder {
	if bldr.err != nil {
		return bldr
	}

	if ms, err := bldrParseLifetime(duration); err != nil {
		bldr.err = err
	} else {
		bldr.primary = bldr.primary.Lifetime(ms)
	}
	return bldr
}

// BundleCtrlFlags sets the bundle processing control flags.
func (bldr *BundleBuilder) BundleCtrlFlags(bcf BundleControlFlags) *BundleBuilder {
	if bldr.err == nil {
		bldr.primary = bldr.primary.BundleControlFlags(bcf)
	}
	return bldr
}

// CanonicalBlock related methods

// Canonical adds a CanonicalBlock. Its block number will be overwritten for
// all blocks except the Payload Block.
func (bldr *BundleBuilder) Canonical(cb CanonicalBlock) *BundleBuilder {
	if bldr.err == nil {
		bldr.canonicals = append(bldr.canonicals, cb)
	}
	return bldr
}

// BundleAgeBlock adds a Bundle Age Block. The age is given as for Lifetime.
func (bldr *BundleBuilder) BundleAgeBlock(age interface{}, bcf ...BlockControlFlags) *BundleBuilder {
	if bldr.err != nil {
		return bldr
	}

	ms, err := bldrParseLifetime(age)
	if err != nil {
		bldr.err = err
		return bldr
	}

	return bldr.Canonical(NewBundleAgeBlock(0, bldrBlockControlFlags(bcf), ms))
}

// HopCountBlock adds a Hop Count Block with the given limit.
func (bldr *BundleBuilder) HopCountBlock(limit uint8, bcf ...BlockControlFlags) *BundleBuilder {
	return bldr.Canonical(NewHopCountBlock(0, bldrBlockControlFlags(bcf), limit))
}

// PayloadBlock adds the Payload Block.
func (bldr *BundleBuilder) PayloadBlock(data []byte, bcf ...BlockControlFlags) *BundleBuilder {
	return bldr.Canonical(NewPayloadBlock(bldrBlockControlFlags(bcf), data))
}

// PreviousNodeBlock adds a Previous Node Block, either an EndpointID or a string.
func (bldr *BundleBuilder) PreviousNodeBlock(prevNode interface{}, bcf ...BlockControlFlags) *BundleBuilder {
	return bldr.endpoint(prevNode, func(e EndpointID) {
		bldr.canonicals = append(bldr.canonicals, NewPreviousNodeBlock(0, bldrBlockControlFlags(bcf), e))
	})
}

// AdministrativeRecord adds a Payload Block with this AdministrativeRecord and
// sets the AdministrativeRecordPayload flag.
func (bldr *BundleBuilder) AdministrativeRecord(ar AdministrativeRecord, bcf ...BlockControlFlags) *BundleBuilder {
	if bldr.err != nil {
		return bldr
	}

	data, err := MarshalAdministrativeRecord(ar)
	if err != nil {
		bldr.err = err
		return bldr
	}

	bldr.adminRec = true
	return bldr.PayloadBlock(data, bcf...)
}
