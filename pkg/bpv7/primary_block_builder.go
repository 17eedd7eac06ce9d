// SPDX-FileCopyrightText: 2019, 2020 Alvar Penning
//
// SPDX-License-Identifier: GPL-3.0-or-later

package bpv7

// PrimaryBlockBuilder assembles a PrimaryBlock step by step. Each method
// returns an updated copy and leaves the receiver untouched, so partially
// configured builders may be shared and branched.
//
//	pb, err := bpv7.NewPrimaryBlockBuilder().
//	  Destination(bpv7.MustNewEndpointID("dtn://dest/")).
//	  Source(bpv7.MustNewEndpointID("dtn://src/")).
//	  CreationTimestamp(bpv7.CreationTimestampNow()).
//	  Lifetime(60 * 60 * 1000).
//	  Build()
type PrimaryBlockBuilder struct {
	pb PrimaryBlock
}

// NewPrimaryBlockBuilder starts with version 7, no flags, no CRC, null
// endpoints, a zero creation timestamp and a zero lifetime.
func NewPrimaryBlockBuilder() PrimaryBlockBuilder {
	return PrimaryBlockBuilder{
		pb: PrimaryBlock{
			Version:     dtnVersion,
			CRC:         NoCRC(),
			Destination: DtnNone(),
			SourceNode:  DtnNone(),
			ReportTo:    DtnNone(),
		},
	}
}

// BundleControlFlags sets the bundle processing control flags.
func (b PrimaryBlockBuilder) BundleControlFlags(bcf BundleControlFlags) PrimaryBlockBuilder {
	b.pb.BundleControlFlags = bcf
	return b
}

// CRC sets the CRC descriptor.
func (b PrimaryBlockBuilder) CRC(crc CRC) PrimaryBlockBuilder {
	b.pb.CRC = crc
	return b
}

// Destination sets the destination endpoint, which is mandatory.
func (b PrimaryBlockBuilder) Destination(eid EndpointID) PrimaryBlockBuilder {
	b.pb.Destination = eid
	return b
}

// Source sets the source node.
func (b PrimaryBlockBuilder) Source(eid EndpointID) PrimaryBlockBuilder {
	b.pb.SourceNode = eid
	return b
}

// ReportTo sets the report-to endpoint.
func (b PrimaryBlockBuilder) ReportTo(eid EndpointID) PrimaryBlockBuilder {
	b.pb.ReportTo = eid
	return b
}

// CreationTimestamp sets the creation timestamp.
func (b PrimaryBlockBuilder) CreationTimestamp(ct CreationTimestamp) PrimaryBlockBuilder {
	b.pb.CreationTimestamp = ct
	return b
}

// Lifetime sets the lifetime in milliseconds.
func (b PrimaryBlockBuilder) Lifetime(ms uint64) PrimaryBlockBuilder {
	b.pb.Lifetime = ms
	return b
}

// FragmentOffset sets the optional fragment offset.
func (b PrimaryBlockBuilder) FragmentOffset(offset uint64) PrimaryBlockBuilder {
	b.pb.FragmentOffset = &offset
	return b
}

// TotalDataLength sets the optional total application data unit length.
func (b PrimaryBlockBuilder) TotalDataLength(length uint64) PrimaryBlockBuilder {
	b.pb.TotalDataLength = &length
	return b
}

// Build returns the PrimaryBlock or an error if no destination was set. The
// block is not validated, compare PrimaryBlock.CheckValid.
func (b PrimaryBlockBuilder) Build() (PrimaryBlock, error) {
	if b.pb.Destination.IsNull() {
		return PrimaryBlock{}, newError(PrimaryBlockError, "No destination endpoint was provided")
	}
	return b.pb, nil
}
