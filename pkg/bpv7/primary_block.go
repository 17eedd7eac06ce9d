// SPDX-FileCopyrightText: 2018, 2019, 2020, 2021 Alvar Penning
//
// SPDX-License-Identifier: GPL-3.0-or-later

package bpv7

import (
	"encoding/json"
	"fmt"
	"strings"
)

const dtnVersion uint64 = 7

// PrimaryBlock is a representation of the primary bundle block as defined in section 4.3.1.
//
// FragmentOffset and TotalDataLength are optional and are only meaningful for
// fragments. Their presence is not checked against the IsFragment flag.
type PrimaryBlock struct {
	Version            uint64
	BundleControlFlags BundleControlFlags
	CRC                CRC
	Destination        EndpointID
	SourceNode         EndpointID
	ReportTo           EndpointID
	CreationTimestamp  CreationTimestamp
	Lifetime           uint64
	FragmentOffset     *uint64
	TotalDataLength    *uint64
}

// NewPrimaryBlock creates a new primary block with the given parameters. The
// ReportTo endpoint is set to the source node, no CRC is used. The lifetime
// is passed in milliseconds.
func NewPrimaryBlock(bundleControlFlags BundleControlFlags, destination, sourceNode EndpointID, creationTimestamp CreationTimestamp, lifetime uint64) PrimaryBlock {
	return PrimaryBlock{
		Version:            dtnVersion,
		BundleControlFlags: bundleControlFlags,
		CRC:                NoCRC(),
		Destination:        destination,
		SourceNode:         sourceNode,
		ReportTo:           sourceNode,
		CreationTimestamp:  creationTimestamp,
		Lifetime:           lifetime,
	}
}

// HasFragmentation returns true if the bundle processing control flags
// indicates a fragmented bundle. In this case the FragmentOffset and
// TotalDataLength fields should become relevant.
func (pb PrimaryBlock) HasFragmentation() bool {
	return pb.BundleControlFlags.Has(IsFragment)
}

// Copy returns a deep copy of this PrimaryBlock, sharing no CRC value or
// fragment field with the original.
func (pb PrimaryBlock) Copy() PrimaryBlock {
	cp := pb
	cp.CRC = pb.CRC.Copy()
	if pb.FragmentOffset != nil {
		fo := *pb.FragmentOffset
		cp.FragmentOffset = &fo
	}
	if pb.TotalDataLength != nil {
		tdl := *pb.TotalDataLength
		cp.TotalDataLength = &tdl
	}
	return cp
}

// IsLifetimeExceeded checks the lifetime against the current time.
func (pb PrimaryBlock) IsLifetimeExceeded() bool {
	return pb.IsLifetimeExceededAt(DtnTimeNow())
}

// IsLifetimeExceededAt checks if the creation time plus the lifetime has been
// reached at the given time. A zero creation time, a node without an accurate
// clock, never exceeds here; its age is tracked by a Bundle Age Block.
func (pb PrimaryBlock) IsLifetimeExceededAt(now DtnTime) bool {
	if pb.CreationTimestamp.IsZeroTime() {
		return false
	}

	created := pb.CreationTimestamp.Time
	if now < created {
		return false
	}
	return uint64(now-created) >= pb.Lifetime
}

func (pb PrimaryBlock) validate(c *checker) {
	c.rule(func() error {
		if pb.Version != dtnVersion {
			return newError(PrimaryBlockError, "Wrong version, %d instead of %d", pb.Version, dtnVersion)
		}
		return nil
	})

	pb.BundleControlFlags.validate(c)
	pb.CRC.validate(c)

	c.rule(func() error {
		if pb.Destination.IsNull() {
			return newError(PrimaryBlockError, "Destination is the null endpoint")
		}
		return nil
	})

	for _, eid := range []EndpointID{pb.Destination, pb.SourceNode, pb.ReportTo} {
		eid.validate(c)
	}
}

// CheckValid returns the first violation of this PrimaryBlock. The rules are
// evaluated in this order: version, bundle control flags, CRC, a non-null
// destination and the validity of all three endpoints.
func (pb PrimaryBlock) CheckValid() error {
	return checkFirst(pb)
}

// Violations returns all violations of this PrimaryBlock.
func (pb PrimaryBlock) Violations() error {
	return checkAll(pb)
}

// MarshalJSON writes a JSON object representing this PrimaryBlock.
func (pb PrimaryBlock) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		ControlFlags      BundleControlFlags `json:"bundleControlFlags"`
		Destination       EndpointID         `json:"destination"`
		Source            EndpointID         `json:"source"`
		ReportTo          EndpointID         `json:"reportTo"`
		CreationTimestamp CreationTimestamp  `json:"creationTimestamp"`
		Lifetime          uint64             `json:"lifetime"`
		FragmentOffset    *uint64            `json:"fragmentOffset,omitempty"`
		TotalDataLength   *uint64            `json:"totalDataLength,omitempty"`
	}{
		ControlFlags:      pb.BundleControlFlags,
		Destination:       pb.Destination,
		Source:            pb.SourceNode,
		ReportTo:          pb.ReportTo,
		CreationTimestamp: pb.CreationTimestamp,
		Lifetime:          pb.Lifetime,
		FragmentOffset:    pb.FragmentOffset,
		TotalDataLength:   pb.TotalDataLength,
	})
}

func (pb PrimaryBlock) String() string {
	var b strings.Builder

	_, _ = fmt.Fprintf(&b, "version: %d, ", pb.Version)
	_, _ = fmt.Fprintf(&b, "bundle processing control flags: %b, ", pb.BundleControlFlags)
	_, _ = fmt.Fprintf(&b, "crc type: %v, ", pb.CRC.Type)
	_, _ = fmt.Fprintf(&b, "destination: %v, ", pb.Destination)
	_, _ = fmt.Fprintf(&b, "source node: %v, ", pb.SourceNode)
	_, _ = fmt.Fprintf(&b, "report to: %v, ", pb.ReportTo)
	_, _ = fmt.Fprintf(&b, "creation timestamp: %v, ", pb.CreationTimestamp)
	_, _ = fmt.Fprintf(&b, "lifetime: %d", pb.Lifetime)

	if pb.FragmentOffset != nil {
		_, _ = fmt.Fprintf(&b, ", fragment offset: %d", *pb.FragmentOffset)
	}
	if pb.TotalDataLength != nil {
		_, _ = fmt.Fprintf(&b, ", total data length: %d", *pb.TotalDataLength)
	}

	if pb.CRC.HasCRC() {
		_, _ = fmt.Fprintf(&b, ", crc: %x", pb.CRC.Value)
	}

	return b.String()
}
