// SPDX-FileCopyrightText: 2019, 2020 Alvar Penning
//
// SPDX-License-Identifier: GPL-3.0-or-later

package bpv7

import (
	"fmt"
	"io"
	"strings"

	"github.com/dtn7/cboring"
)

// BundleID identifies a bundle by its source node, creation timestamp and,
// for fragments, the fragment offset paired with the total data length.
//
// For CBOR deserialization, the IsFragment field MUST be set beforehand. This
// determines if two or four values will be read.
type BundleID struct {
	SourceNode EndpointID
	Timestamp  CreationTimestamp

	IsFragment      bool
	FragmentOffset  uint64
	TotalDataLength uint64
}

// ID returns this Bundle's BundleID. Unset fragment fields of a fragment are zero.
func (b Bundle) ID() BundleID {
	pb := b.PrimaryBlock
	bid := BundleID{
		SourceNode: pb.SourceNode,
		Timestamp:  pb.CreationTimestamp,
		IsFragment: pb.HasFragmentation(),
	}

	if bid.IsFragment {
		if pb.FragmentOffset != nil {
			bid.FragmentOffset = *pb.FragmentOffset
		}
		if pb.TotalDataLength != nil {
			bid.TotalDataLength = *pb.TotalDataLength
		}
	}
	return bid
}

func (bid BundleID) String() string {
	var sb strings.Builder

	_, _ = fmt.Fprintf(&sb, "%v-%d-%d", bid.SourceNode, bid.Timestamp.Time, bid.Timestamp.SequenceNumber)
	if bid.IsFragment {
		_, _ = fmt.Fprintf(&sb, "-%d-%d", bid.FragmentOffset, bid.TotalDataLength)
	}

	return sb.String()
}

// Scrub creates a cleaned BundleID without fragmentation.
func (bid BundleID) Scrub() BundleID {
	return BundleID{SourceNode: bid.SourceNode, Timestamp: bid.Timestamp}
}

// cborLength is the amount of fields written by MarshalCbor.
func (bid BundleID) cborLength() uint64 {
	if bid.IsFragment {
		return 4
	}
	return 2
}

// MarshalCbor writes the Bundle ID's fields in series.
func (bid *BundleID) MarshalCbor(w io.Writer) error {
	if err := cboring.Marshal(&bid.SourceNode, w); err != nil {
		return fmt.Errorf("marshalling source node failed: %w", err)
	}

	if err := cboring.Marshal(&bid.Timestamp, w); err != nil {
		return fmt.Errorf("marshalling timestamp failed: %w", err)
	}

	if bid.IsFragment {
		for _, fld := range []uint64{bid.FragmentOffset, bid.TotalDataLength} {
			if err := cboring.WriteUInt(fld, w); err != nil {
				return err
			}
		}
	}

	return nil
}

// UnmarshalCbor reads a Bundle ID, depending on the preset IsFragment field.
func (bid *BundleID) UnmarshalCbor(r io.Reader) error {
	if err := cboring.Unmarshal(&bid.SourceNode, r); err != nil {
		return fmt.Errorf("unmarshalling source node failed: %w", err)
	}

	if err := cboring.Unmarshal(&bid.Timestamp, r); err != nil {
		return fmt.Errorf("unmarshalling timestamp failed: %w", err)
	}

	if bid.IsFragment {
		for _, fld := range []*uint64{&bid.FragmentOffset, &bid.TotalDataLength} {
			n, err := cboring.ReadUInt(r)
			if err != nil {
				return err
			}
			*fld = n
		}
	}

	return nil
}
