// SPDX-FileCopyrightText: 2018, 2019, 2020, 2021 Alvar Penning
//
// SPDX-License-Identifier: GPL-3.0-or-later

package bpv7

import (
	"bytes"
	"fmt"
	"io"

	"github.com/dtn7/cboring"
)

// cborLength of this PrimaryBlock's array: eight mandatory fields, the two
// fragment fields and the CRC value.
func (pb PrimaryBlock) cborLength() uint64 {
	var l uint64 = 8
	if pb.HasFragmentation() {
		l += 2
	}
	if pb.CRC.HasCRC() {
		l++
	}
	return l
}

// MarshalCbor writes the CBOR representation of a PrimaryBlock. If a CRC type
// is set, the CRC value is calculated and stored within this block.
//
// An unset fragment offset or total data length of a fragment is written as zero.
func (pb *PrimaryBlock) MarshalCbor(w io.Writer) error {
	crcBuff := new(bytes.Buffer)
	if pb.CRC.HasCRC() {
		w = io.MultiWriter(w, crcBuff)
	}

	if err := cboring.WriteArrayLength(pb.cborLength(), w); err != nil {
		return err
	}

	for _, f := range []uint64{pb.Version, uint64(pb.BundleControlFlags), uint64(pb.CRC.Type)} {
		if err := cboring.WriteUInt(f, w); err != nil {
			return err
		}
	}

	for _, eid := range []*EndpointID{&pb.Destination, &pb.SourceNode, &pb.ReportTo} {
		if err := cboring.Marshal(eid, w); err != nil {
			return fmt.Errorf("EndpointID failed: %w", err)
		}
	}

	if err := cboring.Marshal(&pb.CreationTimestamp, w); err != nil {
		return fmt.Errorf("CreationTimestamp failed: %w", err)
	}

	if err := cboring.WriteUInt(pb.Lifetime, w); err != nil {
		return err
	}

	if pb.HasFragmentation() {
		for _, f := range []*uint64{pb.FragmentOffset, pb.TotalDataLength} {
			var x uint64
			if f != nil {
				x = *f
			}
			if err := cboring.WriteUInt(x, w); err != nil {
				return err
			}
		}
	}

	if pb.CRC.HasCRC() {
		if crcVal, crcErr := calculateCRCBuff(crcBuff, pb.CRC.Type); crcErr != nil {
			return crcErr
		} else if err := cboring.WriteByteString(crcVal, w); err != nil {
			return err
		} else {
			pb.CRC.Value = crcVal
		}
	}

	return nil
}

// UnmarshalCbor reads the CBOR representation of a PrimaryBlock.
func (pb *PrimaryBlock) UnmarshalCbor(r io.Reader) error {
	// Pipe incoming bytes into a separate CRC buffer
	crcBuff := new(bytes.Buffer)
	r = io.TeeReader(r, crcBuff)

	blockLen, err := cboring.ReadArrayLength(r)
	if err != nil {
		return err
	} else if blockLen < 8 || blockLen > 11 {
		return fmt.Errorf("expected array with 8 to 11 elements, got %d", blockLen)
	}

	if version, err := cboring.ReadUInt(r); err != nil {
		return err
	} else if version != dtnVersion {
		return newError(PrimaryBlockError, "Wrong version, %d instead of %d", version, dtnVersion)
	} else {
		pb.Version = version
	}

	if bcf, err := cboring.ReadUInt(r); err != nil {
		return err
	} else {
		pb.BundleControlFlags = BundleControlFlags(bcf)
	}

	if crcType, err := cboring.ReadUInt(r); err != nil {
		return err
	} else {
		pb.CRC = CRC{Type: CRCType(crcType)}
	}

	for _, eid := range []*EndpointID{&pb.Destination, &pb.SourceNode, &pb.ReportTo} {
		if err := cboring.Unmarshal(eid, r); err != nil {
			return fmt.Errorf("EndpointID failed: %w", err)
		}
	}

	if err := cboring.Unmarshal(&pb.CreationTimestamp, r); err != nil {
		return fmt.Errorf("CreationTimestamp failed: %w", err)
	}

	if lt, err := cboring.ReadUInt(r); err != nil {
		return err
	} else {
		pb.Lifetime = lt
	}

	pb.FragmentOffset, pb.TotalDataLength = nil, nil
	if blockLen >= 10 {
		var fields [2]uint64
		for i := range fields {
			if fields[i], err = cboring.ReadUInt(r); err != nil {
				return err
			}
		}
		pb.FragmentOffset, pb.TotalDataLength = &fields[0], &fields[1]
	}

	if blockLen == 9 || blockLen == 11 {
		if crcCalc, crcErr := calculateCRCBuff(crcBuff, pb.CRC.Type); crcErr != nil {
			return crcErr
		} else if crcVal, err := cboring.ReadByteString(r); err != nil {
			return err
		} else if !bytes.Equal(crcCalc, crcVal) {
			return newError(CRCError, "invalid CRC value: %x instead of expected %x", crcVal, crcCalc)
		} else {
			pb.CRC.Value = crcVal
		}
	} else if pb.CRC.HasCRC() {
		return newError(CRCError, "CRC type %v without a CRC value", pb.CRC.Type)
	}

	return nil
}
