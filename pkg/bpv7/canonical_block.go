// SPDX-FileCopyrightText: 2018, 2019, 2020 Alvar Penning
//
// SPDX-License-Identifier: GPL-3.0-or-later

package bpv7

import (
	"fmt"
	"strings"
)

// CanonicalBlock represents the canonical bundle block defined in section 4.3.2.
//
// The block type and number are fixed at creation. Only the active
// CanonicalData may be replaced, through the Increase/Update methods.
type CanonicalBlock struct {
	BlockType         uint64
	BlockNumber       uint64
	BlockControlFlags BlockControlFlags
	CRC               CRC
	data              CanonicalData
}

// NewCanonicalBlock based on its type code, number, some control flags, a CRC
// descriptor and its data.
func NewCanonicalBlock(blockType, blockNumber uint64, bcf BlockControlFlags, crc CRC, data CanonicalData) CanonicalBlock {
	return CanonicalBlock{
		BlockType:         blockType,
		BlockNumber:       blockNumber,
		BlockControlFlags: bcf,
		CRC:               crc,
		data:              data,
	}
}

// NewHopCountBlock creates a Hop Count Block with the given limit and a zero count.
func NewHopCountBlock(blockNumber uint64, bcf BlockControlFlags, limit uint8) CanonicalBlock {
	return NewCanonicalBlock(ExtBlockTypeHopCountBlock, blockNumber, bcf, NoCRC(), HopCountData{Limit: limit})
}

// NewPayloadBlock creates the Payload Block, which always has the block number one.
func NewPayloadBlock(bcf BlockControlFlags, data []byte) CanonicalBlock {
	return NewCanonicalBlock(ExtBlockTypePayloadBlock, payloadBlockNumber, bcf, NoCRC(), PayloadData(data))
}

// NewPreviousNodeBlock creates a Previous Node Block for an Endpoint ID.
func NewPreviousNodeBlock(blockNumber uint64, bcf BlockControlFlags, prev EndpointID) CanonicalBlock {
	return NewCanonicalBlock(ExtBlockTypePreviousNodeBlock, blockNumber, bcf, NoCRC(), PreviousNodeData{Endpoint: prev})
}

// NewBundleAgeBlock creates a Bundle Age Block for the given milliseconds.
func NewBundleAgeBlock(blockNumber uint64, bcf BlockControlFlags, ms uint64) CanonicalBlock {
	return NewCanonicalBlock(ExtBlockTypeBundleAgeBlock, blockNumber, bcf, NoCRC(), BundleAgeData(ms))
}

// Copy returns a deep copy of this CanonicalBlock, sharing no buffer with the original.
func (cb CanonicalBlock) Copy() CanonicalBlock {
	cp := cb
	cp.CRC = cb.CRC.Copy()
	cp.data = copyCanonicalData(cb.data)
	return cp
}

// Data returns the active CanonicalData.
func (cb CanonicalBlock) Data() CanonicalData {
	return cb.data
}

// PayloadData returns the payload if this block holds PayloadData.
func (cb CanonicalBlock) PayloadData() ([]byte, bool) {
	if pd, ok := cb.data.(PayloadData); ok {
		return pd, true
	}
	return nil, false
}

// HopCount returns the HopCountData of a Hop Count Block.
func (cb CanonicalBlock) HopCount() (HopCountData, bool) {
	if cb.BlockType != ExtBlockTypeHopCountBlock {
		return HopCountData{}, false
	}
	hcd, ok := cb.data.(HopCountData)
	return hcd, ok
}

// IncreaseHopCount increments the hop counter of a Hop Count Block. False is
// returned if this is no Hop Count Block or if the counter is already 255.
func (cb *CanonicalBlock) IncreaseHopCount() bool {
	hcd, ok := cb.HopCount()
	if !ok {
		return false
	}

	if hcd, ok = hcd.incremented(); ok {
		cb.data = hcd
	}
	return ok
}

// IsHopCountExceeded returns true for a Hop Count Block whose count exceeds its limit.
func (cb CanonicalBlock) IsHopCountExceeded() bool {
	hcd, ok := cb.HopCount()
	return ok && hcd.IsExceeded()
}

// BundleAge returns the age in milliseconds of a Bundle Age Block.
func (cb CanonicalBlock) BundleAge() (uint64, bool) {
	if cb.BlockType != ExtBlockTypeBundleAgeBlock {
		return 0, false
	}
	bad, ok := cb.data.(BundleAgeData)
	return bad.Age(), ok
}

// UpdateBundleAge replaces the age of a Bundle Age Block.
func (cb *CanonicalBlock) UpdateBundleAge(ms uint64) bool {
	if _, ok := cb.BundleAge(); !ok {
		return false
	}

	cb.data = BundleAgeData(ms)
	return true
}

// PreviousNode returns the Endpoint ID of a Previous Node Block.
func (cb CanonicalBlock) PreviousNode() (EndpointID, bool) {
	if cb.BlockType != ExtBlockTypePreviousNodeBlock {
		return EndpointID{}, false
	}
	pnd, ok := cb.data.(PreviousNodeData)
	return pnd.Endpoint, ok
}

// UpdatePreviousNode replaces the Endpoint ID of a Previous Node Block.
func (cb *CanonicalBlock) UpdatePreviousNode(eid EndpointID) bool {
	if _, ok := cb.PreviousNode(); !ok {
		return false
	}

	cb.data = PreviousNodeData{Endpoint: eid}
	return true
}

// blockTypeMismatch creates the error for data not matching its block type.
func (cb CanonicalBlock) blockTypeMismatch() error {
	return newError(CanonicalBlockError, "%s data not matching block type %d", cb.data.BlockTypeName(), cb.BlockType)
}

// validateData checks the active CanonicalData against the block's type and number.
func (cb CanonicalBlock) validateData() error {
	switch data := cb.data.(type) {
	case PayloadData:
		if cb.BlockType != ExtBlockTypePayloadBlock {
			return cb.blockTypeMismatch()
		} else if cb.BlockNumber != payloadBlockNumber {
			return newError(CanonicalBlockError, "Payload Block's block number is %d, not %d", cb.BlockNumber, payloadBlockNumber)
		}

	case BundleAgeData:
		if cb.BlockType != ExtBlockTypeBundleAgeBlock {
			return cb.blockTypeMismatch()
		}

	case HopCountData:
		if cb.BlockType != ExtBlockTypeHopCountBlock {
			return cb.blockTypeMismatch()
		}

	case PreviousNodeData:
		if cb.BlockType != ExtBlockTypePreviousNodeBlock {
			return cb.blockTypeMismatch()
		}

	case UnknownData:
		// We have zero knowledge about this block.
		// Thus, who are we to judge someone else's block?

	case DecodingErrorData:
		return newError(CanonicalBlockError, "unknown data")

	case nil:
		return newError(CanonicalBlockError, "block has no data")

	default:
		return newError(CanonicalBlockError, "unsupported data %T", data)
	}

	return nil
}

func (cb CanonicalBlock) validate(c *checker) {
	cb.BlockControlFlags.validate(c)
	cb.CRC.validate(c)
	c.rule(cb.validateData)
}

// CheckValid returns the first violation of this block's control flags, CRC
// or data. A DecodingErrorData is always invalid.
func (cb CanonicalBlock) CheckValid() error {
	return checkFirst(cb)
}

// Violations returns all violations of this block.
func (cb CanonicalBlock) Violations() error {
	return checkAll(cb)
}

func (cb CanonicalBlock) String() string {
	var b strings.Builder

	_, _ = fmt.Fprintf(&b, "block type code: %d, ", cb.BlockType)
	_, _ = fmt.Fprintf(&b, "block number: %d, ", cb.BlockNumber)
	_, _ = fmt.Fprintf(&b, "block processing control flags: %b, ", cb.BlockControlFlags)
	_, _ = fmt.Fprintf(&b, "crc type: %v, ", cb.CRC.Type)
	_, _ = fmt.Fprintf(&b, "data: %v", cb.data)

	if cb.CRC.HasCRC() {
		_, _ = fmt.Fprintf(&b, ", crc: %x", cb.CRC.Value)
	}

	return b.String()
}
