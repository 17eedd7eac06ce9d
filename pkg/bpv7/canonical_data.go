// SPDX-FileCopyrightText: 2019, 2020, 2022 Alvar Penning
//
// SPDX-License-Identifier: GPL-3.0-or-later

package bpv7

import (
	"bytes"
	"encoding/json"
	"fmt"
)

const (
	// ExtBlockTypePayloadBlock is the block type code for a Payload Block.
	ExtBlockTypePayloadBlock uint64 = 1

	// ExtBlockTypePreviousNodeBlock is the block type code for a Previous Node Block.
	ExtBlockTypePreviousNodeBlock uint64 = 6

	// ExtBlockTypeBundleAgeBlock is the block type code for a Bundle Age Block.
	ExtBlockTypeBundleAgeBlock uint64 = 7

	// ExtBlockTypeHopCountBlock is the block type code for a Hop Count Block.
	ExtBlockTypeHopCountBlock uint64 = 10
)

// payloadBlockNumber is the fixed block number of each Payload Block.
const payloadBlockNumber uint64 = 1

// CanonicalData is the block-type-specific data of a CanonicalBlock. Exactly
// one of the following variants is active per block:
//
//	HopCountData, PayloadData, BundleAgeData, PreviousNodeData,
//	UnknownData, DecodingErrorData
//
// Replacing the active variant never affects other copies of the same
// CanonicalBlock. The byte slices of PayloadData and UnknownData are only
// cloned by CanonicalBlock.Copy.
type CanonicalData interface {
	// BlockTypeName must return a constant string, this data's block name.
	BlockTypeName() string

	isCanonicalData()
}

// copyCanonicalData clones the byte buffers of slice-based variants.
func copyCanonicalData(data CanonicalData) CanonicalData {
	switch data := data.(type) {
	case PayloadData:
		return PayloadData(bytes.Clone(data))
	case UnknownData:
		return UnknownData(bytes.Clone(data))
	default:
		return data
	}
}

// UnknownData holds the raw data of a block whose type is not known.
type UnknownData []byte

// BlockTypeName returns "N/A" as the block type is unknown.
func (UnknownData) BlockTypeName() string {
	return "N/A"
}

func (UnknownData) isCanonicalData() {}

// DecodingErrorData stands in for a block's data which a decoder was unable to
// interpret. A CanonicalBlock holding this variant is always invalid.
type DecodingErrorData struct {
	Err error
}

// BlockTypeName returns a name indicating the decoding failure.
func (DecodingErrorData) BlockTypeName() string {
	return "Decoding Error"
}

func (DecodingErrorData) isCanonicalData() {}

func (d DecodingErrorData) String() string {
	return fmt.Sprintf("decoding error: %v", d.Err)
}

// MarshalJSON writes the decoding error as a JSON string.
func (d DecodingErrorData) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}
