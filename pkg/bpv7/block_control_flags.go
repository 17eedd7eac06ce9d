// SPDX-FileCopyrightText: 2018, 2019, 2020 Alvar Penning
//
// SPDX-License-Identifier: GPL-3.0-or-later

package bpv7

import (
	"encoding/json"
	"strings"
)

// BlockControlFlags is an uint which represents the Block Processing Control
// Flags as specified in 4.2.4.
type BlockControlFlags uint8

const (
	// ReplicateBlock requires this block to be replicated in every fragment.
	ReplicateBlock BlockControlFlags = 0x01

	// StatusReportBlock requires transmission of a status report if this block cannot be processed.
	StatusReportBlock BlockControlFlags = 0x02

	// DeleteBundle requires bundle deletion if this block cannot be processed.
	DeleteBundle BlockControlFlags = 0x04

	// RemoveBlock requires the block to be removed from the bundle if it cannot be processed.
	RemoveBlock BlockControlFlags = 0x10

	// BlockReservedFields masks the reserved bits. Named flags within this mask, as RemoveBlock, stay allowed.
	BlockReservedFields BlockControlFlags = 0xF0

	blockNamedFields = ReplicateBlock | StatusReportBlock | DeleteBundle | RemoveBlock
)

var blockFlagTexts = []flagText[BlockControlFlags]{
	{DeleteBundle, "DELETE_BUNDLE"},
	{StatusReportBlock, "REQUEST_STATUS_REPORT"},
	{RemoveBlock, "REMOVE_BLOCK"},
	{ReplicateBlock, "REPLICATE_BLOCK"},
}

// Has returns true if a given flag or mask of flags is set.
func (bcf BlockControlFlags) Has(flag BlockControlFlags) bool {
	return (bcf & flag) != 0
}

func (bcf BlockControlFlags) validate(c *checker) {
	validateFlags(c, bcf, BlockReservedFields, blockNamedFields, BlockControlFlagsError)
}

// CheckValid returns an error if a reserved bit is set.
func (bcf BlockControlFlags) CheckValid() error {
	return checkFirst(bcf)
}

// Violations returns all violations of these flags.
func (bcf BlockControlFlags) Violations() error {
	return checkAll(bcf)
}

// Strings returns an array of all flags as a string representation.
func (bcf BlockControlFlags) Strings() []string {
	return flagStrings(bcf, blockFlagTexts)
}

// MarshalJSON returns a JSON array of control flags.
func (bcf BlockControlFlags) MarshalJSON() ([]byte, error) {
	return json.Marshal(bcf.Strings())
}

// UnmarshalJSON reads a JSON array of control flags, as created by MarshalJSON.
func (bcf *BlockControlFlags) UnmarshalJSON(data []byte) error {
	var fields []string
	if err := json.Unmarshal(data, &fields); err != nil {
		return wrapError(JSONDecodeError, err)
	}

	flags, err := parseFlagStrings(fields, blockFlagTexts, JSONDecodeError)
	if err != nil {
		return err
	}

	*bcf = flags
	return nil
}

func (bcf BlockControlFlags) String() string {
	return strings.Join(bcf.Strings(), ",")
}
