// SPDX-FileCopyrightText: 2019, 2020, 2022 Alvar Penning
//
// SPDX-License-Identifier: GPL-3.0-or-later

package bpv7

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/dtn7/cboring"
)

// BundleAgeData is the data of the Bundle Protocol's Bundle Age Block, the
// age in milliseconds.
type BundleAgeData uint64

// BlockTypeName must return a constant string, this block's name.
func (BundleAgeData) BlockTypeName() string {
	return "Bundle Age Block"
}

func (BundleAgeData) isCanonicalData() {}

// Age returns the age in milliseconds.
func (bad BundleAgeData) Age() uint64 {
	return uint64(bad)
}

// MarshalCbor writes a CBOR representation for a Bundle Age Block.
func (bad *BundleAgeData) MarshalCbor(w io.Writer) error {
	return cboring.WriteUInt(uint64(*bad), w)
}

// UnmarshalCbor reads the CBOR representation for a Bundle Age Block.
func (bad *BundleAgeData) UnmarshalCbor(r io.Reader) error {
	ms, err := cboring.ReadUInt(r)
	if err != nil {
		return err
	}

	*bad = BundleAgeData(ms)
	return nil
}

// MarshalJSON writes a JSON representation for a Bundle Age Block, e.g., "23 ms".
func (bad BundleAgeData) MarshalJSON() ([]byte, error) {
	return json.Marshal(fmt.Sprintf("%d ms", bad.Age()))
}
