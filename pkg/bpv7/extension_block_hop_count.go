// SPDX-FileCopyrightText: 2019, 2020, 2022 Alvar Penning
//
// SPDX-License-Identifier: GPL-3.0-or-later

package bpv7

import (
	"encoding/json"
	"fmt"
	"io"
	"math"

	"github.com/dtn7/cboring"
)

// HopCountData is the data of the Bundle Protocol's Hop Count Block.
type HopCountData struct {
	Limit uint8
	Count uint8
}

// BlockTypeName must return a constant string, this block's name.
func (HopCountData) BlockTypeName() string {
	return "Hop Count Block"
}

func (HopCountData) isCanonicalData() {}

// IsExceeded returns true if the hop limit exceeded.
func (hcd HopCountData) IsExceeded() bool {
	return hcd.Count > hcd.Limit
}

// incremented returns a copy with an incremented counter. A counter of 255
// cannot be incremented and is rejected.
func (hcd HopCountData) incremented() (HopCountData, bool) {
	if hcd.Count == math.MaxUint8 {
		return hcd, false
	}

	hcd.Count++
	return hcd, true
}

// MarshalCbor writes a CBOR representation of this Hop Count Block.
func (hcd *HopCountData) MarshalCbor(w io.Writer) error {
	if err := cboring.WriteArrayLength(2, w); err != nil {
		return err
	}

	for _, f := range []uint8{hcd.Limit, hcd.Count} {
		if err := cboring.WriteUInt(uint64(f), w); err != nil {
			return err
		}
	}

	return nil
}

// UnmarshalCbor reads a CBOR representation of a Hop Count Block.
func (hcd *HopCountData) UnmarshalCbor(r io.Reader) error {
	if l, err := cboring.ReadArrayLength(r); err != nil {
		return err
	} else if l != 2 {
		return fmt.Errorf("expected array with length 2, got %d", l)
	}

	for _, f := range []*uint8{&hcd.Limit, &hcd.Count} {
		if x, err := cboring.ReadUInt(r); err != nil {
			return err
		} else if x > math.MaxUint8 {
			return fmt.Errorf("Hop Count fields must be within a range to 255, not %d", x)
		} else {
			*f = uint8(x)
		}
	}

	return nil
}

// MarshalJSON writes a JSON representation of this Hop Count Block.
func (hcd HopCountData) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Limit uint8 `json:"limit"`
		Count uint8 `json:"count"`
	}{hcd.Limit, hcd.Count})
}
