// SPDX-FileCopyrightText: 2019, 2020, 2022 Alvar Penning
//
// SPDX-License-Identifier: GPL-3.0-or-later

package bpv7

import (
	"encoding/json"
	"io"

	"github.com/dtn7/cboring"
)

// PreviousNodeData is the data of the Bundle Protocol's Previous Node Block.
type PreviousNodeData struct {
	Endpoint EndpointID
}

// BlockTypeName must return a constant string, this block's name.
func (PreviousNodeData) BlockTypeName() string {
	return "Previous Node Block"
}

func (PreviousNodeData) isCanonicalData() {}

// MarshalCbor writes the CBOR representation of a Previous Node Block.
func (pnd *PreviousNodeData) MarshalCbor(w io.Writer) error {
	return cboring.Marshal(&pnd.Endpoint, w)
}

// UnmarshalCbor reads a CBOR representation of a Previous Node Block.
func (pnd *PreviousNodeData) UnmarshalCbor(r io.Reader) error {
	return cboring.Unmarshal(&pnd.Endpoint, r)
}

// MarshalJSON writes the JSON representation of a Previous Node Block.
func (pnd PreviousNodeData) MarshalJSON() ([]byte, error) {
	return json.Marshal(pnd.Endpoint)
}
