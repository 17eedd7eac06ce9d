// SPDX-FileCopyrightText: 2019, 2020, 2022 Alvar Penning
//
// SPDX-License-Identifier: GPL-3.0-or-later

package bpv7

import "encoding/json"

// PayloadData is the application data of the Bundle Protocol's Payload Block.
type PayloadData []byte

// BlockTypeName must return a constant string, this block's name.
func (PayloadData) BlockTypeName() string {
	return "Payload Block"
}

func (PayloadData) isCanonicalData() {}

// MarshalJSON writes the payload as a base64 encoded JSON string.
func (pd PayloadData) MarshalJSON() ([]byte, error) {
	return json.Marshal([]byte(pd))
}
